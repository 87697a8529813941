// Package httpapi implements the HTTP/JSON transport of spec.md §6:
// gorilla/mux routing, bearer-token auth middleware, and one handler per
// endpoint, translating HTTP requests into internal/orchestrator calls and
// apierrors.Error values into the §6/§7 error response shape via
// apierrors.HTTPStatus/KindOf.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/logging"
)

var log = logging.Logger("HTTP")

// errorResponse is the error response shape of spec.md §6.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("encode response: %v", err)
	}
}

// writeError maps err to its HTTP status and the §6 error body. The
// underlying cause of a TransientStorage/Internal error is logged but
// never included in the response, per spec.md §7's propagation policy.
func writeError(w http.ResponseWriter, err error) {
	kind := apierrors.KindOf(err)
	status := apierrors.HTTPStatus(err)
	if status >= 500 {
		log.Errorf("internal error (%s): %v", kind, err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: string(kind), Details: err.Error()})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return apierrors.New(apierrors.RangeViolation, "request body required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierrors.Wrap(apierrors.RangeViolation, err, "malformed request body")
	}
	return nil
}
