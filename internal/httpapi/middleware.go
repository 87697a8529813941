package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/authtoken"
	"github.com/robpatriot/nommie/internal/model"
)

type contextKey int

const userContextKey contextKey = iota

// withAuth verifies the Authorization: Bearer <token> header on every
// request and stores the resolved User in the request context, per
// spec.md §6: "Bearer-token authentication on all /api/* endpoints."
func withAuth(verifier *authtoken.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				writeError(w, apierrors.New(apierrors.Unauthenticated, "missing bearer token"))
				return
			}
			token := strings.TrimPrefix(header, prefix)

			user, err := verifier.Authenticate(r.Context(), token)
			if err != nil {
				writeError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func callerFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userContextKey).(*model.User)
	return u, ok
}

// withCORS sets the Access-Control-Allow-Origin header when origin is
// non-empty, per spec.md §6's CORS_ALLOWED_ORIGIN environment variable.
func withCORS(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
