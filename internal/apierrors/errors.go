// Package apierrors defines the error kinds of spec.md §7 and their
// mapping onto HTTP status codes at the transport boundary.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is one of the closed set of error kinds spec.md §7 enumerates.
type Kind string

const (
	Unauthenticated     Kind = "UNAUTHENTICATED"
	Unauthorized        Kind = "UNAUTHORIZED"
	NotFound            Kind = "NOT_FOUND"
	StateConflict       Kind = "STATE_CONFLICT"
	PhaseConflict       Kind = "PHASE_CONFLICT"
	TurnConflict        Kind = "TURN_CONFLICT"
	RangeViolation      Kind = "RANGE_VIOLATION"
	OwnershipViolation  Kind = "OWNERSHIP_VIOLATION"
	FollowSuitViolation Kind = "FOLLOW_SUIT_VIOLATION"
	DuplicateAction     Kind = "DUPLICATE_ACTION"
	CapacityConflict    Kind = "CAPACITY_CONFLICT"
	TransientStorage    Kind = "TRANSIENT_STORAGE"
	Internal            Kind = "INTERNAL"
)

// httpStatus maps each Kind onto the HTTP code spec.md §6 assigns it.
var httpStatus = map[Kind]int{
	Unauthenticated:     http.StatusUnauthorized,
	Unauthorized:        http.StatusForbidden,
	NotFound:            http.StatusNotFound,
	StateConflict:       http.StatusConflict,
	PhaseConflict:       http.StatusConflict,
	TurnConflict:        http.StatusConflict,
	RangeViolation:      http.StatusBadRequest,
	OwnershipViolation:  http.StatusBadRequest,
	FollowSuitViolation: http.StatusBadRequest,
	DuplicateAction:     http.StatusConflict,
	CapacityConflict:    http.StatusConflict,
	TransientStorage:    http.StatusInternalServerError,
	Internal:            http.StatusInternalServerError,
}

// Error is the engine's typed error, carrying a Kind the transport layer
// maps to an HTTP status plus an optional wrapped cause (logged, not
// leaked to the client per spec.md §7).
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind around a lower-level cause.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// HTTPStatus returns the status code for err, defaulting to 500 for any
// error that isn't an *Error (an invariant violation we didn't anticipate).
func HTTPStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		if code, ok := httpStatus[e.Kind]; ok {
			return code
		}
	}
	return http.StatusInternalServerError
}

// KindOf extracts the Kind of err, or Internal if err isn't an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}
