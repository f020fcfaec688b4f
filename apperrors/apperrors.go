package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports malformed or missing user input. User-correctable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidation builds a ValidationError for a named field
func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports an unknown booking/porter/notification ID
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFound builds a NotFoundError
func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// InvalidTransitionError reports an illegal booking status change
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// NewInvalidTransition builds an InvalidTransitionError
func NewInvalidTransition(from, to string) error {
	return &InvalidTransitionError{From: from, To: to}
}

// AuthError reports a missing, invalid or expired token, or an actor
// attempting an operation it is not allowed to perform.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return e.Reason
}

// NewAuth builds an AuthError
func NewAuth(reason string) error {
	return &AuthError{Reason: reason}
}

// ConflictError reports a unique constraint violation (duplicate phone,
// badge number, or an already-reviewed booking).
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// NewConflict builds a ConflictError
func NewConflict(reason string) error {
	return &ConflictError{Reason: reason}
}

// UpstreamError reports a third-party lookup failure. Callers recover it
// locally (PNR lookups fall back to the local table); it is never surfaced
// to end users as fatal.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstream wraps an upstream failure
func NewUpstream(service string, err error) error {
	return &UpstreamError{Service: service, Err: err}
}

// HTTPStatus maps an application error to its HTTP status code
func HTTPStatus(err error) int {
	var (
		ve *ValidationError
		nf *NotFoundError
		it *InvalidTransitionError
		ae *AuthError
		ce *ConflictError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &it):
		return http.StatusConflict
	case errors.As(err, &ae):
		return http.StatusUnauthorized
	case errors.As(err, &ce):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInvalidTransition reports whether err is an InvalidTransitionError
func IsInvalidTransition(err error) bool {
	var it *InvalidTransitionError
	return errors.As(err, &it)
}

// IsConflict reports whether err is a ConflictError
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
