package error

import "net/http"

// ValidationError carries a field->message map for bad request shapes.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (err ValidationError) Error() string {
	return err.Message
}

func (err ValidationError) ErrCode() string {
	return "VALIDATION_ERROR"
}

func (err ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// PlanDeniedError means the owning Tenant is not plan-valid, lacks a
// required module flag, or has exceeded a plan-derived limit.
type PlanDeniedError string

func (err PlanDeniedError) Error() string {
	return string(err)
}

func (err PlanDeniedError) ErrCode() string {
	return "PLAN_DENIED"
}

func (err PlanDeniedError) StatusCode() int {
	return http.StatusForbidden
}

// ConflictError is swallowed at the call site more often than surfaced
// (e.g. duplicate wamid), but still needs a taxonomy entry for the rare
// caller that does propagate it.
type ConflictError string

func (err ConflictError) Error() string {
	return string(err)
}

func (err ConflictError) ErrCode() string {
	return "CONFLICT"
}

func (err ConflictError) StatusCode() int {
	return http.StatusConflict
}

// QuotaError signals an AI conversation/token cap hit. The Chatbot Engine
// never surfaces this to a caller; it stops silently. It exists in the
// taxonomy for the rare northbound endpoint that inspects quota state.
type QuotaError string

func (err QuotaError) Error() string {
	return string(err)
}

func (err QuotaError) ErrCode() string {
	return "QUOTA_EXCEEDED"
}

func (err QuotaError) StatusCode() int {
	return http.StatusForbidden
}

// InternalServerError wraps an unhandled failure. Error() returns a
// generic message; the wrapped cause is for logging only and is never
// rendered to the caller.
type InternalServerError struct {
	Cause error
}

func (err InternalServerError) Error() string {
	return "internal server error"
}

func (err InternalServerError) Unwrap() error {
	return err.Cause
}

func (err InternalServerError) ErrCode() string {
	return "INTERNAL_ERROR"
}

func (err InternalServerError) StatusCode() int {
	return http.StatusInternalServerError
}

// NodeConnectionError mirrors fillow/services.py's NodeConnectionError:
// raised when the Bridge is unreachable or keeps denying auth after a
// self-heal retry.
type NodeConnectionError string

func (err NodeConnectionError) Error() string {
	return string(err)
}

func (err NodeConnectionError) ErrCode() string {
	return "NODE_CONNECTION_ERROR"
}

func (err NodeConnectionError) StatusCode() int {
	return http.StatusServiceUnavailable
}

// Coded is implemented by every error in this taxonomy so a single
// handler can map any of them to an HTTP response.
type Coded interface {
	error
	ErrCode() string
	StatusCode() int
}
