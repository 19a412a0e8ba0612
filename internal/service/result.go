package service

import (
	"context"
	"errors"
	"fmt"

	"moviesapi/internal/query"
)

var (
	// ErrStoreUnavailable means the data store did not answer.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrInternal is any failure the pipelines cannot classify.
	ErrInternal = errors.New("internal error")
)

// Status is the outcome class a transport maps onto its own codes.
type Status int

const (
	StatusOK Status = iota
	StatusCreated
	StatusClientError
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusCreated:
		return "created"
	case StatusClientError:
		return "client_error"
	case StatusNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ErrorKind classifies a failed Result.
type ErrorKind string

const (
	KindValidationFailed    ErrorKind = "ValidationFailed"
	KindInvalidParameter    ErrorKind = "InvalidParameter"
	KindInvalidIdentifier   ErrorKind = "InvalidIdentifier"
	KindMissingParameter    ErrorKind = "MissingParameter"
	KindEmptyPayload        ErrorKind = "EmptyPayload"
	KindNotFound            ErrorKind = "NotFound"
	KindConstraintViolation ErrorKind = "ConstraintViolation"
)

// Messages shared with the transport.
const (
	MsgCreated           = "Movie created successfully"
	MsgUpdated           = "Movie updated successfully"
	MsgDeleted           = "Movie deleted successfully"
	MsgValidationFailed  = "Validation failed"
	MsgInvalidParameters = "Invalid query parameters"
	MsgInvalidID         = "Invalid movie ID format"
	MsgNotFound          = "Movie not found"
	MsgSearchRequired    = "Search term is required"
	MsgGenreRequired     = "Genre is required"
	MsgEmptyPayload      = "Update payload cannot be empty"
	MsgConstraint        = "Validation Error"
)

// Envelope is the uniform response body.
type Envelope struct {
	Success    bool              `json:"success"`
	Data       any               `json:"data,omitempty"`
	Pagination *query.Pagination `json:"pagination,omitempty"`
	Message    string            `json:"message,omitempty"`
	Errors     []string          `json:"errors,omitempty"`
}

// Result is what every pipeline returns for a handled request. Kind is empty
// on success.
type Result struct {
	Status   Status
	Kind     ErrorKind
	Envelope Envelope
}

// OK reports whether the request succeeded.
func (r Result) OK() bool { return r.Kind == "" }

func ok(data any) Result {
	return Result{Status: StatusOK, Envelope: Envelope{Success: true, Data: data}}
}

func okPage(data any, p query.Pagination) Result {
	return Result{Status: StatusOK, Envelope: Envelope{Success: true, Data: data, Pagination: &p}}
}

func okMsg(status Status, data any, msg string) Result {
	return Result{Status: status, Envelope: Envelope{Success: true, Data: data, Message: msg}}
}

func fail(kind ErrorKind, msg string, errs ...string) Result {
	status := StatusClientError
	if kind == KindNotFound {
		status = StatusNotFound
	}
	return Result{Status: status, Kind: kind, Envelope: Envelope{Message: msg, Errors: errs}}
}

// storeError wraps a repository failure that is not a domain outcome.
func storeError(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
