package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies one member of the closed error taxonomy.
type Kind string

const (
	KindDatabase     Kind = "DATABASE_ERROR"
	KindUpstream     Kind = "UPSTREAM_ERROR"
	KindNotFound     Kind = "NOT_FOUND"
	KindInvalidInput Kind = "INVALID_INPUT"
	KindTemplate     Kind = "TEMPLATE_ERROR"
)

const (
	msgDatabase = "Database error"
	msgUpstream = "Internal server error"
	msgTemplate = "Template rendering error"

	// MsgInvalidJSON is returned for every request body that fails to decode.
	MsgInvalidJSON = "Please provide valid Json input"
)

// Error represents a typed application error with HTTP awareness.
// Message is safe to return to clients; Detail is for server logs only.
type Error struct {
	Kind    Kind
	Message string
	Detail  string
	Status  int
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Detail != "" && e.Detail != e.Message {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors of the same kind so callers can write errors.Is(err, ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels used for kind comparison with errors.Is.
var (
	ErrDatabase     = &Error{Kind: KindDatabase, Status: http.StatusInternalServerError, Message: msgDatabase}
	ErrUpstream     = &Error{Kind: KindUpstream, Status: http.StatusInternalServerError, Message: msgUpstream}
	ErrNotFound     = &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: "resource not found"}
	ErrInvalidInput = &Error{Kind: KindInvalidInput, Status: http.StatusBadRequest, Message: "invalid input"}
	ErrTemplate     = &Error{Kind: KindTemplate, Status: http.StatusInternalServerError, Message: msgTemplate}
)

// Database builds a DatabaseError. The detail never reaches the client.
func Database(detail string, err error) *Error {
	return &Error{Kind: KindDatabase, Status: http.StatusInternalServerError, Message: msgDatabase, Detail: detail, Err: err}
}

// Upstream builds an UpstreamFrameworkError for transport or framework failures.
func Upstream(detail string, err error) *Error {
	return &Error{Kind: KindUpstream, Status: http.StatusInternalServerError, Message: msgUpstream, Detail: detail, Err: err}
}

// NotFound builds a client-visible 404.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message, Detail: message}
}

// InvalidInput builds a client-visible 400.
func InvalidInput(message string, err error) *Error {
	return &Error{Kind: KindInvalidInput, Status: http.StatusBadRequest, Message: message, Detail: message, Err: err}
}

// Template builds a TemplateError raised while rendering HTML pages.
func Template(detail string, err error) *Error {
	return &Error{Kind: KindTemplate, Status: http.StatusInternalServerError, Message: msgTemplate, Detail: detail, Err: err}
}

// FromDB converts a database-layer failure into a DatabaseError.
func FromDB(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Database(err.Error(), err)
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Upstream(err.Error(), err)
}
