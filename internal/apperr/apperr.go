package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so callers can decide how to surface it.
type Kind string

const (
	KindUnknown           Kind = "unknown"
	KindConfiguration     Kind = "configuration"
	KindUpstream          Kind = "upstream"
	KindParse             Kind = "parse"
	KindAuth              Kind = "auth"
	KindStorageCorruption Kind = "storage_corruption"
	KindNotFound          Kind = "not_found"
	KindInvalid           Kind = "invalid"
)

// Error carries a Kind alongside the operation that failed and its cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	case e.Op != "":
		return e.Op
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf builds an Error whose cause is a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

func Configuration(op string, err error) *Error { return New(KindConfiguration, op, err) }
func Upstream(op string, err error) *Error      { return New(KindUpstream, op, err) }
func Parse(op string, err error) *Error         { return New(KindParse, op, err) }
func Auth(op string, err error) *Error          { return New(KindAuth, op, err) }

// KindOf returns the Kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps a Kind onto the status code used at the HTTP boundary.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
