package errors

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrBadRequest      = errors.New("bad request")
	ErrInternalServer  = errors.New("internal server error")
	ErrValidation      = errors.New("invalid event payload")
	ErrPersistence     = errors.New("message persistence failed")
	ErrBindingNotFound = errors.New("no connection binding for user")
	ErrSelfChannel     = errors.New("cannot open a channel with yourself")
)

type APIError struct {
	Message string `json:"error"`
	Code    int    `json:"code"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(message string, code int) *APIError {
	return &APIError{
		Message: message,
		Code:    code,
	}
}

func HTTPStatusFromError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrBindingNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrValidation), errors.Is(err, ErrSelfChannel):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
