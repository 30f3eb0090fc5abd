package common

import (
	"errors"
	"net/http"
)

// ApiError is a value-level error carrying the HTTP-style status code that
// the boundary renders. Nothing sensitive goes into Message.
type ApiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ApiError {
	return &ApiError{Code: http.StatusBadRequest, Message: message}
}

func NewUnauthorizedError(message string) *ApiError {
	return &ApiError{Code: http.StatusUnauthorized, Message: message}
}

func NewNotFoundError(message string) *ApiError {
	return &ApiError{Code: http.StatusNotFound, Message: message}
}

func NewConflictError(message string) *ApiError {
	return &ApiError{Code: http.StatusConflict, Message: message}
}

func NewGoneError(message string) *ApiError {
	return &ApiError{Code: http.StatusGone, Message: message}
}

func NewTooManyRequestsError(message string) *ApiError {
	return &ApiError{Code: http.StatusTooManyRequests, Message: message}
}

func NewInternalError(message string) *ApiError {
	return &ApiError{Code: http.StatusInternalServerError, Message: message}
}

// AsApiError maps any error to an ApiError, hiding unexpected dependency
// faults behind a generic 500.
func AsApiError(err error) *ApiError {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewInternalError("something went wrong")
}
