package customerrors

import (
	"errors"
	"net/http"
)

// CustomError carries the HTTP status a handler error should be rendered with.
type CustomError struct {
	StatusCode int
	Message    string
}

func New(statusCode int, message string) CustomError {
	return CustomError{StatusCode: statusCode, Message: message}
}

func (err CustomError) Error() string {
	return err.Message
}

var (
	ErrMalformedRequest = New(http.StatusBadRequest, "malformed request body")
	ErrIncompleteLogin  = New(http.StatusBadRequest, "Please fill in all fields.")
	ErrIncompleteForm   = New(http.StatusBadRequest, "Please fill in all fields")
	ErrEmptySymbol      = New(http.StatusBadRequest, "Please enter a stock symbol")
	ErrInvalidSymbol    = New(http.StatusNotFound, "Invalid stock symbol")
	ErrInvalidFilter    = New(http.StatusBadRequest, "Unknown suggestion filter")

	ErrSessionNotFound = errors.New("session not found")
)
