package client

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse indicates the server returned an empty, unparsable body.
var ErrEmptyResponse = errors.New("empty response")

// ResponseError represents a non-2xx response from the API server.
type ResponseError struct {
	StatusCode   int
	ErrorMessage string
}

// Error implements the error interface for ResponseError.
func (e *ResponseError) Error() string {
	return fmt.Sprintf("response error: %d: %s", e.StatusCode, e.ErrorMessage)
}
