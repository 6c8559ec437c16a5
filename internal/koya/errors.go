package koya

import (
	"errors"
	"fmt"
	"net/http"
)

// RequestError is the uniform failure of every remote operation: a non-2xx
// response (StatusCode set) or a transport failure (Err set).
type RequestError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		if e.Message == "" {
			return fmt.Sprintf("%s: request failed with status %d", e.Op, e.StatusCode)
		}
		return fmt.Sprintf("%s: request failed with status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsNotFoundError returns true if the error indicates a 404 Not Found response.
func IsNotFoundError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusNotFound
}

// Message returns the display text of err: the server's message for a
// RequestError and err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		if reqErr.StatusCode != 0 && reqErr.Message != "" {
			return reqErr.Message
		}
		return reqErr.Error()
	}
	return err.Error()
}
