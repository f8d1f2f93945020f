package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError is a response outside the 2xx range.
type StatusError struct {
	Response *Response
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Response.StatusCode, http.StatusText(e.Response.StatusCode))
}

func (e *StatusError) Is(target error) bool {
	if target != ErrUnauthorized {
		return false
	}
	code := e.Response.StatusCode
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
