package client

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the storefront API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Detail  string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, msg)
}

// errorBody mirrors the server's error response.
type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

// IsCode reports whether err is an APIError carrying code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// IsStatus reports whether err is an APIError with the HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
