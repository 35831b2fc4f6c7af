package err

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorsBucket collects independent failures from a batch operation so they
// can be reported together.
type ErrorsBucket struct {
	Msg    string
	Errors []error
}

func (e *ErrorsBucket) Error() string {
	s := e.Msg
	for _, err := range e.Errors {
		s += "\n\t" + err.Error()
	}
	return s
}

// Add records err when it is non-nil
func (e *ErrorsBucket) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// OrNil returns the bucket as an error only when something was collected
func (e *ErrorsBucket) OrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// NetworkFailure means the request never produced an HTTP response:
// DNS, refused connections, timeouts, cancelled contexts.
type NetworkFailure struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkFailure) Unwrap() error {
	return e.Err
}

// ServerRejection is a non-2xx response. Msg carries the backend's own
// explanation when the body had one.
type ServerRejection struct {
	Status int
	Msg    string
	Body   []byte
}

func (e *ServerRejection) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	text := http.StatusText(e.Status)
	if text == "" {
		text = "unexpected status"
	}
	return fmt.Sprintf("server responded %d %s", e.Status, text)
}

// Unauthorized reports whether the backend refused the token
func (e *ServerRejection) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// NotFound reports whether the addressed item does not exist
func (e *ServerRejection) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// FieldError is a single rule a form field broke
type FieldError struct {
	Field string
	Msg   string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Msg
}

// ValidationFailure is raised before any request is sent. Nothing reaches
// the backend while one is outstanding.
type ValidationFailure struct {
	Resource string
	Fields   []FieldError
}

func (e *ValidationFailure) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	subject := "input"
	if e.Resource != "" {
		subject = e.Resource
	}
	return fmt.Sprintf("invalid %s: %s", subject, strings.Join(parts, "; "))
}

// Require appends a field error when value is blank
func (e *ValidationFailure) Require(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.Fields = append(e.Fields, FieldError{Field: field, Msg: "is required"})
	}
}

// Reject appends a field error unconditionally
func (e *ValidationFailure) Reject(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Msg: msg})
}

// OrNil returns the failure only when at least one field was rejected
func (e *ValidationFailure) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Message extracts the text a user should see for err. Server rejections
// surface the backend's message verbatim.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var rejection *ServerRejection
	if errors.As(err, &rejection) {
		return rejection.Error()
	}
	var network *NetworkFailure
	if errors.As(err, &network) {
		return "unable to reach the server: " + network.Err.Error()
	}
	return err.Error()
}
