package adapter

import (
	"fmt"
	"net/http"
	"strings"
)

// RequestFailedPrefix starts every result string produced for a transport failure.
const RequestFailedPrefix = "Request failed: "

// MalformedParameterError reports a parameter declaration that cannot be adapted.
type MalformedParameterError struct {
	Index  int    // position in the declaration list
	Name   string // declared name, possibly empty
	Reason string
}

func (e *MalformedParameterError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("parameter %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("parameter %q: %s", e.Name, e.Reason)
}

// OperationAdaptationError reports an operation for which no tool could be built.
type OperationAdaptationError struct {
	Provider    string
	OperationID string
	Method      string
	Path        string
	Err         error
}

func (e *OperationAdaptationError) Error() string {
	return fmt.Sprintf("%s %s %s (%s): %v", e.Provider, e.Method, e.Path, e.OperationID, e.Err)
}

func (e *OperationAdaptationError) Unwrap() error { return e.Err }

// MissingRequiredParameterError is returned when a required argument is absent.
type MissingRequiredParameterError struct {
	Name string
}

func (e *MissingRequiredParameterError) Error() string {
	return fmt.Sprintf("required parameter '%s' is missing", e.Name)
}

// UnexpectedArgumentError is returned when arguments name no declared parameter.
type UnexpectedArgumentError struct {
	Names []string
}

func (e *UnexpectedArgumentError) Error() string {
	return fmt.Sprintf("unexpected argument(s): %s", strings.Join(e.Names, ", "))
}

// TransportError describes a failed HTTP exchange. It is reported to callers as
// a result string, never returned as an invocation error.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s for url: %s", status, e.URL)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is returned when a successful response body is not JSON.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("response from %s is not valid JSON: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
