package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies an upstream failure.
type ErrorKind string

const (
	KindSessionExpired ErrorKind = "session_expired"
	KindForbidden      ErrorKind = "forbidden"
	KindNotFound       ErrorKind = "not_found"
	KindServer         ErrorKind = "server_error"
	KindNetwork        ErrorKind = "network_error"
	KindValidation     ErrorKind = "validation_error"
)

// User-facing messages for each kind.
const (
	MsgSessionExpired = "Your session has expired. Please log in again."
	MsgForbidden      = "Access denied. You do not have permission to perform this action."
	MsgNotFound       = "The requested resource was not found."
	MsgServer         = "Server error. Please try again later."
	MsgNetwork        = "Network error. Please check your connection and try again."
)

// APIError is returned for every failed upstream call. Compare with errors.Is
// against the Err* sentinels, or errors.As to read Status and Endpoint.
type APIError struct {
	Kind     ErrorKind
	Status   int
	Message  string
	Endpoint string
	Err      error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches any APIError of the same kind.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is.
var (
	ErrSessionExpired = &APIError{Kind: KindSessionExpired, Status: http.StatusUnauthorized, Message: MsgSessionExpired}
	ErrForbidden      = &APIError{Kind: KindForbidden, Status: http.StatusForbidden, Message: MsgForbidden}
	ErrNotFound       = &APIError{Kind: KindNotFound, Status: http.StatusNotFound, Message: MsgNotFound}
	ErrServer         = &APIError{Kind: KindServer, Status: http.StatusInternalServerError, Message: MsgServer}
	ErrNetwork        = &APIError{Kind: KindNetwork, Message: MsgNetwork}
	ErrValidation     = &APIError{Kind: KindValidation, Status: http.StatusBadRequest}
)

// errorForStatus maps a non-2xx response onto an APIError.
func errorForStatus(status int, contentType string, body []byte, endpoint string) *APIError {
	e := &APIError{Status: status, Endpoint: endpoint}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind, e.Message = KindSessionExpired, MsgSessionExpired
	case status == http.StatusForbidden:
		e.Kind, e.Message = KindForbidden, MsgForbidden
	case status == http.StatusNotFound:
		e.Kind, e.Message = KindNotFound, MsgNotFound
	case status >= 500:
		e.Kind, e.Message = KindServer, MsgServer
	default:
		e.Kind = KindValidation
		e.Message = bodyMessage(contentType, body)
		if e.Message == "" {
			e.Message = fmt.Sprintf("HTTP error! status: %d", status)
		}
	}
	return e
}

// bodyMessage extracts the "message" field of a JSON error body, or the raw
// text of any other body.
func bodyMessage(contentType string, body []byte) string {
	if isJSON(contentType) {
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return ""
		}
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}

func networkError(endpoint string, err error) *APIError {
	return &APIError{Kind: KindNetwork, Message: MsgNetwork, Endpoint: endpoint, Err: err}
}

func isJSON(contentType string) bool {
	return strings.Contains(contentType, "application/json")
}
