package client

import (
	"encoding/json"
	"net/http"
)

// APIError is the one failure shape every Client method resolves to.
// Status is 0 for transport-level failures that never got a response.
// Message carries the server's structured error message when the body
// had one, else a generic transport/status text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// normalizeTransport wraps a transport failure (no server response).
func normalizeTransport(err error) *APIError {
	return &APIError{Message: err.Error()}
}

// normalizeResponse extracts the server's structured message from a
// non-2xx body, falling back to the standard status text.
func normalizeResponse(status int, body []byte) *APIError {
	msg := messageFromBody(body)
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg}
}

func messageFromBody(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
