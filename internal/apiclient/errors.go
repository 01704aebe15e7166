package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// TransportError is the only error kind returned by the client.
//
// Message holds the normalized, human readable message (already logged by the client).
// StatusCode 0 = network/connection error or timeout, >0 = HTTP response received.
// The underlying failure is available through errors.Unwrap / errors.As.
type TransportError struct {
	Message    string          `json:"message"`
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body,omitempty"`
	Err        error           `json:"-"`
}

func (e *TransportError) Error() string {
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is the underlying failure for a response with a non-2xx status code.
type StatusError struct {
	StatusCode int
	Status     string
	Body       json.RawMessage
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// Message returns the normalized message of the first TransportError in err's chain.
func Message(err error) (string, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Message, true
	}
	return "", false
}

// NormalizeMessage derives the human readable message for a failure, in priority order:
//  1. the "message" string field of the failure's response body (when it carries one)
//  2. the failure's own description, even when empty
//  3. fallback
//
// Timeouts have no description of their own and resolve to the fallback. An empty description is kept
// as-is, the same way an empty body message is.
func NormalizeMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var te *TransportError
	if errors.As(err, &te) && te.Err != nil {
		err = te.Err
	}

	var se *StatusError
	if errors.As(err, &se) {
		if msg, ok := bodyMessage(se.Body); ok {
			return msg
		}
	}

	if isTimeout(err) {
		return fallback
	}

	return err.Error()
}

// bodyMessage extracts a string "message" field from a JSON object body.
func bodyMessage(body json.RawMessage) (string, bool) {
	if len(body) == 0 {
		return "", false
	}

	var envelope struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Message == nil {
		return "", false
	}

	return *envelope.Message, true
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// statusCode reports the HTTP status carried by a failure, 0 when there was no response.
func statusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

func isSuccess(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}
