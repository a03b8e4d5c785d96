package generate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errMissingImage = errors.New("server response did not include an image")

// ServerError is a non-2xx reply. Message is the body's "error" field when it
// had one, otherwise a sentence carrying the status code.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

func newServerError(status int, body []byte) *ServerError {
	var decoded response
	if err := json.Unmarshal(body, &decoded); err == nil && strings.TrimSpace(decoded.Error) != "" {
		return &ServerError{StatusCode: status, Message: decoded.Error}
	}
	return &ServerError{
		StatusCode: status,
		Message:    fmt.Sprintf("Server responded with status: %d", status),
	}
}

// TransportError means no usable reply arrived at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is a 2xx reply whose body is not {"image": "..."}.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
