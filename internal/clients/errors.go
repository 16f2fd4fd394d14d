package clients

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/failure"
)

const (
	// TransportMessage is shown whenever a request never completed.
	TransportMessage = "could not reach the server, try again"
	// FallbackMessage is shown for a failed response that carried no message.
	FallbackMessage = "the request could not be completed"
)

// TransportError means the request never produced a response.
type TransportError struct {
	Resource string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Resource, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is an explicit non-success response. Message is the backend's own text
// when it sent one.
type StatusError struct {
	Resource string
	Status   int
	Message  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Resource, e.Status, e.Message)
}

func statusErrorFromResponse(resource string, resp *http.Response) *StatusError {
	message := FallbackMessage
	if resp.Body != nil {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(raw, &payload); err == nil {
			if text := strings.TrimSpace(payload.Message); text != "" {
				message = text
			} else if text := strings.TrimSpace(payload.Error); text != "" {
				message = text
			}
		}
	}
	return &StatusError{Resource: resource, Status: resp.StatusCode, Message: message}
}

// IsNotFound reports whether err carries a backend 404.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound
}

func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// UserMessage is the single operator-facing text for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if pre, ok := failure.AsPrecondition(err); ok {
		return pre.Message
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Message
	}
	if IsTransport(err) {
		return TransportMessage
	}
	return FallbackMessage
}
