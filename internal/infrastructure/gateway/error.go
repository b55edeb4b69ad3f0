package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/medicare/portal/internal/core/domain"
)

// Error is a non-2xx answer from a backend service. It unwraps to the
// matching domain taxonomy error.
type Error struct {
	Service domain.Backend
	Status  int
	Message string
	Fields  map[string][]string
	kind    error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Service, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Service, e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.kind }

// UserMessage is the service's own explanation, if it sent one.
func (e *Error) UserMessage() string { return e.Message }

// FieldErrors returns the per-field messages of a validation answer.
func (e *Error) FieldErrors() map[string][]string { return e.Fields }

// kindFor maps an HTTP status onto the taxonomy.
func kindFor(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case status == http.StatusConflict:
		return domain.ErrConflict
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return domain.ErrValidation
	case status == http.StatusBadGateway, status == http.StatusServiceUnavailable, status == http.StatusGatewayTimeout:
		return domain.ErrServiceUnavailable
	default:
		return domain.ErrUpstream
	}
}

// newError builds an Error from a response body. Services answer either
// {"error": "...", "details": ...} or a field → messages map.
func newError(service domain.Backend, status int, body []byte) *Error {
	e := &Error{Service: service, Status: status, kind: kindFor(status)}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		e.Message = strings.TrimSpace(string(body))
		if len(e.Message) > 200 {
			e.Message = e.Message[:200]
		}
		return e
	}

	for _, key := range []string{"error", "detail", "message"} {
		if v, ok := raw[key]; ok {
			var s string
			if json.Unmarshal(v, &s) == nil {
				e.Message = s
				delete(raw, key)
				break
			}
		}
	}
	if details, ok := raw["details"]; ok {
		var nested map[string]json.RawMessage
		if json.Unmarshal(details, &nested) == nil {
			raw = nested
		} else {
			delete(raw, "details")
		}
	}

	for field, v := range raw {
		if msgs := fieldMessages(v); len(msgs) > 0 {
			if e.Fields == nil {
				e.Fields = make(map[string][]string)
			}
			e.Fields[field] = msgs
		}
	}
	return e
}

func fieldMessages(v json.RawMessage) []string {
	var list []string
	if json.Unmarshal(v, &list) == nil {
		return list
	}
	var s string
	if json.Unmarshal(v, &s) == nil && s != "" {
		return []string{s}
	}
	return nil
}
