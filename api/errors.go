package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/jrsteele09/go-news-portal/internal/errors"
	"github.com/jrsteele09/go-news-portal/internal/utils"
)

// FieldNonField is the key the backend uses for errors not tied to a field.
const FieldNonField = "non_field_errors"

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Fields     map[string][]string // Per-field messages, including non_field_errors
	Detail     string              // "detail" or "error" from the body
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Fields: map[string][]string{}}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		e.Detail = strings.TrimSpace(string(body))
		if len(e.Detail) > 200 || strings.HasPrefix(e.Detail, "<") {
			e.Detail = ""
		}
		return e
	}
	for key, value := range decoded {
		switch key {
		case "detail", "error":
			if e.Detail == "" || key == "detail" {
				e.Detail = strings.Join(utils.ToStringSlice(value), " ")
			}
		case "code", "message":
		default:
			if messages := utils.ToStringSlice(value); len(messages) > 0 {
				e.Fields[key] = messages
			}
		}
	}
	return e
}

func (e *APIError) Error() string {
	msg := e.Message("")
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, msg)
}

// Unwrap maps the status onto the portal's sentinel errors.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return errors.ErrUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return errors.ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return errors.ErrNotFound
	case e.StatusCode == http.StatusBadRequest:
		return errors.ErrValidation
	case e.StatusCode >= 500:
		return errors.ErrInternal
	default:
		return nil
	}
}

func (e *APIError) IsUnauthorized() bool { return e.StatusCode == http.StatusUnauthorized }
func (e *APIError) IsForbidden() bool    { return e.StatusCode == http.StatusForbidden }
func (e *APIError) IsNotFound() bool     { return e.StatusCode == http.StatusNotFound }

// FieldError returns the first message reported for field.
func (e *APIError) FieldError(field string) string {
	if messages := e.Fields[field]; len(messages) > 0 {
		return messages[0]
	}
	return ""
}

// FieldNames lists the fields with errors, sorted, excluding non_field_errors.
func (e *APIError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		if name != FieldNonField {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Message picks the most useful single line: the first non-field error, then
// the detail, then fallback.
func (e *APIError) Message(fallback string) string {
	if msg := e.FieldError(FieldNonField); msg != "" {
		return msg
	}
	if e.Detail != "" {
		return e.Detail
	}
	return fallback
}

// AsAPIError extracts an *APIError from err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsUnauthorized()
}

// IsForbidden reports whether err is a 403 from the backend.
func IsForbidden(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsForbidden()
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsNotFound()
}
