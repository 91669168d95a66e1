package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error is the structured failure shape for every registry interaction.
// Rejections by the registry keep their original status code and any
// messages the registry attached. Transport failures are normalized to
// status 503 so callers never see a raw connection error.
type Error struct {
	Status   int      `json:"status"`
	Title    string   `json:"title"`
	Detail   string   `json:"detail"`
	Messages []string `json:"messages,omitempty"`

	transport bool
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("upstream: %d %s: %s", e.Status, e.Title, e.Detail)
	}
	return fmt.Sprintf("upstream: %d %s", e.Status, e.Title)
}

// IsNotFound reports whether err is a registry rejection with status 404.
func IsNotFound(err error) bool {
	var ue *Error
	return errors.As(err, &ue) && ue.Status == http.StatusNotFound
}

// IsTransport reports whether err describes a transport failure rather
// than a rejection by the registry itself.
func IsTransport(err error) bool {
	var ue *Error
	return errors.As(err, &ue) && ue.transport
}

func newTransportError(err error) *Error {
	return &Error{
		Status:    http.StatusServiceUnavailable,
		Title:     "Network Error",
		Detail:    "Could not reach upstream API",
		Messages:  []string{err.Error()},
		transport: true,
	}
}

func titleForStatus(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "Bad Request"
	case status == http.StatusUnauthorized:
		return "Unauthorized"
	case status == http.StatusForbidden:
		return "Forbidden"
	case status == http.StatusNotFound:
		return "Not Found"
	case status >= 500:
		return "Server Error"
	default:
		return "Unknown Error"
	}
}

// errorFromResponse builds an *Error from a non-2xx registry response,
// pulling detail and messages out of the body when it carries JSON.
func errorFromResponse(resp *http.Response) *Error {
	e := &Error{
		Status: resp.StatusCode,
		Title:  titleForStatus(resp.StatusCode),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(body) == 0 {
		e.Detail = resp.Status
		return e
	}

	var payload struct {
		Error         string `json:"error"`
		Detail        string `json:"detail"`
		ErrorMessages []struct {
			Message string `json:"message"`
		} `json:"error_messages"`
	}
	if json.Unmarshal(body, &payload) != nil {
		e.Detail = strings.TrimSpace(string(body))
		return e
	}

	switch {
	case payload.Detail != "":
		e.Detail = payload.Detail
	case payload.Error != "":
		e.Detail = payload.Error
	default:
		e.Detail = resp.Status
	}
	for _, m := range payload.ErrorMessages {
		if m.Message != "" {
			e.Messages = append(e.Messages, m.Message)
		}
	}
	return e
}
