package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Error is any non-2xx backend response.
type Error struct {
	Status int
	Body   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message())
}

// Unauthorized reports whether the caller should send the user back to login.
func (e *Error) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// Message is the backend's own text for display.
func (e *Error) Message() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return http.StatusText(e.Status)
	}
	var text string
	if err := json.Unmarshal([]byte(body), &text); err == nil {
		return text
	}
	var object map[string]any
	if err := json.Unmarshal([]byte(body), &object); err == nil {
		for _, key := range []string{"message", "Message", "error", "title"} {
			if value, ok := object[key].(string); ok && value != "" {
				return value
			}
		}
	}
	return body
}
