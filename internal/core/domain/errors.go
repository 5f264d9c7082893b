package domain

import (
	"errors"
	"fmt"
)

var ErrBackendUnavailable = errors.New("backend unavailable")
var ErrNotAuthenticated = errors.New("not authenticated")
var ErrUnknownStorageDriver = errors.New("unknown storage driver")

// APIError is a non-2xx reply from the remote event-booking API.
// Message holds the server-provided text, if any.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// UserMessage picks the text shown to the user for a failed request:
// the server-provided message when there is one, otherwise fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
