package api

import (
	"errors"
	"fmt"
)

// APIError is a failed backend call: a non-2xx response or, when StatusCode
// is zero, a network-level failure. Always recoverable; retry is the
// caller's choice.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("network error: %s", e.Message)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// IsAPIError reports whether err is (or wraps) an APIError.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
