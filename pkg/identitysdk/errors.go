package identitysdk

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the identity service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity service: %d %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the identity service.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the identity service.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
