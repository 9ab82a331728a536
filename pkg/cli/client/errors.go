package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned for any response outside the 2xx range.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
	Body       []byte
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       body,
	}

	var errorResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &errorResp); err == nil {
		if errorResp.Message != "" {
			apiErr.Message = errorResp.Message
		} else if errorResp.Error != "" {
			apiErr.Message = errorResp.Error
		}
	}
	if apiErr.Message == "" {
		// If JSON parsing failed, use the raw body
		apiErr.Message = string(body)
	}
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}

	return apiErr
}

// IsStatus reports whether err is an APIError with the given status code
func IsStatus(err error, statusCode int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}

// IsUnauthorized reports whether the server rejected the credentials
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}
