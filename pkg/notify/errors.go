package notify

import "fmt"

// ErrorType categorizes delivery failures
type ErrorType string

const (
	ErrorTypeServiceUnavailable ErrorType = "service_unavailable"
	ErrorTypeTimeout            ErrorType = "timeout"
	ErrorTypeNetwork            ErrorType = "network"
	ErrorTypeRejected           ErrorType = "rejected"
	ErrorTypeInvalidResponse    ErrorType = "invalid_response"
	ErrorTypeCancelled          ErrorType = "cancelled"
)

// GatewayError represents a structured error from the delivery gateway
type GatewayError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface
func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns true if the delivery is likely to succeed on retry
func (e *GatewayError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeServiceUnavailable, ErrorTypeNetwork, ErrorTypeTimeout:
		return true
	default:
		return false
	}
}

func newServiceUnavailableError(status int, body string) *GatewayError {
	return &GatewayError{
		Type:    ErrorTypeServiceUnavailable,
		Message: fmt.Sprintf("gateway returned status %d: %s", status, body),
	}
}

func newTimeoutError(cause error) *GatewayError {
	return &GatewayError{
		Type:    ErrorTypeTimeout,
		Message: "request timed out",
		Cause:   cause,
	}
}

func newNetworkError(cause error) *GatewayError {
	return &GatewayError{
		Type:    ErrorTypeNetwork,
		Message: "network error",
		Cause:   cause,
	}
}

func newRejectedError(message string) *GatewayError {
	if message == "" {
		message = "delivery rejected"
	}
	return &GatewayError{
		Type:    ErrorTypeRejected,
		Message: message,
	}
}

func newInvalidResponseError(message string, cause error) *GatewayError {
	return &GatewayError{
		Type:    ErrorTypeInvalidResponse,
		Message: message,
		Cause:   cause,
	}
}

func newCancelledError(cause error) *GatewayError {
	return &GatewayError{
		Type:    ErrorTypeCancelled,
		Message: "operation cancelled",
		Cause:   cause,
	}
}
