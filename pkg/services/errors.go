package services

import "user-mgmt-go/pkg/models"

// Error is a business failure reported to the client inside the response
// envelope rather than as an HTTP error.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func fail(message string) *Error {
	return &Error{Code: models.CodeError, Message: message}
}

var (
	ErrUserNotFound         = fail("user not found")
	ErrWrongPassword        = fail("wrong password")
	ErrAccountDisabled      = fail("account is disabled")
	ErrInvalidCaptcha       = fail("invalid verification code")
	ErrCaptchaRequired      = fail("verification code is required")
	ErrCaptchaTooFrequent   = fail("verification code requested too frequently, try again later")
	ErrCaptchaSendFailed    = fail("failed to send verification code, try again later")
	ErrCaptchaUndeliverable = fail("verification code cannot be delivered to this recipient")
	ErrInvalidCaptchaType   = fail("invalid verification code type")
	ErrInvalidEmail         = fail("invalid email address")
	ErrInvalidPhone         = fail("invalid phone number")
	ErrEmailNotRegistered   = fail("email not registered")
	ErrPhoneUnknown         = fail("phone not registered")
	ErrPhoneTaken           = fail("phone already registered")
	ErrEmailTaken           = fail("email already registered")
	ErrUsernameTaken        = fail("username already exists")
	ErrEmailInUse           = fail("email is bound to another user")
	ErrPhoneInUse           = fail("phone is bound to another user")
	ErrContactInUse         = fail("email or phone is bound to another user")
	ErrMissingCredentials   = fail("username and password are required")
	ErrPasswordRequired     = fail("password is required")
	ErrPermissionDenied     = fail("permission denied")

	ErrPhoneNotRegistered = &Error{Code: models.CodeUnregistered, Message: "phone not registered, please register first"}
)
