package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate    = newValidator()
	mobileRegex = regexp.MustCompile(`^1[3-9]\d{9}$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	// mainland mobile numbers: 11 digits starting 13-19
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobileRegex.MatchString(fl.Field().String())
	})
	return v
}

// ValidateURL trims and validates an absolute http(s) URL, returning the
// normalized value without a trailing slash.
func ValidateURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("URL is required")
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid URL: scheme must be http or https")
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid URL: missing host")
	}
	return strings.TrimRight(s, "/"), nil
}

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return validate.Var(strings.TrimSpace(s), "required,email") == nil
}

// IsValidPhone reports whether s is a mobile phone number.
func IsValidPhone(s string) bool {
	return validate.Var(strings.TrimSpace(s), "required,mobile") == nil
}
