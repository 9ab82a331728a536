// Package captcha issues and verifies one-time verification codes sent by
// email or SMS.
package captcha

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// DefaultCodeLength is the number of digits in a generated code.
const DefaultCodeLength = 6

var (
	// ErrNotFound is returned when no live code exists for a key.
	ErrNotFound = errors.New("captcha not found")
	// ErrTooFrequent is returned when a recipient asks again too soon.
	ErrTooFrequent = errors.New("captcha requested too frequently")
)

// Channel is the delivery medium of a code.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// GenerateCode returns a random numeric code of the given length.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		code[i] = byte(n.Int64()) + '0'
	}
	return string(code), nil
}

// Equal compares two codes in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Key addresses the code issued for one purpose to one recipient.
func Key(purpose, recipient string) string {
	return purpose + ":" + recipient
}

// Service ties code storage, throttling and delivery together.
type Service struct {
	store      Store
	limiter    *Limiter
	sender     Sender
	ttl        time.Duration
	codeLength int
}

// NewService creates a captcha service. limiter may be nil to disable throttling.
func NewService(store Store, limiter *Limiter, sender Sender, ttl time.Duration) *Service {
	return &Service{
		store:      store,
		limiter:    limiter,
		sender:     sender,
		ttl:        ttl,
		codeLength: DefaultCodeLength,
	}
}

// Issue generates a code for recipient, stores it and delivers it. A failed
// delivery does not count against the send throttle.
func (s *Service) Issue(ctx context.Context, channel Channel, purpose, recipient string) error {
	if s.limiter != nil {
		release, ok := s.limiter.Reserve(recipient)
		if !ok {
			return ErrTooFrequent
		}
		err := s.issue(ctx, channel, purpose, recipient)
		if err != nil {
			release()
		}
		return err
	}
	return s.issue(ctx, channel, purpose, recipient)
}

func (s *Service) issue(ctx context.Context, channel Channel, purpose, recipient string) error {
	code, err := GenerateCode(s.codeLength)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, Key(purpose, recipient), code, s.ttl); err != nil {
		return fmt.Errorf("failed to save captcha: %w", err)
	}
	if err := s.sender.Send(ctx, channel, recipient, code); err != nil {
		return fmt.Errorf("failed to send captcha: %w", err)
	}
	return nil
}

// Verify reports whether code matches the live code for recipient.
func (s *Service) Verify(ctx context.Context, purpose, recipient, code string) (bool, error) {
	if code == "" || recipient == "" {
		return false, nil
	}
	stored, err := s.store.Get(ctx, Key(purpose, recipient))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load captcha: %w", err)
	}
	return Equal(stored, code), nil
}

// Consume verifies code and deletes it on success so it cannot be reused.
func (s *Service) Consume(ctx context.Context, purpose, recipient, code string) (bool, error) {
	ok, err := s.Verify(ctx, purpose, recipient, code)
	if err != nil || !ok {
		return ok, err
	}
	if err := s.store.Delete(ctx, Key(purpose, recipient)); err != nil {
		return false, fmt.Errorf("failed to delete captcha: %w", err)
	}
	return true, nil
}
