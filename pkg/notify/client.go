// Package notify talks to the mail/SMS delivery gateway.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"user-mgmt-go/pkg/captcha"
)

// Gateway delivers verification codes through an HTTP notification service.
// It satisfies captcha.Sender.
type Gateway struct {
	baseURL string
	client  *http.Client
}

var _ captcha.Sender = (*Gateway)(nil)

func NewGateway(baseURL string) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Ping verifies the gateway is available
func (g *Gateway) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return newServiceUnavailableError(resp.StatusCode, "unhealthy")
	}
	return nil
}

// Send delivers one code to an email address or phone number
func (g *Gateway) Send(ctx context.Context, channel captcha.Channel, recipient, code string) error {
	_, err := g.Deliver(ctx, DeliveryRequest{
		Channel:   string(channel),
		Recipient: recipient,
		Template:  TemplateCaptcha,
		Code:      code,
	})
	return err
}

// Deliver posts a delivery request and returns the gateway's receipt
func (g *Gateway) Deliver(ctx context.Context, payload DeliveryRequest) (*DeliveryResponse, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/send", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newInvalidResponseError("failed to read response", err)
	}

	if resp.StatusCode >= 500 {
		return nil, newServiceUnavailableError(resp.StatusCode, string(body))
	}

	var result DeliveryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, newInvalidResponseError("failed to decode response", err)
	}
	if resp.StatusCode != http.StatusOK || !result.Success {
		return &result, newRejectedError(result.Error)
	}

	return &result, nil
}

func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return newCancelledError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return newTimeoutError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newTimeoutError(err)
	}
	return newNetworkError(err)
}
