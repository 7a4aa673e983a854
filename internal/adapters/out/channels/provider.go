// Package channels implements the outbound delivery providers. Email, SMS
// and push each post to their own gateway endpoint; the shared provider type
// only differs in which channel it reports and where it posts.
package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dispatch/internal/core/domain/model/notification"
)

const defaultTimeout = 10 * time.Second

// gatewayRequest is the JSON body every gateway accepts.
type gatewayRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

// HTTPProvider sends messages to one channel gateway over HTTP.
type HTTPProvider struct {
	channel  notification.Channel
	endpoint string
	client   *http.Client
}

// NewEmailProvider creates the provider posting to the email gateway.
func NewEmailProvider(endpoint string) *HTTPProvider {
	return newProvider(notification.ChannelEmail, endpoint)
}

// NewSMSProvider creates the provider posting to the SMS gateway.
func NewSMSProvider(endpoint string) *HTTPProvider {
	return newProvider(notification.ChannelSMS, endpoint)
}

// NewPushProvider creates the provider posting to the push gateway.
func NewPushProvider(endpoint string) *HTTPProvider {
	return newProvider(notification.ChannelPush, endpoint)
}

func newProvider(channel notification.Channel, endpoint string) *HTTPProvider {
	return &HTTPProvider{
		channel:  channel,
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultTimeout},
	}
}

// Channel identifies which channel this provider serves.
func (p *HTTPProvider) Channel() notification.Channel {
	return p.channel
}

// Send posts the message to the gateway. Any non-2xx response is an error;
// the orchestrator records it as a failed attempt.
func (p *HTTPProvider) Send(ctx context.Context, contact, subject, body string) error {
	raw, err := json.Marshal(gatewayRequest{
		To:      contact,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s gateway: %w", p.channel, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s gateway responded %d", p.channel, resp.StatusCode)
	}

	return nil
}
