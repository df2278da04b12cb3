// README: EmailJS REST transport.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

type Sender interface {
	Send(ctx context.Context, to Recipient, params map[string]any) error
}

type EmailJSConfig struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	// PrivateKey is required by EmailJS for server-side calls in strict mode.
	PrivateKey string
	Endpoint   string
}

type EmailJSSender struct {
	cfg    EmailJSConfig
	client *http.Client
}

func NewEmailJSSender(cfg EmailJSConfig, client *http.Client) *EmailJSSender {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEmailJSEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &EmailJSSender{cfg: cfg, client: client}
}

type emailJSRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	AccessToken    string         `json:"accessToken,omitempty"`
	TemplateParams map[string]any `json:"template_params"`
}

func (s *EmailJSSender) Send(ctx context.Context, _ Recipient, params map[string]any) error {
	if s.cfg.ServiceID == "" || s.cfg.TemplateID == "" || s.cfg.PublicKey == "" {
		return ErrNotConfigured
	}
	body, err := json.Marshal(emailJSRequest{
		ServiceID:      s.cfg.ServiceID,
		TemplateID:     s.cfg.TemplateID,
		UserID:         s.cfg.PublicKey,
		AccessToken:    s.cfg.PrivateKey,
		TemplateParams: params,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: status %d: %s", ErrSendFailed, resp.StatusCode, strings.TrimSpace(string(text)))
	}
	return nil
}
