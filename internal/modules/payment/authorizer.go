// README: Obtains a client secret for an amount, over HTTP or in-process.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Authorizer interface {
	Authorize(ctx context.Context, euros float64) (string, error)
}

// HTTPAuthorizer calls a remote POST /api/create-payment-intent.
type HTTPAuthorizer struct {
	baseURL string
	client  *http.Client
}

func NewHTTPAuthorizer(baseURL string, client *http.Client) *HTTPAuthorizer {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPAuthorizer{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type intentRequest struct {
	Amount float64 `json:"amount"`
}

type intentResponse struct {
	ClientSecret string `json:"clientSecret"`
	Error        string `json:"error"`
}

func (a *HTTPAuthorizer) Authorize(ctx context.Context, euros float64) (string, error) {
	body, err := json.Marshal(intentRequest{Amount: euros})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/create-payment-intent", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthorization, err)
	}
	defer resp.Body.Close()

	var out intentResponse
	_ = json.NewDecoder(resp.Body).Decode(&out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d: %s", ErrAuthorization, resp.StatusCode, out.Error)
	}
	if out.ClientSecret == "" {
		return "", fmt.Errorf("%w: no clientSecret returned from server", ErrAuthorization)
	}
	return out.ClientSecret, nil
}

// LocalAuthorizer skips the network hop when the endpoint runs in this process.
type LocalAuthorizer struct {
	svc *Service
}

func NewLocalAuthorizer(svc *Service) *LocalAuthorizer {
	return &LocalAuthorizer{svc: svc}
}

func (a *LocalAuthorizer) Authorize(ctx context.Context, euros float64) (string, error) {
	intent, err := a.svc.CreateIntent(ctx, euros)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthorization, err)
	}
	if intent.ClientSecret == "" {
		return "", fmt.Errorf("%w: provider returned no client secret", ErrAuthorization)
	}
	return intent.ClientSecret, nil
}
