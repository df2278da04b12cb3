// README: Payment intents, sessions and the errors of the checkout step.
package payment

import (
	"errors"
	"strings"

	"toptransfer/internal/types"
)

const StatusSucceeded = "succeeded"

var (
	ErrInvalidAmount  = errors.New("amount must be a positive number in euros")
	ErrAuthorization  = errors.New("payment authorization failed")
	ErrNotSucceeded   = errors.New("payment did not succeed")
	ErrNoSession      = errors.New("no payment session")
	ErrNotConfigured  = errors.New("payment provider is not configured")
	errInternalServer = "Internal server error"
)

// Intent is the provider-side charge object.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       types.Money
}

// Session is the short-lived authorization handed to the card widget.
type Session struct {
	ClientSecret string      `json:"client_secret"`
	IntentID     string      `json:"intent_id"`
	Amount       types.Money `json:"amount"`
}

// Card carries what the widget produced. An empty PaymentMethodID means the
// widget already confirmed the charge in the browser.
type Card struct {
	PaymentMethodID string
}

// ProviderError carries the provider's message back to the API caller.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string { return e.Message }
func (e *ProviderError) Unwrap() error { return e.Err }

// DeclinedError is a card or widget failure during confirmation.
type DeclinedError struct {
	Message string
	Err     error
}

func (e *DeclinedError) Error() string { return e.Message }
func (e *DeclinedError) Unwrap() error { return e.Err }

// IntentIDFromSecret extracts "pi_123" from "pi_123_secret_abc".
func IntentIDFromSecret(secret string) string {
	id, _, ok := strings.Cut(secret, "_secret_")
	if !ok {
		return ""
	}
	return id
}
