// README: Payment orchestration: authorize an amount, then confirm the charge.
package payment

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"toptransfer/internal/types"
)

type Orchestrator struct {
	authorizer Authorizer
	gateway    Gateway
	logger     *zap.Logger
}

func NewOrchestrator(authorizer Authorizer, gateway Gateway, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{authorizer: authorizer, gateway: gateway, logger: logger}
}

// RequestAuthorization asks the backend for a client secret. Any failure is
// final; the caller decides whether the user tries again.
func (o *Orchestrator) RequestAuthorization(ctx context.Context, amount types.Money) (Session, error) {
	if amount.Amount <= 0 {
		return Session{}, ErrInvalidAmount
	}
	secret, err := o.authorizer.Authorize(ctx, amount.Euros())
	if err != nil {
		o.logger.Warn("payment init error", zap.Int64("amount_cents", amount.Amount), zap.Error(err))
		if errors.Is(err, ErrAuthorization) {
			return Session{}, err
		}
		return Session{}, fmt.Errorf("%w: %w", ErrAuthorization, err)
	}
	if secret == "" {
		return Session{}, ErrAuthorization
	}
	return Session{
		ClientSecret: secret,
		IntentID:     IntentIDFromSecret(secret),
		Amount:       amount,
	}, nil
}

// Confirm succeeds only when the provider reports the succeeded status.
func (o *Orchestrator) Confirm(ctx context.Context, s Session, card Card) (Intent, error) {
	if s.ClientSecret == "" || s.IntentID == "" {
		return Intent{}, ErrNoSession
	}
	if o.gateway == nil {
		return Intent{}, ErrNotConfigured
	}

	var (
		intent Intent
		err    error
	)
	if card.PaymentMethodID != "" {
		intent, err = o.gateway.ConfirmIntent(ctx, s.IntentID, card.PaymentMethodID)
		if err != nil {
			// An earlier attempt may have captured the charge before its
			// response was lost; the provider then refuses a second confirm.
			if current, gerr := o.gateway.GetIntent(ctx, s.IntentID); gerr == nil && current.Status == StatusSucceeded {
				o.logger.Info("payment already captured", zap.String("intent_id", s.IntentID), zap.Error(err))
				intent, err = current, nil
			}
		}
	} else {
		intent, err = o.gateway.GetIntent(ctx, s.IntentID)
	}
	if err != nil {
		return Intent{}, &DeclinedError{Message: providerMessage(err), Err: err}
	}
	if intent.Status != StatusSucceeded {
		o.logger.Info("payment not succeeded",
			zap.String("intent_id", s.IntentID), zap.String("status", intent.Status))
		return intent, ErrNotSucceeded
	}
	return intent, nil
}
