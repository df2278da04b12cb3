// README: Backend payment endpoint logic: validate an amount and mint a client secret.
package payment

import (
	"context"
	"math"

	"go.uber.org/zap"

	"toptransfer/internal/types"
)

type Service struct {
	gateway Gateway
	logger  *zap.Logger
}

func NewService(gateway Gateway, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gateway: gateway, logger: logger}
}

// CreateIntent charges round(euros*100) cents in EUR. Provider failures come
// back as *ProviderError.
func (s *Service) CreateIntent(ctx context.Context, euros float64) (Intent, error) {
	if math.IsNaN(euros) || math.IsInf(euros, 0) || euros <= 0 {
		return Intent{}, ErrInvalidAmount
	}
	amount := types.FromEuros(euros)

	intent, err := s.gateway.CreateIntent(ctx, amount)
	if err != nil {
		s.logger.Error("error creating payment intent",
			zap.Int64("amount_cents", amount.Amount), zap.Error(err))
		return Intent{}, &ProviderError{Message: providerMessage(err), Err: err}
	}
	s.logger.Info("payment intent created",
		zap.String("intent_id", intent.ID), zap.Int64("amount_cents", amount.Amount))
	return intent, nil
}
