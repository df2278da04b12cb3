// README: Dispatcher sends the booking summary once. Failures are reported, never retried.
package notify

import (
	"context"

	"go.uber.org/zap"
)

type Dispatcher struct {
	sender Sender
	to     Recipient
	logger *zap.Logger
}

func NewDispatcher(sender Sender, to Recipient, logger *zap.Logger) *Dispatcher {
	if to.Name == "" {
		to.Name = DefaultOperatorName
	}
	if to.Email == "" {
		to.Email = DefaultOperatorEmail
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{sender: sender, to: to, logger: logger}
}

func (d *Dispatcher) Dispatch(ctx context.Context, s Summary) Outcome {
	if d.sender == nil {
		return Outcome{Err: ErrNotConfigured.Error()}
	}
	if err := d.sender.Send(ctx, d.to, TemplateParams(s, d.to)); err != nil {
		d.logger.Error("failed to send booking email",
			zap.String("customer_email", s.Email), zap.Error(err))
		return Outcome{Err: err.Error()}
	}
	d.logger.Info("booking email sent", zap.String("customer_email", s.Email))
	return Outcome{Sent: true}
}
