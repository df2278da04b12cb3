// README: Audit rows for confirmed charges and whether the operator was told.
package ledger

import (
	"context"
	"time"

	"toptransfer/internal/types"
)

type Entry struct {
	BookingID       types.ID
	PaymentIntentID string
	Amount          types.Money
	Notified        bool
	NotifyError     string
	CreatedAt       time.Time
}

// Recorder is the ledger as the booking workflow and startup reconciliation see it.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
	MarkNotified(ctx context.Context, bookingID types.ID, paymentIntentID string) error
	Unacknowledged(ctx context.Context) ([]Entry, error)
}

// Nop is used when no database is configured.
type Nop struct{}

var (
	_ Recorder = Nop{}
	_ Recorder = (*Store)(nil)
)

func (Nop) Record(context.Context, Entry) error                  { return nil }
func (Nop) MarkNotified(context.Context, types.ID, string) error { return nil }
func (Nop) Unacknowledged(context.Context) ([]Entry, error)      { return nil, nil }
