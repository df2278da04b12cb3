// README: Ledger store backed by PostgreSQL through database/sql (pgx driver, see infra.NewDB).
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"toptransfer/internal/types"
)

var ErrNotFound = errors.New("ledger entry not found")

const schema = `
CREATE TABLE IF NOT EXISTS payment_acknowledgements (
    booking_id        TEXT        NOT NULL,
    payment_intent_id TEXT        NOT NULL,
    amount_cents      BIGINT      NOT NULL,
    currency          TEXT        NOT NULL,
    notified          BOOLEAN     NOT NULL DEFAULT FALSE,
    notify_error      TEXT,
    created_at        TIMESTAMPTZ NOT NULL,
    notified_at       TIMESTAMPTZ,
    PRIMARY KEY (booking_id, payment_intent_id)
)`

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO payment_acknowledgements (
            booking_id, payment_intent_id, amount_cents, currency,
            notified, notify_error, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (booking_id, payment_intent_id) DO UPDATE
        SET notified = EXCLUDED.notified, notify_error = EXCLUDED.notify_error`,
		string(e.BookingID),
		e.PaymentIntentID,
		e.Amount.Amount,
		e.Amount.Currency,
		e.Notified,
		toNullString(e.NotifyError),
		e.CreatedAt,
	)
	return err
}

func (s *Store) MarkNotified(ctx context.Context, bookingID types.ID, paymentIntentID string) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE payment_acknowledgements
        SET notified = TRUE, notify_error = NULL, notified_at = $3
        WHERE booking_id = $1 AND payment_intent_id = $2`,
		string(bookingID), paymentIntentID, s.now().UTC(),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Unacknowledged lists charges the operator was never told about, oldest first.
func (s *Store) Unacknowledged(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT booking_id, payment_intent_id, amount_cents, currency, notify_error, created_at
        FROM payment_acknowledgements
        WHERE notified = FALSE
        ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e         Entry
			bookingID string
			notifyErr sql.NullString
		)
		if err := rows.Scan(&bookingID, &e.PaymentIntentID, &e.Amount.Amount, &e.Amount.Currency, &notifyErr, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.BookingID = types.ID(bookingID)
		e.NotifyError = notifyErr.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func toNullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
