package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"toptransfer/internal/types"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	s := NewStore(db)
	s.now = func() time.Time { return time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC) }
	return s, mock
}

func TestStore_RecordFailedNotification(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO payment_acknowledgements").
		WithArgs("bk_1", "pi_1", int64(4000), "EUR", false, "quota exceeded", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Record(context.Background(), Entry{
		BookingID:       "bk_1",
		PaymentIntentID: "pi_1",
		Amount:          types.EUR(4000),
		NotifyError:     "quota exceeded",
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStore_MarkNotified(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("UPDATE payment_acknowledgements").
		WithArgs("bk_1", "pi_1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE payment_acknowledgements").
		WithArgs("bk_2", "pi_2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.MarkNotified(context.Background(), "bk_1", "pi_1"); err != nil {
		t.Fatalf("MarkNotified() error = %v", err)
	}
	if err := s.MarkNotified(context.Background(), "bk_2", "pi_2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStore_Unacknowledged(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2026, 9, 30, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT booking_id, payment_intent_id").
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "payment_intent_id", "amount_cents", "currency", "notify_error", "created_at"}).
			AddRow("bk_1", "pi_1", int64(4000), "EUR", "quota exceeded", created).
			AddRow("bk_2", "pi_2", int64(21000), "EUR", nil, created.Add(time.Hour)))

	entries, err := s.Unacknowledged(context.Background())
	if err != nil {
		t.Fatalf("Unacknowledged() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].BookingID != "bk_1" || entries[0].Amount.Amount != 4000 || entries[0].NotifyError != "quota exceeded" {
		t.Errorf("unexpected first entry %+v", entries[0])
	}
	if entries[1].NotifyError != "" || entries[1].Notified {
		t.Errorf("unexpected second entry %+v", entries[1])
	}
}

func TestStore_EnsureSchema(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS payment_acknowledgements").
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	ctx := context.Background()
	if err := r.Record(ctx, Entry{BookingID: "bk_1", PaymentIntentID: "pi_1"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := r.MarkNotified(ctx, "bk_1", "pi_1"); err != nil {
		t.Fatalf("MarkNotified() error = %v", err)
	}
	if entries, err := r.Unacknowledged(ctx); err != nil || len(entries) != 0 {
		t.Fatalf("Unacknowledged() = %v, %v; want nothing", entries, err)
	}
}
