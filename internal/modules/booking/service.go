// README: Booking service drives a draft from first keystroke to a paid, acknowledged trip.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"toptransfer/internal/maps"
	"toptransfer/internal/modules/geolocation"
	"toptransfer/internal/modules/ledger"
	"toptransfer/internal/modules/notify"
	"toptransfer/internal/modules/payment"
	"toptransfer/internal/modules/pricing"
	"toptransfer/internal/types"
)

// confirmTimeout bounds the provider call once a confirmation has started.
const confirmTimeout = 30 * time.Second

var (
	ErrNotFound           = errors.New("booking draft not found")
	ErrInvalidState       = errors.New("invalid state transition")
	ErrConflict           = errors.New("booking draft changed concurrently")
	ErrBadRequest         = errors.New("bad request")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrNoPrice            = errors.New("no computed price")
	ErrUnresolvedAddress  = errors.New("addresses must be selected from the suggestions")
	ErrCheckoutDisabled   = errors.New("checkout is disabled")
	ErrNotificationFailed = errors.New("booking notification failed")
)

type Resolver interface {
	Suggest(ctx context.Context, input, session string) ([]maps.Suggestion, error)
	ResolvePlace(ctx context.Context, placeID, session string) (maps.Place, error)
	ComputeRoute(ctx context.Context, origin, destination maps.Place) (maps.Route, error)
}

type Locator interface {
	Locate(ctx context.Context, src geolocation.PositionSource) (geolocation.Fix, error)
}

type Payments interface {
	RequestAuthorization(ctx context.Context, amount types.Money) (payment.Session, error)
	Confirm(ctx context.Context, s payment.Session, card payment.Card) (payment.Intent, error)
}

type Notifier interface {
	Dispatch(ctx context.Context, s notify.Summary) notify.Outcome
}

type Ledger interface {
	Record(ctx context.Context, e ledger.Entry) error
	MarkNotified(ctx context.Context, bookingID types.ID, paymentIntentID string) error
}

type Pricing interface {
	Estimate(mode pricing.Mode, distanceKm *float64, hours int) (*types.Money, error)
}

type Deps struct {
	Resolver Resolver
	Locator  Locator
	Payments Payments
	Notifier Notifier
	Ledger   Ledger
	Pricing  Pricing
	Logger   *zap.Logger
}

type Service struct {
	store           Store
	resolver        Resolver
	locator         Locator
	payments        Payments
	notifier        Notifier
	ledger          Ledger
	pricing         Pricing
	logger          *zap.Logger
	checkoutEnabled bool
	now             func() time.Time
}

// NewService wires the workflow. checkoutEnabled is false when no payment
// publishable key is configured; Submit then refuses.
func NewService(store Store, deps Deps, checkoutEnabled bool) *Service {
	if deps.Pricing == nil {
		deps.Pricing = pricing.NewService(pricing.DefaultRate)
	}
	if deps.Ledger == nil {
		deps.Ledger = ledger.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Service{
		store:           store,
		resolver:        deps.Resolver,
		locator:         deps.Locator,
		payments:        deps.Payments,
		notifier:        deps.Notifier,
		ledger:          deps.Ledger,
		pricing:         deps.Pricing,
		logger:          deps.Logger,
		checkoutEnabled: checkoutEnabled,
		now:             time.Now,
	}
}

func (s *Service) CheckoutEnabled() bool {
	return s.checkoutEnabled
}

func (s *Service) Create(ctx context.Context, language string) (*Draft, error) {
	now := s.now().UTC()
	d := &Draft{
		ID:        types.ID(uuid.NewString()),
		State:     StateEditing,
		Mode:      pricing.ModeDistance,
		Hours:     1,
		Language:  language,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Draft, error) {
	return s.store.Get(ctx, id)
}

// Discard releases the draft when the user leaves the booking section.
func (s *Service) Discard(ctx context.Context, id types.ID) error {
	return s.store.Delete(ctx, id)
}

// Edit applies a field-by-field patch. Typing an address drops its resolved
// place; changing the mode or (in hourly mode) the hours recomputes the price
// from inputs already on the draft.
func (s *Service) Edit(ctx context.Context, id types.ID, e Edit) (*Draft, error) {
	var mode pricing.Mode
	if e.Mode != nil {
		m, err := pricing.ParseMode(*e.Mode)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		mode = m
	}
	if e.Hours != nil && *e.Hours > pricing.MaxHours {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, pricing.ErrTooManyHours)
	}

	d, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.State.Editable() {
		return nil, ErrInvalidState
	}

	setString(&d.Name, e.Name)
	setString(&d.Phone, e.Phone)
	setString(&d.Email, e.Email)
	setString(&d.Date, e.Date)
	setString(&d.Time, e.Time)
	setString(&d.Notes, e.Notes)
	setString(&d.FlightNumber, e.FlightNumber)
	setString(&d.Language, e.Language)

	routeInputs := false
	if e.Pickup != nil && *e.Pickup != d.Pickup {
		d.Pickup = *e.Pickup
		d.PickupPlace = nil
		routeInputs = true
	}
	if e.Dropoff != nil && *e.Dropoff != d.Dropoff {
		d.Dropoff = *e.Dropoff
		d.DropoffPlace = nil
		routeInputs = true
	}

	reprice := false
	if e.Hours != nil {
		d.Hours = pricing.ClampHours(*e.Hours)
		routeInputs = true
		reprice = d.Mode == pricing.ModeHourly
	}
	if e.Mode != nil && mode != d.Mode {
		d.Mode = mode
		routeInputs = true
		reprice = true
	}
	if reprice {
		price, err := s.pricing.Estimate(d.Mode, d.DistanceKm, d.Hours)
		if err != nil {
			return nil, err
		}
		d.Price = price
	}

	next := d.State
	if routeInputs {
		next = StateEditing
	}
	if err := s.save(ctx, d, next); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Suggest(ctx context.Context, input, session string) ([]maps.Suggestion, error) {
	if s.resolver == nil {
		return nil, maps.ErrMissingAPIKey
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	return s.resolver.Suggest(ctx, input, session)
}

// SelectPlace resolves a picked suggestion into the pickup or dropoff field.
func (s *Service) SelectPlace(ctx context.Context, cmd SelectPlaceCommand) (*Draft, error) {
	if cmd.PlaceID == "" {
		return nil, ErrBadRequest
	}
	if s.resolver == nil {
		return nil, maps.ErrMissingAPIKey
	}
	d, err := s.store.Get(ctx, cmd.DraftID)
	if err != nil {
		return nil, err
	}
	if !d.State.Editable() {
		return nil, ErrInvalidState
	}

	place, err := s.resolver.ResolvePlace(ctx, cmd.PlaceID, cmd.Session)
	if err != nil {
		return nil, err
	}
	d.setPlace(cmd.Field, &place)
	if err := s.save(ctx, d, StateEditing); err != nil {
		return nil, err
	}
	return d, nil
}

// CalculateRoute prices the trip between the two resolved places. On any
// failure the stored distance and price stay as they were.
func (s *Service) CalculateRoute(ctx context.Context, id types.ID) (*Draft, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.State.Editable() {
		return nil, ErrInvalidState
	}
	origin, dest := d.place(FieldPickup), d.place(FieldDropoff)
	if origin == nil || dest == nil {
		return nil, ErrUnresolvedAddress
	}
	if s.resolver == nil {
		return nil, maps.ErrMissingAPIKey
	}

	route, err := s.resolver.ComputeRoute(ctx, *origin, *dest)
	if err != nil {
		s.logger.Warn("route calculation failed", zap.String("booking_id", string(d.ID)), zap.Error(err))
		return nil, err
	}
	km := route.DistanceKm()
	price, err := s.pricing.Estimate(d.Mode, &km, d.Hours)
	if err != nil {
		return nil, err
	}
	d.DistanceKm = &km
	d.Polyline = route.Polyline
	d.Price = price
	if err := s.save(ctx, d, StateRouteCalculated); err != nil {
		return nil, err
	}
	return d, nil
}

// LocatePickup fills the pickup field from the user's position.
func (s *Service) LocatePickup(ctx context.Context, id types.ID, src geolocation.PositionSource) (*Draft, geolocation.Fix, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, geolocation.Fix{}, err
	}
	if !d.State.Editable() {
		return nil, geolocation.Fix{}, ErrInvalidState
	}
	if s.locator == nil {
		return nil, geolocation.Fix{}, geolocation.ErrUnsupported
	}

	fix, err := s.locator.Locate(ctx, src)
	if err != nil {
		return nil, geolocation.Fix{}, err
	}
	place := fix.Place
	d.setPlace(FieldPickup, &place)
	if err := s.save(ctx, d, StateEditing); err != nil {
		return nil, geolocation.Fix{}, err
	}
	return d, fix, nil
}

// Submit validates the draft locally, then asks for a payment authorization.
// Local validation failures make no network call.
func (s *Service) Submit(ctx context.Context, id types.ID) (*Draft, error) {
	if !s.checkoutEnabled || s.payments == nil {
		return nil, ErrCheckoutDisabled
	}
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.State.Editable() {
		return nil, ErrInvalidState
	}
	if !ValidEmail(d.Email) {
		return nil, ErrInvalidEmail
	}
	if d.Price == nil || d.Price.Amount <= 0 {
		return nil, ErrNoPrice
	}

	// Persisting the submitting state first makes a concurrent second submit
	// lose on the version check before it reaches the payment backend.
	if err := s.save(ctx, d, StateSubmitting); err != nil {
		return nil, err
	}

	session, err := s.payments.RequestAuthorization(ctx, *d.Price)
	if err != nil {
		s.logger.Warn("payment authorization failed", zap.String("booking_id", string(d.ID)), zap.Error(err))
		if serr := s.save(context.WithoutCancel(ctx), d, StateEditing); serr != nil {
			return nil, errors.Join(err, serr)
		}
		return d, err
	}
	d.Payment = &session
	if err := s.save(ctx, d, StateAwaitingPayment); err != nil {
		return nil, err
	}
	return d, nil
}

// CancelPayment closes the payment step. Nothing was charged.
func (s *Service) CancelPayment(ctx context.Context, id types.ID) (*Draft, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.State != StateAwaitingPayment {
		return nil, ErrInvalidState
	}
	d.Payment = nil
	if err := s.save(ctx, d, StateEditing); err != nil {
		return nil, err
	}
	return d, nil
}

// ConfirmPayment confirms the charge and then notifies the operator. The
// draft is completed only when the notification goes out; a sent charge with
// a failed email ends in StateNotificationFailed and a ledger row.
func (s *Service) ConfirmPayment(ctx context.Context, cmd ConfirmPaymentCommand) (*Draft, error) {
	if s.payments == nil {
		return nil, ErrCheckoutDisabled
	}
	d, err := s.store.Get(ctx, cmd.DraftID)
	if err != nil {
		return nil, err
	}
	if d.State != StateAwaitingPayment || d.Payment == nil {
		return nil, ErrInvalidState
	}
	if err := s.save(ctx, d, StatePaymentConfirming); err != nil {
		return nil, err
	}

	// A client hanging up must not cut the provider call after the card is charged.
	confirmCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), confirmTimeout)
	intent, err := s.payments.Confirm(confirmCtx, *d.Payment, cmd.Card)
	cancel()
	if err != nil {
		s.logger.Info("payment confirmation failed", zap.String("booking_id", string(d.ID)), zap.Error(err))
		if serr := s.save(context.WithoutCancel(ctx), d, StateAwaitingPayment); serr != nil {
			return nil, errors.Join(err, serr)
		}
		return d, err
	}

	// The charge is captured; nothing below may be abandoned with the request.
	ctx = context.WithoutCancel(ctx)
	d.ChargedIntentID = intent.ID
	if d.ChargedIntentID == "" {
		d.ChargedIntentID = d.Payment.IntentID
	}
	d.Payment = nil

	outcome := s.notify(ctx, d)
	s.record(ctx, d, outcome)
	if !outcome.Sent {
		if err := s.save(ctx, d, StateNotificationFailed); err != nil {
			return nil, err
		}
		return d, fmt.Errorf("%w: %s", ErrNotificationFailed, outcome.Err)
	}
	if err := s.complete(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// RetryNotification resends the operator email for a paid draft whose first
// notification failed. It never touches the payment.
func (s *Service) RetryNotification(ctx context.Context, id types.ID) (*Draft, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.State != StateNotificationFailed {
		return nil, ErrInvalidState
	}

	outcome := s.notify(ctx, d)
	if !outcome.Sent {
		if err := s.save(ctx, d, d.State); err != nil {
			return nil, err
		}
		return d, fmt.Errorf("%w: %s", ErrNotificationFailed, outcome.Err)
	}
	if err := s.ledger.MarkNotified(ctx, d.ID, d.ChargedIntentID); err != nil {
		s.logger.Warn("ledger update failed", zap.String("booking_id", string(d.ID)), zap.Error(err))
	}
	if err := s.complete(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) notify(ctx context.Context, d *Draft) notify.Outcome {
	if s.notifier == nil {
		d.NotifyError = notify.ErrNotConfigured.Error()
		return notify.Outcome{Err: d.NotifyError}
	}
	outcome := s.notifier.Dispatch(ctx, d.Summary())
	d.NotifyError = outcome.Err
	if !outcome.Sent {
		s.logger.Error("payment captured but booking not acknowledged",
			zap.String("booking_id", string(d.ID)),
			zap.String("intent_id", d.ChargedIntentID),
			zap.String("notify_error", outcome.Err))
	}
	return outcome
}

func (s *Service) record(ctx context.Context, d *Draft, outcome notify.Outcome) {
	entry := ledger.Entry{
		BookingID:       d.ID,
		PaymentIntentID: d.ChargedIntentID,
		Notified:        outcome.Sent,
		NotifyError:     outcome.Err,
	}
	if d.Price != nil {
		entry.Amount = *d.Price
	}
	if err := s.ledger.Record(ctx, entry); err != nil {
		s.logger.Warn("ledger record failed", zap.String("booking_id", string(d.ID)), zap.Error(err))
	}
}

func (s *Service) complete(ctx context.Context, d *Draft) error {
	now := s.now().UTC()
	d.CompletedAt = &now
	d.NotifyError = ""
	return s.save(ctx, d, StateCompleted)
}

// save moves d to next and persists it under the optimistic version check.
// Remaining in StateNotificationFailed records a failed retry.
func (s *Service) save(ctx context.Context, d *Draft, next State) error {
	stay := next == d.State && next == StateNotificationFailed
	if !stay && !CanTransition(d.State, next) {
		return ErrInvalidState
	}
	d.State = next
	d.UpdatedAt = s.now().UTC()
	return s.store.Update(ctx, d)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
