// README: Booking draft aggregate and the checkout state machine.
package booking

import (
	"regexp"
	"time"

	"toptransfer/internal/maps"
	"toptransfer/internal/modules/notify"
	"toptransfer/internal/modules/payment"
	"toptransfer/internal/modules/pricing"
	"toptransfer/internal/types"
)

type State string

const (
	StateEditing            State = "editing"
	StateRouteCalculated    State = "route_calculated"
	StateSubmitting         State = "submitting"
	StateAwaitingPayment    State = "awaiting_payment"
	StatePaymentConfirming  State = "payment_confirming"
	StateNotificationFailed State = "notification_failed"
	StateCompleted          State = "completed"
)

// AllowedTransitions represents the checkout flow as code. Self-edges mark
// operations that keep the state (edits, recalculated routes).
var AllowedTransitions = map[State][]State{
	StateEditing:            {StateEditing, StateRouteCalculated, StateSubmitting},
	StateRouteCalculated:    {StateEditing, StateRouteCalculated, StateSubmitting},
	StateSubmitting:         {StateAwaitingPayment, StateEditing},
	StateAwaitingPayment:    {StatePaymentConfirming, StateEditing},
	StatePaymentConfirming:  {StateCompleted, StateAwaitingPayment, StateNotificationFailed},
	StateNotificationFailed: {StateCompleted},
}

func CanTransition(from, to State) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// Editable reports whether the form accepts input in s.
func (s State) Editable() bool {
	return s == StateEditing || s == StateRouteCalculated
}

type Field string

const (
	FieldPickup  Field = "pickup"
	FieldDropoff Field = "dropoff"
)

func ParseField(v string) (Field, bool) {
	switch Field(v) {
	case FieldPickup, FieldDropoff:
		return Field(v), true
	}
	return "", false
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail checks the format only, not that the mailbox exists.
func ValidEmail(v string) bool {
	return emailPattern.MatchString(v)
}

type Draft struct {
	ID      types.ID `json:"id"`
	State   State    `json:"state"`
	Version int      `json:"version"`

	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Notes        string `json:"notes"`
	FlightNumber string `json:"flight_number"`

	Pickup       string      `json:"pickup"`
	PickupPlace  *maps.Place `json:"pickup_place,omitempty"`
	Dropoff      string      `json:"dropoff"`
	DropoffPlace *maps.Place `json:"dropoff_place,omitempty"`

	Mode       pricing.Mode `json:"mode"`
	Hours      int          `json:"hours"`
	DistanceKm *float64     `json:"distance_km,omitempty"`
	Polyline   string       `json:"polyline,omitempty"`
	Price      *types.Money `json:"price,omitempty"`

	Payment *payment.Session `json:"payment,omitempty"`
	// ChargedIntentID is set once the provider reported the charge succeeded.
	ChargedIntentID string `json:"charged_intent_id,omitempty"`
	NotifyError     string `json:"notify_error,omitempty"`

	Language    string     `json:"language"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (d *Draft) place(f Field) *maps.Place {
	if f == FieldPickup {
		return d.PickupPlace
	}
	return d.DropoffPlace
}

func (d *Draft) setPlace(f Field, p *maps.Place) {
	if f == FieldPickup {
		d.PickupPlace = p
		if p != nil {
			d.Pickup = p.Address
		}
		return
	}
	d.DropoffPlace = p
	if p != nil {
		d.Dropoff = p.Address
	}
}

// Summary is what the operator receives once the trip is paid.
func (d *Draft) Summary() notify.Summary {
	s := notify.Summary{
		Name:         d.Name,
		Phone:        d.Phone,
		Email:        d.Email,
		Pickup:       d.Pickup,
		Dropoff:      d.Dropoff,
		Date:         d.Date,
		Time:         d.Time,
		Mode:         d.Mode,
		DistanceKm:   d.DistanceKm,
		Hours:        d.Hours,
		Notes:        d.Notes,
		FlightNumber: d.FlightNumber,
	}
	if d.Price != nil {
		s.Price = *d.Price
	}
	return s
}

// Edit is a field-by-field patch. Nil fields are left untouched.
type Edit struct {
	Name         *string
	Phone        *string
	Email        *string
	Date         *string
	Time         *string
	Notes        *string
	FlightNumber *string
	Pickup       *string
	Dropoff      *string
	Mode         *string
	Hours        *int
	Language     *string
}

type SelectPlaceCommand struct {
	DraftID types.ID
	Field   Field
	PlaceID string
	Session string
}

type ConfirmPaymentCommand struct {
	DraftID types.ID
	Card    payment.Card
}
