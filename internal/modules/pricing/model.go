// README: Booking modes and the tariff used to price transfers.
package pricing

import (
	"errors"
	"strings"
)

type Mode string

const (
	ModeDistance Mode = "distance"
	ModeHourly   Mode = "hourly"
)

var (
	ErrUnknownMode      = errors.New("unknown booking mode")
	ErrNegativeDistance = errors.New("distance must not be negative")
	ErrTooManyHours     = errors.New("hours exceed the bookable maximum")
	ErrPriceOverflow    = errors.New("price out of range")
)

// MaxHours is the longest hourly booking; a chauffeur day.
const MaxHours = 24

// Rate amounts are in cents.
type Rate struct {
	BaseFare int64
	PerKm    int64
	PerHour  int64
	Currency string
}

// DefaultRate: €20 pickup, €2.50 per km, €70 per hour.
var DefaultRate = Rate{
	BaseFare: 2000,
	PerKm:    250,
	PerHour:  7000,
	Currency: "EUR",
}

func ParseMode(v string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(v))) {
	case ModeDistance:
		return ModeDistance, nil
	case ModeHourly:
		return ModeHourly, nil
	}
	return "", ErrUnknownMode
}
