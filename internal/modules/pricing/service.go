// README: Pricing rule mapping (mode, distance or hours) to a price.
package pricing

import (
	"math"

	"toptransfer/internal/types"
)

type Service struct {
	rate Rate
}

func NewService(rate Rate) *Service {
	return &Service{rate: rate}
}

// Estimate prices a booking with the service tariff. See Quote.
func (s *Service) Estimate(mode Mode, distanceKm *float64, hours int) (*types.Money, error) {
	return Quote(s.rate, mode, distanceKm, hours)
}

// Quote is the pricing rule. In distance mode it needs a computed distance and
// returns nil without one; in hourly mode hours below 1 count as 1 and more
// than MaxHours are refused.
func Quote(rate Rate, mode Mode, distanceKm *float64, hours int) (*types.Money, error) {
	switch mode {
	case ModeDistance:
		if distanceKm == nil {
			return nil, nil
		}
		km := *distanceKm
		if km < 0 || math.IsNaN(km) || math.IsInf(km, 0) {
			return nil, ErrNegativeDistance
		}
		// base + km*perKm, rounded half-up on the cent
		total := math.Floor(float64(rate.BaseFare) + km*float64(rate.PerKm) + 0.5)
		if total >= math.MaxInt64 {
			return nil, ErrPriceOverflow
		}
		cents := int64(total)
		return &types.Money{Amount: cents, Currency: rate.Currency}, nil
	case ModeHourly:
		h := ClampHours(hours)
		if h > MaxHours {
			return nil, ErrTooManyHours
		}
		if rate.PerHour > 0 && int64(h) > math.MaxInt64/rate.PerHour {
			return nil, ErrPriceOverflow
		}
		return &types.Money{Amount: int64(h) * rate.PerHour, Currency: rate.Currency}, nil
	}
	return nil, ErrUnknownMode
}

func ClampHours(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
