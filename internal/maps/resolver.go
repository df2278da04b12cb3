// README: Address resolution capability shared by booking and geolocation.
package maps

import (
	"context"
	"errors"
	"strings"

	"toptransfer/internal/types"
)

var (
	ErrMissingAPIKey = errors.New("maps api key is not configured")
	ErrNoRoute       = errors.New("no route found")
	ErrNoResult      = errors.New("no result for location")
	ErrUnavailable   = errors.New("maps service unavailable")
	ErrEmptyInput    = errors.New("empty address input")
)

// Suggestion is one autocomplete prediction.
type Suggestion struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

// Place is an address confirmed by the mapping service, with its geometry.
type Place struct {
	PlaceID  string      `json:"place_id"`
	Address  string      `json:"address"`
	Location types.Point `json:"location"`
}

type Leg struct {
	StartAddress   string `json:"start_address"`
	EndAddress     string `json:"end_address"`
	DistanceMeters int    `json:"distance_meters"`
	DurationSec    int    `json:"duration_sec"`
}

// Route is a driving route. Polyline is the encoded overview path the map draws.
type Route struct {
	DistanceMeters int    `json:"distance_meters"`
	Polyline       string `json:"polyline"`
	Legs           []Leg  `json:"legs"`
}

func (r Route) DistanceKm() float64 {
	return float64(r.DistanceMeters) / 1000
}

// Resolver is the narrow slice of the mapping provider the booking flow uses.
type Resolver interface {
	Suggest(ctx context.Context, input, session string) ([]Suggestion, error)
	ResolvePlace(ctx context.Context, placeID, session string) (Place, error)
	ComputeRoute(ctx context.Context, origin, destination Place) (Route, error)
	ReverseGeocode(ctx context.Context, p types.Point) (Place, error)
}

// classify maps provider status errors onto the package sentinels.
func classify(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	msg := err.Error()
	if strings.Contains(msg, "ZERO_RESULTS") || strings.Contains(msg, "NOT_FOUND") {
		return notFound
	}
	return errors.Join(ErrUnavailable, err)
}
