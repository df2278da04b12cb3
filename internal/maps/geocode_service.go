package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"toptransfer/internal/types"
)

// GeocodeService turns coordinates into a formatted address.
type GeocodeService struct {
	loader   *Loader
	language string
}

func NewGeocodeService(loader *Loader, language string) *GeocodeService {
	return &GeocodeService{loader: loader, language: language}
}

func (s *GeocodeService) ReverseGeocode(ctx context.Context, p types.Point) (Place, error) {
	client, err := s.loader.Client(ctx)
	if err != nil {
		return Place{}, err
	}

	results, err := client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: p.Lat, Lng: p.Lng},
		Language: s.language,
	})
	if err != nil {
		return Place{}, fmt.Errorf("reverse geocode: %w", classify(err, ErrNoResult))
	}
	if len(results) == 0 || results[0].FormattedAddress == "" {
		return Place{}, ErrNoResult
	}
	return Place{
		PlaceID:  results[0].PlaceID,
		Address:  results[0].FormattedAddress,
		Location: p,
	}, nil
}
