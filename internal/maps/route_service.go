package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"toptransfer/internal/types"
)

// RouteService handles interactions with the Google Directions API.
type RouteService struct {
	loader   *Loader
	language string
}

func NewRouteService(loader *Loader, language string) *RouteService {
	return &RouteService{loader: loader, language: language}
}

// ComputeRoute requests a driving route between two resolved places and sums
// the distance of every leg.
func (s *RouteService) ComputeRoute(ctx context.Context, origin, destination Place) (Route, error) {
	client, err := s.loader.Client(ctx)
	if err != nil {
		return Route{}, err
	}

	r := &maps.DirectionsRequest{
		Origin:      waypoint(origin),
		Destination: waypoint(destination),
		Mode:        maps.TravelModeDriving,
		Language:    s.language,
	}

	routes, _, err := client.Directions(ctx, r)
	if err != nil {
		return Route{}, fmt.Errorf("directions: %w", classify(err, ErrNoRoute))
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Route{}, ErrNoRoute
	}

	route := routes[0]
	out := Route{Polyline: route.OverviewPolyline.Points}
	for _, leg := range route.Legs {
		if leg == nil {
			continue
		}
		out.DistanceMeters += leg.Distance.Meters
		out.Legs = append(out.Legs, Leg{
			StartAddress:   leg.StartAddress,
			EndAddress:     leg.EndAddress,
			DistanceMeters: leg.Distance.Meters,
			DurationSec:    int(leg.Duration.Seconds()),
		})
	}
	return out, nil
}

// waypoint prefers the place id so the route runs between the confirmed places
// rather than a re-geocoded string.
func waypoint(p Place) string {
	if p.PlaceID != "" {
		return "place_id:" + p.PlaceID
	}
	return fmt.Sprintf("%f,%f", p.Location.Lat, p.Location.Lng)
}

func latLng(l maps.LatLng) types.Point {
	return types.Point{Lat: l.Lat, Lng: l.Lng}
}
