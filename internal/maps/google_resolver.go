package maps

import (
	"context"

	"toptransfer/internal/types"
)

// GoogleResolver implements Resolver on top of Google Maps Platform.
type GoogleResolver struct {
	places  *PlacesService
	routes  *RouteService
	geocode *GeocodeService
}

func NewGoogleResolver(loader *Loader, country, language string) *GoogleResolver {
	return &GoogleResolver{
		places:  NewPlacesService(loader, country, language),
		routes:  NewRouteService(loader, language),
		geocode: NewGeocodeService(loader, language),
	}
}

func (g *GoogleResolver) Suggest(ctx context.Context, input, session string) ([]Suggestion, error) {
	return g.places.Suggest(ctx, input, session)
}

func (g *GoogleResolver) ResolvePlace(ctx context.Context, placeID, session string) (Place, error) {
	return g.places.ResolvePlace(ctx, placeID, session)
}

func (g *GoogleResolver) ComputeRoute(ctx context.Context, origin, destination Place) (Route, error) {
	return g.routes.ComputeRoute(ctx, origin, destination)
}

func (g *GoogleResolver) ReverseGeocode(ctx context.Context, p types.Point) (Place, error) {
	return g.geocode.ReverseGeocode(ctx, p)
}
