package maps

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"googlemaps.github.io/maps"
)

// PlacesService handles interactions with the Google Places API.
type PlacesService struct {
	loader   *Loader
	country  string
	language string
}

// NewPlacesService restricts suggestions to one country (ISO 3166-1 alpha-2).
func NewPlacesService(loader *Loader, country, language string) *PlacesService {
	return &PlacesService{loader: loader, country: strings.ToLower(country), language: language}
}

// Suggest returns address predictions for free-text input.
func (s *PlacesService) Suggest(ctx context.Context, input, session string) ([]Suggestion, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}
	client, err := s.loader.Client(ctx)
	if err != nil {
		return nil, err
	}

	r := &maps.PlaceAutocompleteRequest{
		Input:        input,
		Language:     s.language,
		SessionToken: sessionToken(session),
	}
	if s.country != "" {
		r.Components = map[maps.Component][]string{maps.ComponentCountry: {s.country}}
	}

	resp, err := client.PlaceAutocomplete(ctx, r)
	if err != nil {
		if err := classify(err, nil); err != nil {
			return nil, fmt.Errorf("places autocomplete: %w", err)
		}
		return nil, nil
	}

	out := make([]Suggestion, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, Suggestion{PlaceID: p.PlaceID, Description: p.Description})
	}
	return out, nil
}

// ResolvePlace fetches the formatted address and geometry of a picked suggestion.
func (s *PlacesService) ResolvePlace(ctx context.Context, placeID, session string) (Place, error) {
	if strings.TrimSpace(placeID) == "" {
		return Place{}, ErrEmptyInput
	}
	client, err := s.loader.Client(ctx)
	if err != nil {
		return Place{}, err
	}

	res, err := client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID:  placeID,
		Language: s.language,
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskFormattedAddress,
			maps.PlaceDetailsFieldMaskGeometry,
			maps.PlaceDetailsFieldMaskPlaceID,
		},
		SessionToken: sessionToken(session),
	})
	if err != nil {
		return Place{}, fmt.Errorf("place details: %w", classify(err, ErrNoResult))
	}

	id := res.PlaceID
	if id == "" {
		id = placeID
	}
	return Place{
		PlaceID:  id,
		Address:  res.FormattedAddress,
		Location: latLng(res.Geometry.Location),
	}, nil
}

// sessionToken groups autocomplete and details calls for billing. Callers
// that send no (or a malformed) token get a fresh one.
func sessionToken(v string) maps.PlaceAutocompleteSessionToken {
	if u, err := uuid.Parse(v); err == nil {
		return maps.PlaceAutocompleteSessionToken(u)
	}
	return maps.NewPlaceAutocompleteSessionToken()
}
