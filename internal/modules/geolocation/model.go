// README: Device position sources and the errors a location lookup can end with.
package geolocation

import (
	"context"
	"errors"

	"toptransfer/internal/maps"
	"toptransfer/internal/types"
)

var (
	ErrUnsupported      = errors.New("geolocation is not supported")
	ErrPermissionDenied = errors.New("geolocation permission denied or position unavailable")
	ErrTimeout          = errors.New("geolocation request timed out")
	ErrNoAddress        = errors.New("no address found for position")
	ErrGeocoding        = errors.New("reverse geocoding failed")
)

// PositionSource reports where the user currently is.
type PositionSource interface {
	CurrentPosition(ctx context.Context) (types.Point, error)
}

// Fix is a located pickup: the address plus map hints (recenter, zoom, marker).
type Fix struct {
	Place  maps.Place  `json:"place"`
	Center types.Point `json:"center"`
	Zoom   int         `json:"zoom"`
	Marker string      `json:"marker"`
}

// Browser-reported failure codes, named after the Geolocation API error codes.
const (
	CodeUnsupported      = "unsupported"
	CodePermissionDenied = "permission_denied"
	CodeUnavailable      = "position_unavailable"
	CodeTimeout          = "timeout"
)

// StaticSource is a position the browser already obtained.
type StaticSource types.Point

func (s StaticSource) CurrentPosition(ctx context.Context) (types.Point, error) {
	p := types.Point(s)
	if !p.Valid() {
		return types.Point{}, ErrPermissionDenied
	}
	return p, nil
}

// FailedSource replays an error the browser reported.
type FailedSource string

func (f FailedSource) CurrentPosition(ctx context.Context) (types.Point, error) {
	switch string(f) {
	case CodeUnsupported:
		return types.Point{}, ErrUnsupported
	default:
		return types.Point{}, ErrPermissionDenied
	}
}
