// README: Locates the user and reverse-geocodes the position into a pickup address.
package geolocation

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"toptransfer/internal/maps"
	"toptransfer/internal/types"
)

const (
	DefaultRequestTimeout = 5 * time.Second
	DefaultOverallTimeout = 10 * time.Second
	fixZoom               = 15
	fixMarker             = "Your Location"
)

type Geocoder interface {
	ReverseGeocode(ctx context.Context, p types.Point) (maps.Place, error)
}

type Service struct {
	geocoder       Geocoder
	requestTimeout time.Duration
	overallTimeout time.Duration
	logger         *zap.Logger
}

func NewService(geocoder Geocoder, requestTimeout, overallTimeout time.Duration, logger *zap.Logger) *Service {
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}
	if overallTimeout <= 0 {
		overallTimeout = DefaultOverallTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		geocoder:       geocoder,
		requestTimeout: requestTimeout,
		overallTimeout: overallTimeout,
		logger:         logger,
	}
}

type positionResult struct {
	point types.Point
	err   error
}

// Locate obtains a position from src and resolves it to an address. The
// source gets requestTimeout; the whole attempt races overallTimeout and
// whichever fires first aborts. Failures are returned once, never retried.
func (s *Service) Locate(ctx context.Context, src PositionSource) (Fix, error) {
	if src == nil {
		return Fix{}, ErrUnsupported
	}

	raceCtx, cancel := context.WithTimeout(ctx, s.overallTimeout)
	defer cancel()

	ch := make(chan positionResult, 1)
	go func() {
		reqCtx, reqCancel := context.WithTimeout(raceCtx, s.requestTimeout)
		defer reqCancel()
		p, err := src.CurrentPosition(reqCtx)
		if err != nil && reqCtx.Err() != nil && raceCtx.Err() == nil {
			// the device gave up before the overall deadline
			err = ErrPermissionDenied
		}
		ch <- positionResult{point: p, err: err}
	}()

	var pos types.Point
	select {
	case <-raceCtx.Done():
		if ctx.Err() != nil {
			return Fix{}, ctx.Err()
		}
		return Fix{}, ErrTimeout
	case res := <-ch:
		if res.err != nil {
			return Fix{}, s.positionError(res.err)
		}
		pos = res.point
	}

	place, err := s.geocoder.ReverseGeocode(ctx, pos)
	switch {
	case errors.Is(err, maps.ErrNoResult):
		return Fix{}, ErrNoAddress
	case err != nil:
		s.logger.Warn("reverse geocoding failed", zap.Error(err))
		return Fix{}, errors.Join(ErrGeocoding, err)
	}
	if place.Location == (types.Point{}) {
		place.Location = pos
	}

	return Fix{Place: place, Center: pos, Zoom: fixZoom, Marker: fixMarker}, nil
}

func (s *Service) positionError(err error) error {
	switch {
	case errors.Is(err, ErrUnsupported), errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrTimeout):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return ErrPermissionDenied
	}
	s.logger.Debug("position source failed", zap.Error(err))
	return errors.Join(ErrPermissionDenied, err)
}
