// README: Base handler utilities (JSON helpers, error mapping, localized messages).
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"toptransfer/internal/http/middleware"
	"toptransfer/internal/i18n"
	"toptransfer/internal/maps"
	"toptransfer/internal/modules/booking"
	"toptransfer/internal/modules/geolocation"
	"toptransfer/internal/modules/payment"
)

type errorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeLocalized(c *gin.Context, status int, code string, key i18n.Key, detail string) {
	writeJSON(c, status, errorResponse{
		Error:  i18n.T(middleware.LanguageFrom(c), key),
		Code:   code,
		Detail: detail,
	})
}

// bindOptionalJSON accepts an empty body as the zero value.
func bindOptionalJSON(c *gin.Context, v any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeLocalized(c, http.StatusRequestEntityTooLarge, "body_too_large", i18n.InvalidRequest, "")
		return
	}
	writeLocalized(c, http.StatusBadRequest, "invalid_request", i18n.InvalidRequest, "")
}

// writeBookingError maps workflow errors onto status, stable code and the
// message shown to the user.
func writeBookingError(c *gin.Context, err error) {
	_ = c.Error(err)

	var declined *payment.DeclinedError
	switch {
	case errors.Is(err, booking.ErrBadRequest), errors.Is(err, maps.ErrEmptyInput):
		writeLocalized(c, http.StatusBadRequest, "invalid_request", i18n.InvalidRequest, "")
	case errors.Is(err, booking.ErrInvalidEmail):
		writeLocalized(c, http.StatusBadRequest, "invalid_email", i18n.InvalidEmail, "")
	case errors.Is(err, booking.ErrNoPrice):
		writeLocalized(c, http.StatusBadRequest, "no_price", i18n.NoPrice, "")
	case errors.Is(err, booking.ErrUnresolvedAddress), errors.Is(err, maps.ErrNoResult):
		writeLocalized(c, http.StatusUnprocessableEntity, "unresolved_address", i18n.SelectSuggestions, "")
	case errors.Is(err, maps.ErrNoRoute):
		writeLocalized(c, http.StatusUnprocessableEntity, "no_route", i18n.RouteFailed, "")
	case errors.Is(err, maps.ErrUnavailable), errors.Is(err, maps.ErrMissingAPIKey):
		writeLocalized(c, http.StatusBadGateway, "maps_unavailable", i18n.MapsUnavailable, "")
	case errors.Is(err, geolocation.ErrUnsupported):
		writeLocalized(c, http.StatusUnprocessableEntity, "geo_unsupported", i18n.GeoUnsupported, "")
	case errors.Is(err, geolocation.ErrPermissionDenied):
		writeLocalized(c, http.StatusUnprocessableEntity, "geo_permission_denied", i18n.GeoPermissionDenied, "")
	case errors.Is(err, geolocation.ErrTimeout):
		writeLocalized(c, http.StatusGatewayTimeout, "geo_timeout", i18n.GeoTimeout, "")
	case errors.Is(err, geolocation.ErrNoAddress):
		writeLocalized(c, http.StatusUnprocessableEntity, "geo_no_address", i18n.GeoNoAddress, "")
	case errors.Is(err, geolocation.ErrGeocoding):
		writeLocalized(c, http.StatusBadGateway, "geo_geocoding", i18n.GeoGeocoding, "")
	case errors.Is(err, booking.ErrNotFound):
		writeLocalized(c, http.StatusNotFound, "not_found", i18n.SessionExpired, "")
	case errors.Is(err, booking.ErrInvalidState), errors.Is(err, payment.ErrNoSession):
		writeLocalized(c, http.StatusConflict, "invalid_state", i18n.InvalidStep, "")
	case errors.Is(err, booking.ErrConflict):
		writeLocalized(c, http.StatusConflict, "conflict", i18n.Conflict, "")
	case errors.Is(err, booking.ErrCheckoutDisabled), errors.Is(err, payment.ErrNotConfigured):
		writeLocalized(c, http.StatusServiceUnavailable, "checkout_disabled", i18n.CheckoutDisabled, "")
	case errors.Is(err, payment.ErrAuthorization):
		writeLocalized(c, http.StatusBadGateway, "payment_init_failed", i18n.PaymentInitFailed, "")
	case errors.As(err, &declined):
		writeLocalized(c, http.StatusPaymentRequired, "payment_declined", i18n.PaymentDeclined, declined.Message)
	case errors.Is(err, payment.ErrNotSucceeded):
		writeLocalized(c, http.StatusPaymentRequired, "payment_declined", i18n.PaymentDeclined, "")
	case errors.Is(err, booking.ErrNotificationFailed):
		writeLocalized(c, http.StatusBadGateway, "email_failed", i18n.EmailFailed, "")
	case errors.Is(err, context.DeadlineExceeded):
		writeLocalized(c, http.StatusGatewayTimeout, "timeout", i18n.BookingError, "")
	default:
		writeLocalized(c, http.StatusInternalServerError, "internal", i18n.BookingError, "")
	}
}
