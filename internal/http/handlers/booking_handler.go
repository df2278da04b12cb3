// README: Booking draft handlers: create, edit, route, checkout and notification retry.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"toptransfer/internal/http/middleware"
	"toptransfer/internal/i18n"
	"toptransfer/internal/modules/booking"
	"toptransfer/internal/modules/payment"
	"toptransfer/internal/types"
)

type BookingHandler struct {
	booking *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{booking: svc}
}

type confirmationView struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type bookingView struct {
	*booking.Draft
	Confirmation *confirmationView `json:"confirmation,omitempty"`
}

// newBookingView is the response shape of every booking route.
func newBookingView(c *gin.Context, d *booking.Draft) bookingView {
	v := bookingView{Draft: d}
	if d.State == booking.StateCompleted {
		tag := middleware.LanguageFrom(c)
		v.Confirmation = &confirmationView{
			Title:   i18n.T(tag, i18n.BookingConfirmed),
			Message: i18n.T(tag, i18n.ConfirmationMessage),
		}
	}
	return v
}

func draftID(c *gin.Context) types.ID {
	return types.ID(c.Param("id"))
}

func (h *BookingHandler) Create(c *gin.Context) {
	d, err := h.booking.Create(c.Request.Context(), i18n.Lang(middleware.LanguageFrom(c)))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, newBookingView(c, d))
}

func (h *BookingHandler) Get(c *gin.Context) {
	d, err := h.booking.Get(c.Request.Context(), draftID(c))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newBookingView(c, d))
}

func (h *BookingHandler) Discard(c *gin.Context) {
	if err := h.booking.Discard(c.Request.Context(), draftID(c)); err != nil {
		writeBookingError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type editReq struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Date         *string `json:"date"`
	Time         *string `json:"time"`
	Notes        *string `json:"notes"`
	FlightNumber *string `json:"flight_number"`
	Pickup       *string `json:"pickup"`
	Dropoff      *string `json:"dropoff"`
	Mode         *string `json:"mode"`
	Hours        *int    `json:"hours"`
	Language     *string `json:"language"`
}

func (h *BookingHandler) Edit(c *gin.Context) {
	var req editReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	d, err := h.booking.Edit(c.Request.Context(), draftID(c), booking.Edit{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Date:         req.Date,
		Time:         req.Time,
		Notes:        req.Notes,
		FlightNumber: req.FlightNumber,
		Pickup:       req.Pickup,
		Dropoff:      req.Dropoff,
		Mode:         req.Mode,
		Hours:        req.Hours,
		Language:     req.Language,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newBookingView(c, d))
}

type selectPlaceReq struct {
	PlaceID string `json:"place_id"`
	Session string `json:"session"`
}

func (h *BookingHandler) SelectPlace(c *gin.Context) {
	field, ok := booking.ParseField(c.Param("field"))
	if !ok {
		writeBookingError(c, booking.ErrBadRequest)
		return
	}
	var req selectPlaceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	d, err := h.booking.SelectPlace(c.Request.Context(), booking.SelectPlaceCommand{
		DraftID: draftID(c),
		Field:   field,
		PlaceID: req.PlaceID,
		Session: req.Session,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newBookingView(c, d))
}

func (h *BookingHandler) CalculateRoute(c *gin.Context) {
	d, err := h.booking.CalculateRoute(c.Request.Context(), draftID(c))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newBookingView(c, d))
}

func (h *BookingHandler) Submit(c *gin.Context) {
	d, err := h.booking.Submit(c.Request.Context(), draftID(c))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newBookingView(c, d))
}

func (h *BookingHandler) CancelPayment(c *gin.Context) {
	d, err := h.booking.CancelPayment(c.Request.Context(), draftID(c))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newBookingView(c, d))
}

type confirmPaymentReq struct {
	PaymentMethodID string `json:"payment_method_id"`
}

func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	var req confirmPaymentReq
	if err := bindOptionalJSON(c, &req); err != nil {
		writeBindError(c, err)
		return
	}
	d, err := h.booking.ConfirmPayment(c.Request.Context(), booking.ConfirmPaymentCommand{
		DraftID: draftID(c),
		Card:    payment.Card{PaymentMethodID: req.PaymentMethodID},
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newBookingView(c, d))
}

func (h *BookingHandler) RetryNotification(c *gin.Context) {
	d, err := h.booking.RetryNotification(c.Request.Context(), draftID(c))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newBookingView(c, d))
}
