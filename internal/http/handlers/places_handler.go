// README: Address autocomplete proxy.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"toptransfer/internal/maps"
	"toptransfer/internal/modules/booking"
)

type PlacesHandler struct {
	booking *booking.Service
}

func NewPlacesHandler(svc *booking.Service) *PlacesHandler {
	return &PlacesHandler{booking: svc}
}

func (h *PlacesHandler) Autocomplete(c *gin.Context) {
	suggestions, err := h.booking.Suggest(c.Request.Context(), c.Query("input"), c.Query("session"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	if suggestions == nil {
		suggestions = []maps.Suggestion{}
	}
	writeJSON(c, http.StatusOK, gin.H{"suggestions": suggestions})
}
