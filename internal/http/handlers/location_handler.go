// README: Pickup prefill from the user's position.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"toptransfer/internal/modules/booking"
	"toptransfer/internal/modules/geolocation"
	"toptransfer/internal/types"
)

type LocationHandler struct {
	booking *booking.Service
	ip      *geolocation.IPLocator
}

// NewLocationHandler takes an optional IP locator used when the browser
// sends neither a position nor an error.
func NewLocationHandler(svc *booking.Service, ip *geolocation.IPLocator) *LocationHandler {
	return &LocationHandler{booking: svc, ip: ip}
}

type locateReq struct {
	Lat   *float64 `json:"lat"`
	Lng   *float64 `json:"lng"`
	Error string   `json:"error"`
}

func (h *LocationHandler) source(c *gin.Context, req locateReq) geolocation.PositionSource {
	switch {
	case req.Error != "":
		return geolocation.FailedSource(req.Error)
	case req.Lat != nil && req.Lng != nil:
		return geolocation.StaticSource(types.Point{Lat: *req.Lat, Lng: *req.Lng})
	case h.ip != nil:
		return h.ip.Source(c.ClientIP())
	default:
		return geolocation.FailedSource(geolocation.CodeUnsupported)
	}
}

func (h *LocationHandler) Locate(c *gin.Context) {
	var req locateReq
	if err := bindOptionalJSON(c, &req); err != nil {
		writeBindError(c, err)
		return
	}
	d, fix, err := h.booking.LocatePickup(c.Request.Context(), draftID(c), h.source(c, req))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"booking": newBookingView(c, d), "fix": fix})
}
