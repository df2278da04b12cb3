// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toptransfer/internal/http/handlers"
	"toptransfer/internal/http/middleware"
	"toptransfer/internal/modules/booking"
	"toptransfer/internal/modules/geolocation"
	"toptransfer/internal/modules/payment"
)

type ServerDeps struct {
	Booking    *booking.Service
	Payment    *payment.Service
	IPLocator  *geolocation.IPLocator
	Public     handlers.PublicConfig
	Logger     *zap.Logger
	RatePerMin int
	Production bool
	// TrustedProxies may set X-Forwarded-For; empty trusts none.
	TrustedProxies []string
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Server{deps: deps}
}

func (s *Server) Routes() http.Handler {
	if s.deps.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if err := r.SetTrustedProxies(s.deps.TrustedProxies); err != nil {
		s.deps.Logger.Warn("invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(s.deps.Logger),
		middleware.Logging(s.deps.Logger),
		middleware.CORS(),
		middleware.Language(),
		middleware.BodyLimit(middleware.DefaultBodyLimit),
		middleware.RateLimit(s.deps.RatePerMin, s.deps.Logger),
	)

	api := r.Group("/api")
	api.GET("/health", handlers.Health)
	api.GET("/config", handlers.NewConfigHandler(s.deps.Public).Get)

	paymentHandler := handlers.NewPaymentHandler(s.deps.Payment)
	api.POST("/create-payment-intent", paymentHandler.CreateIntent)

	placesHandler := handlers.NewPlacesHandler(s.deps.Booking)
	api.GET("/places/autocomplete", placesHandler.Autocomplete)

	bookingHandler := handlers.NewBookingHandler(s.deps.Booking)
	locationHandler := handlers.NewLocationHandler(s.deps.Booking, s.deps.IPLocator)
	bookings := api.Group("/bookings")
	bookings.POST("", bookingHandler.Create)
	bookings.GET("/:id", bookingHandler.Get)
	bookings.PATCH("/:id", bookingHandler.Edit)
	bookings.DELETE("/:id", bookingHandler.Discard)
	bookings.POST("/:id/places/:field", bookingHandler.SelectPlace)
	bookings.POST("/:id/route", bookingHandler.CalculateRoute)
	bookings.POST("/:id/location", locationHandler.Locate)
	bookings.POST("/:id/submit", bookingHandler.Submit)
	bookings.POST("/:id/payment/confirm", bookingHandler.ConfirmPayment)
	bookings.POST("/:id/payment/cancel", bookingHandler.CancelPayment)
	bookings.POST("/:id/notify", bookingHandler.RetryNotification)

	return r
}
