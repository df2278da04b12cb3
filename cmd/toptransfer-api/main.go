// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"toptransfer/internal/config"
	httptransport "toptransfer/internal/http"
	"toptransfer/internal/http/handlers"
	"toptransfer/internal/infra"
	"toptransfer/internal/maps"
	"toptransfer/internal/modules/booking"
	"toptransfer/internal/modules/geolocation"
	"toptransfer/internal/modules/ledger"
	"toptransfer/internal/modules/notify"
	"toptransfer/internal/modules/payment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.NewLogger(cfg.IsProduction())
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateway, err := payment.NewStripeGateway(cfg.Stripe.SecretKey, nil)
	if err != nil {
		logger.Fatal("payment gateway", zap.Error(err))
	}
	paymentSvc := payment.NewService(gateway, logger)

	var authorizer payment.Authorizer = payment.NewLocalAuthorizer(paymentSvc)
	if cfg.Payment.APIBaseURL != "" {
		authorizer = payment.NewHTTPAuthorizer(cfg.Payment.APIBaseURL, nil)
	}
	orchestrator := payment.NewOrchestrator(authorizer, gateway, logger)

	deps := booking.Deps{
		Payments: orchestrator,
		Notifier: notify.NewDispatcher(newSender(cfg, logger), notify.Recipient{
			Name:  cfg.Email.OperatorName,
			Email: cfg.Email.OperatorEmail,
		}, logger),
		Logger: logger,
	}

	var mapsLoader *maps.Loader
	if cfg.Maps.APIKey != "" {
		mapsLoader = maps.NewLoader(cfg.Maps.APIKey, 0)
		defer mapsLoader.Close()
		resolver := maps.NewGoogleResolver(mapsLoader, cfg.Maps.Country, cfg.Maps.Language)
		deps.Resolver = resolver
		deps.Locator = geolocation.NewService(resolver, cfg.Geo.RequestTimeout, cfg.Geo.OverallTimeout, logger)
	} else {
		logger.Warn("GOOGLE_MAPS_API_KEY is not set; address search and routing are disabled")
	}

	var recorder ledger.Recorder = ledger.Nop{}
	if cfg.DB.DSN != "" {
		db, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			logger.Fatal("database", zap.Error(err))
		}
		defer db.Close()
		ledgerStore := ledger.NewStore(db)
		if err := ledgerStore.EnsureSchema(ctx); err != nil {
			logger.Fatal("ledger schema", zap.Error(err))
		}
		recorder = ledgerStore
	}
	reportUnacknowledged(ctx, recorder, logger)
	deps.Ledger = recorder

	var drafts booking.Store = booking.NewMemoryStore(cfg.Drafts.TTL)
	if cfg.Redis.Addr != "" {
		redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		defer redisClient.Close()
		drafts = booking.NewRedisStore(redisClient, cfg.Drafts.TTL)
	}

	if !cfg.CheckoutEnabled() {
		logger.Warn("STRIPE_PUBLISHABLE_KEY is not set; checkout is disabled")
	}
	bookingSvc := booking.NewService(drafts, deps, cfg.CheckoutEnabled())

	var ipLocator *geolocation.IPLocator
	if cfg.Geo.IPLookup {
		ipLocator = geolocation.NewIPLocator("", nil)
	}

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Booking:   bookingSvc,
		Payment:   paymentSvc,
		IPLocator: ipLocator,
		Public: handlers.PublicConfig{
			StripePublishableKey: cfg.Stripe.PublishableKey,
			MapsCountry:          cfg.Maps.Country,
		},
		Logger:         logger,
		RatePerMin:     cfg.HTTP.RatePerMin,
		Production:     cfg.IsProduction(),
		TrustedProxies: cfg.HTTP.TrustedProxies,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", cfg.HTTP.Addr), zap.String("env", cfg.Env))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server", zap.Error(err))
	}
}

func newSender(cfg config.Config, logger *zap.Logger) notify.Sender {
	switch cfg.Email.Transport {
	case config.TransportSMTP:
		if cfg.Email.SMTP.Host == "" {
			logger.Warn("SMTP_HOST is not set; booking emails are disabled")
			return nil
		}
		return notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.Email.SMTP.Host,
			Port:     cfg.Email.SMTP.Port,
			Username: cfg.Email.SMTP.Username,
			Password: cfg.Email.SMTP.Password,
			From:     cfg.Email.From,
		})
	default:
		js := cfg.Email.EmailJS
		if js.ServiceID == "" || js.TemplateID == "" || js.PublicKey == "" {
			logger.Warn("EmailJS is not configured; booking emails are disabled")
			return nil
		}
		return notify.NewEmailJSSender(notify.EmailJSConfig{
			ServiceID:  js.ServiceID,
			TemplateID: js.TemplateID,
			PublicKey:  js.PublicKey,
			PrivateKey: js.PrivateKey,
		}, nil)
	}
}

// reportUnacknowledged surfaces charges whose operator email never went out.
func reportUnacknowledged(ctx context.Context, store ledger.Recorder, logger *zap.Logger) {
	entries, err := store.Unacknowledged(ctx)
	if err != nil {
		logger.Warn("ledger scan failed", zap.Error(err))
		return
	}
	for _, e := range entries {
		logger.Warn("charged booking without operator notification",
			zap.String("booking_id", string(e.BookingID)),
			zap.String("payment_intent_id", e.PaymentIntentID),
			zap.String("amount", e.Amount.String()),
			zap.String("notify_error", e.NotifyError))
	}
}
