// README: Config loader: .env file, optional config.yaml, then environment, with defaults.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingStripeKey = errors.New("STRIPE_SECRET_KEY is not set")

const (
	TransportEmailJS = "emailjs"
	TransportSMTP    = "smtp"
)

type EmailConfig struct {
	Transport     string
	OperatorName  string
	OperatorEmail string
	From          string
	EmailJS       struct {
		ServiceID  string
		TemplateID string
		PublicKey  string
		PrivateKey string
	}
	SMTP struct {
		Host     string
		Port     string
		Username string
		Password string
	}
}

type Config struct {
	Env  string
	HTTP struct {
		Addr       string
		RatePerMin int
		// TrustedProxies are IPs or CIDRs allowed to set X-Forwarded-For.
		TrustedProxies []string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr string
	}
	Drafts struct {
		TTL time.Duration
	}
	Stripe struct {
		SecretKey      string
		PublishableKey string
	}
	Maps struct {
		APIKey   string
		Country  string
		Language string
	}
	Geo struct {
		RequestTimeout time.Duration
		OverallTimeout time.Duration
		IPLookup       bool
	}
	Payment struct {
		// APIBaseURL points at a separate payment endpoint; empty means in-process.
		APIBaseURL string
	}
	Email EmailConfig
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) CheckoutEnabled() bool {
	return c.Stripe.PublishableKey != ""
}

// Load reads .env when present and never overrides variables already set.
func Load() (Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("TOPTRANSFER_ENV", "development")
	v.SetDefault("TOPTRANSFER_RATE_PER_MIN", 120)
	v.SetDefault("TOPTRANSFER_MAPS_COUNTRY", "fr")
	v.SetDefault("TOPTRANSFER_MAPS_LANGUAGE", "fr")
	v.SetDefault("TOPTRANSFER_DRAFT_TTL", "2h")
	v.SetDefault("TOPTRANSFER_GEO_REQUEST_TIMEOUT", "5s")
	v.SetDefault("TOPTRANSFER_GEO_OVERALL_TIMEOUT", "10s")
	v.SetDefault("TOPTRANSFER_IP_GEOLOCATION", false)
	v.SetDefault("TOPTRANSFER_EMAIL_TRANSPORT", TransportEmailJS)
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("OPERATOR_NAME", "TopTransfer")
	v.SetDefault("OPERATOR_EMAIL", "toptransfer34@gmail.com")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	cfg.Env = v.GetString("TOPTRANSFER_ENV")
	cfg.HTTP.Addr = v.GetString("TOPTRANSFER_HTTP_ADDR")
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":" + v.GetString("PORT")
	}
	cfg.HTTP.RatePerMin = v.GetInt("TOPTRANSFER_RATE_PER_MIN")
	for _, p := range strings.Split(v.GetString("TOPTRANSFER_TRUSTED_PROXIES"), ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return Config{}, fmt.Errorf("trusted proxy %q is neither an IP nor a CIDR", p)
			}
		}
		cfg.HTTP.TrustedProxies = append(cfg.HTTP.TrustedProxies, p)
	}
	cfg.DB.DSN = v.GetString("TOPTRANSFER_DB_DSN")
	cfg.Redis.Addr = v.GetString("TOPTRANSFER_REDIS_ADDR")
	cfg.Drafts.TTL = v.GetDuration("TOPTRANSFER_DRAFT_TTL")

	cfg.Stripe.SecretKey = v.GetString("STRIPE_SECRET_KEY")
	cfg.Stripe.PublishableKey = v.GetString("STRIPE_PUBLISHABLE_KEY")

	cfg.Maps.APIKey = v.GetString("GOOGLE_MAPS_API_KEY")
	cfg.Maps.Country = strings.ToLower(v.GetString("TOPTRANSFER_MAPS_COUNTRY"))
	cfg.Maps.Language = v.GetString("TOPTRANSFER_MAPS_LANGUAGE")

	cfg.Geo.RequestTimeout = v.GetDuration("TOPTRANSFER_GEO_REQUEST_TIMEOUT")
	cfg.Geo.OverallTimeout = v.GetDuration("TOPTRANSFER_GEO_OVERALL_TIMEOUT")
	cfg.Geo.IPLookup = v.GetBool("TOPTRANSFER_IP_GEOLOCATION")

	cfg.Payment.APIBaseURL = strings.TrimRight(v.GetString("API_BASE_URL"), "/")

	cfg.Email.Transport = strings.ToLower(v.GetString("TOPTRANSFER_EMAIL_TRANSPORT"))
	cfg.Email.OperatorName = v.GetString("OPERATOR_NAME")
	cfg.Email.OperatorEmail = v.GetString("OPERATOR_EMAIL")
	cfg.Email.From = v.GetString("EMAIL_FROM")
	cfg.Email.EmailJS.ServiceID = v.GetString("EMAILJS_SERVICE_ID")
	cfg.Email.EmailJS.TemplateID = v.GetString("EMAILJS_TEMPLATE_ID")
	cfg.Email.EmailJS.PublicKey = v.GetString("EMAILJS_PUBLIC_KEY")
	cfg.Email.EmailJS.PrivateKey = v.GetString("EMAILJS_PRIVATE_KEY")
	cfg.Email.SMTP.Host = v.GetString("SMTP_HOST")
	cfg.Email.SMTP.Port = v.GetString("SMTP_PORT")
	cfg.Email.SMTP.Username = v.GetString("SMTP_USERNAME")
	cfg.Email.SMTP.Password = v.GetString("SMTP_PASSWORD")

	if cfg.Email.Transport != TransportEmailJS && cfg.Email.Transport != TransportSMTP {
		return Config{}, fmt.Errorf("unknown email transport %q", cfg.Email.Transport)
	}
	if cfg.Geo.RequestTimeout <= 0 || cfg.Geo.OverallTimeout <= 0 {
		return Config{}, errors.New("geolocation timeouts must be positive")
	}
	// The payment endpoint refuses to start without its secret.
	if cfg.Stripe.SecretKey == "" {
		return cfg, ErrMissingStripeKey
	}
	return cfg, nil
}
