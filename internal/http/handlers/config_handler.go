// README: Public frontend configuration.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"toptransfer/internal/http/middleware"
	"toptransfer/internal/i18n"
)

type PublicConfig struct {
	StripePublishableKey string
	MapsCountry          string
}

type ConfigHandler struct {
	cfg PublicConfig
}

func NewConfigHandler(cfg PublicConfig) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

type configView struct {
	CheckoutEnabled      bool     `json:"checkout_enabled"`
	StripePublishableKey string   `json:"stripe_publishable_key,omitempty"`
	MapsCountry          string   `json:"maps_country"`
	Languages            []string `json:"languages"`
	DefaultLanguage      string   `json:"default_language"`
	Error                string   `json:"error,omitempty"`
}

func (h *ConfigHandler) Get(c *gin.Context) {
	v := configView{
		CheckoutEnabled:      h.cfg.StripePublishableKey != "",
		StripePublishableKey: h.cfg.StripePublishableKey,
		MapsCountry:          h.cfg.MapsCountry,
		Languages:            []string{"fr", "en", "ru"},
		DefaultLanguage:      i18n.Lang(i18n.Default),
	}
	if !v.CheckoutEnabled {
		v.Error = i18n.T(middleware.LanguageFrom(c), i18n.CheckoutDisabled)
	}
	writeJSON(c, http.StatusOK, v)
}
