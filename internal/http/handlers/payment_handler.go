// README: Payment endpoint handlers: create-payment-intent and health.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"toptransfer/internal/modules/payment"
)

const (
	msgInvalidAmount  = "Amount must be a positive number (in euros)."
	msgInternalServer = "Internal server error"
)

type PaymentHandler struct {
	payment *payment.Service
}

func NewPaymentHandler(svc *payment.Service) *PaymentHandler {
	return &PaymentHandler{payment: svc}
}

type createIntentReq struct {
	Amount any `json:"amount"`
}

// CreateIntent takes {amount} in euros and answers {clientSecret}, or
// {error} on failure.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req createIntentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, http.StatusRequestEntityTooLarge, "request entity too large")
			return
		}
		writeError(c, http.StatusBadRequest, msgInvalidAmount)
		return
	}
	amount, ok := req.Amount.(float64)
	if !ok {
		writeError(c, http.StatusBadRequest, msgInvalidAmount)
		return
	}

	intent, err := h.payment.CreateIntent(c.Request.Context(), amount)
	if err != nil {
		_ = c.Error(err)
		var perr *payment.ProviderError
		switch {
		case errors.Is(err, payment.ErrInvalidAmount):
			writeError(c, http.StatusBadRequest, msgInvalidAmount)
		case errors.As(err, &perr) && perr.Message != "":
			writeError(c, http.StatusInternalServerError, perr.Message)
		default:
			writeError(c, http.StatusInternalServerError, msgInternalServer)
		}
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"clientSecret": intent.ClientSecret})
}

func Health(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"ok": true})
}
