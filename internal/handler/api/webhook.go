package api

import (
	"errors"
	"net/http"

	reqdto "raffle-engine/internal/handler/dto/request"
	resdto "raffle-engine/internal/handler/dto/response"
	"raffle-engine/internal/handler/httperr"
	"raffle-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives payment confirmations. Deliveries are at least
// once, so a replayed purchase id returns the recorded outcome with 200
// instead of an error; the gateway must never retry forever.
type WebhookHandler struct {
	allocation commands.AllocationCommands
}

func NewWebhookHandler(allocation commands.AllocationCommands) *WebhookHandler {
	return &WebhookHandler{allocation: allocation}
}

func (h *WebhookHandler) PaymentConfirmed(c *gin.Context) {
	var req reqdto.PaymentWebhookRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	result, err := h.allocation.Allocate(c.Request.Context(), req.PurchaseID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrPurchaseNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Purchase not found", nil)
		case errors.Is(err, commands.ErrRaffleNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromAllocationResult(result))
}
