package api

import (
	"errors"
	"net/http"

	reqdto "raffle-engine/internal/handler/dto/request"
	"raffle-engine/internal/handler/httperr"
	"raffle-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler exposes the operational surface: forcing a draw ahead of the
// sweep, editing templates and kicking off a replenishment pass.
type AdminHandler struct {
	draws     commands.DrawCommands
	replenish commands.ReplenishCommands
}

func NewAdminHandler(draws commands.DrawCommands, replenish commands.ReplenishCommands) *AdminHandler {
	return &AdminHandler{
		draws:     draws,
		replenish: replenish,
	}
}

// ForceDraw runs the same draw the sweep would, without waiting for the
// deadline. The raffle still has to be locked.
func (h *AdminHandler) ForceDraw(c *gin.Context) {
	raffleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	result, err := h.draws.RunDraw(c.Request.Context(), raffleID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrRaffleNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
		case errors.Is(err, commands.ErrRaffleNotLocked):
			httperr.AbortWithError(c, http.StatusConflict, err, "Raffle is not locked", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		}
		return
	}

	if result.Replayed {
		// Already closed; report the recorded outcome.
		c.JSON(http.StatusOK, gin.H{
			"raffleId": result.RaffleID,
			"replayed": true,
			"winner":   result.Winner,
			"reason":   result.Reason,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"raffleId":     result.RaffleID,
		"winner":       result.Winner,
		"totalNumbers": result.TotalNumbers,
		"reason":       result.Reason,
	})
}

func (h *AdminHandler) SaveTemplate(c *gin.Context) {
	var req reqdto.SaveTemplateRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	id, err := h.replenish.SaveTemplate(c.Request.Context(), req.ToParams())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidTemplate):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Template failed validation", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"templateId": id})
}

func (h *AdminHandler) Replenish(c *gin.Context) {
	if err := h.replenish.EnsureAll(c.Request.Context()); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
