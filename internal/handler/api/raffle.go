package api

import (
	"errors"
	"net/http"

	reqdto "raffle-engine/internal/handler/dto/request"
	resdto "raffle-engine/internal/handler/dto/response"
	"raffle-engine/internal/handler/httperr"
	"raffle-engine/internal/infra"
	"raffle-engine/internal/usecase/commands"
	"raffle-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RaffleHandler struct {
	raffleQueries queries.RaffleQueries
	drawQueries   queries.DrawQueries
	purchases     commands.PurchaseCommands
}

func NewRaffleHandler(raffleQueries queries.RaffleQueries, drawQueries queries.DrawQueries, purchases commands.PurchaseCommands) *RaffleHandler {
	return &RaffleHandler{
		raffleQueries: raffleQueries,
		drawQueries:   drawQueries,
		purchases:     purchases,
	}
}

func (h *RaffleHandler) ListActive(c *gin.Context) {
	views, err := h.raffleQueries.ListActive(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}

	response := make([]*resdto.RaffleResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromRaffleView(v)
	}
	c.JSON(http.StatusOK, response)
}

func (h *RaffleHandler) GetRaffle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	view, err := h.raffleQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromRaffleView(view))
}

func (h *RaffleHandler) GetDrawRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	view, err := h.drawQueries.RecordByRaffle(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Draw record not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromDrawRecordView(view))
}

func (h *RaffleHandler) CreatePurchase(c *gin.Context) {
	raffleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	var req reqdto.CreatePurchaseRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	receipt, err := h.purchases.CreatePurchase(c.Request.Context(), raffleID, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrRaffleNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
		case errors.Is(err, commands.ErrRaffleLockedOut):
			httperr.AbortWithError(c, http.StatusConflict, err, "Purchases are closed", nil)
		case errors.Is(err, commands.ErrRaffleClosed):
			httperr.AbortWithError(c, http.StatusConflict, err, "Raffle is closed", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromPurchaseReceipt(receipt))
}
