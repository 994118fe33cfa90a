package response

import (
	"time"

	"raffle-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type RaffleResponse struct {
	ID             uuid.UUID  `json:"id"`
	TemplateID     *uuid.UUID `json:"templateId,omitempty"`
	Name           string     `json:"name"`
	Capacity       int        `json:"capacity"`
	SoldCount      int        `json:"soldCount"`
	ExtrasSold     int        `json:"extrasSold"`
	UnitPriceCents int64      `json:"unitPriceCents"`
	State          string     `json:"state"`
	Progress       int        `json:"progress"`
	LockedAt       *time.Time `json:"lockedAt,omitempty"`
	DrawDeadline   *time.Time `json:"drawDeadline,omitempty"`
	WinningNumber  *int       `json:"winningNumber,omitempty"`
	WinnerUserID   *uuid.UUID `json:"winnerUserId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func FromRaffleView(rm *queries.RaffleView) *RaffleResponse {
	return &RaffleResponse{
		ID:             rm.ID,
		TemplateID:     rm.TemplateID,
		Name:           rm.Name,
		Capacity:       rm.Capacity,
		SoldCount:      rm.SoldCount,
		ExtrasSold:     rm.ExtrasSold,
		UnitPriceCents: rm.UnitPriceCents,
		State:          rm.State,
		Progress:       rm.Progress,
		LockedAt:       rm.LockedAt,
		DrawDeadline:   rm.DrawDeadline,
		WinningNumber:  rm.WinningNumber,
		WinnerUserID:   rm.WinnerUserID,
		CreatedAt:      rm.CreatedAt,
		UpdatedAt:      rm.UpdatedAt,
	}
}
