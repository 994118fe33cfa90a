package response

import (
	"time"

	"raffle-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

// DrawRecordResponse publishes everything needed to recompute the draw:
// hash the seed, take the first 60 bits, mod the total and add one.
type DrawRecordResponse struct {
	ID                   uuid.UUID  `json:"id"`
	RaffleID             uuid.UUID  `json:"raffleId"`
	WinningNumber        *int       `json:"winningNumber,omitempty"`
	WinnerUserID         *uuid.UUID `json:"winnerUserId,omitempty"`
	Seed                 string     `json:"seed"`
	TotalNumbers         int        `json:"totalNumbers"`
	ParticipantCount     int        `json:"participantCount"`
	TotalCollectedCents  int64      `json:"totalCollectedCents"`
	PrizeCostCents       int64      `json:"prizeCostCents"`
	EstimatedProfitCents int64      `json:"estimatedProfitCents"`
	Reason               string     `json:"reason,omitempty"`
	DrawnAt              time.Time  `json:"drawnAt"`
}

func FromDrawRecordView(rm *queries.DrawRecordView) *DrawRecordResponse {
	return &DrawRecordResponse{
		ID:                   rm.ID,
		RaffleID:             rm.RaffleID,
		WinningNumber:        rm.WinningNumber,
		WinnerUserID:         rm.WinnerUserID,
		Seed:                 rm.Seed,
		TotalNumbers:         rm.TotalNumbers,
		ParticipantCount:     rm.ParticipantCount,
		TotalCollectedCents:  rm.TotalCollectedCents,
		PrizeCostCents:       rm.PrizeCostCents,
		EstimatedProfitCents: rm.EstimatedProfitCents,
		Reason:               rm.Reason,
		DrawnAt:              rm.DrawnAt,
	}
}
