package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type DrawRecordView struct {
	ID                   uuid.UUID
	RaffleID             uuid.UUID
	WinningNumber        *int
	WinnerUserID         *uuid.UUID
	WinnerPurchaseID     *uuid.UUID
	Seed                 string
	TotalNumbers         int
	ParticipantCount     int
	TotalCollectedCents  int64
	PrizeCostCents       int64
	EstimatedProfitCents int64
	Reason               string
	DrawnAt              time.Time
}

type DrawQueries interface {
	// RecordByRaffle returns the published, recomputable draw record.
	RecordByRaffle(ctx context.Context, raffleID uuid.UUID) (*DrawRecordView, error)
}
