package repository

import (
	"context"

	"raffle-engine/internal/domain/draw"
	"raffle-engine/internal/infra"
	"raffle-engine/internal/infra/db"

	"github.com/google/uuid"
)

// DrawRecordRepository only inserts: the table is the append-only audit
// trail and the unique raffle_id constraint enforces write-once.
type DrawRecordRepository struct {
	dbtx db.DBTX
}

func NewDrawRecordRepository(dbtx db.DBTX) *DrawRecordRepository {
	return &DrawRecordRepository{dbtx: dbtx}
}

func (r *DrawRecordRepository) Create(ctx context.Context, rec *draw.Record) error {
	var (
		winnerPurchaseID *uuid.UUID
		winnerUserID     *uuid.UUID
		winNumber        *int
	)
	if w := rec.Winner(); w != nil {
		winnerPurchaseID = &w.PurchaseID
		winnerUserID = &w.UserID
		winNumber = &w.WinningNumber
	}

	_, err := r.dbtx.Exec(ctx, `
		INSERT INTO draw_records (
			id, raffle_id, winner_purchase_id, winner_user_id, winning_number,
			seed, total_numbers, participant_count, total_collected_cents,
			prize_cost_cents, estimated_profit_cents, reason, drawn_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		rec.ID(),
		rec.RaffleID(),
		winnerPurchaseID,
		winnerUserID,
		winNumber,
		rec.Seed(),
		rec.TotalNumbers(),
		rec.ParticipantCount(),
		rec.TotalCollected().Cents(),
		rec.PrizeCost().Cents(),
		rec.EstimatedProfit().Cents(),
		rec.Reason(),
		rec.DrawnAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create draw record", err)
	}
	return nil
}
