package readstore

import (
	"context"

	"raffle-engine/internal/infra"
	"raffle-engine/internal/infra/db"
	"raffle-engine/internal/pkg/pgconv"
	"raffle-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type DrawReadStore struct {
	dbtx db.DBTX
}

func NewDrawReadStore(dbtx db.DBTX) *DrawReadStore {
	return &DrawReadStore{dbtx: dbtx}
}

func (s *DrawReadStore) RecordByRaffle(ctx context.Context, raffleID uuid.UUID) (*queries.DrawRecordView, error) {
	var v queries.DrawRecordView
	err := s.dbtx.QueryRow(ctx, `
		SELECT id, raffle_id, winning_number, winner_user_id, winner_purchase_id,
		       seed, total_numbers, participant_count, total_collected_cents,
		       prize_cost_cents, estimated_profit_cents, reason, drawn_at
		FROM draw_records WHERE raffle_id = $1`, raffleID).Scan(
		&v.ID, &v.RaffleID, &v.WinningNumber, &v.WinnerUserID, &v.WinnerPurchaseID,
		&v.Seed, &v.TotalNumbers, &v.ParticipantCount, &v.TotalCollectedCents,
		&v.PrizeCostCents, &v.EstimatedProfitCents, &v.Reason, &v.DrawnAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("draw record not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get draw record", err)
	}
	return &v, nil
}
