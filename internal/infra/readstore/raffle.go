package readstore

import (
	"context"

	"raffle-engine/internal/infra"
	"raffle-engine/internal/infra/db"
	"raffle-engine/internal/pkg/pgconv"
	"raffle-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

// RaffleReadStore serves the HTTP read surface with plain selects. It runs
// outside any transaction and never takes row locks.
type RaffleReadStore struct {
	dbtx db.DBTX
}

func NewRaffleReadStore(dbtx db.DBTX) *RaffleReadStore {
	return &RaffleReadStore{dbtx: dbtx}
}

const raffleViewQuery = `
	SELECT id, template_id, name, capacity, sold_count, extras_sold,
	       unit_price_cents, state, locked_at, draw_deadline,
	       winning_number, winner_user_id, created_at, updated_at
	FROM raffles`

func (s *RaffleReadStore) ListActive(ctx context.Context) ([]*queries.RaffleView, error) {
	rows, err := s.dbtx.Query(ctx,
		raffleViewQuery+` WHERE state <> 'closed' ORDER BY created_at DESC`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active raffles", err)
	}
	defer rows.Close()

	var views []*queries.RaffleView
	for rows.Next() {
		view, scanErr := scanRaffleView(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan raffle view", scanErr)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate raffle views", err)
	}
	return views, nil
}

func (s *RaffleReadStore) GetByID(ctx context.Context, id uuid.UUID) (*queries.RaffleView, error) {
	row := s.dbtx.QueryRow(ctx, raffleViewQuery+` WHERE id = $1`, id)
	view, err := scanRaffleView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("raffle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get raffle view", err)
	}
	return view, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRaffleView(row rowScanner) (*queries.RaffleView, error) {
	var v queries.RaffleView
	err := row.Scan(
		&v.ID, &v.TemplateID, &v.Name, &v.Capacity, &v.SoldCount, &v.ExtrasSold,
		&v.UnitPriceCents, &v.State, &v.LockedAt, &v.DrawDeadline,
		&v.WinningNumber, &v.WinnerUserID, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if v.Capacity > 0 {
		v.Progress = v.SoldCount * 100 / v.Capacity
	}
	return &v, nil
}
