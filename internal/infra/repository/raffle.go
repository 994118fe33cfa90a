package repository

import (
	"context"
	"time"

	"raffle-engine/internal/domain/raffle"
	"raffle-engine/internal/infra"
	"raffle-engine/internal/infra/db"
	"raffle-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type RaffleRepository struct {
	dbtx db.DBTX
}

func NewRaffleRepository(dbtx db.DBTX) *RaffleRepository {
	return &RaffleRepository{dbtx: dbtx}
}

const raffleColumns = `
	id, template_id, previous_raffle_id, name, capacity, sold_count, extras_sold,
	unit_price_cents, prize_cost_cents, state, locked_at, draw_deadline,
	winner_purchase_id, winner_user_id, winning_number, winner_seed, drawn_at,
	close_reason, created_at, updated_at`

func (r *RaffleRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*raffle.Raffle, error) {
	row := r.dbtx.QueryRow(ctx,
		`SELECT`+raffleColumns+` FROM raffles WHERE id = $1 FOR UPDATE`, id)
	entity, err := scanRaffle(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("raffle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find raffle for update", err)
	}
	return entity, nil
}

func (r *RaffleRepository) Create(ctx context.Context, entity *raffle.Raffle) error {
	_, err := r.dbtx.Exec(ctx, `
		INSERT INTO raffles (
			id, template_id, previous_raffle_id, name, capacity, sold_count, extras_sold,
			unit_price_cents, prize_cost_cents, state, locked_at, draw_deadline,
			winner_purchase_id, winner_user_id, winning_number, winner_seed, drawn_at,
			close_reason, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		entity.ID(),
		entity.TemplateID(),
		entity.PreviousRaffleID(),
		entity.Name(),
		entity.Capacity(),
		entity.SoldCount(),
		entity.ExtrasSold(),
		entity.UnitPrice().Cents(),
		entity.PrizeCost().Cents(),
		string(entity.State()),
		entity.LockedAt(),
		entity.DrawDeadline(),
		winnerPurchaseID(entity.Winner()),
		winnerUserID(entity.Winner()),
		winningNumber(entity.Winner()),
		winnerSeed(entity.Winner()),
		drawnAt(entity.Winner()),
		entity.CloseReason(),
		entity.CreatedAt(),
		entity.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create raffle", err)
	}
	return nil
}

func (r *RaffleRepository) Save(ctx context.Context, entity *raffle.Raffle) error {
	tag, err := r.dbtx.Exec(ctx, `
		UPDATE raffles SET
			sold_count = $2, extras_sold = $3, state = $4, locked_at = $5,
			draw_deadline = $6, winner_purchase_id = $7, winner_user_id = $8,
			winning_number = $9, winner_seed = $10, drawn_at = $11,
			close_reason = $12, updated_at = $13
		WHERE id = $1`,
		entity.ID(),
		entity.SoldCount(),
		entity.ExtrasSold(),
		string(entity.State()),
		entity.LockedAt(),
		entity.DrawDeadline(),
		winnerPurchaseID(entity.Winner()),
		winnerUserID(entity.Winner()),
		winningNumber(entity.Winner()),
		winnerSeed(entity.Winner()),
		drawnAt(entity.Winner()),
		entity.CloseReason(),
		entity.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save raffle", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("raffle vanished during save", nil, infra.KindNotFound)
	}
	return nil
}

func (r *RaffleRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := r.dbtx.Query(ctx, `
		SELECT id FROM raffles
		WHERE state = 'locked' AND draw_deadline <= $1
		ORDER BY draw_deadline
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list due raffles", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan due raffle id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate due raffles", err)
	}
	return ids, nil
}

func (r *RaffleRepository) HasLiveForTemplate(ctx context.Context, templateID uuid.UUID) (bool, error) {
	var exists bool
	err := r.dbtx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM raffles WHERE template_id = $1 AND state <> 'closed'
		)`, templateID).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check live raffle for template", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRaffle(row rowScanner) (*raffle.Raffle, error) {
	var (
		id               uuid.UUID
		templateID       *uuid.UUID
		previousRaffleID *uuid.UUID
		name             string
		capacity         int
		soldCount        int
		extrasSold       int
		unitPriceCents   int64
		prizeCostCents   int64
		state            string
		lockedAt         *time.Time
		drawDeadline     *time.Time
		winPurchaseID    *uuid.UUID
		winUserID        *uuid.UUID
		winNumber        *int
		winSeed          *string
		winDrawnAt       *time.Time
		closeReason      string
		createdAt        time.Time
		updatedAt        time.Time
	)

	err := row.Scan(
		&id, &templateID, &previousRaffleID, &name, &capacity, &soldCount, &extrasSold,
		&unitPriceCents, &prizeCostCents, &state, &lockedAt, &drawDeadline,
		&winPurchaseID, &winUserID, &winNumber, &winSeed, &winDrawnAt,
		&closeReason, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	var winner *raffle.Winner
	if winPurchaseID != nil && winUserID != nil && winNumber != nil && winSeed != nil && winDrawnAt != nil {
		winner = &raffle.Winner{
			PurchaseID:    *winPurchaseID,
			UserID:        *winUserID,
			WinningNumber: *winNumber,
			Seed:          *winSeed,
			DrawnAt:       *winDrawnAt,
		}
	}

	return raffle.Reconstruct(
		id, templateID, previousRaffleID, name,
		capacity, soldCount, extrasSold,
		raffle.NewMoney(unitPriceCents), raffle.NewMoney(prizeCostCents),
		raffle.State(state), lockedAt, drawDeadline,
		winner, closeReason, createdAt, updatedAt,
	), nil
}

func winnerPurchaseID(w *raffle.Winner) *uuid.UUID {
	if w == nil {
		return nil
	}
	return &w.PurchaseID
}

func winnerUserID(w *raffle.Winner) *uuid.UUID {
	if w == nil {
		return nil
	}
	return &w.UserID
}

func winningNumber(w *raffle.Winner) *int {
	if w == nil {
		return nil
	}
	return &w.WinningNumber
}

func winnerSeed(w *raffle.Winner) *string {
	if w == nil {
		return nil
	}
	return &w.Seed
}

func drawnAt(w *raffle.Winner) *time.Time {
	if w == nil {
		return nil
	}
	return &w.DrawnAt
}
