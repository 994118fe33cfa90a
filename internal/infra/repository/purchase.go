package repository

import (
	"context"
	"time"

	"raffle-engine/internal/domain/purchase"
	"raffle-engine/internal/domain/raffle"
	"raffle-engine/internal/infra"
	"raffle-engine/internal/infra/db"
	"raffle-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type PurchaseRepository struct {
	dbtx db.DBTX
}

func NewPurchaseRepository(dbtx db.DBTX) *PurchaseRepository {
	return &PurchaseRepository{dbtx: dbtx}
}

const purchaseColumns = `
	id, raffle_id, user_id, requested_quantity, unit_price_cents,
	assigned_numbers, payment_status, cancel_reason, created_at, updated_at`

func (r *PurchaseRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	row := r.dbtx.QueryRow(ctx,
		`SELECT`+purchaseColumns+` FROM purchases WHERE id = $1 FOR UPDATE`, id)
	entity, err := scanPurchase(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("purchase not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find purchase for update", err)
	}
	return entity, nil
}

func (r *PurchaseRepository) Create(ctx context.Context, entity *purchase.Purchase) error {
	_, err := r.dbtx.Exec(ctx, `
		INSERT INTO purchases (
			id, raffle_id, user_id, requested_quantity, unit_price_cents,
			assigned_numbers, payment_status, cancel_reason, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entity.ID(),
		entity.RaffleID(),
		entity.UserID(),
		entity.RequestedQuantity(),
		entity.UnitPrice().Cents(),
		pgconv.IntsToInt32s(entity.AssignedNumbers()),
		string(entity.Status()),
		entity.CancelReason(),
		entity.CreatedAt(),
		entity.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create purchase", err)
	}
	return nil
}

func (r *PurchaseRepository) Save(ctx context.Context, entity *purchase.Purchase) error {
	tag, err := r.dbtx.Exec(ctx, `
		UPDATE purchases SET
			assigned_numbers = $2, payment_status = $3, cancel_reason = $4, updated_at = $5
		WHERE id = $1`,
		entity.ID(),
		pgconv.IntsToInt32s(entity.AssignedNumbers()),
		string(entity.Status()),
		entity.CancelReason(),
		entity.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save purchase", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("purchase vanished during save", nil, infra.KindNotFound)
	}
	return nil
}

func (r *PurchaseRepository) ListPaidByRaffle(ctx context.Context, raffleID uuid.UUID) ([]*purchase.Purchase, error) {
	rows, err := r.dbtx.Query(ctx,
		`SELECT`+purchaseColumns+` FROM purchases WHERE raffle_id = $1 AND payment_status = 'paid'`,
		raffleID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list paid purchases", err)
	}
	defer rows.Close()

	var purchases []*purchase.Purchase
	for rows.Next() {
		entity, scanErr := scanPurchase(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan purchase", scanErr)
		}
		purchases = append(purchases, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate purchases", err)
	}
	return purchases, nil
}

func scanPurchase(row rowScanner) (*purchase.Purchase, error) {
	var (
		id                uuid.UUID
		raffleID          uuid.UUID
		userID            uuid.UUID
		requestedQuantity int
		unitPriceCents    int64
		assignedNumbers   []int32
		status            string
		cancelReason      string
		createdAt         time.Time
		updatedAt         time.Time
	)

	err := row.Scan(
		&id, &raffleID, &userID, &requestedQuantity, &unitPriceCents,
		&assignedNumbers, &status, &cancelReason, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	return purchase.Reconstruct(
		id, raffleID, userID, requestedQuantity,
		raffle.NewMoney(unitPriceCents),
		pgconv.Int32sToInts(assignedNumbers),
		purchase.Status(status), cancelReason,
		createdAt, updatedAt,
	), nil
}
