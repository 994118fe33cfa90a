package commands

import (
	"context"

	"raffle-engine/internal/domain/purchase"
	"raffle-engine/internal/domain/raffle"
	"raffle-engine/internal/infra"
	"raffle-engine/internal/pkg/clock"
	"raffle-engine/internal/pkg/errs"
	"raffle-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrRaffleLockedOut = errs.New("raffle is locked, no purchases allowed")
	ErrRaffleClosed    = errs.New("raffle is closed")
)

// PurchaseReceipt describes a created purchase and, when payments are
// simulated, the allocation that immediately followed.
type PurchaseReceipt struct {
	PurchaseID     uuid.UUID
	RaffleID       uuid.UUID
	Quantity       int
	UnitPriceCents int64
	AmountCents    int64
	Allocation     *AllocationResult
}

// PurchaseCommands is the checkout intake: it creates Pending purchases with
// quantity and price fixed at creation time. Payment confirmation arrives
// separately through AllocationCommands.
type PurchaseCommands interface {
	CreatePurchase(ctx context.Context, raffleID, userID uuid.UUID) (*PurchaseReceipt, error)
}

type purchaseUseCaseImpl struct {
	uow              shared.UnitOfWork
	allocation       AllocationCommands
	clock            clock.Clock
	simulatePayments bool
}

func NewPurchaseUseCase(uow shared.UnitOfWork, allocation AllocationCommands, clk clock.Clock, simulatePayments bool) PurchaseCommands {
	return &purchaseUseCaseImpl{
		uow:              uow,
		allocation:       allocation,
		clock:            clk,
		simulatePayments: simulatePayments,
	}
}

func (u *purchaseUseCaseImpl) CreatePurchase(ctx context.Context, raffleID, userID uuid.UUID) (*PurchaseReceipt, error) {
	var receipt *PurchaseReceipt

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		r, err := tx.Raffles().FindForUpdate(ctx, raffleID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrRaffleNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		now := u.clock.Now()
		var quantity int
		var unitPrice raffle.Money

		switch r.Phase(now) {
		case raffle.PhaseOpen:
			quantity = r.TicketsPerPurchase()
			unitPrice = r.UnitPrice()
		case raffle.PhaseExtras:
			// Overtime: single premium-priced numbers only.
			quantity = 1
			unitPrice = r.ExtrasPrice()
		case raffle.PhaseClosed:
			return ErrRaffleClosed
		default:
			return ErrRaffleLockedOut
		}

		p, err := purchase.NewPurchase(raffleID, userID, quantity, unitPrice, now)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Purchases().Create(ctx, p); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		receipt = &PurchaseReceipt{
			PurchaseID:     p.ID(),
			RaffleID:       raffleID,
			Quantity:       quantity,
			UnitPriceCents: unitPrice.Cents(),
			AmountCents:    unitPrice.Mul(int64(quantity)).Cents(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Simulated gateway: confirm immediately, in its own transaction, the
	// same way a webhook would.
	if u.simulatePayments {
		allocation, allocErr := u.allocation.Allocate(ctx, receipt.PurchaseID)
		if allocErr != nil {
			return nil, allocErr
		}
		receipt.Allocation = allocation
	}
	return receipt, nil
}
