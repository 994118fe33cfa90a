package commands

import (
	"context"
	"log/slog"

	"raffle-engine/internal/domain/purchase"
	"raffle-engine/internal/domain/raffle"
	"raffle-engine/internal/infra"
	"raffle-engine/internal/pkg/clock"
	"raffle-engine/internal/pkg/errs"
	"raffle-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrPurchaseNotFound        = errs.New("purchase not found")
	ErrRaffleNotFound          = errs.New("raffle not found")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// Cancellation reasons stored on purchases that could not be satisfied.
const (
	CancelReasonSoldOut         = "sold out"
	CancelReasonExtrasExhausted = "extras exhausted"
	CancelReasonLockedOut       = "locked, no purchases"
	CancelReasonRaffleClosed    = "raffle closed"
)

// AllocationResult is the structured outcome of one allocation. Capacity
// exhaustion is a result (the purchase moves to Cancelled with a reason),
// not an error to the caller.
type AllocationResult struct {
	PurchaseID      uuid.UUID
	RaffleID        uuid.UUID
	Status          purchase.Status
	AssignedNumbers []int
	CancelReason    string
	// Replayed is true when the purchase had already been processed and
	// this call was a no-op (duplicate webhook delivery).
	Replayed bool
	// RaffleLocked is true when this allocation was the one that filled the
	// capacity and flipped the raffle to its countdown.
	RaffleLocked bool
}

// AllocationCommands is the single entry point payment confirmations call
// into, directly from webhook handlers or from the simulated payment flow.
type AllocationCommands interface {
	Allocate(ctx context.Context, purchaseID uuid.UUID) (*AllocationResult, error)
}

type allocationUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewAllocationUseCase(uow shared.UnitOfWork, clk clock.Clock) AllocationCommands {
	return &allocationUseCaseImpl{
		uow:   uow,
		clock: clk,
	}
}

// Allocate atomically converts a pending, payment-confirmed purchase into a
// contiguous block of ticket numbers. The purchase read, the raffle counter
// update and a possible lock transition commit together; on write conflict
// the unit of work re-executes the whole function from the reads.
func (a *allocationUseCaseImpl) Allocate(ctx context.Context, purchaseID uuid.UUID) (*AllocationResult, error) {
	var result *AllocationResult

	err := a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		p, err := tx.Purchases().FindForUpdate(ctx, purchaseID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrPurchaseNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// Upstream payment callbacks are delivered at least once; a purchase
		// that already left Pending is returned as-is with no side effects.
		if !p.IsPending() {
			result = resultFromPurchase(p, true, false)
			return nil
		}

		r, err := tx.Raffles().FindForUpdate(ctx, p.RaffleID())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrRaffleNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		now := a.clock.Now()
		raffleTouched := false
		lockedNow := false

		switch r.Phase(now) {
		case raffle.PhaseOpen:
			block, grantErr := r.GrantNormal(p.RequestedQuantity(), now)
			switch {
			case grantErr == nil:
				if err := p.MarkPaid(block, now); err != nil {
					return errs.Mark(err, ErrDatabaseOperationFailed)
				}
				raffleTouched = true
				lockedNow = r.IsLocked()
			case errs.Is(grantErr, raffle.ErrSoldOut):
				// Lost the race: another allocation advanced the counter to
				// capacity before this transaction serialized.
				if err := p.Cancel(CancelReasonSoldOut, now); err != nil {
					return errs.Mark(err, ErrDatabaseOperationFailed)
				}
			default:
				return errs.Mark(grantErr, ErrDatabaseOperationFailed)
			}

		case raffle.PhaseExtras:
			block, grantErr := r.GrantExtras(p.RequestedQuantity(), now)
			switch {
			case grantErr == nil:
				if err := p.MarkPaid(block, now); err != nil {
					return errs.Mark(err, ErrDatabaseOperationFailed)
				}
				raffleTouched = true
			case errs.Is(grantErr, raffle.ErrExtrasExhausted):
				if err := p.Cancel(CancelReasonExtrasExhausted, now); err != nil {
					return errs.Mark(err, ErrDatabaseOperationFailed)
				}
			default:
				return errs.Mark(grantErr, ErrDatabaseOperationFailed)
			}

		case raffle.PhaseAwaitingExtras, raffle.PhaseFinalLockout:
			if err := p.Cancel(CancelReasonLockedOut, now); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}

		case raffle.PhaseClosed:
			if err := p.Cancel(CancelReasonRaffleClosed, now); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		if err := tx.Purchases().Save(ctx, p); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if raffleTouched {
			if err := tx.Raffles().Save(ctx, r); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		result = resultFromPurchase(p, false, lockedNow)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.RaffleLocked {
		slog.Info("raffle reached capacity and entered countdown",
			"raffle_id", result.RaffleID,
			"purchase_id", result.PurchaseID)
	}
	return result, nil
}

func resultFromPurchase(p *purchase.Purchase, replayed, lockedNow bool) *AllocationResult {
	return &AllocationResult{
		PurchaseID:      p.ID(),
		RaffleID:        p.RaffleID(),
		Status:          p.Status(),
		AssignedNumbers: p.AssignedNumbers(),
		CancelReason:    p.CancelReason(),
		Replayed:        replayed,
		RaffleLocked:    lockedNow,
	}
}
