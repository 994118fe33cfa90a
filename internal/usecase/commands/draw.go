package commands

import (
	"context"
	"log/slog"

	"raffle-engine/internal/domain/draw"
	"raffle-engine/internal/domain/purchase"
	"raffle-engine/internal/domain/raffle"
	"raffle-engine/internal/infra"
	"raffle-engine/internal/pkg/clock"
	"raffle-engine/internal/pkg/errs"
	"raffle-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrRaffleNotLocked = errs.New("raffle is not locked, cannot draw")

type DrawResult struct {
	RaffleID     uuid.UUID
	Winner       *raffle.Winner
	TotalNumbers int
	Reason       string
	// Replayed is true when the raffle was already closed; the call was a
	// no-op because the draw record is write-once.
	Replayed bool
}

type SweepReport struct {
	Due    int
	Drawn  int
	NoWin  int
	Failed int
}

// DrawCommands runs draws for expired countdowns. The periodic sweep and the
// admin-triggered draw share RunDraw so behavior never diverges.
type DrawCommands interface {
	RunDraw(ctx context.Context, raffleID uuid.UUID) (*DrawResult, error)
	SweepOnce(ctx context.Context) (*SweepReport, error)
}

type drawUseCaseImpl struct {
	uow       shared.UnitOfWork
	replenish ReplenishCommands
	notifier  Notifier
	clock     clock.Clock
	batchSize int
}

func NewDrawUseCase(uow shared.UnitOfWork, replenish ReplenishCommands, notifier Notifier, clk clock.Clock, batchSize int) DrawCommands {
	if batchSize <= 0 {
		batchSize = 20
	}
	return &drawUseCaseImpl{
		uow:       uow,
		replenish: replenish,
		notifier:  notifier,
		clock:     clk,
		batchSize: batchSize,
	}
}

// SweepOnce processes one bounded batch of due raffles. A failure on one
// raffle is logged and never aborts the rest of the batch.
func (d *drawUseCaseImpl) SweepOnce(ctx context.Context) (*SweepReport, error) {
	var due []uuid.UUID
	err := d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var listErr error
		due, listErr = tx.Raffles().ListDue(ctx, d.clock.Now(), d.batchSize)
		return listErr
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	report := &SweepReport{Due: len(due)}
	for _, id := range due {
		res, drawErr := d.RunDraw(ctx, id)
		if drawErr != nil {
			report.Failed++
			slog.Error("draw failed, continuing sweep", "raffle_id", id, "error", drawErr.Error())
			continue
		}
		switch {
		case res.Replayed:
			// Raced with another invocation; nothing to count.
		case res.Winner != nil:
			report.Drawn++
		default:
			report.NoWin++
		}
	}
	return report, nil
}

// RunDraw closes one locked raffle: it resolves the winner from the paid
// tickets, appends the audit record and triggers replenishment. Drawing an
// already-closed raffle is a no-op.
func (d *drawUseCaseImpl) RunDraw(ctx context.Context, raffleID uuid.UUID) (*DrawResult, error) {
	var (
		result       *DrawResult
		notification *WinnerNotification
		templateID   *uuid.UUID
	)

	err := d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Reset captured state: the function re-executes on conflict retry.
		result, notification, templateID = nil, nil, nil

		r, err := tx.Raffles().FindForUpdate(ctx, raffleID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrRaffleNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if r.IsClosed() {
			result = &DrawResult{RaffleID: raffleID, Winner: r.Winner(), Reason: r.CloseReason(), Replayed: true}
			return nil
		}
		if !r.IsLocked() {
			return ErrRaffleNotLocked
		}

		paid, err := tx.Purchases().ListPaidByRaffle(ctx, raffleID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		owners, totalNumbers := buildOwnerMap(paid)
		now := d.clock.Now()
		templateID = r.TemplateID()

		if totalNumbers == 0 {
			if err := r.CloseWithoutWinner(draw.ReasonNoParticipants, now); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			rec := draw.NewRecord(draw.RecordParams{
				RaffleID:  raffleID,
				Seed:      draw.Seed(raffleID, *r.DrawDeadline(), 0),
				PrizeCost: r.PrizeCost(),
				Reason:    draw.ReasonNoParticipants,
				DrawnAt:   now,
			})
			if err := tx.Raffles().Save(ctx, r); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			if err := tx.DrawRecords().Create(ctx, rec); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			result = &DrawResult{RaffleID: raffleID, Reason: draw.ReasonNoParticipants}
			return nil
		}

		seed := draw.Seed(raffleID, *r.DrawDeadline(), totalNumbers)
		winningNumber, err := draw.Pick(seed, totalNumbers)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// Numbers are issued contiguously from 1, so every number up to the
		// highest sold one has an owner and this lookup cannot miss.
		owner := owners[winningNumber]
		winner := raffle.Winner{
			PurchaseID:    owner.purchaseID,
			UserID:        owner.userID,
			WinningNumber: winningNumber,
			Seed:          seed,
			DrawnAt:       now,
		}

		if err := r.Close(winner, now); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		participants, totalCollected := summarize(paid)
		rec := draw.NewRecord(draw.RecordParams{
			RaffleID:         raffleID,
			Winner:           &winner,
			Seed:             seed,
			TotalNumbers:     totalNumbers,
			ParticipantCount: len(participants),
			TotalCollected:   totalCollected,
			PrizeCost:        r.PrizeCost(),
			DrawnAt:          now,
		})

		if err := tx.Raffles().Save(ctx, r); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.DrawRecords().Create(ctx, rec); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		notification = &WinnerNotification{
			RaffleID:      raffleID,
			RaffleName:    r.Name(),
			WinningNumber: winningNumber,
			WinnerUserID:  owner.userID,
			Participants:  participants,
		}
		result = &DrawResult{RaffleID: raffleID, Winner: &winner, TotalNumbers: totalNumbers}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Delivery and replenishment run after the commit: a notifier outage must
	// not roll back a finished draw.
	if notification != nil {
		if err := d.notifier.NotifyWinner(ctx, *notification); err != nil {
			slog.Warn("winner notification failed", "raffle_id", raffleID, "error", err.Error())
		}
	}
	if templateID != nil && !result.Replayed {
		if err := d.replenish.EnsureActive(ctx, *templateID, &raffleID); err != nil {
			slog.Error("replenishment after draw failed", "template_id", *templateID, "error", err.Error())
		}
	}
	return result, nil
}

type ticketOwner struct {
	userID     uuid.UUID
	purchaseID uuid.UUID
}

func buildOwnerMap(paid []*purchase.Purchase) (map[int]ticketOwner, int) {
	owners := make(map[int]ticketOwner)
	totalNumbers := 0
	for _, p := range paid {
		for _, n := range p.AssignedNumbers() {
			owners[n] = ticketOwner{userID: p.UserID(), purchaseID: p.ID()}
			if n > totalNumbers {
				totalNumbers = n
			}
		}
	}
	return owners, totalNumbers
}

func summarize(paid []*purchase.Purchase) ([]uuid.UUID, raffle.Money) {
	seen := make(map[uuid.UUID]struct{})
	participants := make([]uuid.UUID, 0, len(paid))
	total := raffle.NewMoney(0)
	for _, p := range paid {
		total = total.Add(p.AmountPaid())
		if _, ok := seen[p.UserID()]; !ok {
			seen[p.UserID()] = struct{}{}
			participants = append(participants, p.UserID())
		}
	}
	return participants, total
}
