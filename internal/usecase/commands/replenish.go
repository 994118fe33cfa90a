package commands

import (
	"context"
	"log/slog"

	"raffle-engine/internal/domain/raffle"
	"raffle-engine/internal/domain/template"
	"raffle-engine/internal/infra"
	"raffle-engine/internal/pkg/clock"
	"raffle-engine/internal/pkg/errs"
	"raffle-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrTemplateNotFound = errs.New("template not found")
	ErrInvalidTemplate  = errs.New("template failed validation")
)

// ReplenishCommands keeps the catalog stocked: every active template always
// has exactly one open or locked raffle.
type ReplenishCommands interface {
	// EnsureActive creates a fresh raffle for the template unless a live one
	// exists. Safe to call redundantly and concurrently.
	EnsureActive(ctx context.Context, templateID uuid.UUID, previousRaffleID *uuid.UUID) error
	// EnsureAll runs EnsureActive for every active template.
	EnsureAll(ctx context.Context) error
	// SaveTemplate validates and upserts a template definition.
	SaveTemplate(ctx context.Context, params template.Params) (uuid.UUID, error)
}

type replenishUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewReplenishUseCase(uow shared.UnitOfWork, clk clock.Clock) ReplenishCommands {
	return &replenishUseCaseImpl{
		uow:   uow,
		clock: clk,
	}
}

func (u *replenishUseCaseImpl) EnsureActive(ctx context.Context, templateID uuid.UUID, previousRaffleID *uuid.UUID) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		tpl, err := tx.Templates().FindByID(ctx, templateID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrTemplateNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !tpl.Active() {
			return nil
		}

		live, err := tx.Raffles().HasLiveForTemplate(ctx, templateID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if live {
			return nil
		}

		capacity, unitPrice, err := tpl.Resolve()
		if err != nil {
			return errs.Mark(err, ErrInvalidTemplate)
		}

		next, err := raffle.NewRaffle(tpl.Name(), capacity, unitPrice, tpl.PrizeCost(), &templateID, previousRaffleID, u.clock.Now())
		if err != nil {
			return errs.Mark(err, ErrInvalidTemplate)
		}

		if err := tx.Raffles().Create(ctx, next); err != nil {
			// A concurrent EnsureActive won the race; the partial unique
			// index guarantees a single live raffle per template.
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return nil
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		slog.Info("replenished raffle for template",
			"template_id", templateID,
			"raffle_id", next.ID(),
			"capacity", capacity,
			"unit_price_cents", unitPrice.Cents())
		return nil
	})
}

func (u *replenishUseCaseImpl) EnsureAll(ctx context.Context) error {
	var templateIDs []uuid.UUID
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		templates, listErr := tx.Templates().ListActive(ctx)
		if listErr != nil {
			return errs.Mark(listErr, ErrDatabaseOperationFailed)
		}
		for _, tpl := range templates {
			templateIDs = append(templateIDs, tpl.ID())
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Each template gets its own transaction so one bad template cannot
	// block replenishment of the rest.
	for _, id := range templateIDs {
		if ensureErr := u.EnsureActive(ctx, id, nil); ensureErr != nil {
			slog.Error("ensure active failed, continuing", "template_id", id, "error", ensureErr.Error())
		}
	}
	return nil
}

func (u *replenishUseCaseImpl) SaveTemplate(ctx context.Context, params template.Params) (uuid.UUID, error) {
	now := u.clock.Now()
	if params.CreatedAt.IsZero() {
		params.CreatedAt = now
	}
	params.UpdatedAt = now

	tpl, err := template.New(params)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidTemplate)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if upsertErr := tx.Templates().Upsert(ctx, tpl); upsertErr != nil {
			return errs.Mark(upsertErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return tpl.ID(), nil
}
