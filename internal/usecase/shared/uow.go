package shared

import (
	"context"
	"time"

	"raffle-engine/internal/domain/draw"
	"raffle-engine/internal/domain/purchase"
	"raffle-engine/internal/domain/raffle"
	"raffle-engine/internal/domain/template"

	"github.com/google/uuid"
)

// UnitOfWork runs a function inside one atomic transaction with bounded
// retry on write conflicts. Every mutation of the contended raffle counters
// happens through Within, together with the purchase mutation that depends
// on them.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes the write repositories bound to the running transaction.
type Tx interface {
	Raffles() RaffleRepository
	Purchases() PurchaseRepository
	DrawRecords() DrawRecordRepository
	Templates() TemplateRepository
}

type RaffleRepository interface {
	// FindForUpdate loads the raffle and takes a row lock so concurrent
	// allocations against the same raffle serialize.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*raffle.Raffle, error)
	Create(ctx context.Context, r *raffle.Raffle) error
	Save(ctx context.Context, r *raffle.Raffle) error
	// ListDue returns ids of locked raffles whose deadline has passed,
	// oldest first, bounded by limit.
	ListDue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	// HasLiveForTemplate reports whether any open or locked raffle derives
	// from the template.
	HasLiveForTemplate(ctx context.Context, templateID uuid.UUID) (bool, error)
}

type PurchaseRepository interface {
	FindForUpdate(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error)
	Create(ctx context.Context, p *purchase.Purchase) error
	Save(ctx context.Context, p *purchase.Purchase) error
	ListPaidByRaffle(ctx context.Context, raffleID uuid.UUID) ([]*purchase.Purchase, error)
}

// DrawRecordRepository is append-only; there is deliberately no update.
type DrawRecordRepository interface {
	Create(ctx context.Context, rec *draw.Record) error
}

type TemplateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*template.Template, error)
	ListActive(ctx context.Context) ([]*template.Template, error)
	Upsert(ctx context.Context, t *template.Template) error
}
