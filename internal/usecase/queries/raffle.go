package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type RaffleView struct {
	ID             uuid.UUID
	TemplateID     *uuid.UUID
	Name           string
	Capacity       int
	SoldCount      int
	ExtrasSold     int
	UnitPriceCents int64
	State          string
	Progress       int
	LockedAt       *time.Time
	DrawDeadline   *time.Time
	WinningNumber  *int
	WinnerUserID   *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RaffleQueries is the read side consumed by the HTTP surface; it never
// touches the contended counters through anything but plain reads.
type RaffleQueries interface {
	ListActive(ctx context.Context) ([]*RaffleView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*RaffleView, error)
}
