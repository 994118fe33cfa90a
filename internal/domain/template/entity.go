package template

import (
	"errors"
	"math"
	"time"

	"raffle-engine/internal/domain/raffle"

	"github.com/google/uuid"
)

var (
	ErrEmptyName        = errors.New("template name must not be empty")
	ErrUnderspecified   = errors.New("template needs either capacity+price or cost inputs")
	ErrInvalidCost      = errors.New("prize cost must be positive")
	ErrInvalidMargin    = errors.New("margin percent must not be negative")
	ErrInvalidTicketCnt = errors.New("ticket count must be positive")
)

// Template configures the auto-replenished raffles. Capacity and price can be
// given directly, or derived from a target prize cost, a profit margin and a
// ticket count.
type Template struct {
	id            uuid.UUID
	name          string
	capacity      *int
	unitPrice     *raffle.Money
	prizeCost     raffle.Money
	marginPercent *float64
	ticketCount   *int
	active        bool
	createdAt     time.Time
	updatedAt     time.Time
}

type Params struct {
	ID            uuid.UUID
	Name          string
	Capacity      *int
	UnitPrice     *raffle.Money
	PrizeCost     raffle.Money
	MarginPercent *float64
	TicketCount   *int
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func New(p Params) (*Template, error) {
	if p.Name == "" {
		return nil, ErrEmptyName
	}
	t := &Template{
		id:            p.ID,
		name:          p.Name,
		capacity:      p.Capacity,
		unitPrice:     p.UnitPrice,
		prizeCost:     p.PrizeCost,
		marginPercent: p.MarginPercent,
		ticketCount:   p.TicketCount,
		active:        p.Active,
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
	}
	if t.id == uuid.Nil {
		t.id = uuid.New()
	}
	if _, _, err := t.Resolve(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Template) ID() uuid.UUID            { return t.id }
func (t *Template) Name() string             { return t.name }
func (t *Template) Capacity() *int           { return t.capacity }
func (t *Template) UnitPrice() *raffle.Money { return t.unitPrice }
func (t *Template) PrizeCost() raffle.Money  { return t.prizeCost }
func (t *Template) MarginPercent() *float64  { return t.marginPercent }
func (t *Template) TicketCount() *int        { return t.ticketCount }
func (t *Template) Active() bool             { return t.active }
func (t *Template) CreatedAt() time.Time     { return t.createdAt }
func (t *Template) UpdatedAt() time.Time     { return t.updatedAt }

// Resolve returns the capacity and unit price a raffle spawned from this
// template should use. Explicit values win; otherwise the price is computed
// as ceil((cost * (1 + margin/100)) / tickets), rounded up to the cent.
func (t *Template) Resolve() (capacity int, unitPrice raffle.Money, err error) {
	if t.capacity != nil && t.unitPrice != nil {
		if *t.capacity <= 0 {
			return 0, raffle.Money{}, ErrInvalidTicketCnt
		}
		if !t.unitPrice.IsPositive() {
			return 0, raffle.Money{}, raffle.ErrInvalidPrice
		}
		return *t.capacity, *t.unitPrice, nil
	}

	if t.marginPercent == nil || t.ticketCount == nil {
		return 0, raffle.Money{}, ErrUnderspecified
	}
	if !t.prizeCost.IsPositive() {
		return 0, raffle.Money{}, ErrInvalidCost
	}
	if *t.marginPercent < 0 {
		return 0, raffle.Money{}, ErrInvalidMargin
	}
	if *t.ticketCount <= 0 {
		return 0, raffle.Money{}, ErrInvalidTicketCnt
	}

	targetCents := float64(t.prizeCost.Cents()) * (1 + *t.marginPercent/100)
	perTicketCents := int64(math.Ceil(targetCents / float64(*t.ticketCount)))

	unitPrice, err = raffle.NewPositiveMoney(perTicketCents)
	if err != nil {
		return 0, raffle.Money{}, err
	}
	return *t.ticketCount, unitPrice, nil
}
