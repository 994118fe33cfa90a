package raffle

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCapacity = errors.New("capacity must be positive")
	ErrInvalidPrice    = errors.New("unit price must be positive")
	ErrEmptyName       = errors.New("raffle name must not be empty")
	ErrNotOpen         = errors.New("raffle is not open for normal sales")
	ErrNotLocked       = errors.New("raffle is not locked")
	ErrClosed          = errors.New("raffle is closed")
	ErrSoldOut         = errors.New("raffle is sold out")
	ErrExtrasExhausted = errors.New("overtime extras are exhausted")
	ErrPurchasesClosed = errors.New("raffle is locked, no purchases allowed")
	ErrInvalidQuantity = errors.New("requested quantity must be positive")
)

// Winner is the resolved outcome of a draw, recorded on the raffle itself and
// in the append-only draw record.
type Winner struct {
	PurchaseID    uuid.UUID
	UserID        uuid.UUID
	WinningNumber int
	Seed          string
	DrawnAt       time.Time
}

// Raffle is the aggregate owning the contended counters (soldCount,
// extrasSold) and the lifecycle state machine. All mutation goes through the
// grant/close methods so that invalid combinations (extras on an open raffle,
// grants on a closed one) are unrepresentable.
type Raffle struct {
	id               uuid.UUID
	templateID       *uuid.UUID
	previousRaffleID *uuid.UUID
	name             string
	capacity         int
	soldCount        int
	extrasSold       int
	unitPrice        Money
	prizeCost        Money
	state            State
	lockedAt         *time.Time
	drawDeadline     *time.Time
	winner           *Winner
	closeReason      string
	createdAt        time.Time
	updatedAt        time.Time
}

func NewRaffle(name string, capacity int, unitPrice, prizeCost Money, templateID, previousRaffleID *uuid.UUID, now time.Time) (*Raffle, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if !unitPrice.IsPositive() {
		return nil, ErrInvalidPrice
	}

	return &Raffle{
		id:               uuid.New(),
		templateID:       templateID,
		previousRaffleID: previousRaffleID,
		name:             name,
		capacity:         capacity,
		unitPrice:        unitPrice,
		prizeCost:        prizeCost,
		state:            StateOpen,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	templateID, previousRaffleID *uuid.UUID,
	name string,
	capacity, soldCount, extrasSold int,
	unitPrice, prizeCost Money,
	state State,
	lockedAt, drawDeadline *time.Time,
	winner *Winner,
	closeReason string,
	createdAt, updatedAt time.Time,
) *Raffle {
	return &Raffle{
		id:               id,
		templateID:       templateID,
		previousRaffleID: previousRaffleID,
		name:             name,
		capacity:         capacity,
		soldCount:        soldCount,
		extrasSold:       extrasSold,
		unitPrice:        unitPrice,
		prizeCost:        prizeCost,
		state:            state,
		lockedAt:         lockedAt,
		drawDeadline:     drawDeadline,
		winner:           winner,
		closeReason:      closeReason,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (r *Raffle) ID() uuid.UUID                { return r.id }
func (r *Raffle) TemplateID() *uuid.UUID       { return r.templateID }
func (r *Raffle) PreviousRaffleID() *uuid.UUID { return r.previousRaffleID }
func (r *Raffle) Name() string                 { return r.name }
func (r *Raffle) Capacity() int                { return r.capacity }
func (r *Raffle) SoldCount() int               { return r.soldCount }
func (r *Raffle) ExtrasSold() int              { return r.extrasSold }
func (r *Raffle) UnitPrice() Money             { return r.unitPrice }
func (r *Raffle) PrizeCost() Money             { return r.prizeCost }
func (r *Raffle) State() State                 { return r.state }
func (r *Raffle) LockedAt() *time.Time         { return r.lockedAt }
func (r *Raffle) DrawDeadline() *time.Time     { return r.drawDeadline }
func (r *Raffle) Winner() *Winner              { return r.winner }
func (r *Raffle) CloseReason() string          { return r.closeReason }
func (r *Raffle) CreatedAt() time.Time         { return r.createdAt }
func (r *Raffle) UpdatedAt() time.Time         { return r.updatedAt }

func (r *Raffle) IsOpen() bool   { return r.state == StateOpen }
func (r *Raffle) IsLocked() bool { return r.state == StateLocked }
func (r *Raffle) IsClosed() bool { return r.state == StateClosed }

func (r *Raffle) Remaining() int {
	return r.capacity - r.soldCount
}

// Progress is the sold percentage, capped at 100.
func (r *Raffle) Progress() int {
	p := r.soldCount * 100 / r.capacity
	if p > 100 {
		return 100
	}
	return p
}

// TicketsPerPurchase scales purchase size with demand: early buyers get a
// single number, late buyers get larger blocks, and above 99% sales drop back
// to single numbers so the last slots are not overshot.
func (r *Raffle) TicketsPerPurchase() int {
	progress := r.Progress()
	switch {
	case progress < 20:
		return 1
	case progress < 50:
		return 2
	case progress < 80:
		return 4
	case progress < 99:
		return 8
	default:
		return 1
	}
}

// ExtrasPrice is the premium unit price charged inside the overtime window.
func (r *Raffle) ExtrasPrice() Money {
	return r.unitPrice.Mul(ExtrasPriceFactor)
}

// Phase derives the allocation phase from state and the countdown clock.
func (r *Raffle) Phase(now time.Time) AllocationPhase {
	switch r.state {
	case StateClosed:
		return PhaseClosed
	case StateOpen:
		return PhaseOpen
	}

	// Locked: position inside the countdown decides.
	if !now.Before(r.drawDeadline.Add(-FinalLockout)) {
		return PhaseFinalLockout
	}
	if !now.Before(r.lockedAt.Add(ExtrasOpenDelay)) {
		return PhaseExtras
	}
	return PhaseAwaitingExtras
}

// GrantNormal assigns the next contiguous block of up to requested numbers
// against the capacity and advances soldCount. Reaching capacity locks the
// raffle in the same call, so the lock transition is atomic with the
// triggering grant.
func (r *Raffle) GrantNormal(requested int, now time.Time) (NumberRange, error) {
	if requested <= 0 {
		return NumberRange{}, ErrInvalidQuantity
	}
	if r.state != StateOpen {
		return NumberRange{}, ErrNotOpen
	}

	quantity := requested
	if remaining := r.Remaining(); quantity > remaining {
		quantity = remaining
	}
	if quantity <= 0 {
		return NumberRange{}, ErrSoldOut
	}

	block, err := NewNumberRange(r.soldCount+1, r.soldCount+quantity)
	if err != nil {
		return NumberRange{}, err
	}

	r.soldCount += quantity
	r.updatedAt = now
	if r.soldCount == r.capacity {
		r.lock(now)
	}
	return block, nil
}

// GrantExtras assigns overtime numbers above the capacity, bounded by
// ExtrasCap. Extras never advance soldCount.
func (r *Raffle) GrantExtras(requested int, now time.Time) (NumberRange, error) {
	if requested <= 0 {
		return NumberRange{}, ErrInvalidQuantity
	}
	if r.state != StateLocked {
		return NumberRange{}, ErrNotLocked
	}
	switch r.Phase(now) {
	case PhaseExtras:
	case PhaseFinalLockout:
		return NumberRange{}, ErrPurchasesClosed
	default:
		return NumberRange{}, ErrPurchasesClosed
	}

	quantity := requested
	if remaining := ExtrasCap - r.extrasSold; quantity > remaining {
		quantity = remaining
	}
	if quantity <= 0 {
		return NumberRange{}, ErrExtrasExhausted
	}

	block, err := NewNumberRange(r.capacity+r.extrasSold+1, r.capacity+r.extrasSold+quantity)
	if err != nil {
		return NumberRange{}, err
	}

	r.extrasSold += quantity
	r.updatedAt = now
	return block, nil
}

func (r *Raffle) lock(now time.Time) {
	lockedAt := now
	deadline := now.Add(Countdown)
	r.state = StateLocked
	r.lockedAt = &lockedAt
	r.drawDeadline = &deadline
}

// Close records the winner and finishes the raffle. Only a locked raffle can
// be closed, and a closed raffle never mutates again.
func (r *Raffle) Close(winner Winner, now time.Time) error {
	if r.state == StateClosed {
		return ErrClosed
	}
	if r.state != StateLocked {
		return ErrNotLocked
	}
	w := winner
	r.winner = &w
	r.state = StateClosed
	r.updatedAt = now
	return nil
}

// CloseWithoutWinner finishes a raffle that has no paid participants, keeping
// the reason for the audit trail.
func (r *Raffle) CloseWithoutWinner(reason string, now time.Time) error {
	if r.state == StateClosed {
		return ErrClosed
	}
	if r.state != StateLocked {
		return ErrNotLocked
	}
	r.closeReason = reason
	r.state = StateClosed
	r.updatedAt = now
	return nil
}
