package purchase

import (
	"errors"
	"time"

	"raffle-engine/internal/domain/raffle"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity = errors.New("requested quantity must be positive")
	ErrNotPending      = errors.New("purchase is not pending")
	ErrNoNumbers       = errors.New("a paid purchase must carry assigned numbers")
	ErrEmptyReason     = errors.New("cancellation requires a reason")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// Purchase is created Pending by the checkout flow and mutated exactly once
// by the allocation transaction: either to Paid with its assigned numbers or
// to Cancelled with a reason. Paid purchases are immutable afterwards.
type Purchase struct {
	id                uuid.UUID
	raffleID          uuid.UUID
	userID            uuid.UUID
	requestedQuantity int
	unitPrice         raffle.Money
	assignedNumbers   []int
	status            Status
	cancelReason      string
	createdAt         time.Time
	updatedAt         time.Time
}

func NewPurchase(raffleID, userID uuid.UUID, requestedQuantity int, unitPrice raffle.Money, now time.Time) (*Purchase, error) {
	if requestedQuantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !unitPrice.IsPositive() {
		return nil, raffle.ErrInvalidPrice
	}
	return &Purchase{
		id:                uuid.New(),
		raffleID:          raffleID,
		userID:            userID,
		requestedQuantity: requestedQuantity,
		unitPrice:         unitPrice,
		status:            StatusPending,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

func Reconstruct(
	id, raffleID, userID uuid.UUID,
	requestedQuantity int,
	unitPrice raffle.Money,
	assignedNumbers []int,
	status Status,
	cancelReason string,
	createdAt, updatedAt time.Time,
) *Purchase {
	return &Purchase{
		id:                id,
		raffleID:          raffleID,
		userID:            userID,
		requestedQuantity: requestedQuantity,
		unitPrice:         unitPrice,
		assignedNumbers:   assignedNumbers,
		status:            status,
		cancelReason:      cancelReason,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

func (p *Purchase) ID() uuid.UUID           { return p.id }
func (p *Purchase) RaffleID() uuid.UUID     { return p.raffleID }
func (p *Purchase) UserID() uuid.UUID       { return p.userID }
func (p *Purchase) RequestedQuantity() int  { return p.requestedQuantity }
func (p *Purchase) UnitPrice() raffle.Money { return p.unitPrice }
func (p *Purchase) Status() Status          { return p.status }
func (p *Purchase) CancelReason() string    { return p.cancelReason }
func (p *Purchase) CreatedAt() time.Time    { return p.createdAt }
func (p *Purchase) UpdatedAt() time.Time    { return p.updatedAt }

func (p *Purchase) IsPending() bool   { return p.status == StatusPending }
func (p *Purchase) IsPaid() bool      { return p.status == StatusPaid }
func (p *Purchase) IsCancelled() bool { return p.status == StatusCancelled }

// AssignedNumbers returns a copy so callers cannot mutate a paid assignment.
func (p *Purchase) AssignedNumbers() []int {
	nums := make([]int, len(p.assignedNumbers))
	copy(nums, p.assignedNumbers)
	return nums
}

// GrantedQuantity is the number of tickets actually issued, which may be
// less than requested when the raffle ran short.
func (p *Purchase) GrantedQuantity() int {
	return len(p.assignedNumbers)
}

// AmountPaid is the price actually charged for the granted tickets.
func (p *Purchase) AmountPaid() raffle.Money {
	return p.unitPrice.Mul(int64(len(p.assignedNumbers)))
}

// MarkPaid transitions Pending -> Paid with the allocated block. Only the
// allocation transaction calls this.
func (p *Purchase) MarkPaid(block raffle.NumberRange, now time.Time) error {
	if p.status != StatusPending {
		return ErrNotPending
	}
	numbers := block.Numbers()
	if len(numbers) == 0 {
		return ErrNoNumbers
	}
	p.assignedNumbers = numbers
	p.status = StatusPaid
	p.updatedAt = now
	return nil
}

// Cancel transitions Pending -> Cancelled, recording why the purchase could
// not be satisfied.
func (p *Purchase) Cancel(reason string, now time.Time) error {
	if p.status != StatusPending {
		return ErrNotPending
	}
	if reason == "" {
		return ErrEmptyReason
	}
	p.cancelReason = reason
	p.status = StatusCancelled
	p.updatedAt = now
	return nil
}
