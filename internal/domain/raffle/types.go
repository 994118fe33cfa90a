package raffle

import "time"

type State string

const (
	// StateOpen: tickets are on sale against the capacity.
	StateOpen State = "open"
	// StateLocked: capacity reached, countdown running, extras may be sold.
	StateLocked State = "locked"
	// StateClosed: draw finished (or closed without participants). Terminal.
	StateClosed State = "closed"
)

func (s State) Valid() bool {
	switch s {
	case StateOpen, StateLocked, StateClosed:
		return true
	}
	return false
}

// Lifecycle constants. These are business rules shared by every raffle, not
// deployment configuration.
const (
	// ExtrasCap bounds how many overtime tickets can be sold above capacity.
	ExtrasCap = 20

	// Countdown is the time between the lock and the draw deadline.
	Countdown = 10 * time.Minute

	// ExtrasOpenDelay is how long after the lock the overtime window opens.
	ExtrasOpenDelay = 2 * time.Minute

	// FinalLockout is the tail of the countdown during which no purchase of
	// any kind is accepted.
	FinalLockout = 2 * time.Minute

	// ExtrasPriceFactor multiplies the unit price inside the overtime window.
	ExtrasPriceFactor = 2
)

// AllocationPhase describes what kind of sale a raffle accepts at a point in
// time. It is derived from state plus the countdown clock.
type AllocationPhase int

const (
	// PhaseOpen: normal sales against capacity.
	PhaseOpen AllocationPhase = iota
	// PhaseAwaitingExtras: locked, overtime window not yet open.
	PhaseAwaitingExtras
	// PhaseExtras: locked, premium-priced extras on sale.
	PhaseExtras
	// PhaseFinalLockout: locked, inside the final no-purchase window.
	PhaseFinalLockout
	// PhaseClosed: raffle is finished.
	PhaseClosed
)

func (p AllocationPhase) String() string {
	switch p {
	case PhaseOpen:
		return "open"
	case PhaseAwaitingExtras:
		return "awaiting_extras"
	case PhaseExtras:
		return "extras"
	case PhaseFinalLockout:
		return "final_lockout"
	case PhaseClosed:
		return "closed"
	}
	return "unknown"
}
