package draw

import (
	"time"

	"raffle-engine/internal/domain/raffle"

	"github.com/google/uuid"
)

// ReasonNoParticipants marks a raffle that reached its deadline with no paid
// tickets and therefore closed without a winner.
const ReasonNoParticipants = "no participants"

// Record is the append-only audit trail of one draw: everything needed to
// recompute the winner plus the round's economics. Written once per closed
// raffle, never mutated.
type Record struct {
	id               uuid.UUID
	raffleID         uuid.UUID
	winner           *raffle.Winner
	seed             string
	totalNumbers     int
	participantCount int
	totalCollected   raffle.Money
	prizeCost        raffle.Money
	reason           string
	drawnAt          time.Time
}

type RecordParams struct {
	RaffleID         uuid.UUID
	Winner           *raffle.Winner
	Seed             string
	TotalNumbers     int
	ParticipantCount int
	TotalCollected   raffle.Money
	PrizeCost        raffle.Money
	Reason           string
	DrawnAt          time.Time
}

func NewRecord(p RecordParams) *Record {
	return &Record{
		id:               uuid.New(),
		raffleID:         p.RaffleID,
		winner:           p.Winner,
		seed:             p.Seed,
		totalNumbers:     p.TotalNumbers,
		participantCount: p.ParticipantCount,
		totalCollected:   p.TotalCollected,
		prizeCost:        p.PrizeCost,
		reason:           p.Reason,
		drawnAt:          p.DrawnAt,
	}
}

func ReconstructRecord(id uuid.UUID, p RecordParams) *Record {
	r := NewRecord(p)
	r.id = id
	return r
}

func (r *Record) ID() uuid.UUID                { return r.id }
func (r *Record) RaffleID() uuid.UUID          { return r.raffleID }
func (r *Record) Winner() *raffle.Winner       { return r.winner }
func (r *Record) Seed() string                 { return r.seed }
func (r *Record) TotalNumbers() int            { return r.totalNumbers }
func (r *Record) ParticipantCount() int        { return r.participantCount }
func (r *Record) TotalCollected() raffle.Money { return r.totalCollected }
func (r *Record) PrizeCost() raffle.Money      { return r.prizeCost }
func (r *Record) Reason() string               { return r.reason }
func (r *Record) DrawnAt() time.Time           { return r.drawnAt }

// EstimatedProfit is collected revenue minus the prize cost; gateway fees are
// not accounted for here.
func (r *Record) EstimatedProfit() raffle.Money {
	return raffle.NewMoney(r.totalCollected.Cents() - r.prizeCost.Cents())
}
