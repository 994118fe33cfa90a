//go:build unit

package raffle_test

import (
	"testing"
	"time"

	"raffle-engine/internal/domain/raffle"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// For any sequence of grant requests the allocator must hand out each ticket
// number exactly once, never exceed capacity plus the extras cap, and lock
// exactly when the last capacity ticket is granted.
func TestAllocationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("grants partition the ticket space without gaps or overlaps", prop.ForAll(
		func(capacity int, requests []int) bool {
			price := raffle.NewMoney(500)
			r, err := raffle.NewRaffle("prop", capacity, price, raffle.NewMoney(1000), nil, nil, t0)
			if err != nil {
				return false
			}

			now := t0
			extrasAt := func() time.Time {
				return r.LockedAt().Add(raffle.ExtrasOpenDelay + time.Second)
			}

			seen := make(map[int]bool)
			for _, req := range requests {
				var block raffle.NumberRange
				var grantErr error

				switch {
				case r.IsOpen():
					block, grantErr = r.GrantNormal(req, now)
				case r.IsLocked():
					block, grantErr = r.GrantExtras(req, extrasAt())
				}
				if grantErr != nil {
					continue
				}
				for _, n := range block.Numbers() {
					if seen[n] {
						return false
					}
					seen[n] = true
				}
			}

			// No gaps below the high-water mark.
			total := r.SoldCount() + r.ExtrasSold()
			for n := 1; n <= r.SoldCount(); n++ {
				if !seen[n] {
					return false
				}
			}
			if len(seen) != total {
				return false
			}

			// Counters stay inside their bounds.
			if r.SoldCount() > capacity || r.ExtrasSold() > raffle.ExtrasCap {
				return false
			}

			// Lock state matches the counter exactly.
			if r.SoldCount() == capacity && !r.IsLocked() {
				return false
			}
			if r.SoldCount() < capacity && !r.IsOpen() {
				return false
			}
			return true
		},
		gen.IntRange(1, 60),
		gen.SliceOf(gen.IntRange(1, 10)),
	))

	properties.TestingRun(t)
}
