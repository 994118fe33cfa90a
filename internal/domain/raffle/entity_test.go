//go:build unit

package raffle_test

import (
	"testing"
	"time"

	"raffle-engine/internal/domain/raffle"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newOpenRaffle(t *testing.T, capacity int) *raffle.Raffle {
	t.Helper()
	price, err := raffle.NewPositiveMoney(500)
	require.NoError(t, err)
	r, err := raffle.NewRaffle("PS5 Bundle", capacity, price, raffle.NewMoney(40000), nil, nil, t0)
	require.NoError(t, err)
	return r
}

func fillToCapacity(t *testing.T, r *raffle.Raffle, now time.Time) {
	t.Helper()
	for r.IsOpen() {
		_, err := r.GrantNormal(1, now)
		require.NoError(t, err)
	}
}

func TestNewRaffle(t *testing.T) {
	t.Run("valid raffle starts open with zero counters", func(t *testing.T) {
		r := newOpenRaffle(t, 10)

		assert.NotEqual(t, uuid.Nil, r.ID())
		assert.Equal(t, raffle.StateOpen, r.State())
		assert.Equal(t, 0, r.SoldCount())
		assert.Equal(t, 0, r.ExtrasSold())
		assert.Nil(t, r.LockedAt())
		assert.Nil(t, r.DrawDeadline())
	})

	t.Run("validation failures", func(t *testing.T) {
		price := raffle.NewMoney(500)

		_, err := raffle.NewRaffle("", 10, price, raffle.NewMoney(0), nil, nil, t0)
		assert.ErrorIs(t, err, raffle.ErrEmptyName)

		_, err = raffle.NewRaffle("x", 0, price, raffle.NewMoney(0), nil, nil, t0)
		assert.ErrorIs(t, err, raffle.ErrInvalidCapacity)

		_, err = raffle.NewRaffle("x", 10, raffle.NewMoney(0), raffle.NewMoney(0), nil, nil, t0)
		assert.ErrorIs(t, err, raffle.ErrInvalidPrice)
	})
}

func TestGrantNormal(t *testing.T) {
	t.Run("blocks are contiguous from one", func(t *testing.T) {
		r := newOpenRaffle(t, 10)

		block, err := r.GrantNormal(4, t0)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4}, block.Numbers())

		block, err = r.GrantNormal(2, t0)
		require.NoError(t, err)
		assert.Equal(t, []int{5, 6}, block.Numbers())
		assert.Equal(t, 6, r.SoldCount())
	})

	t.Run("request beyond remaining is trimmed, never overshoots", func(t *testing.T) {
		r := newOpenRaffle(t, 10)
		_, err := r.GrantNormal(8, t0)
		require.NoError(t, err)

		block, err := r.GrantNormal(8, t0)
		require.NoError(t, err)
		assert.Equal(t, []int{9, 10}, block.Numbers())
		assert.Equal(t, 10, r.SoldCount())
	})

	t.Run("reaching capacity locks in the same call", func(t *testing.T) {
		r := newOpenRaffle(t, 3)

		_, err := r.GrantNormal(3, t0)
		require.NoError(t, err)

		assert.True(t, r.IsLocked())
		require.NotNil(t, r.LockedAt())
		require.NotNil(t, r.DrawDeadline())
		assert.Equal(t, t0, *r.LockedAt())
		assert.Equal(t, t0.Add(raffle.Countdown), *r.DrawDeadline())
	})

	t.Run("locked raffle rejects normal grants", func(t *testing.T) {
		r := newOpenRaffle(t, 2)
		fillToCapacity(t, r, t0)

		_, err := r.GrantNormal(1, t0)
		assert.ErrorIs(t, err, raffle.ErrNotOpen)
	})

	t.Run("zero and negative quantities rejected", func(t *testing.T) {
		r := newOpenRaffle(t, 2)

		_, err := r.GrantNormal(0, t0)
		assert.ErrorIs(t, err, raffle.ErrInvalidQuantity)
		_, err = r.GrantNormal(-1, t0)
		assert.ErrorIs(t, err, raffle.ErrInvalidQuantity)
	})
}

func TestPhase(t *testing.T) {
	t.Run("open raffle", func(t *testing.T) {
		r := newOpenRaffle(t, 10)
		assert.Equal(t, raffle.PhaseOpen, r.Phase(t0))
	})

	t.Run("countdown windows", func(t *testing.T) {
		r := newOpenRaffle(t, 1)
		fillToCapacity(t, r, t0)

		// Just locked: extras window not yet open.
		assert.Equal(t, raffle.PhaseAwaitingExtras, r.Phase(t0))
		assert.Equal(t, raffle.PhaseAwaitingExtras, r.Phase(t0.Add(raffle.ExtrasOpenDelay-time.Second)))

		// Overtime window.
		assert.Equal(t, raffle.PhaseExtras, r.Phase(t0.Add(raffle.ExtrasOpenDelay)))
		assert.Equal(t, raffle.PhaseExtras, r.Phase(t0.Add(raffle.Countdown-raffle.FinalLockout-time.Second)))

		// Final lockout up to and past the deadline.
		assert.Equal(t, raffle.PhaseFinalLockout, r.Phase(t0.Add(raffle.Countdown-raffle.FinalLockout)))
		assert.Equal(t, raffle.PhaseFinalLockout, r.Phase(t0.Add(raffle.Countdown+time.Hour)))
	})

	t.Run("closed raffle", func(t *testing.T) {
		r := newOpenRaffle(t, 1)
		fillToCapacity(t, r, t0)
		require.NoError(t, r.CloseWithoutWinner("no participants", t0.Add(raffle.Countdown)))

		assert.Equal(t, raffle.PhaseClosed, r.Phase(t0.Add(raffle.Countdown)))
	})
}

func TestGrantExtras(t *testing.T) {
	extrasTime := t0.Add(raffle.ExtrasOpenDelay + time.Second)

	t.Run("extras numbered above capacity", func(t *testing.T) {
		r := newOpenRaffle(t, 5)
		fillToCapacity(t, r, t0)

		block, err := r.GrantExtras(1, extrasTime)
		require.NoError(t, err)
		assert.Equal(t, []int{6}, block.Numbers())

		block, err = r.GrantExtras(2, extrasTime)
		require.NoError(t, err)
		assert.Equal(t, []int{7, 8}, block.Numbers())

		// Extras never advance the normal counter.
		assert.Equal(t, 5, r.SoldCount())
		assert.Equal(t, 3, r.ExtrasSold())
	})

	t.Run("extras capped", func(t *testing.T) {
		r := newOpenRaffle(t, 5)
		fillToCapacity(t, r, t0)

		for i := 0; i < raffle.ExtrasCap; i++ {
			_, err := r.GrantExtras(1, extrasTime)
			require.NoError(t, err)
		}

		_, err := r.GrantExtras(1, extrasTime)
		assert.ErrorIs(t, err, raffle.ErrExtrasExhausted)
		assert.Equal(t, raffle.ExtrasCap, r.ExtrasSold())
	})

	t.Run("rejected outside the overtime window", func(t *testing.T) {
		r := newOpenRaffle(t, 5)
		fillToCapacity(t, r, t0)

		_, err := r.GrantExtras(1, t0)
		assert.ErrorIs(t, err, raffle.ErrPurchasesClosed)

		_, err = r.GrantExtras(1, t0.Add(raffle.Countdown-time.Second))
		assert.ErrorIs(t, err, raffle.ErrPurchasesClosed)
	})

	t.Run("rejected on an open raffle", func(t *testing.T) {
		r := newOpenRaffle(t, 5)

		_, err := r.GrantExtras(1, extrasTime)
		assert.ErrorIs(t, err, raffle.ErrNotLocked)
	})
}

func TestClose(t *testing.T) {
	drawTime := t0.Add(raffle.Countdown)

	t.Run("close with winner", func(t *testing.T) {
		r := newOpenRaffle(t, 1)
		fillToCapacity(t, r, t0)

		winner := raffle.Winner{
			PurchaseID:    uuid.New(),
			UserID:        uuid.New(),
			WinningNumber: 1,
			Seed:          "seed",
			DrawnAt:       drawTime,
		}
		require.NoError(t, r.Close(winner, drawTime))

		assert.True(t, r.IsClosed())
		require.NotNil(t, r.Winner())
		assert.Equal(t, 1, r.Winner().WinningNumber)
	})

	t.Run("closed is terminal", func(t *testing.T) {
		r := newOpenRaffle(t, 1)
		fillToCapacity(t, r, t0)
		require.NoError(t, r.CloseWithoutWinner("no participants", drawTime))

		assert.ErrorIs(t, r.Close(raffle.Winner{}, drawTime), raffle.ErrClosed)
		assert.ErrorIs(t, r.CloseWithoutWinner("again", drawTime), raffle.ErrClosed)
		_, err := r.GrantExtras(1, drawTime)
		assert.ErrorIs(t, err, raffle.ErrNotLocked)
	})

	t.Run("open raffle cannot be closed", func(t *testing.T) {
		r := newOpenRaffle(t, 5)
		assert.ErrorIs(t, r.Close(raffle.Winner{}, drawTime), raffle.ErrNotLocked)
	})
}

func TestTicketsPerPurchase(t *testing.T) {
	cases := []struct {
		name     string
		sold     int
		expected int
	}{
		{"fresh raffle", 0, 1},
		{"just under 20 percent", 19, 1},
		{"at 20 percent", 20, 2},
		{"just under 50 percent", 49, 2},
		{"at 50 percent", 50, 4},
		{"just under 80 percent", 79, 4},
		{"at 80 percent", 80, 8},
		{"at 99 percent", 99, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newOpenRaffle(t, 100)
			if tc.sold > 0 {
				_, err := r.GrantNormal(tc.sold, t0)
				require.NoError(t, err)
			}
			assert.Equal(t, tc.expected, r.TicketsPerPurchase())
		})
	}
}

func TestExtrasPrice(t *testing.T) {
	r := newOpenRaffle(t, 10)
	assert.Equal(t, int64(1000), r.ExtrasPrice().Cents())
}
