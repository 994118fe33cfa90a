package raffle

import (
	"errors"
	"fmt"
)

type Money struct {
	cents int64
}

func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

func NewPositiveMoney(cents int64) (Money, error) {
	if cents <= 0 {
		return Money{}, errors.New("amount must be positive")
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Mul(factor int64) Money {
	return Money{cents: m.cents * factor}
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

func (m Money) IsPositive() bool {
	return m.cents > 0
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}

// NumberRange is a contiguous block of ticket numbers, inclusive on both ends.
type NumberRange struct {
	from int
	to   int
}

func NewNumberRange(from, to int) (NumberRange, error) {
	if from <= 0 || to < from {
		return NumberRange{}, fmt.Errorf("invalid ticket range [%d,%d]", from, to)
	}
	return NumberRange{from: from, to: to}, nil
}

func (r NumberRange) From() int { return r.from }
func (r NumberRange) To() int   { return r.to }
func (r NumberRange) Len() int  { return r.to - r.from + 1 }

func (r NumberRange) Numbers() []int {
	nums := make([]int, 0, r.Len())
	for n := r.from; n <= r.to; n++ {
		nums = append(nums, n)
	}
	return nums
}
