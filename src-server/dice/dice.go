// Package dice rolls the standard polyhedral dice.
package dice

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

var (
	ErrInvalidDie   = errors.New("invalid die")
	ErrInvalidCount = errors.New("invalid dice count")
)

const MaxCount = 20

// Sides lists the dice that can be rolled.
var Sides = []int{4, 6, 8, 10, 12, 20, 100}

func Valid(sides int) bool {
	for _, s := range Sides {
		if s == sides {
			return true
		}
	}
	return false
}

// Result is one roll of Count dice.
type Result struct {
	Sides int
	Rolls []int
	Total int
}

func (r Result) String() string {
	if len(r.Rolls) == 1 {
		return fmt.Sprintf("d%d: %d", r.Sides, r.Total)
	}
	return fmt.Sprintf("%dd%d: %v = %d", len(r.Rolls), r.Sides, r.Rolls, r.Total)
}

// NewRand returns a generator seeded from the clock, or from seed when it is
// non-zero.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Roll rolls count dice of the given sides. A d100 is reported rounded to the
// nearest ten, never below 10.
func Roll(rng *rand.Rand, sides int, count int) (Result, error) {
	if !Valid(sides) {
		return Result{}, fmt.Errorf("dice.Roll: d%d: %w", sides, ErrInvalidDie)
	}
	if count < 1 || count > MaxCount {
		return Result{}, fmt.Errorf("dice.Roll: %d dice: %w", count, ErrInvalidCount)
	}

	result := Result{Sides: sides, Rolls: make([]int, count)}
	for i := range result.Rolls {
		value := rng.Intn(sides) + 1
		if sides == 100 {
			value = roundToTen(value)
		}
		result.Rolls[i] = value
		result.Total += value
	}
	return result, nil
}

func roundToTen(n int) int {
	rounded := (n + 5) / 10 * 10
	if rounded < 10 {
		return 10
	}
	return rounded
}
