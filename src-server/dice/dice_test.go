package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollBounds(t *testing.T) {
	rng := NewRand(42)
	for _, sides := range Sides {
		for i := 0; i < 500; i++ {
			result, err := Roll(rng, sides, 1)
			require.NoError(t, err)
			require.Len(t, result.Rolls, 1)
			assert.GreaterOrEqual(t, result.Total, 1)
			assert.LessOrEqual(t, result.Total, sides)
			if sides == 100 {
				assert.Zero(t, result.Total%10, "d100 rolls are multiples of ten")
				assert.GreaterOrEqual(t, result.Total, 10)
			}
		}
	}
}

func TestRollDeterministic(t *testing.T) {
	a, err := Roll(NewRand(7), 20, 5)
	require.NoError(t, err)
	b, err := Roll(NewRand(7), 20, 5)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	sum := 0
	for _, v := range a.Rolls {
		sum += v
	}
	assert.Equal(t, sum, a.Total)
}

func TestRollRejects(t *testing.T) {
	rng := NewRand(1)
	_, err := Roll(rng, 7, 1)
	assert.ErrorIs(t, err, ErrInvalidDie)
	_, err = Roll(rng, 6, 0)
	assert.ErrorIs(t, err, ErrInvalidCount)
	_, err = Roll(rng, 6, MaxCount+1)
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestRoundToTen(t *testing.T) {
	for in, want := range map[int]int{1: 10, 4: 10, 5: 10, 14: 10, 15: 20, 94: 90, 95: 100, 100: 100} {
		assert.Equal(t, want, roundToTen(in), in)
	}
}
