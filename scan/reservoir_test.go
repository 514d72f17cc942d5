package scan

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservoir_SpendLowBatch(t *testing.T) {
	r := NewReservoir(100, 100, 0)

	cost := BatchCost(directions(5), EnergyLow)
	require.Equal(t, 25, cost)
	require.True(t, r.TrySpend(cost))
	assert.Equal(t, 75, r.Current())
}

func TestReservoir_OverdrawLeavesStateUntouched(t *testing.T) {
	r := NewReservoir(100, 20, 5)

	assert.False(t, r.TrySpend(21))
	assert.Equal(t, 20, r.Current())
	assert.False(t, r.TrySpend(-1), "negative spends are rejected")
	assert.Equal(t, 20, r.Current())
	assert.True(t, r.TrySpend(20))
	assert.Equal(t, 0, r.Current())
}

func TestReservoir_RefillClampsToCapacity(t *testing.T) {
	r := NewReservoir(50, 45, 10)
	r.Refill()
	assert.Equal(t, 50, r.Current())
	assert.True(t, r.Full())

	r = NewReservoir(50, 500, 10)
	assert.Equal(t, 50, r.Current(), "initial value is clamped")
	r = NewReservoir(50, -3, 10)
	assert.Equal(t, 0, r.Current())
}

func TestReservoir_StaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	r := NewReservoir(200, 100, 13)

	for i := 0; i < 5000; i++ {
		before := r.Current()
		if rng.Intn(2) == 0 {
			r.Refill()
		} else {
			amount := rng.Intn(120)
			ok := r.TrySpend(amount)
			if amount > before {
				require.False(t, ok)
				require.Equal(t, before, r.Current())
			} else {
				require.True(t, ok)
				require.Equal(t, before-amount, r.Current())
			}
		}
		require.GreaterOrEqual(t, r.Current(), 0)
		require.LessOrEqual(t, r.Current(), r.Capacity())
	}
}
