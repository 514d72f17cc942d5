package scan

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactive_DecayAfterHits(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for trial := 0; trial < 50; trial++ {
		r := NewPhase(&fakeTranslucent{})
		sum := 0
		hits := rng.Intn(10)
		for i := 0; i < hits; i++ {
			added := rng.Intn(30)
			sum += added
			r.OnHit(added)
		}
		n := rng.Intn(200)
		for i := 0; i < n; i++ {
			r.DecayTick()
			require.GreaterOrEqual(t, r.Energy(), 0)
		}
		assert.Equal(t, max(0, sum-n), r.Energy())
	}
}

func TestReactive_GravityFlipsAtZero(t *testing.T) {
	body := &fakeBody{}
	r := NewGravity(body)
	assert.False(t, body.gravity)
	assert.True(t, body.frozen)

	r.OnHit(10)
	assert.Equal(t, 10, r.Energy())
	assert.True(t, body.gravity)
	assert.False(t, body.frozen)

	for i := 0; i < 9; i++ {
		r.DecayTick()
		require.True(t, body.gravity, "gravity must stay on at energy %d", r.Energy())
	}
	assert.Equal(t, 1, r.Energy())

	r.DecayTick()
	assert.Equal(t, 0, r.Energy())
	assert.False(t, body.gravity)
	assert.True(t, body.frozen)

	r.DecayTick()
	assert.Equal(t, 0, r.Energy())
	assert.False(t, body.gravity)
}

func TestReactive_GlowIntensity(t *testing.T) {
	light := &fakeEmitter{}
	r := NewGlow(light)

	r.OnHit(500)
	assert.InDelta(t, 0.5, light.intensity, 1e-6)
	assert.InDelta(t, 0.5, light.lightRange, 1e-6)
	assert.InDelta(t, 0.5, light.emission, 1e-6)

	r.DecayTick()
	assert.InDelta(t, 0.499, light.intensity, 1e-6)

	for r.Energy() > 0 {
		r.DecayTick()
	}
	r.DecayTick()
	assert.Zero(t, light.intensity)
	assert.Zero(t, light.lightRange)
	assert.Zero(t, light.emission)
}

func TestReactive_PhaseAlphaClamped(t *testing.T) {
	prev := PhaseAlpha(-100)
	assert.Zero(t, prev)
	for e := 0; e <= 12000; e += 250 {
		a := PhaseAlpha(e)
		assert.GreaterOrEqual(t, a, prev)
		assert.GreaterOrEqual(t, a, float32(0))
		assert.LessOrEqual(t, a, float32(1))
		prev = a
	}
	assert.Equal(t, float32(1), PhaseAlpha(10000))
	assert.Equal(t, float32(1), PhaseAlpha(50000))

	mat := &fakeTranslucent{}
	r := NewPhase(mat)
	r.OnHit(2500)
	assert.InDelta(t, 0.25, mat.alpha, 1e-6)

	// Off is a no-op for phase: no further alpha writes once drained.
	r = NewPhase(mat)
	sets := mat.sets
	r.DecayTick()
	assert.Equal(t, sets, mat.sets)
}

func TestReactive_LossRate(t *testing.T) {
	r := NewGravity(&fakeBody{})
	r.SetLossRate(3)
	r.OnHit(2)

	r.DecayTick()
	r.DecayTick()
	assert.Equal(t, 2, r.Energy())
	r.DecayTick()
	assert.Equal(t, 1, r.Energy())

	r.SetLossRate(0)
	assert.Equal(t, 1, r.LossRate())
}

func TestReactive_FanOutVariants(t *testing.T) {
	light, body, mat := &fakeEmitter{}, &fakeBody{}, &fakeTranslucent{}
	states := []*Reactive{NewGlow(light), NewGravity(body), NewPhase(mat)}
	for _, s := range states {
		s.OnHit(int(EnergyHigh))
	}
	assert.Equal(t, VariantGlow, states[0].Variant())
	assert.Equal(t, VariantGravity, states[1].Variant())
	assert.Equal(t, VariantPhase, states[2].Variant())
	assert.InDelta(t, 0.02, light.intensity, 1e-6)
	assert.True(t, body.gravity)
	assert.InDelta(t, 0.002, mat.alpha, 1e-6)

	v, err := ParseVariant("gravity")
	require.NoError(t, err)
	assert.Equal(t, VariantGravity, v)
	_, err = ParseVariant("magnet")
	assert.Error(t, err)
}
