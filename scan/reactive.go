package scan

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Variant selects how a reactive state turns its energy into an effect.
type Variant int

const (
	VariantGlow Variant = iota
	VariantGravity
	VariantPhase
)

func (v Variant) String() string {
	switch v {
	case VariantGlow:
		return "glow"
	case VariantGravity:
		return "gravity"
	case VariantPhase:
		return "phase"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

func ParseVariant(s string) (Variant, error) {
	for _, v := range []Variant{VariantGlow, VariantGravity, VariantPhase} {
		if v.String() == s {
			return v, nil
		}
	}
	return VariantGlow, fmt.Errorf("unknown reaction %q", s)
}

// Emitter is the light/emission capability driven by the glow effect.
type Emitter interface {
	SetLight(intensity, lightRange float32)
	SetEmission(scale float32)
}

// Body is the physics capability driven by the gravity effect.
type Body interface {
	SetGravity(enabled bool)
	SetFrozen(frozen bool)
}

// Translucent is the material alpha capability driven by the phase effect.
type Translucent interface {
	SetAlpha(alpha float32)
}

const (
	glowEnergyScale  = 1000.0
	phaseEnergyScale = 10000.0
)

func GlowIntensity(energy int) float32 {
	return float32(energy) / glowEnergyScale
}

func PhaseAlpha(energy int) float32 {
	return mgl32.Clamp(float32(energy)/phaseEnergyScale, 0, 1)
}

type effect interface {
	apply(energy int)
	off()
}

type glowEffect struct{ target Emitter }

func (e glowEffect) apply(energy int) {
	intensity := GlowIntensity(energy)
	e.target.SetLight(intensity, intensity)
	e.target.SetEmission(intensity)
}

func (e glowEffect) off() {
	e.target.SetLight(0, 0)
	e.target.SetEmission(0)
}

type gravityEffect struct{ target Body }

func (e gravityEffect) apply(energy int) {
	enabled := energy > 0
	e.target.SetGravity(enabled)
	e.target.SetFrozen(!enabled)
}

func (e gravityEffect) off() { e.apply(0) }

type phaseEffect struct{ target Translucent }

func (e phaseEffect) apply(energy int) { e.target.SetAlpha(PhaseAlpha(energy)) }

func (e phaseEffect) off() {}

// Reactive is the decaying energy state attached to a world object.
// Energy grows on hits without an upper bound and drains by one per decay step.
type Reactive struct {
	variant  Variant
	energy   int
	lossRate int
	ticks    int
	effect   effect
}

func newReactive(v Variant, e effect) *Reactive {
	r := &Reactive{variant: v, lossRate: 1, effect: e}
	e.off()
	return r
}

// NewGlow binds a glow reaction to target. The light starts switched off.
func NewGlow(target Emitter) *Reactive {
	return newReactive(VariantGlow, glowEffect{target: target})
}

// NewGravity binds a gravity reaction. The body starts frozen with gravity off.
func NewGravity(target Body) *Reactive {
	return newReactive(VariantGravity, gravityEffect{target: target})
}

func NewPhase(target Translucent) *Reactive {
	r := newReactive(VariantPhase, phaseEffect{target: target})
	target.SetAlpha(PhaseAlpha(0))
	return r
}

// SetLossRate sets how many ticks make one decay step. Values below 1 mean every tick.
func (r *Reactive) SetLossRate(ticks int) {
	if ticks < 1 {
		ticks = 1
	}
	r.lossRate = ticks
	r.ticks = 0
}

func (r *Reactive) Variant() Variant { return r.variant }
func (r *Reactive) Energy() int      { return r.energy }
func (r *Reactive) LossRate() int    { return r.lossRate }

func (r *Reactive) OnHit(added int) {
	r.energy += added
	if r.energy < 0 {
		r.energy = 0
	}
	r.effect.apply(r.energy)
}

// DecayTick advances the decay clock by one simulation step.
func (r *Reactive) DecayTick() {
	r.ticks++
	if r.ticks < r.lossRate {
		return
	}
	r.ticks = 0

	if r.energy <= 0 {
		r.effect.off()
		return
	}
	r.energy--
	r.effect.apply(r.energy)
}
