package scan

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Outcome int

const (
	Fired Outcome = iota
	Aborted
)

func (o Outcome) String() string {
	if o == Aborted {
		return "aborted"
	}
	return "fired"
}

// Caster fires batches of beams from Pose into Scene, paying for them from
// Reservoir. Reactives, Visuals, Display and Logger are optional.
type Caster struct {
	Scene       SceneQuery
	Reactives   ReactiveLookup
	Reservoir   *Reservoir
	Visuals     VisualSink
	Display     EnergyDisplay
	Logger      Logger
	Rand        Rand
	Frame       Frame
	Pose        Pose
	MaxDistance float32
}

// BatchCost is what a batch of directions (sentinel included) costs at level.
func BatchCost(directions []mgl32.Vec3, level EnergyLevel) int {
	if len(directions) == 0 {
		return 0
	}
	return int(level) * (len(directions) - 1)
}

// FireBatch spends for the whole batch up front and then casts every beam.
// If the reservoir cannot cover the batch nothing is cast and Aborted is
// returned; the session must end.
func (c *Caster) FireBatch(pool []BeamID, directions []mgl32.Vec3, level EnergyLevel) Outcome {
	logger := c.logger()

	cost := BatchCost(directions, level)
	if !c.Reservoir.TrySpend(cost) {
		logger.Debugf("lidar: batch of %d beams needs %d energy, have %d", max(len(directions)-1, 0), cost, c.Reservoir.Current())
		return Aborted
	}
	if c.Display != nil {
		c.Display.SetEnergy(c.Reservoir.Current())
	}

	beams := max(len(directions)-1, 0)
	hits := make([]HitPayload, 0, beams)
	for i := 0; i < beams; i++ {
		var beam BeamID
		hasBeam := len(pool) > 0
		if hasBeam {
			beam = pool[i%len(pool)]
		}

		payload, endpoint, hit := c.castBeam(directions[i], level)
		if hit {
			hits = append(hits, payload)
		}
		if hasBeam && c.Visuals != nil {
			c.Visuals.UpdateBeam(beam, endpoint, c.Rand.Float32())
		}
	}

	if c.Visuals != nil {
		minLife, maxLife := lifetimes(level)
		c.Visuals.EmitParticles(ParticleBatch{
			Items:       hits,
			MinLifetime: minLife,
			MaxLifetime: maxLife,
		})
	}
	return Fired
}

// castBeam returns the hit payload (if any) and the beam's far endpoint in
// local space.
func (c *Caster) castBeam(localDir mgl32.Vec3, level EnergyLevel) (HitPayload, mgl32.Vec3, bool) {
	logger := c.logger()
	worldDir := c.Pose.ToWorldDir(localDir)

	hit, ok := c.Scene.Raycast(c.Pose.Position, worldDir, c.MaxDistance)
	if !ok {
		logger.Debugf("lidar: miss")
		return HitPayload{}, localDir.Mul(c.MaxDistance), false
	}

	if c.Reactives != nil {
		states := c.Reactives.ReactiveStates(hit.Object)
		if len(states) > 0 {
			logger.Debugf("lidar: reactive hit on object %d (%d states)", hit.Object, len(states))
		} else {
			logger.Debugf("lidar: plain hit on object %d", hit.Object)
		}
		for _, s := range states {
			s.OnHit(int(level))
		}
	}

	energy := float32(level) * uniform(c.Rand, 0.5, 2.0)
	payload := HitPayload{
		Position:    hit.Point.Add(hit.Normal.Mul(surfaceOffset)),
		NormalEuler: c.Frame.LookEuler(hit.Normal),
		Energy:      energy,
		Color:       HitTint.Mul(energy),
	}
	return payload, c.Pose.ToLocalPoint(hit.Point), true
}

func (c *Caster) logger() Logger {
	if c.Logger == nil {
		return nopLogger{}
	}
	return c.Logger
}
