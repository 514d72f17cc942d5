package scan

import (
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/math/f32"
)

// HitTint is the particle base colour, scaled by each particle's energy.
var HitTint = mgl32.Vec4{191.0 / 255.0, 12.0 / 255.0, 12.0 / 255.0, 1}

// surfaceOffset lifts spawn points off the struck surface.
const surfaceOffset = 0.0001

type HitPayload struct {
	Position    mgl32.Vec3
	NormalEuler mgl32.Vec3 // degrees
	Energy      float32
	Color       mgl32.Vec4
}

// ParticleBatch is one drawable burst; lifetimes are seconds.
type ParticleBatch struct {
	Items       []HitPayload
	MinLifetime float32
	MaxLifetime float32
}

func (b ParticleBatch) Count() int { return len(b.Items) }

// PackInfo lays the batch out as the three texture rows the particle
// shader samples: spawn position, normal euler and colour.
func (b ParticleBatch) PackInfo() [3][]f32.Vec4 {
	var rows [3][]f32.Vec4
	for i := range rows {
		rows[i] = make([]f32.Vec4, len(b.Items))
	}
	for i, it := range b.Items {
		rows[0][i] = f32.Vec4{it.Position[0], it.Position[1], it.Position[2], 0}
		rows[1][i] = f32.Vec4{it.NormalEuler[0], it.NormalEuler[1], it.NormalEuler[2], 0}
		rows[2][i] = f32.Vec4(it.Color)
	}
	return rows
}

func lifetimes(level EnergyLevel) (float32, float32) {
	return float32(level), float32(level) + 0.5
}
