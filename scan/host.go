package scan

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type ObjectHandle uint64

// Hit describes the nearest intersection of a ray with the scene.
type Hit struct {
	Point  mgl32.Vec3
	Normal mgl32.Vec3
	T      float32
	Object ObjectHandle
}

type SceneQuery interface {
	Raycast(origin, dir mgl32.Vec3, maxDistance float32) (Hit, bool)
}

// ReactiveLookup returns the reactive states attached to an object, or none.
type ReactiveLookup interface {
	ReactiveStates(obj ObjectHandle) []*Reactive
}

type BeamID = uuid.UUID

// VisualSink receives beam line and particle updates. Endpoints are in the
// caster's local space.
type VisualSink interface {
	CreateBeam() BeamID
	DestroyBeam(id BeamID)
	UpdateBeam(id BeamID, endpoint mgl32.Vec3, alpha float32)
	EmitParticles(batch ParticleBatch)
}

// EnergyDisplay is a one-way sink for reservoir values.
type EnergyDisplay interface {
	SetEnergyMax(max int)
	SetEnergy(current int)
}

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
