package scan

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeScene struct {
	calls int
	hit   func(origin, dir mgl32.Vec3, maxDistance float32) (Hit, bool)
}

func (f *fakeScene) Raycast(origin, dir mgl32.Vec3, maxDistance float32) (Hit, bool) {
	f.calls++
	if f.hit == nil {
		return Hit{}, false
	}
	return f.hit(origin, dir, maxDistance)
}

type fakeLookup map[ObjectHandle][]*Reactive

func (f fakeLookup) ReactiveStates(obj ObjectHandle) []*Reactive { return f[obj] }

type beamUpdate struct {
	id       BeamID
	endpoint mgl32.Vec3
	alpha    float32
}

type fakeSink struct {
	live      map[BeamID]bool
	created   int
	destroyed int
	updates   []beamUpdate
	batches   []ParticleBatch
}

func newFakeSink() *fakeSink {
	return &fakeSink{live: make(map[BeamID]bool)}
}

func (f *fakeSink) CreateBeam() BeamID {
	id := uuid.New()
	f.live[id] = true
	f.created++
	return id
}

func (f *fakeSink) DestroyBeam(id BeamID) {
	delete(f.live, id)
	f.destroyed++
}

func (f *fakeSink) UpdateBeam(id BeamID, endpoint mgl32.Vec3, alpha float32) {
	f.updates = append(f.updates, beamUpdate{id: id, endpoint: endpoint, alpha: alpha})
}

func (f *fakeSink) EmitParticles(batch ParticleBatch) {
	f.batches = append(f.batches, batch)
}

type fakeDisplay struct {
	max    int
	values []int
}

func (f *fakeDisplay) SetEnergyMax(max int) { f.max = max }
func (f *fakeDisplay) SetEnergy(v int)      { f.values = append(f.values, v) }

func (f *fakeDisplay) last() int {
	if len(f.values) == 0 {
		return -1
	}
	return f.values[len(f.values)-1]
}

type fakeEmitter struct {
	intensity, lightRange, emission float32
}

func (f *fakeEmitter) SetLight(intensity, lightRange float32) {
	f.intensity = intensity
	f.lightRange = lightRange
}
func (f *fakeEmitter) SetEmission(scale float32) { f.emission = scale }

type fakeBody struct {
	gravity, frozen bool
}

func (f *fakeBody) SetGravity(enabled bool) { f.gravity = enabled }
func (f *fakeBody) SetFrozen(frozen bool)   { f.frozen = frozen }

type fakeTranslucent struct {
	alpha float32
	sets  int
}

func (f *fakeTranslucent) SetAlpha(alpha float32) {
	f.alpha = alpha
	f.sets++
}

// fixedRand returns the same value forever.
type fixedRand float32

func (f fixedRand) Float32() float32 { return float32(f) }

func directions(n int) []mgl32.Vec3 {
	dirs := make([]mgl32.Vec3, n+1)
	for i := 0; i < n; i++ {
		dirs[i] = DefaultFrame.Forward
	}
	return dirs
}

// assertVecNear compares by distance; mgl32's ApproxEqualThreshold demands
// near-exact equality on zero components.
func assertVecNear(t *testing.T, want, got mgl32.Vec3, eps float32, msgAndArgs ...any) bool {
	t.Helper()
	if got.Sub(want).Len() <= eps {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("vectors differ by more than %v: want %v, got %v", eps, want, got), msgAndArgs...)
}

func requireVecNear(t *testing.T, want, got mgl32.Vec3, eps float32, msgAndArgs ...any) {
	t.Helper()
	if !assertVecNear(t, want, got, eps, msgAndArgs...) {
		t.FailNow()
	}
}
