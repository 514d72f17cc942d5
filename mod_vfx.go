package lidar

import (
	"math/rand"
	"time"

	"github.com/gekko3d/lidar/scan"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"golang.org/x/image/math/f32"
)

// BeamLine is one drawable beam from the caster origin to End, both in the
// caster's local space.
type BeamLine struct {
	ID    scan.BeamID
	Start mgl32.Vec3
	End   mgl32.Vec3
	Width float32
	Color [4]float32
}

// hit particle pool, structure of arrays
type particlePool struct {
	pos   []mgl32.Vec3
	euler []mgl32.Vec3
	color []mgl32.Vec4
	age   []float32
	life  []float32
	alive int
}

func (p *particlePool) spawn(item scan.HitPayload, life float32) {
	if p.alive < len(p.pos) {
		i := p.alive
		p.pos[i] = item.Position
		p.euler[i] = item.NormalEuler
		p.color[i] = item.Color
		p.age[i] = 0
		p.life[i] = life
	} else {
		p.pos = append(p.pos, item.Position)
		p.euler = append(p.euler, item.NormalEuler)
		p.color = append(p.color, item.Color)
		p.age = append(p.age, 0)
		p.life = append(p.life, life)
	}
	p.alive++
}

// Swap-remove one particle
func (p *particlePool) killAt(i int) {
	last := p.alive - 1
	p.pos[i] = p.pos[last]
	p.euler[i] = p.euler[last]
	p.color[i] = p.color[last]
	p.age[i] = p.age[last]
	p.life[i] = p.life[last]
	p.alive--
}

// Particle is a read-only view of a live hit particle.
type Particle struct {
	Position    mgl32.Vec3
	NormalEuler mgl32.Vec3
	Color       mgl32.Vec4
	Age         float32
	Lifetime    float32
}

// BeamRenderer keeps the beam lines and hit particles a frontend draws.
// It implements scan.VisualSink.
type BeamRenderer struct {
	LineWidth float32
	Color     [4]float32
	// OnBurst, when set, is called for every non-empty particle batch.
	OnBurst func(batch scan.ParticleBatch)

	beams     map[scan.BeamID]*BeamLine
	order     []scan.BeamID
	particles particlePool
	info      [3][]f32.Vec4
	bursts    int
	rng       *rand.Rand
}

func NewBeamRenderer(lineWidth float32, color [4]float32, seed int64) *BeamRenderer {
	return &BeamRenderer{
		LineWidth: lineWidth,
		Color:     color,
		beams:     make(map[scan.BeamID]*BeamLine),
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (r *BeamRenderer) CreateBeam() scan.BeamID {
	id := uuid.New()
	r.beams[id] = &BeamLine{ID: id, Width: r.LineWidth, Color: r.Color}
	r.order = append(r.order, id)
	return id
}

func (r *BeamRenderer) DestroyBeam(id scan.BeamID) {
	if _, ok := r.beams[id]; !ok {
		return
	}
	delete(r.beams, id)
	for i, other := range r.order {
		if other == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *BeamRenderer) UpdateBeam(id scan.BeamID, endpoint mgl32.Vec3, alpha float32) {
	beam, ok := r.beams[id]
	if !ok {
		return
	}
	beam.Start = mgl32.Vec3{}
	beam.End = endpoint
	beam.Color[3] = alpha
}

func (r *BeamRenderer) EmitParticles(batch scan.ParticleBatch) {
	if batch.Count() == 0 {
		return
	}
	for _, item := range batch.Items {
		life := batch.MinLifetime + (batch.MaxLifetime-batch.MinLifetime)*r.rng.Float32()
		r.particles.spawn(item, life)
	}
	r.info = batch.PackInfo()
	r.bursts++
	if r.OnBurst != nil {
		r.OnBurst(batch)
	}
}

// Beams returns the live beam lines in creation order.
func (r *BeamRenderer) Beams() []BeamLine {
	out := make([]BeamLine, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.beams[id])
	}
	return out
}

func (r *BeamRenderer) Beam(id scan.BeamID) (BeamLine, bool) {
	beam, ok := r.beams[id]
	if !ok {
		return BeamLine{}, false
	}
	return *beam, true
}

func (r *BeamRenderer) Particles() []Particle {
	p := &r.particles
	out := make([]Particle, p.alive)
	for i := 0; i < p.alive; i++ {
		out[i] = Particle{
			Position:    p.pos[i],
			NormalEuler: p.euler[i],
			Color:       p.color[i],
			Age:         p.age[i],
			Lifetime:    p.life[i],
		}
	}
	return out
}

func (r *BeamRenderer) ParticleCount() int { return r.particles.alive }

// ParticleInfo is the packed texture rows of the most recent burst.
func (r *BeamRenderer) ParticleInfo() [3][]f32.Vec4 { return r.info }

func (r *BeamRenderer) Bursts() int { return r.bursts }

// Age advances every particle by dt and drops the expired ones.
func (r *BeamRenderer) Age(dt time.Duration) {
	step := float32(dt.Seconds())
	p := &r.particles
	i := 0
	for i < p.alive {
		age := p.age[i] + step
		if age >= p.life[i] {
			p.killAt(i)
			continue
		}
		p.age[i] = age
		i++
	}
}

type VfxModule struct {
	LineWidth float32
	Color     [4]float32
	Seed      int64
}

func (m VfxModule) Install(app *App, cmd *Commands) {
	width := m.LineWidth
	if width <= 0 {
		width = 0.02
	}
	color := m.Color
	if color == [4]float32{} {
		color = [4]float32{1, 0.2, 0.2, 1}
	}
	seed := m.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cmd.AddResources(NewBeamRenderer(width, color, seed))

	app.UseSystem(
		System(VfxSystem).
			InStage(Finale),
	)
}

func VfxSystem(t *Time, vfx *BeamRenderer) {
	vfx.Age(t.Dt)
}
