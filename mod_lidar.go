package lidar

import (
	"math/rand"
	"time"

	"github.com/gekko3d/lidar/scan"
	"github.com/go-gl/mathgl/mgl32"
)

// Lidar is the scanner resource: the scheduler, its caster, and the rig pose
// the caster fires from. Move is the rig's movement axis for this tick.
type Lidar struct {
	Config    LidarConfig
	Scheduler *scan.Scheduler
	Caster    *scan.Caster
	Rig       scan.Pose
	Move      mgl32.Vec2
}

// LidarModule wires a scanner into the app. It needs SceneModule installed
// first. A BeamRenderer from VfxModule is reused when present, otherwise the
// module installs its own along with the aging system. A zero Seed seeds
// from the clock.
type LidarModule struct {
	Config LidarConfig
	Seed   int64
}

func (m LidarModule) Install(app *App, cmd *Commands) {
	cfg := m.Config
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	scene, ok := Resource[Scene](app)
	if !ok {
		panic("LidarModule requires SceneModule")
	}

	vfx, ok := Resource[BeamRenderer](app)
	if !ok {
		vfx = NewBeamRenderer(cfg.LineWidth, [4]float32{1, 0.2, 0.2, 1}, m.seed())
		cmd.AddResources(vfx)
		app.UseSystem(
			System(VfxSystem).
				InStage(Finale),
		)
	}
	gauge := &EnergyGauge{}

	caster := &scan.Caster{
		Scene:       scene,
		Reactives:   scene,
		Reservoir:   scan.NewReservoir(cfg.MaxEnergy, cfg.StartingEnergy, cfg.EnergyRefresh),
		Visuals:     vfx,
		Display:     gauge,
		Logger:      app.Logger(),
		Rand:        rand.New(rand.NewSource(m.seed())),
		Frame:       scan.DefaultFrame,
		Pose:        cfg.Pose(),
		MaxDistance: cfg.MaxBeamDistance,
	}
	lidar := &Lidar{
		Config:    cfg,
		Scheduler: scan.NewScheduler(cfg.SchedulerConfig(), caster),
		Caster:    caster,
		Rig:       cfg.Pose(),
	}
	cmd.AddResources(gauge, &InputQueue{}, lidar)

	app.UseSystem(
		System(LidarInputSystem).
			InStage(PreUpdate),
	)
	app.UseSystem(
		System(RigMotionSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(LidarSystem).
			InStage(Update),
	)
}

func (m LidarModule) seed() int64 {
	if m.Seed != 0 {
		return m.Seed
	}
	return time.Now().UnixNano()
}

// RigMotionSystem walks the rig along its own axes at Config.MoveSpeed.
// Height is kept; the rig does not collide with the scene.
func RigMotionSystem(t *Time, lidar *Lidar) {
	if lidar.Move == (mgl32.Vec2{}) {
		return
	}
	speed := lidar.Config.MoveSpeed * t.DtSeconds()
	local := mgl32.Vec3{lidar.Move.X(), 0, 0}.Add(scan.DefaultFrame.Forward.Mul(lidar.Move.Y()))
	if local.Len() > 1 {
		local = local.Normalize()
	}
	world := lidar.Rig.ToWorldDir(local)
	world[1] = 0
	lidar.Rig.Position = lidar.Rig.Position.Add(world.Mul(speed))
}

// LidarSystem keeps the caster on the rig and advances the scheduler.
func LidarSystem(t *Time, lidar *Lidar) {
	lidar.Caster.Pose = lidar.Rig
	lidar.Scheduler.Tick(t.Elapsed)
}
