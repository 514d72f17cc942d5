package lidar

import (
	"github.com/go-gl/mathgl/mgl32"
)

// RigidBodyComponent is the minimal body the gravity reaction toggles.
// Static bodies never move.
type RigidBodyComponent struct {
	Velocity   mgl32.Vec3
	Mass       float32
	UseGravity bool
	Frozen     bool
	Static     bool
}

type PhysicsWorld struct {
	Gravity      mgl32.Vec3
	GroundHeight float32
}

func NewPhysicsWorld() *PhysicsWorld {
	return &PhysicsWorld{
		Gravity:      mgl32.Vec3{0, -9.81, 0},
		GroundHeight: 0,
	}
}

type PhysicsModule struct{}

func (m PhysicsModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewPhysicsWorld())

	app.UseSystem(
		System(PhysicsSystem).
			InStage(Update),
	)
}

// PhysicsSystem lets unfrozen bodies with gravity fall onto the ground plane.
func PhysicsSystem(time *Time, physics *PhysicsWorld, scene *Scene) {
	dt := time.DtSeconds()
	if dt <= 0 || dt > 1.0 { // Safety cap for dt
		return
	}

	for _, obj := range scene.Objects() {
		rb := &obj.Body
		if rb.Static {
			continue
		}
		if rb.Frozen {
			rb.Velocity = mgl32.Vec3{}
			continue
		}
		if rb.UseGravity {
			rb.Velocity = rb.Velocity.Add(physics.Gravity.Mul(dt))
		}
		if rb.Velocity.Len() == 0 {
			continue
		}

		pos := obj.Position.Add(rb.Velocity.Mul(dt))
		bottom := pos.Y() - obj.halfHeight()
		if bottom < physics.GroundHeight {
			pos[1] = physics.GroundHeight + obj.halfHeight()
			rb.Velocity[1] = 0
		}
		if pos != obj.Position {
			scene.Move(obj, pos)
		}
	}
}
