package lidar

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhysicsSystem_GravityReaction(t *testing.T) {
	scene := NewScene(2)
	crate, err := scene.Spawn(ObjectDef{
		Name:        "crate",
		Position:    mgl32.Vec3{0, 3, 0},
		HalfExtents: mgl32.Vec3{1, 1, 1},
		Mass:        1,
		Reactions:   []string{"gravity"},
	})
	require.NoError(t, err)

	world := NewPhysicsWorld()
	tm := &Time{Dt: 16 * time.Millisecond}

	for i := 0; i < 10; i++ {
		PhysicsSystem(tm, world, scene)
	}
	assert.Equal(t, float32(3), crate.Position.Y(), "frozen until hit")

	crate.Reactives[0].OnHit(5)
	require.True(t, crate.Body.UseGravity)
	require.False(t, crate.Body.Frozen)

	for i := 0; i < 200; i++ {
		PhysicsSystem(tm, world, scene)
	}
	assert.InDelta(t, 1, crate.Position.Y(), 1e-5, "rests on the ground")
	assert.Zero(t, crate.Body.Velocity.Y())

	hit, ok := scene.Raycast(mgl32.Vec3{0, 10, 0}, mgl32.Vec3{0, -1, 0}, 20)
	require.True(t, ok)
	assert.InDelta(t, 8, hit.T, 1e-4, "grid follows the body")
}

func TestPhysicsSystem_SkipsStaticAndFrozen(t *testing.T) {
	scene := NewScene(2)
	wall, err := scene.Spawn(ObjectDef{Name: "wall", Position: mgl32.Vec3{0, 5, 0}, HalfExtents: mgl32.Vec3{1, 1, 1}})
	require.NoError(t, err)
	ball, err := scene.Spawn(ObjectDef{Name: "ball", Position: mgl32.Vec3{3, 5, 0}, Shape: ShapeSphere, Radius: 1, Mass: 1})
	require.NoError(t, err)
	ball.Body.Velocity = mgl32.Vec3{1, 0, 0}
	ball.Body.Frozen = true

	PhysicsSystem(&Time{Dt: 16 * time.Millisecond}, NewPhysicsWorld(), scene)
	assert.Equal(t, mgl32.Vec3{0, 5, 0}, wall.Position)
	assert.Equal(t, mgl32.Vec3{3, 5, 0}, ball.Position)
	assert.Equal(t, mgl32.Vec3{}, ball.Body.Velocity)

	ball.Body.Frozen = false
	ball.Body.Velocity = mgl32.Vec3{1, 0, 0}
	PhysicsSystem(&Time{Dt: 500 * time.Millisecond}, NewPhysicsWorld(), scene)
	assert.InDelta(t, 3.5, ball.Position.X(), 1e-5)

	PhysicsSystem(&Time{Dt: 2 * time.Second}, NewPhysicsWorld(), scene)
	assert.InDelta(t, 3.5, ball.Position.X(), 1e-5, "oversized steps are dropped")
}
