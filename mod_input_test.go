package lidar

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestInputQueue(t *testing.T) {
	q := &InputQueue{}
	q.Push(ScanPressed, SwitchMode)
	q.Push(ScanReleased)
	assert.Equal(t, []Signal{ScanPressed, SwitchMode, ScanReleased}, q.Drain())
	assert.Empty(t, q.Drain())
	assert.Equal(t, "next-energy-level", NextEnergyLevel.String())
}

func TestInputQueue_MoveAxis(t *testing.T) {
	q := &InputQueue{}
	assert.Equal(t, mgl32.Vec2{}, q.MoveAxis())

	q.SetMove(mgl32.Vec2{3, -0.5})
	assert.Equal(t, mgl32.Vec2{1, -0.5}, q.MoveAxis())
	assert.Equal(t, mgl32.Vec2{1, -0.5}, q.MoveAxis(), "the axis holds until replaced")
}
