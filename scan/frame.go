package scan

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Frame names the caster's local axes. Angles handed to Direction are degrees.
type Frame struct {
	Right   mgl32.Vec3
	Up      mgl32.Vec3
	Forward mgl32.Vec3
}

// DefaultFrame is right-handed with Y up, looking down -Z.
var DefaultFrame = Frame{
	Right:   mgl32.Vec3{1, 0, 0},
	Up:      mgl32.Vec3{0, 1, 0},
	Forward: mgl32.Vec3{0, 0, -1},
}

// Direction yaws Forward about Up, then pitches the result about Right.
func (f Frame) Direction(pitchDeg, yawDeg float32) mgl32.Vec3 {
	yaw := mgl32.QuatRotate(mgl32.DegToRad(yawDeg), f.Up)
	pitch := mgl32.QuatRotate(mgl32.DegToRad(pitchDeg), f.Right)
	return pitch.Rotate(yaw.Rotate(f.Forward)).Normalize()
}

// LookEuler returns the Euler angles, in degrees within [0,360), of the
// rotation that looks along dir with Up as the up reference. Roll is always 0.
func (f Frame) LookEuler(dir mgl32.Vec3) mgl32.Vec3 {
	if dir.Len() == 0 {
		return mgl32.Vec3{}
	}
	dir = dir.Normalize()
	x := dir.Dot(f.Right)
	y := mgl32.Clamp(dir.Dot(f.Up), -1, 1)
	z := dir.Dot(f.Forward)

	pitch := mgl32.RadToDeg(-math32.Asin(y))
	var yaw float32
	if math32.Abs(x) > 1e-6 || math32.Abs(z) > 1e-6 {
		yaw = mgl32.RadToDeg(math32.Atan2(x, z))
	}
	return mgl32.Vec3{wrapDegrees(pitch), wrapDegrees(yaw), 0}
}

func wrapDegrees(a float32) float32 {
	a = math32.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a -= 360
	}
	return a
}

// Pose places the caster in the world.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

func IdentityPose() Pose {
	return Pose{Rotation: mgl32.QuatIdent()}
}

// rotation treats the zero quaternion as identity so a zero Pose is usable.
func (p Pose) rotation() mgl32.Quat {
	if p.Rotation.W == 0 && p.Rotation.V == (mgl32.Vec3{}) {
		return mgl32.QuatIdent()
	}
	return p.Rotation
}

func (p Pose) ToWorldDir(local mgl32.Vec3) mgl32.Vec3 {
	return p.rotation().Rotate(local)
}

// ToLocalPoint maps a world point into the caster's local space.
func (p Pose) ToLocalPoint(world mgl32.Vec3) mgl32.Vec3 {
	return p.rotation().Conjugate().Rotate(world.Sub(p.Position))
}
