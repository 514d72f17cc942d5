package scan

import (
	"math/rand"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWideParams() WideParams {
	return WideParams{
		Beams:              3,
		HorizontalSteps:    10,
		VerticalSteps:      4,
		HorizontalRange:    60,
		VerticalRange:      20,
		HorizontalScanTime: 100 * time.Millisecond,
		VerticalScanTime:   40 * time.Millisecond,
		Variance:           0.25,
	}
}

// angleBetween returns the angle between two unit vectors in degrees.
func angleBetween(a, b mgl32.Vec3) float32 {
	return mgl32.RadToDeg(math32.Acos(mgl32.Clamp(a.Dot(b), -1, 1)))
}

func TestFrame_Direction(t *testing.T) {
	f := DefaultFrame

	assertVecNear(t, f.Forward, f.Direction(0, 0), 1e-5)
	assertVecNear(t, mgl32.Vec3{-1, 0, 0}, f.Direction(0, 90), 1e-5, "positive yaw turns left")
	assertVecNear(t, mgl32.Vec3{0, 1, 0}, f.Direction(90, 0), 1e-5, "positive pitch looks up")

	d := f.Direction(17, -33)
	assert.InDelta(t, 1.0, d.Len(), 1e-5)
}

func TestFrame_LookEuler(t *testing.T) {
	f := DefaultFrame

	assertVecNear(t, mgl32.Vec3{0, 0, 0}, f.LookEuler(f.Forward), 1e-4)
	assertVecNear(t, mgl32.Vec3{0, 90, 0}, f.LookEuler(f.Right), 1e-4)
	assertVecNear(t, mgl32.Vec3{270, 0, 0}, f.LookEuler(f.Up), 1e-4)
	assertVecNear(t, mgl32.Vec3{90, 0, 0}, f.LookEuler(f.Up.Mul(-1)), 1e-4)
	assert.Equal(t, mgl32.Vec3{}, f.LookEuler(mgl32.Vec3{}))
}

func TestPose_LocalRoundTrip(t *testing.T) {
	p := Pose{
		Position: mgl32.Vec3{1, 2, 3},
		Rotation: mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}),
	}
	local := mgl32.Vec3{0, 0, -5}
	world := p.Position.Add(p.ToWorldDir(local))
	assertVecNear(t, local, p.ToLocalPoint(world), 1e-4)

	var zero Pose
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, zero.ToWorldDir(mgl32.Vec3{0, 0, -1}))
}

func TestWideScan_BatchCountAndExhaustion(t *testing.T) {
	p := testWideParams()
	w := NewWideScan(p, DefaultFrame, rand.New(rand.NewSource(1)))

	var sizes []int
	var total time.Duration
	for {
		b, ok := w.Next()
		if !ok {
			break
		}
		sizes = append(sizes, len(b.Beams()))
		require.Len(t, b.Directions, len(b.Beams())+1, "sentinel slot")
		total += b.Delay
	}

	require.Equal(t, p.BatchCount(), len(sizes))
	assert.Equal(t, 16, len(sizes))
	assert.Equal(t, []int{3, 3, 3, 1}, sizes[:4])

	beams := 0
	for _, n := range sizes {
		beams += n
	}
	assert.Equal(t, p.HorizontalSteps*p.VerticalSteps, beams)
	assert.Equal(t, 16*10*time.Millisecond+4*10*time.Millisecond, total)

	_, ok := w.Next()
	assert.False(t, ok, "exhausted scans stay exhausted")
}

func TestWideScan_Serpentine(t *testing.T) {
	p := testWideParams()
	p.Beams = 10
	p.Variance = 0
	w := NewWideScan(p, DefaultFrame, rand.New(rand.NewSource(1)))

	for line := 0; line < p.VerticalSteps; line++ {
		b, ok := w.Next()
		require.True(t, ok)
		beams := b.Beams()
		require.Len(t, beams, 10)

		for i, d := range beams {
			pitch, yaw := p.Angles(line, p.Column(line, i), 0, 0)
			requireVecNear(t, DefaultFrame.Direction(pitch, yaw), d, 1e-5)
		}

		// Yaw grows toward -X on even lines and sweeps back on odd ones.
		first, last := beams[0].X(), beams[len(beams)-1].X()
		if line%2 == 0 {
			assert.Greater(t, first, last, "line %d should sweep left", line)
		} else {
			assert.Less(t, first, last, "line %d should sweep right", line)
		}
	}
	_, ok := w.Next()
	assert.False(t, ok)
}

func TestWideScan_StaysInsideField(t *testing.T) {
	p := testWideParams()
	p.Variance = 0.5
	w := NewWideScan(p, DefaultFrame, rand.New(rand.NewSource(9)))

	limit := math32.Sqrt(30*30+10*10) + 0.01
	for {
		b, ok := w.Next()
		if !ok {
			break
		}
		for _, d := range b.Beams() {
			assert.InDelta(t, 1.0, d.Len(), 1e-5)
			assert.LessOrEqual(t, angleBetween(d, DefaultFrame.Forward), limit)
		}
	}
}

func TestWideScan_InvalidParams(t *testing.T) {
	w := NewWideScan(WideParams{}, DefaultFrame, rand.New(rand.NewSource(1)))
	_, ok := w.Next()
	assert.False(t, ok)
	assert.Zero(t, WideParams{}.BatchCount())
}

func TestFocusedScan_NeverExhausts(t *testing.T) {
	f := NewFocusedScan(FocusedParams{Beams: 4, Radius: 5}, DefaultFrame, rand.New(rand.NewSource(5)))

	for i := 0; i < 1000; i++ {
		b, ok := f.Next()
		require.True(t, ok)
		assert.Zero(t, b.Delay)
		require.Len(t, b.Beams(), 4)
		for _, d := range b.Beams() {
			assert.LessOrEqual(t, angleBetween(d, DefaultFrame.Forward), float32(5.01))
		}
	}
}

func TestFocusedScan_ZeroRadius(t *testing.T) {
	f := NewFocusedScan(FocusedParams{Beams: 2, Radius: 0}, DefaultFrame, rand.New(rand.NewSource(5)))
	b, ok := f.Next()
	require.True(t, ok)
	for _, d := range b.Beams() {
		assertVecNear(t, DefaultFrame.Forward, d, 1e-6)
	}
}

func TestLevelsCycle(t *testing.T) {
	assert.Equal(t, EnergyMedium, EnergyLow.Next())
	assert.Equal(t, EnergyHigh, EnergyMedium.Next())
	assert.Equal(t, EnergyLow, EnergyHigh.Next())
	assert.Equal(t, ModeFocused, ModeWide.Next())
	assert.Equal(t, ModeWide, ModeFocused.Next())

	l, err := ParseEnergyLevel("medium")
	require.NoError(t, err)
	assert.Equal(t, EnergyMedium, l)
	m, err := ParseScanMode("focused")
	require.NoError(t, err)
	assert.Equal(t, ModeFocused, m)
	_, err = ParseScanMode("narrow")
	assert.Error(t, err)
}
