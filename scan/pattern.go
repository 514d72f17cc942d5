package scan

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Rand is the random source used by patterns and the caster.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float32() float32
}

func uniform(rng Rand, lo, hi float32) float32 {
	return lo + (hi-lo)*rng.Float32()
}

// Batch is one set of beam directions plus the wait before the next batch.
// Directions carries a trailing sentinel slot that is never fired.
type Batch struct {
	Directions []mgl32.Vec3
	Delay      time.Duration
}

// Beams returns the directions that are actually fired.
func (b Batch) Beams() []mgl32.Vec3 {
	if len(b.Directions) == 0 {
		return nil
	}
	return b.Directions[:len(b.Directions)-1]
}

// Pattern yields direction batches for a single scan session.
// It returns false once exhausted and is never restarted.
type Pattern interface {
	Next() (Batch, bool)
}

type WideParams struct {
	Beams              int
	HorizontalSteps    int
	VerticalSteps      int
	HorizontalRange    float32 // degrees
	VerticalRange      float32 // degrees
	HorizontalScanTime time.Duration
	VerticalScanTime   time.Duration
	Variance           float32 // fraction of one step
}

func (p WideParams) valid() bool {
	return p.Beams > 0 && p.HorizontalSteps > 0 && p.VerticalSteps > 0
}

// BatchCount is the number of batches a full raster emits.
func (p WideParams) BatchCount() int {
	if !p.valid() {
		return 0
	}
	perLine := (p.HorizontalSteps + p.Beams - 1) / p.Beams
	return perLine * p.VerticalSteps
}

// WideScan walks a serpentine raster: even lines sweep toward +yaw, odd lines
// sweep back. Each beam is jittered by up to Variance of a step on both axes.
type WideScan struct {
	params WideParams
	frame  Frame
	rng    Rand
	line   int
	col    int
}

func NewWideScan(p WideParams, frame Frame, rng Rand) *WideScan {
	return &WideScan{params: p, frame: frame, rng: rng}
}

// Angles returns the pitch and yaw of a raster cell centre, offset by the
// jitter given in steps.
func (p WideParams) Angles(line, column int, jitterX, jitterY float32) (pitch, yaw float32) {
	hStep := p.HorizontalRange / float32(p.HorizontalSteps)
	vStep := p.VerticalRange / float32(p.VerticalSteps)
	pitch = -p.VerticalRange/2 + vStep*(float32(line)+0.5+jitterY)
	yaw = -p.HorizontalRange/2 + hStep*(float32(column)+0.5+jitterX)
	return pitch, yaw
}

// Column maps a beam index along a line to its raster column.
func (p WideParams) Column(line, beam int) int {
	if line%2 == 1 {
		return p.HorizontalSteps - 1 - beam
	}
	return beam
}

func (w *WideScan) Next() (Batch, bool) {
	p := w.params
	if !p.valid() || w.line >= p.VerticalSteps {
		return Batch{}, false
	}

	end := min(w.col+p.Beams, p.HorizontalSteps)
	dirs := make([]mgl32.Vec3, end-w.col+1)
	for beam := w.col; beam < end; beam++ {
		jx := uniform(w.rng, -p.Variance, p.Variance)
		jy := uniform(w.rng, -p.Variance, p.Variance)
		pitch, yaw := p.Angles(w.line, p.Column(w.line, beam), jx, jy)
		dirs[beam-w.col] = w.frame.Direction(pitch, yaw)
	}

	delay := p.HorizontalScanTime / time.Duration(p.HorizontalSteps)
	w.col = end
	if w.col >= p.HorizontalSteps {
		w.col = 0
		w.line++
		delay += p.VerticalScanTime / time.Duration(p.VerticalSteps)
	}
	return Batch{Directions: dirs, Delay: delay}, true
}

type FocusedParams struct {
	Beams  int
	Radius float32 // degrees
}

// FocusedScan samples Beams directions uniformly inside a cone of Radius
// degrees every tick, forever.
type FocusedScan struct {
	params FocusedParams
	frame  Frame
	rng    Rand
}

func NewFocusedScan(p FocusedParams, frame Frame, rng Rand) *FocusedScan {
	return &FocusedScan{params: p, frame: frame, rng: rng}
}

// sampleDisk draws a point in the disk of radius r by rejection.
func sampleDisk(rng Rand, r float32) (float32, float32) {
	r = math32.Abs(r)
	for {
		x := uniform(rng, -r, r)
		y := uniform(rng, -r, r)
		if math32.Sqrt(x*x+y*y) <= r {
			return x, y
		}
	}
}

func (f *FocusedScan) Next() (Batch, bool) {
	n := max(f.params.Beams, 0)
	dirs := make([]mgl32.Vec3, n+1)
	for i := 0; i < n; i++ {
		x, y := sampleDisk(f.rng, f.params.Radius)
		dirs[i] = f.frame.Direction(x, y)
	}
	return Batch{Directions: dirs}, true
}
