package lidar

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Signal is a discrete player intent. Frontends translate their own key or
// button events into signals.
type Signal int

const (
	ScanPressed Signal = iota
	ScanReleased
	SwitchMode
	NextEnergyLevel
)

func (s Signal) String() string {
	switch s {
	case ScanPressed:
		return "scan-pressed"
	case ScanReleased:
		return "scan-released"
	case SwitchMode:
		return "switch-mode"
	case NextEnergyLevel:
		return "next-energy-level"
	}
	return "unknown"
}

// InputQueue buffers signals between the frontend's event goroutine and the
// tick loop. It also holds the current movement axis: X strafes right, Y
// walks forward, each in [-1,1].
type InputQueue struct {
	mu      sync.Mutex
	pending []Signal
	move    mgl32.Vec2
}

// SetMove replaces the movement axis. It holds until the next SetMove.
func (q *InputQueue) SetMove(axis mgl32.Vec2) {
	for i := range axis {
		axis[i] = mgl32.Clamp(axis[i], -1, 1)
	}
	q.mu.Lock()
	q.move = axis
	q.mu.Unlock()
}

func (q *InputQueue) MoveAxis() mgl32.Vec2 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.move
}

func (q *InputQueue) Push(signals ...Signal) {
	q.mu.Lock()
	q.pending = append(q.pending, signals...)
	q.mu.Unlock()
}

// Drain returns and clears the queued signals in arrival order.
func (q *InputQueue) Drain() []Signal {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// LidarInputSystem applies queued signals to the scheduler and latches the
// movement axis for the rig. Pressing starts a scan when idle, releasing
// cancels it.
func LidarInputSystem(input *InputQueue, lidar *Lidar) {
	lidar.Move = input.MoveAxis()
	sched := lidar.Scheduler
	for _, sig := range input.Drain() {
		switch sig {
		case ScanPressed:
			sched.Start()
		case ScanReleased:
			sched.Cancel()
		case SwitchMode:
			sched.SwitchMode()
		case NextEnergyLevel:
			sched.NextEnergyLevel()
		}
	}
}
