package scan

// Reservoir is the bounded energy budget that pays for beams.
// It has a single owner (the scheduler tick) and no locking.
type Reservoir struct {
	capacity      int
	current       int
	refillPerTick int
}

func NewReservoir(capacity, current, refillPerTick int) *Reservoir {
	if capacity < 0 {
		capacity = 0
	}
	r := &Reservoir{
		capacity:      capacity,
		refillPerTick: refillPerTick,
	}
	r.current = r.clamp(current)
	return r
}

func (r *Reservoir) clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > r.capacity {
		return r.capacity
	}
	return v
}

// Refill adds one tick worth of energy, clamped to capacity.
// Only the idle scheduler calls it; the budget does not regenerate mid-scan.
func (r *Reservoir) Refill() {
	r.current = r.clamp(r.current + r.refillPerTick)
}

// TrySpend removes amount if the reservoir holds at least that much.
// A failed spend leaves the reservoir untouched.
func (r *Reservoir) TrySpend(amount int) bool {
	if amount < 0 || r.current < amount {
		return false
	}
	r.current -= amount
	return true
}

func (r *Reservoir) Current() int       { return r.current }
func (r *Reservoir) Capacity() int      { return r.capacity }
func (r *Reservoir) RefillPerTick() int { return r.refillPerTick }
func (r *Reservoir) Full() bool         { return r.current >= r.capacity }
