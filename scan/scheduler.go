package scan

import (
	"time"

	"github.com/google/uuid"
)

type State int

const (
	Idle State = iota
	Scanning
)

func (s State) String() string {
	if s == Scanning {
		return "scanning"
	}
	return "idle"
}

// EndReason records why the last session was torn down.
type EndReason int

const (
	EndNone EndReason = iota
	EndCancelled
	EndExhausted
	EndAborted
)

func (r EndReason) String() string {
	switch r {
	case EndCancelled:
		return "cancelled"
	case EndExhausted:
		return "exhausted"
	case EndAborted:
		return "out of energy"
	}
	return "none"
}

type SchedulerConfig struct {
	Wide    WideParams
	Focused FocusedParams
	Mode    ScanMode
	Level   EnergyLevel
}

// SessionInfo is a snapshot of the running scan.
type SessionInfo struct {
	ID      uuid.UUID
	Mode    ScanMode
	Started time.Duration
	Batches int
	Beams   int
}

type session struct {
	info    SessionInfo
	pattern Pattern
	pool    []BeamID
	readyAt time.Duration
}

// Scheduler drives one scan session at a time: it pulls batches from the
// session's pattern when they are due, hands them to the caster, and tears
// the session down on cancel, exhaustion or an energy abort. While idle it
// refills the reservoir once per tick.
type Scheduler struct {
	cfg     SchedulerConfig
	caster  *Caster
	mode    ScanMode
	level   EnergyLevel
	session *session
	now     time.Duration
	lastEnd EndReason
}

func NewScheduler(cfg SchedulerConfig, caster *Caster) *Scheduler {
	level := cfg.Level
	if level == 0 {
		level = EnergyLow
	}
	s := &Scheduler{
		cfg:    cfg,
		caster: caster,
		mode:   cfg.Mode,
		level:  level,
	}
	if d := caster.Display; d != nil {
		d.SetEnergyMax(caster.Reservoir.Capacity())
		d.SetEnergy(caster.Reservoir.Current())
	}
	return s
}

func (s *Scheduler) State() State {
	if s.session != nil {
		return Scanning
	}
	return Idle
}

// Mode is the mode the next Start will use.
func (s *Scheduler) Mode() ScanMode        { return s.mode }
func (s *Scheduler) Level() EnergyLevel    { return s.level }
func (s *Scheduler) LastEnd() EndReason    { return s.lastEnd }
func (s *Scheduler) Caster() *Caster       { return s.caster }
func (s *Scheduler) Now() time.Duration    { return s.now }
func (s *Scheduler) Reservoir() *Reservoir { return s.caster.Reservoir }

func (s *Scheduler) Session() (SessionInfo, bool) {
	if s.session == nil {
		return SessionInfo{}, false
	}
	return s.session.info, true
}

// Start opens a session in the selected mode. It does nothing unless idle.
func (s *Scheduler) Start() bool {
	if s.session != nil {
		return false
	}

	var pattern Pattern
	var poolSize int
	switch s.mode {
	case ModeFocused:
		pattern = NewFocusedScan(s.cfg.Focused, s.caster.Frame, s.caster.Rand)
		poolSize = s.cfg.Focused.Beams
	default:
		pattern = NewWideScan(s.cfg.Wide, s.caster.Frame, s.caster.Rand)
		poolSize = s.cfg.Wide.Beams
	}

	pool := make([]BeamID, 0, max(poolSize, 0))
	if s.caster.Visuals != nil {
		for i := 0; i < poolSize; i++ {
			pool = append(pool, s.caster.Visuals.CreateBeam())
		}
	}

	s.session = &session{
		info: SessionInfo{
			ID:      uuid.New(),
			Mode:    s.mode,
			Started: s.now,
			Beams:   len(pool),
		},
		pattern: pattern,
		pool:    pool,
		readyAt: s.now,
	}
	s.logger().Infof("lidar: %s scan %s started", s.mode, s.session.info.ID)
	return true
}

func (s *Scheduler) Cancel() {
	if s.session != nil {
		s.end(EndCancelled)
	}
}

// SwitchMode selects the next mode. A running session keeps its mode.
func (s *Scheduler) SwitchMode() ScanMode {
	s.mode = s.mode.Next()
	return s.mode
}

// NextEnergyLevel applies to every batch fired after the call.
func (s *Scheduler) NextEnergyLevel() EnergyLevel {
	s.level = s.level.Next()
	return s.level
}

// Tick advances the scheduler to simulation time now.
func (s *Scheduler) Tick(now time.Duration) {
	s.now = now

	if s.session == nil {
		r := s.caster.Reservoir
		if !r.Full() {
			r.Refill()
			if d := s.caster.Display; d != nil {
				d.SetEnergy(r.Current())
			}
		}
		return
	}

	if now < s.session.readyAt {
		return
	}

	batch, ok := s.session.pattern.Next()
	if !ok {
		s.end(EndExhausted)
		return
	}
	if s.caster.FireBatch(s.session.pool, batch.Directions, s.level) == Aborted {
		s.end(EndAborted)
		return
	}
	s.session.info.Batches++
	s.session.readyAt = now + batch.Delay
}

func (s *Scheduler) end(reason EndReason) {
	sess := s.session
	if v := s.caster.Visuals; v != nil {
		for _, id := range sess.pool {
			v.DestroyBeam(id)
		}
	}
	s.session = nil
	s.lastEnd = reason
	s.logger().Infof("lidar: %s scan %s ended after %d batches: %s", sess.info.Mode, sess.info.ID, sess.info.Batches, reason)
}

func (s *Scheduler) logger() Logger {
	return s.caster.logger()
}
