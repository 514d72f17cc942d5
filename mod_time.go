package lidar

import (
	"time"
)

// Time is the simulation clock. Elapsed is what the lidar scheduler runs on.
type Time struct {
	Time    time.Time
	Dt      time.Duration
	Elapsed time.Duration
	Frame   uint64
}

// TimeModule advances Time once per tick. A non-zero FixedStep makes every
// tick exactly that long, independent of the wall clock.
type TimeModule struct {
	FixedStep time.Duration
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time: time.Now(),
		Dt:   0,
	})
	step := mod.FixedStep
	app.UseSystem(System(func(t *Time) {
		timeSystem(t, step, time.Now())
	}).InStage(Prelude))
}

func timeSystem(timeResource *Time, fixedStep time.Duration, now time.Time) {
	if fixedStep > 0 {
		timeResource.Dt = fixedStep
		timeResource.Time = timeResource.Time.Add(fixedStep)
	} else {
		timeResource.Dt = now.Sub(timeResource.Time)
		timeResource.Time = now
	}
	timeResource.Elapsed += timeResource.Dt
	timeResource.Frame++
}

func (t *Time) DtSeconds() float32 {
	return float32(t.Dt.Seconds())
}
