package gekko

import (
	"time"
)

type Time struct {
	Time time.Time
	Dt   time.Duration
}

// FrameStats counts completed frames since the first frame started.
type FrameStats struct {
	Start           time.Time
	FramesCompleted float64
}

// AverageFrameRate returns frames per second over [Start, now]. It reports
// false when no frame has completed yet.
func (s *FrameStats) AverageFrameRate(now time.Time) (float64, bool) {
	if s.FramesCompleted <= 0 {
		return 0, false
	}
	duration := now.Sub(s.Start).Seconds()
	if duration <= 0 {
		return 0, false
	}
	return s.FramesCompleted / duration, true
}

type TimeModule struct {
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	now := time.Now()
	cmd.AddResources(
		&Time{
			Time: now,
			Dt:   0,
		},
		&FrameStats{Start: now},
	)
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude).
			RunAlways(),
	)
}

func timeSystem(timeResource *Time) {
	now := time.Now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
}
