package lock

import "time"

// State pairs a fixed deadline with a sample of the current time. All derived
// values are recomputed from these two instants, so a late tick only makes
// the display jump and never drifts.
type State struct {
	LockedUntil time.Time
	Now         time.Time
}

func (s State) Remaining() time.Duration {
	d := s.LockedUntil.Sub(s.Now)
	if d < 0 {
		return 0
	}
	return d
}

func (s State) RemainingMinutes() int {
	return int(s.Remaining() / time.Minute)
}

func (s State) Level() Level {
	return Classify(s.Remaining())
}

func (s State) Humanized() string {
	return Humanize(s.Remaining())
}
