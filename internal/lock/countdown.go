// Package lock derives the lock-expiry countdown shown during configuration.
//
// The Countdown never reads the clock. Callers drive it with Tick(now) on a
// fixed interval and react to the events it returns; it has no authority to
// grant extensions and only observes the deadline it is given.
package lock

import "time"

type EventKind int

const (
	// EventEscalated fires when the level becomes more severe.
	EventEscalated EventKind = iota
	// EventExpired fires once, when the remaining time reaches zero.
	EventExpired
	// EventExtendRequested is returned by Extend.
	EventExtendRequested
)

func (k EventKind) String() string {
	switch k {
	case EventEscalated:
		return "escalated"
	case EventExpired:
		return "expired"
	case EventExtendRequested:
		return "extend-requested"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind EventKind
	From Level
	To   Level
}

// Snapshot is the countdown as of the last tick.
type Snapshot struct {
	State   State
	Level   Level
	Text    string
	Running bool
}

type Countdown struct {
	deadline time.Time
	last     State
	level    Level
	running  bool
}

// New starts a countdown toward lockedUntil, classifying it at now.
func New(lockedUntil, now time.Time) *Countdown {
	st := State{LockedUntil: lockedUntil, Now: now}
	return &Countdown{
		deadline: lockedUntil,
		last:     st,
		level:    st.Level(),
		running:  true,
	}
}

// Tick re-derives the level at now. After expiry, or after Stop, it returns
// the last snapshot and no events.
func (c *Countdown) Tick(now time.Time) (Snapshot, []Event) {
	if !c.running {
		return c.Snapshot(), nil
	}
	c.last = State{LockedUntil: c.deadline, Now: now}
	next := c.last.Level()

	var events []Event
	if next > c.level {
		events = append(events, Event{Kind: EventEscalated, From: c.level, To: next})
	}
	c.level = next
	if next == Expired {
		c.running = false
		events = append(events, Event{Kind: EventExpired, From: next, To: next})
	}
	return c.Snapshot(), events
}

// Extend asks the owner for a new deadline. It is only honoured in the
// Warning and Critical levels and never changes the deadline itself.
func (c *Countdown) Extend() (Event, bool) {
	if !c.running || !c.level.CanExtend() {
		return Event{}, false
	}
	return Event{Kind: EventExtendRequested, From: c.level, To: c.level}, true
}

// SetDeadline replaces the deadline; the level is re-derived on the next
// tick. It has no effect once the countdown has stopped.
func (c *Countdown) SetDeadline(lockedUntil time.Time) {
	if !c.running {
		return
	}
	c.deadline = lockedUntil
}

// Deadline returns the deadline currently observed.
func (c *Countdown) Deadline() time.Time {
	return c.deadline
}

// Stop ends the countdown without emitting events.
func (c *Countdown) Stop() {
	c.running = false
}

func (c *Countdown) Running() bool {
	return c.running
}

func (c *Countdown) Level() Level {
	return c.level
}

func (c *Countdown) Snapshot() Snapshot {
	return Snapshot{
		State:   c.last,
		Level:   c.level,
		Text:    c.last.Humanized(),
		Running: c.running,
	}
}
