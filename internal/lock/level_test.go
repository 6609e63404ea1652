package lock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyThresholdBoundaries(t *testing.T) {
	cases := []struct {
		name      string
		remaining time.Duration
		want      Level
	}{
		{"five minutes", 5 * time.Minute, Normal},
		{"five minutes and change", 5*time.Minute + 59*time.Second, Normal},
		{"just under five", 5*time.Minute - time.Millisecond, Warning},
		{"four minutes", 4 * time.Minute, Warning},
		{"two minutes", 2 * time.Minute, Warning},
		{"one minute", time.Minute + 30*time.Second, Critical},
		{"one millisecond", time.Millisecond, Critical},
		{"zero", 0, Expired},
		{"negative", -time.Second, Expired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.remaining))
		})
	}
}

func TestStateRemainingIsMonotonic(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	deadline := start.Add(3 * time.Minute)

	prev := State{LockedUntil: deadline, Now: start}.Remaining()
	for step := 1; step <= 400; step++ {
		now := start.Add(time.Duration(step*750) * time.Millisecond)
		got := State{LockedUntil: deadline, Now: now}.Remaining()
		assert.LessOrEqual(t, got, prev, "step %d", step)
		assert.GreaterOrEqual(t, got, time.Duration(0))
		prev = got
	}
	assert.Equal(t, time.Duration(0), prev)
}

func TestStateRemainingMinutes(t *testing.T) {
	now := time.UnixMilli(0)
	st := State{LockedUntil: now.Add(299 * time.Second), Now: now}
	assert.Equal(t, 4, st.RemainingMinutes())
	assert.Equal(t, Warning, st.Level())
	assert.Equal(t, "4 minutes 59 seconds", st.Humanized())
}
