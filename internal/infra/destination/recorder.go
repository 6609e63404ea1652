// Package destination holds DestinationWriter implementations.
package destination

import (
	"context"
	"sync"
	"time"

	"appmerge/internal/domain"
)

// Recorder keeps applied items in memory. Delay, when set, is waited out
// before each item to simulate a remote write.
type Recorder struct {
	Delay time.Duration

	mu      sync.Mutex
	applied []domain.PlanItem
}

func (r *Recorder) Apply(ctx context.Context, item domain.PlanItem) error {
	if r.Delay > 0 {
		timer := time.NewTimer(r.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = append(r.applied, item)
	return nil
}

func (r *Recorder) Applied() []domain.PlanItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.PlanItem(nil), r.applied...)
}
