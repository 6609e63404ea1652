// Package lock provides an in-process Locker with fixed-length leases.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"appmerge/internal/app"
)

var ErrUnknownLock = errors.New("unknown or released lock")

type Memory struct {
	Lease time.Duration
	Now   func() time.Time

	mu    sync.Mutex
	held  map[string]app.Lock
	byApp map[string]string
}

func NewMemory(lease time.Duration) *Memory {
	return &Memory{Lease: lease, Now: time.Now}
}

func (m *Memory) Acquire(ctx context.Context, source, destination string) (app.Lock, error) {
	if err := ctx.Err(); err != nil {
		return app.Lock{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()

	now := m.now()
	for _, name := range []string{source, destination} {
		if id, ok := m.byApp[name]; ok {
			if held := m.held[id]; held.Until.After(now) {
				return app.Lock{}, fmt.Errorf("%s is locked until %s", name, held.Until.Format(time.Kitchen))
			}
			m.dropLocked(id)
		}
	}

	l := app.Lock{
		ID:          uuid.NewString(),
		Source:      source,
		Destination: destination,
		Until:       now.Add(m.Lease),
	}
	m.held[l.ID] = l
	m.byApp[source] = l.ID
	m.byApp[destination] = l.ID
	return l, nil
}

// Extend resets the lease to start now.
func (m *Memory) Extend(ctx context.Context, id string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()

	l, ok := m.held[id]
	if !ok {
		return time.Time{}, ErrUnknownLock
	}
	now := m.now()
	if !l.Until.After(now) {
		m.dropLocked(id)
		return time.Time{}, fmt.Errorf("lock %s expired at %s", id, l.Until.Format(time.Kitchen))
	}
	l.Until = now.Add(m.Lease)
	m.held[id] = l
	return l.Until, nil
}

func (m *Memory) Release(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()

	if _, ok := m.held[id]; !ok {
		return ErrUnknownLock
	}
	m.dropLocked(id)
	return nil
}

func (m *Memory) init() {
	if m.held == nil {
		m.held = map[string]app.Lock{}
		m.byApp = map[string]string{}
	}
}

func (m *Memory) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Memory) dropLocked(id string) {
	l := m.held[id]
	delete(m.held, id)
	for _, name := range []string{l.Source, l.Destination} {
		if m.byApp[name] == id {
			delete(m.byApp, name)
		}
	}
}
