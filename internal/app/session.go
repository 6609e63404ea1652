package app

import (
	"context"
	"errors"
	"sync"
	"time"

	appErrors "appmerge/internal/errors"
	"appmerge/internal/logging"
)

// ErrBusy is returned when an extension is requested while another one is
// still in flight.
var ErrBusy = errors.New("lock extension already in progress")

// Session owns the lock held while the merge is configured.
type Session struct {
	Locker Locker
	Logger logging.Logger

	mu        sync.Mutex
	lock      Lock
	open      bool
	extending bool
}

func (s *Session) Open(ctx context.Context, source, destination string) (Lock, error) {
	if s.Locker == nil {
		return Lock{}, errors.New("session requires a locker")
	}
	l, err := s.Locker.Acquire(ctx, source, destination)
	if err != nil {
		return Lock{}, appErrors.Wrap(appErrors.LockFailure, "acquire", source+" -> "+destination, err)
	}
	s.mu.Lock()
	s.lock = l
	s.open = true
	s.mu.Unlock()
	s.Logger.Infof("lock %s held until %s", l.ID, l.Until.Format(time.RFC3339))
	return l, nil
}

// Extend asks the locker for a later deadline.
func (s *Session) Extend(ctx context.Context) (time.Time, error) {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return time.Time{}, appErrors.Wrap(appErrors.LockFailure, "extend", "", errors.New("no lock held"))
	}
	if s.extending {
		s.mu.Unlock()
		return time.Time{}, ErrBusy
	}
	s.extending = true
	id := s.lock.ID
	s.mu.Unlock()

	until, err := s.Locker.Extend(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.extending = false
	if err != nil {
		return time.Time{}, appErrors.Wrap(appErrors.LockFailure, "extend", id, err)
	}
	s.lock.Until = until
	s.Logger.Verbosef("lock %s extended until %s", id, until.Format(time.RFC3339))
	return until, nil
}

// Close releases the lock if one is held.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return nil
	}
	s.open = false
	id := s.lock.ID
	s.mu.Unlock()

	if err := s.Locker.Release(ctx, id); err != nil {
		return appErrors.Wrap(appErrors.LockFailure, "release", id, err)
	}
	s.Logger.Verbosef("lock %s released", id)
	return nil
}

func (s *Session) Lock() (Lock, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lock, s.open
}
