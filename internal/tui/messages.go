package tui

import (
	"time"

	"appmerge/internal/app"
	"appmerge/internal/domain"
)

// Phase is the wizard step currently shown.
type Phase int

const (
	PhaseLocking Phase = iota
	PhaseConfigure
	PhaseReview
	PhaseMerging
	PhaseDone
	PhaseExpired
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLocking:
		return "locking"
	case PhaseConfigure:
		return "configure"
	case PhaseReview:
		return "review"
	case PhaseMerging:
		return "merging"
	case PhaseDone:
		return "done"
	case PhaseExpired:
		return "expired"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// --- Tab and table messages ---

// TabSwitchMsg is sent when the active configuration tab changes.
type TabSwitchMsg struct{ Collection domain.Collection }

// SelectionChangeMsg carries the whole new flat selection of one tab.
type SelectionChangeMsg struct {
	Collection domain.Collection
	IDs        []domain.ItemID
}

// NestedSelectionChangeMsg carries the whole new nested selection under one
// expanded row.
type NestedSelectionChangeMsg struct {
	Key domain.AssociationKey
	IDs []domain.ItemID
}

// OptionCycleMsg asks for the copy mode or folder option of an item to
// advance.
type OptionCycleMsg struct {
	Collection domain.Collection
	ID         domain.ItemID
}

// --- Session and lock messages ---

type SessionReadyMsg struct {
	Lock        app.Lock
	Source      domain.Catalog
	Destination domain.Catalog
}

type lockTickMsg time.Time

// LockExtendedMsg and LockExtendFailedMsg carry the id of the lock they were
// requested for; results for an earlier lock are dropped.
type LockExtendedMsg struct {
	LockID string
	Until  time.Time
}

type LockExtendFailedMsg struct {
	LockID string
	Err    error
}

// --- Review and merge messages ---

type PlanReadyMsg struct{ Plan domain.MergePlan }

type MergeProgressMsg struct {
	Current int
	Total   int
	Item    string
}

type MergeDoneMsg struct{ Applied int }

type ErrorMsg struct{ Err error }
