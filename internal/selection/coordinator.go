// Package selection keeps the canonical merge selection shared by the
// configuration tabs.
//
// Tabs never mutate each other. They report whole flat selections and whole
// nested selections; the Coordinator diffs nested selections into toggle
// events and applies those toggles to the target collection, so a change made
// under a screen row shows up in the data sources or files tab.
package selection

import (
	"appmerge/internal/domain"
	"appmerge/internal/logging"
)

// Observer receives every toggle event in emission order. It is called after
// the toggle has been applied to the target collection, so Selected already
// reflects the event.
type Observer func(domain.ToggleEvent)

type Coordinator struct {
	cfg       domain.MergeConfiguration
	nested    map[domain.AssociationKey][]domain.ItemID
	catalog   *domain.Catalog
	log       logging.Logger
	observers []Observer

	queue    []Command
	draining bool
	emitted  []domain.ToggleEvent
}

// NewCoordinator returns an empty coordinator. When catalog is non-nil,
// nested selections are limited to each owner's association list.
func NewCoordinator(catalog *domain.Catalog, logger logging.Logger) *Coordinator {
	return &Coordinator{
		cfg:     domain.NewMergeConfiguration(),
		nested:  map[domain.AssociationKey][]domain.ItemID{},
		catalog: catalog,
		log:     logger.Named("selection"),
	}
}

func (c *Coordinator) Subscribe(o Observer) {
	c.observers = append(c.observers, o)
}

// Dispatch queues commands and drains the queue in FIFO order. A Dispatch
// issued while draining (for example from an Observer) is queued behind the
// pending commands and its events are returned by the outer call. The
// returned slice holds every toggle emitted while draining.
func (c *Coordinator) Dispatch(cmds ...Command) []domain.ToggleEvent {
	c.queue = append(c.queue, cmds...)
	if c.draining {
		return nil
	}
	c.draining = true
	defer func() { c.draining = false }()

	c.emitted = nil
	for len(c.queue) > 0 {
		next := c.queue[0]
		c.queue = c.queue[1:]
		next.apply(c)
	}
	out := c.emitted
	c.emitted = nil
	return out
}

func (c *Coordinator) SetFlatSelection(col domain.Collection, ids []domain.ItemID) {
	c.Dispatch(FlatSelection{Collection: col, IDs: ids})
}

// SetNestedSelection stores ids under the key and returns one toggle per id
// whose membership changed: additions first in input order, then removals in
// the order they were previously held.
func (c *Coordinator) SetNestedSelection(owner domain.Collection, ownerID domain.ItemID, target domain.Collection, ids []domain.ItemID) []domain.ToggleEvent {
	key := domain.AssociationKey{Owner: owner, OwnerID: ownerID, Target: target}
	return c.Dispatch(NestedSelection{Key: key, IDs: ids})
}

func (c *Coordinator) ToggleSingleAssociation(col domain.Collection, id domain.ItemID, selected bool) {
	c.Dispatch(ToggleAssociation{Collection: col, ID: id, Selected: selected})
}

func (c *Coordinator) SetCopyMode(id domain.ItemID, mode domain.CopyMode) {
	c.Dispatch(SetCopyMode{ID: id, Mode: mode})
}

func (c *Coordinator) SetFolderOption(id domain.ItemID, opt domain.FolderOption) {
	c.Dispatch(SetFolderOption{ID: id, Option: opt})
}

// NestedSelection returns the stored nested selection for key, or the
// initial association derived from the current flat selections.
func (c *Coordinator) NestedSelection(key domain.AssociationKey) []domain.ItemID {
	if ids, ok := c.nested[key]; ok {
		return append([]domain.ItemID(nil), ids...)
	}
	return InitialAssociation(c.cfg, c.catalog, key.Owner, key.OwnerID, key.Target)
}

// CanProceed reports whether any data collection has a selection.
func (c *Coordinator) CanProceed() bool {
	return c.cfg.HasData()
}

func (c *Coordinator) IsSelected(col domain.Collection, id domain.ItemID) bool {
	return c.cfg.Selection(col).Has(id)
}

// Selected returns the sorted flat selection for a collection.
func (c *Coordinator) Selected(col domain.Collection) []domain.ItemID {
	return c.cfg.Selection(col).Sorted()
}

func (c *Coordinator) CopyMode(id domain.ItemID) domain.CopyMode {
	return c.cfg.CopyMode(id)
}

func (c *Coordinator) FolderOption(id domain.ItemID) domain.FolderOption {
	return c.cfg.FolderOption(id)
}

// Snapshot returns a copy of the merge configuration.
func (c *Coordinator) Snapshot() domain.MergeConfiguration {
	return c.cfg.Clone()
}

// Reset discards every selection and nested record.
func (c *Coordinator) Reset() {
	c.cfg = domain.NewMergeConfiguration()
	c.nested = map[domain.AssociationKey][]domain.ItemID{}
	c.queue = nil
	c.log.Verbosef("selection reset")
}

func (c *Coordinator) emit(ev domain.ToggleEvent) {
	c.emitted = append(c.emitted, ev)
	c.queue = append(c.queue, emittedToggle{event: ev})
}

func (c *Coordinator) validNested(key domain.AssociationKey, ids []domain.ItemID) []domain.ItemID {
	allowed := domain.NewIDSet(c.catalog.Associations(key.Owner, key.OwnerID, key.Target)...)
	out := make([]domain.ItemID, 0, len(ids))
	for _, id := range ids {
		if !allowed.Has(id) {
			c.log.Warnf("dropping %s %d: not associated with %s", key.Target, id, key.String())
			continue
		}
		out = append(out, id)
	}
	return out
}
