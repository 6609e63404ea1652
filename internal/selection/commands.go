package selection

import "appmerge/internal/domain"

// Command is a single state change applied by the Coordinator. Commands are
// processed strictly in dispatch order.
type Command interface {
	apply(c *Coordinator)
}

// FlatSelection replaces the whole selection of one collection.
type FlatSelection struct {
	Collection domain.Collection
	IDs        []domain.ItemID
}

// NestedSelection replaces the nested selection stored under one key.
type NestedSelection struct {
	Key domain.AssociationKey
	IDs []domain.ItemID
}

// ToggleAssociation flips one id in a collection's flat selection.
type ToggleAssociation struct {
	Collection domain.Collection
	ID         domain.ItemID
	Selected   bool
}

type SetCopyMode struct {
	ID   domain.ItemID
	Mode domain.CopyMode
}

type SetFolderOption struct {
	ID     domain.ItemID
	Option domain.FolderOption
}

func (cmd FlatSelection) apply(c *Coordinator) {
	set := c.cfg.SetPtr(cmd.Collection)
	if set == nil {
		c.log.Warnf("flat selection for unknown collection %s ignored", cmd.Collection)
		return
	}
	*set = domain.NewIDSet(cmd.IDs...)
	c.log.Verbosef("flat %s = %v (proceed=%t)", cmd.Collection, set.Sorted(), c.cfg.HasData())
}

func (cmd NestedSelection) apply(c *Coordinator) {
	ids := dedupe(cmd.IDs)
	if c.catalog != nil {
		ids = c.validNested(cmd.Key, ids)
	}

	previous := c.NestedSelection(cmd.Key)
	prevSet := domain.NewIDSet(previous...)
	nextSet := domain.NewIDSet(ids...)

	added := prevSet.Without(ids)
	removed := nextSet.Without(previous)

	c.nested[cmd.Key] = ids

	for _, id := range added {
		c.emit(domain.ToggleEvent{Target: cmd.Key.Target, ID: id, Selected: true})
	}
	for _, id := range removed {
		c.emit(domain.ToggleEvent{Target: cmd.Key.Target, ID: id, Selected: false})
	}
	c.log.Verbosef("nested %s = %v (+%v -%v)", cmd.Key, ids, added, removed)
}

func (cmd ToggleAssociation) apply(c *Coordinator) {
	set := c.cfg.SetPtr(cmd.Collection)
	if set == nil {
		return
	}
	if cmd.Selected {
		set.Add(cmd.ID)
	} else {
		set.Remove(cmd.ID)
	}
}

// emittedToggle applies a toggle produced by a nested diff, then tells the
// observers about it.
type emittedToggle struct {
	event domain.ToggleEvent
}

func (cmd emittedToggle) apply(c *Coordinator) {
	ToggleAssociation{Collection: cmd.event.Target, ID: cmd.event.ID, Selected: cmd.event.Selected}.apply(c)
	for _, o := range c.observers {
		o(cmd.event)
	}
}

func (cmd SetCopyMode) apply(c *Coordinator) {
	if cmd.Mode == domain.CopyStructureOnly {
		delete(c.cfg.CopyModes, cmd.ID)
		return
	}
	c.cfg.CopyModes[cmd.ID] = cmd.Mode
}

func (cmd SetFolderOption) apply(c *Coordinator) {
	if cmd.Option == domain.FolderOnly {
		delete(c.cfg.FolderOptions, cmd.ID)
		return
	}
	c.cfg.FolderOptions[cmd.ID] = cmd.Option
}

func dedupe(ids []domain.ItemID) []domain.ItemID {
	out := make([]domain.ItemID, 0, len(ids))
	seen := make(map[domain.ItemID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
