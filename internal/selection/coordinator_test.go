package selection

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appmerge/internal/domain"
	"appmerge/internal/logging"
)

func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		App: "crm",
		Screens: []domain.Screen{
			{ID: 10, Name: "Home", DataSources: []domain.ItemID{42, 43}, Files: []domain.ItemID{7}},
			{ID: 11, Name: "Detail", DataSources: []domain.ItemID{43}},
		},
		DataSources: []domain.DataSource{
			{ID: 42, Name: "Contacts"},
			{ID: 43, Name: "Deals", Files: []domain.ItemID{7}},
		},
		Files: []domain.File{{ID: 7, Name: "logo.png"}},
	}
}

func TestSetFlatSelectionIsIdempotent(t *testing.T) {
	c := NewCoordinator(nil, logging.Logger{})
	var seen []domain.ToggleEvent
	c.Subscribe(func(ev domain.ToggleEvent) { seen = append(seen, ev) })

	c.SetFlatSelection(domain.Screens, []domain.ItemID{10, 11})
	first := c.Snapshot()
	c.SetFlatSelection(domain.Screens, []domain.ItemID{10, 11})

	assert.True(t, first.Screens.Equal(c.Snapshot().Screens))
	assert.Empty(t, seen)
	assert.True(t, c.CanProceed())
}

func TestSetFlatSelectionEmptyDeselectsAll(t *testing.T) {
	c := NewCoordinator(nil, logging.Logger{})
	c.SetFlatSelection(domain.Files, []domain.ItemID{1, 2})
	c.SetFlatSelection(domain.Files, nil)

	assert.Empty(t, c.Selected(domain.Files))
	assert.False(t, c.CanProceed())
}

func TestSettingsAloneDoNotEnableProceed(t *testing.T) {
	c := NewCoordinator(nil, logging.Logger{})
	c.SetFlatSelection(domain.Settings, []domain.ItemID{1})
	assert.False(t, c.CanProceed())
}

func TestSetNestedSelectionEmitsMembershipDiff(t *testing.T) {
	c := NewCoordinator(nil, logging.Logger{})
	key := domain.AssociationKey{Owner: domain.DataSources, OwnerID: 42, Target: domain.Screens}

	c.SetNestedSelection(key.Owner, key.OwnerID, key.Target, []domain.ItemID{1, 2, 3})
	events := c.SetNestedSelection(key.Owner, key.OwnerID, key.Target, []domain.ItemID{2, 3, 4})

	assert.Equal(t, []domain.ToggleEvent{
		{Target: domain.Screens, ID: 4, Selected: true},
		{Target: domain.Screens, ID: 1, Selected: false},
	}, events)
	assert.Equal(t, []domain.ItemID{2, 3, 4}, c.NestedSelection(key))
}

func TestSetNestedSelectionOrdersAdditionsBeforeRemovals(t *testing.T) {
	c := NewCoordinator(nil, logging.Logger{})
	c.SetNestedSelection(domain.Screens, 1, domain.Files, []domain.ItemID{5, 3, 9})
	events := c.SetNestedSelection(domain.Screens, 1, domain.Files, []domain.ItemID{8, 3, 6})

	assert.Equal(t, []domain.ToggleEvent{
		{Target: domain.Files, ID: 8, Selected: true},
		{Target: domain.Files, ID: 6, Selected: true},
		{Target: domain.Files, ID: 5, Selected: false},
		{Target: domain.Files, ID: 9, Selected: false},
	}, events)
}

func TestNestedSelectionTogglesSiblingTab(t *testing.T) {
	c := NewCoordinator(testCatalog(), logging.Logger{})
	c.SetFlatSelection(domain.Screens, []domain.ItemID{10, 11})

	events := c.SetNestedSelection(domain.Screens, 10, domain.DataSources, []domain.ItemID{42})

	require.Equal(t, []domain.ToggleEvent{{Target: domain.DataSources, ID: 42, Selected: true}}, events)
	assert.Equal(t, []domain.ItemID{42}, c.Selected(domain.DataSources))
	assert.Equal(t, []domain.ItemID{10, 11}, c.Selected(domain.Screens))
}

func TestNestedSelectionSeedsFromFlatSelection(t *testing.T) {
	c := NewCoordinator(testCatalog(), logging.Logger{})
	c.SetFlatSelection(domain.DataSources, []domain.ItemID{43})

	key := domain.AssociationKey{Owner: domain.Screens, OwnerID: 10, Target: domain.DataSources}
	assert.Equal(t, []domain.ItemID{43}, c.NestedSelection(key))

	// 43 is already held through the seed, so only 42 changes.
	events := c.SetNestedSelection(key.Owner, key.OwnerID, key.Target, []domain.ItemID{42, 43})
	assert.Equal(t, []domain.ToggleEvent{{Target: domain.DataSources, ID: 42, Selected: true}}, events)

	events = c.SetNestedSelection(key.Owner, key.OwnerID, key.Target, []domain.ItemID{42})
	assert.Equal(t, []domain.ToggleEvent{{Target: domain.DataSources, ID: 43, Selected: false}}, events)
	assert.Equal(t, []domain.ItemID{42}, c.Selected(domain.DataSources))
}

func TestNestedSelectionDropsUnassociatedIDs(t *testing.T) {
	var buf bytes.Buffer
	c := NewCoordinator(testCatalog(), logging.New(&buf, false))

	events := c.SetNestedSelection(domain.Screens, 11, domain.DataSources, []domain.ItemID{42, 43})

	assert.Equal(t, []domain.ToggleEvent{{Target: domain.DataSources, ID: 43, Selected: true}}, events)
	assert.Equal(t, []domain.ItemID{43}, c.NestedSelection(domain.AssociationKey{Owner: domain.Screens, OwnerID: 11, Target: domain.DataSources}))
	assert.Contains(t, buf.String(), "dropping data-sources 42")
}

func TestToggleSingleAssociationIsIdempotent(t *testing.T) {
	c := NewCoordinator(nil, logging.Logger{})
	c.ToggleSingleAssociation(domain.Files, 7, true)
	c.ToggleSingleAssociation(domain.Files, 7, true)
	assert.Equal(t, []domain.ItemID{7}, c.Selected(domain.Files))

	c.ToggleSingleAssociation(domain.Files, 7, false)
	c.ToggleSingleAssociation(domain.Files, 7, false)
	assert.Empty(t, c.Selected(domain.Files))
}

func TestDispatchFromObserverIsQueued(t *testing.T) {
	c := NewCoordinator(nil, logging.Logger{})
	var order []string
	c.Subscribe(func(ev domain.ToggleEvent) {
		order = append(order, "toggle")
		// Runs after the pending toggles, not inside the nested command.
		c.Dispatch(FlatSelection{Collection: domain.Settings, IDs: []domain.ItemID{domain.ItemID(len(order))}})
	})

	events := c.Dispatch(
		NestedSelection{Key: domain.AssociationKey{Owner: domain.Screens, OwnerID: 1, Target: domain.Files}, IDs: []domain.ItemID{1, 2}},
		FlatSelection{Collection: domain.Screens, IDs: []domain.ItemID{1}},
	)

	assert.Len(t, events, 2)
	assert.Equal(t, []string{"toggle", "toggle"}, order)
	assert.Equal(t, []domain.ItemID{1, 2}, c.Selected(domain.Files))
	assert.Equal(t, []domain.ItemID{2}, c.Selected(domain.Settings))
	assert.Equal(t, []domain.ItemID{1}, c.Selected(domain.Screens))
}

func TestObserverSeesAppliedToggle(t *testing.T) {
	c := NewCoordinator(nil, logging.Logger{})
	var seen [][]domain.ItemID
	c.Subscribe(func(ev domain.ToggleEvent) {
		seen = append(seen, c.Selected(ev.Target))
	})

	c.SetNestedSelection(domain.Screens, 10, domain.DataSources, []domain.ItemID{42, 43})
	c.SetNestedSelection(domain.Screens, 10, domain.DataSources, []domain.ItemID{43})

	assert.Equal(t, [][]domain.ItemID{{42}, {42, 43}, {43}}, seen)
}

func TestCopyModeAndFolderOptionDefaults(t *testing.T) {
	c := NewCoordinator(nil, logging.Logger{})
	assert.Equal(t, domain.CopyStructureOnly, c.CopyMode(42))

	c.SetCopyMode(42, domain.CopyOverwrite)
	c.SetFolderOption(6, domain.FolderWithFiles)
	assert.Equal(t, domain.CopyOverwrite, c.CopyMode(42))
	assert.Equal(t, domain.FolderWithFiles, c.Snapshot().FolderOption(6))

	c.SetCopyMode(42, domain.CopyStructureOnly)
	assert.NotContains(t, c.Snapshot().CopyModes, domain.ItemID(42))
}

func TestResetClearsNestedRecords(t *testing.T) {
	c := NewCoordinator(nil, logging.Logger{})
	c.SetNestedSelection(domain.Screens, 1, domain.Files, []domain.ItemID{3})
	c.Reset()

	assert.Empty(t, c.Selected(domain.Files))
	assert.Empty(t, c.NestedSelection(domain.AssociationKey{Owner: domain.Screens, OwnerID: 1, Target: domain.Files}))
}
