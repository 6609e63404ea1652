package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appmerge/internal/app"
	"appmerge/internal/domain"
	"appmerge/internal/lock"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fakeSession struct {
	mu       sync.Mutex
	until    time.Time
	extendTo time.Time
	opened   int
	extends  int
	closed   int
}

func (s *fakeSession) Open(ctx context.Context, source, destination string) (app.Lock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened++
	id := fmt.Sprintf("lock-%d", s.opened)
	return app.Lock{ID: id, Source: source, Destination: destination, Until: s.until}, nil
}

func (s *fakeSession) Extend(ctx context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extends++
	return s.extendTo, nil
}

func (s *fakeSession) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

type fakeCatalogs map[string]domain.Catalog

func (f fakeCatalogs) Load(ctx context.Context, name string) (domain.Catalog, error) {
	return f[name], nil
}

type fakeWriter struct {
	mu      sync.Mutex
	applied []domain.PlanItem
}

func (w *fakeWriter) Apply(ctx context.Context, item domain.PlanItem) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.applied = append(w.applied, item)
	return nil
}

func sourceCatalog() domain.Catalog {
	return domain.Catalog{
		App: "staging",
		Screens: []domain.Screen{
			{ID: 10, Name: "Home", DataSources: []domain.ItemID{42}, Files: []domain.ItemID{7}},
			{ID: 11, Name: "Orders", DataSources: []domain.ItemID{43}},
		},
		DataSources: []domain.DataSource{
			{ID: 42, Name: "Customers", Records: 1200, Files: []domain.ItemID{7}},
			{ID: 43, Name: "Orders", Records: 80},
		},
		Files: []domain.File{
			{ID: 6, Name: "assets", IsFolder: true},
			{ID: 7, Name: "logo.png", Size: 2048},
			{ID: 8, Name: "icon.png", Size: 512, Parent: 6},
		},
		Settings: []domain.Setting{{ID: 1, Name: "theme", Value: "dark"}},
	}
}

func destinationCatalog() domain.Catalog {
	return domain.Catalog{
		App:     "prod",
		Screens: []domain.Screen{{ID: 100, Name: "Orders"}},
	}
}

func newTestModel(session *fakeSession, writer *fakeWriter) Model {
	return NewModel(Config{
		Source:      "staging",
		Destination: "prod",
		Tick:        time.Second,
		Session:     session,
		Catalogs:    fakeCatalogs{"staging": sourceCatalog(), "prod": destinationCatalog()},
		Planner:     &app.Planner{},
		Executor:    &app.Executor{Writer: writer},
		Now:         func() time.Time { return testNow },
	})
}

// configuring returns a model that holds a lock ending after remaining.
func configuring(t *testing.T, remaining time.Duration) (Model, *fakeSession, *fakeWriter) {
	t.Helper()
	session := &fakeSession{until: testNow.Add(remaining), extendTo: testNow.Add(15 * time.Minute)}
	writer := &fakeWriter{}
	m := newTestModel(session, writer)

	msg := m.openSessionCmd()()
	require.IsType(t, SessionReadyMsg{}, msg)
	updated, cmd := m.Update(msg)
	require.NotNil(t, cmd, "lock tick should be armed")
	return updated.(Model), session, writer
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends a key and delivers the message produced by its command, the
// way the bubbletea runtime would.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		updated, cmd := m.Update(keyMsg(k))
		m = updated.(Model)
		if cmd == nil {
			continue
		}
		if msg := cmd(); msg != nil {
			updated, _ = m.Update(msg)
			m = updated.(Model)
		}
	}
	return m
}

func TestSessionReadyStartsConfiguring(t *testing.T) {
	m, session, _ := configuring(t, 10*time.Minute)

	assert.Equal(t, PhaseConfigure, m.Phase)
	assert.Equal(t, 1, session.opened)
	assert.Equal(t, lock.Normal, m.LockSnapshot().Level)
	assert.Equal(t, "10 minutes", m.LockSnapshot().Text)
	assert.Equal(t, domain.Screens, m.ActiveTab())
	assert.False(t, m.Coordinator().CanProceed())
}

func TestSpaceTogglesFlatSelection(t *testing.T) {
	m, _, _ := configuring(t, 10*time.Minute)

	m = press(t, m, " ")
	assert.True(t, m.Coordinator().IsSelected(domain.Screens, 10))
	assert.True(t, m.Coordinator().CanProceed())

	m = press(t, m, " ")
	assert.False(t, m.Coordinator().IsSelected(domain.Screens, 10))
}

func TestSelectAllThenClear(t *testing.T) {
	m, _, _ := configuring(t, 10*time.Minute)

	m = press(t, m, "a")
	assert.Equal(t, []domain.ItemID{10, 11}, m.Coordinator().Selected(domain.Screens))

	m = press(t, m, "a")
	assert.Empty(t, m.Coordinator().Selected(domain.Screens))
}

func TestNestedToggleSelectsRowInSiblingTab(t *testing.T) {
	m, _, _ := configuring(t, 10*time.Minute)

	// Expand Home, then check its first association (data source 42).
	m = press(t, m, "enter")
	owner, expanded := m.tables[domain.Screens].Expanded()
	require.True(t, expanded)
	assert.Equal(t, domain.ItemID(10), owner)

	m = press(t, m, " ")
	assert.True(t, m.Coordinator().IsSelected(domain.DataSources, 42))
	assert.False(t, m.Coordinator().IsSelected(domain.Screens, 10))

	// Tabs are locked while the nested table is open.
	m = press(t, m, "right")
	assert.Equal(t, domain.Screens, m.ActiveTab())

	m = press(t, m, "esc", "right")
	assert.Equal(t, domain.DataSources, m.ActiveTab())
	view := ansi.Strip(m.View())
	assert.Contains(t, view, "[x] ▸ Customers")
	assert.Contains(t, view, "[ ] ▸ Orders")
}

func TestNestedUncheckRemovesFromSiblingTab(t *testing.T) {
	m, _, _ := configuring(t, 10*time.Minute)

	m = press(t, m, "right", " ")
	require.True(t, m.Coordinator().IsSelected(domain.DataSources, 42))

	m = press(t, m, "left", "enter", " ")
	assert.False(t, m.Coordinator().IsSelected(domain.DataSources, 42))
}

func TestOptionCycle(t *testing.T) {
	m, _, _ := configuring(t, 10*time.Minute)

	m = press(t, m, "right", "m")
	assert.Equal(t, domain.CopyOverwrite, m.Coordinator().CopyMode(42))

	m = press(t, m, "right", "m")
	assert.Equal(t, domain.FolderWithFiles, m.Coordinator().FolderOption(6))

	// Plain files have no option.
	m = press(t, m, "down", "m")
	assert.Equal(t, domain.FolderOnly, m.Coordinator().FolderOption(7))
}

func TestProceedRequiresDataSelection(t *testing.T) {
	m, _, _ := configuring(t, 10*time.Minute)

	m = press(t, m, "tab", "tab", "tab", " ")
	require.True(t, m.Coordinator().IsSelected(domain.Settings, 1))

	m = press(t, m, "p")
	assert.Equal(t, PhaseConfigure, m.Phase)

	m = press(t, m, "tab", " ", "p")
	assert.Equal(t, PhaseReview, m.Phase)
	assert.Len(t, m.Plan.Items, 2)
	assert.False(t, m.Plan.Blocked())
	assert.Contains(t, ansi.Strip(m.View()), "1 screens, 0 data sources, 0 files")
}

func TestWarningBannerExtendsOnRequest(t *testing.T) {
	m, session, _ := configuring(t, 4*time.Minute+30*time.Second)
	require.Equal(t, lock.Warning, m.LockSnapshot().Level)
	assert.Contains(t, ansi.Strip(m.View()), "Extend lock (x)")

	m = press(t, m, "x")
	assert.Equal(t, 1, session.extends)
	assert.Equal(t, lock.Normal, m.LockSnapshot().Level)
	assert.NotContains(t, ansi.Strip(m.View()), "Extend lock (x)")
}

func TestExtendIgnoredInNormalLevel(t *testing.T) {
	m, session, _ := configuring(t, 10*time.Minute)

	m = press(t, m, "x")
	assert.Equal(t, 0, session.extends)
}

func TestCriticalModalExtendsOnAnyKey(t *testing.T) {
	m, session, _ := configuring(t, 90*time.Second)
	require.Equal(t, lock.Critical, m.LockSnapshot().Level)
	assert.Contains(t, ansi.Strip(m.View()), "Lock about to expire")

	m = press(t, m, " ")
	assert.Equal(t, 1, session.extends)
	assert.False(t, m.Coordinator().IsSelected(domain.Screens, 10), "key must not reach the table")
	assert.Equal(t, lock.Normal, m.LockSnapshot().Level)
	assert.NotContains(t, ansi.Strip(m.View()), "Lock about to expire")
}

func TestCriticalModalExtendsOnClick(t *testing.T) {
	m, session, _ := configuring(t, 90*time.Second)

	updated, cmd := m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.NotNil(t, cmd)
	assert.IsType(t, LockExtendedMsg{}, cmd())
	assert.True(t, updated.(Model).extending)
	assert.Equal(t, 1, session.extends)
}

func TestSecondExtendWhileInFlightIsDropped(t *testing.T) {
	m, _, _ := configuring(t, 90*time.Second)

	updated, cmd := m.Update(keyMsg("j"))
	require.NotNil(t, cmd)
	updated, cmd = updated.(Model).Update(keyMsg("k"))
	assert.Nil(t, cmd)
	assert.True(t, updated.(Model).extending)
}

func TestQuitFromCriticalModal(t *testing.T) {
	m, session, _ := configuring(t, 90*time.Second)

	updated, cmd := m.Update(keyMsg("q"))
	assert.True(t, updated.(Model).Quitting)
	assert.NotNil(t, cmd)
	assert.Equal(t, 0, session.extends)
}

func TestExtendResultForEarlierLockIsDropped(t *testing.T) {
	m, session, _ := configuring(t, 4*time.Minute+30*time.Second)
	require.Equal(t, "lock-1", m.Lock.ID)

	updated, staleExtend := m.Update(keyMsg("x"))
	require.NotNil(t, staleExtend)
	m = updated.(Model)

	updated, _ = m.Update(lockTickMsg(testNow.Add(5 * time.Minute)))
	m = updated.(Model)
	require.Equal(t, PhaseExpired, m.Phase)

	updated, _ = m.Update(keyMsg("r"))
	m = updated.(Model)
	updated, _ = m.Update(m.openSessionCmd()())
	m = updated.(Model)
	require.Equal(t, PhaseConfigure, m.Phase)
	require.Equal(t, "lock-2", m.Lock.ID)
	deadline := m.countdown.Deadline()

	updated, _ = m.Update(LockExtendFailedMsg{LockID: "lock-1", Err: errors.New("lock expired")})
	m = updated.(Model)
	assert.NotContains(t, ansi.Strip(m.View()), "Could not extend lock")

	updated, _ = m.Update(staleExtend())
	m = updated.(Model)
	assert.Equal(t, deadline, m.countdown.Deadline())
	assert.Equal(t, 1, session.extends)
}

func TestTickRearmsWhileRunning(t *testing.T) {
	m, _, _ := configuring(t, 10*time.Minute)

	updated, cmd := m.Update(lockTickMsg(testNow.Add(time.Second)))
	assert.NotNil(t, cmd)
	assert.Equal(t, "9 minutes 59 seconds", updated.(Model).LockSnapshot().Text)
}

func TestExpiryDiscardsConfiguration(t *testing.T) {
	m, session, _ := configuring(t, 10*time.Minute)
	m = press(t, m, " ")
	require.True(t, m.Coordinator().CanProceed())

	updated, cmd := m.Update(lockTickMsg(testNow.Add(11 * time.Minute)))
	m = updated.(Model)
	assert.Equal(t, PhaseExpired, m.Phase)
	assert.False(t, m.Coordinator().CanProceed())
	assert.Contains(t, ansi.Strip(m.View()), "The lock expired")

	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, 1, session.closed)

	// The countdown is stopped; later ticks do nothing.
	_, cmd = m.Update(lockTickMsg(testNow.Add(12 * time.Minute)))
	assert.Nil(t, cmd)
}

func TestExpiredRestartRelocks(t *testing.T) {
	m, session, _ := configuring(t, 10*time.Minute)
	updated, _ := m.Update(lockTickMsg(testNow.Add(11 * time.Minute)))
	m = updated.(Model)

	updated, cmd := m.Update(keyMsg("r"))
	assert.Equal(t, PhaseLocking, updated.(Model).Phase)
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, session.opened)
}

func TestBlockedPlanCannotMerge(t *testing.T) {
	m, _, _ := configuring(t, 10*time.Minute)

	// Screen "Orders" already exists in the destination.
	m = press(t, m, "down", " ", "p")
	require.Equal(t, PhaseReview, m.Phase)
	require.True(t, m.Plan.Blocked())
	assert.Contains(t, ansi.Strip(m.View()), "Merge blocked")

	m = press(t, m, "enter")
	assert.Equal(t, PhaseReview, m.Phase)

	m = press(t, m, "b")
	assert.Equal(t, PhaseConfigure, m.Phase)
	assert.True(t, m.Coordinator().IsSelected(domain.Screens, 11))
}

func TestMergeRunsPlanToCompletion(t *testing.T) {
	m, session, writer := configuring(t, 10*time.Minute)
	m = press(t, m, " ", "right", " ", "p")
	require.Equal(t, PhaseReview, m.Phase)
	require.Len(t, m.Plan.Items, 2)

	updated, _ := m.Update(keyMsg("enter"))
	m = updated.(Model)
	require.Equal(t, PhaseMerging, m.Phase)
	assert.False(t, m.countdown.Running())

	var cmd tea.Cmd
	for m.Phase == PhaseMerging {
		msg := waitForMerge(m.mergeEvents)()
		require.NotNil(t, msg)
		updated, cmd = m.Update(msg)
		m = updated.(Model)
	}

	assert.Equal(t, PhaseDone, m.Phase)
	assert.Equal(t, 2, m.Applied)
	assert.Len(t, writer.applied, 2)
	assert.Contains(t, ansi.Strip(m.View()), "Merged 2 of 2 items into prod")

	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, 1, session.closed)
}

func TestComposite(t *testing.T) {
	bg := strings.Join([]string{"aaaaaaaaaa", "bbbbbbbbbb", "cccccccccc"}, "\n")

	out := ansi.Strip(Composite(bg, "XX", 10, 3))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "aaaaaaaaaa", lines[0])
	assert.Equal(t, "bbbbXXbbbb", lines[1])
	assert.Equal(t, "cccccccccc", lines[2])
}

func TestTabBarWraps(t *testing.T) {
	bar := NewTabBar(domain.AllCollections)

	bar, cmd := bar.Update(keyMsg("left"))
	assert.Equal(t, domain.Settings, bar.Active())
	require.NotNil(t, cmd)
	assert.Equal(t, TabSwitchMsg{Collection: domain.Settings}, cmd())

	bar, _ = bar.Update(keyMsg("right"))
	assert.Equal(t, domain.Screens, bar.Active())
}

func TestWindowKeepsCursorVisible(t *testing.T) {
	tests := []struct {
		cursor, total, height int
		start, end            int
	}{
		{0, 5, 10, 0, 5},
		{0, 20, 10, 0, 10},
		{12, 20, 10, 7, 17},
		{19, 20, 10, 10, 20},
	}
	for _, tt := range tests {
		start, end := window(tt.cursor, tt.total, tt.height)
		assert.Equal(t, tt.start, start, "cursor %d", tt.cursor)
		assert.Equal(t, tt.end, end, "cursor %d", tt.cursor)
	}
}
