package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"appmerge/internal/domain"
)

// TabBar renders the configuration tabs, one per collection.
type TabBar struct {
	tabs   []domain.Collection
	active int
	width  int
}

func NewTabBar(tabs []domain.Collection) TabBar {
	return TabBar{tabs: append([]domain.Collection(nil), tabs...)}
}

func (t *TabBar) SetWidth(w int) {
	t.width = w
}

func (t TabBar) Active() domain.Collection {
	if t.active >= 0 && t.active < len(t.tabs) {
		return t.tabs[t.active]
	}
	return domain.Screens
}

// Update moves between tabs on left/right (or tab/shift+tab), wrapping around.
func (t TabBar) Update(msg tea.Msg) (TabBar, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(t.tabs) == 0 {
		return t, nil
	}
	switch key.String() {
	case "right", "l", "tab":
		t.active = (t.active + 1) % len(t.tabs)
	case "left", "h", "shift+tab":
		t.active = (t.active - 1 + len(t.tabs)) % len(t.tabs)
	default:
		return t, nil
	}
	active := t.Active()
	return t, func() tea.Msg { return TabSwitchMsg{Collection: active} }
}

// View renders the tab bar as one line. badge returns the selection count
// shown next to each tab title.
func (t TabBar) View(badge func(domain.Collection) int) string {
	parts := make([]string, 0, len(t.tabs))
	for i, col := range t.tabs {
		label := col.Title()
		if n := badge(col); n > 0 {
			label += " (" + strconv.Itoa(n) + ")"
		}
		if i == t.active {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, inactiveTabStyle.Render(label))
		}
	}
	return tabBarStyle.Width(t.width).Render(strings.Join(parts, " "))
}
