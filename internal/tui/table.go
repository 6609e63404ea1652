package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"appmerge/internal/domain"
)

// SelectionReader is the read side of the selection coordinator. Tables
// render from it on every frame instead of keeping their own checked state.
type SelectionReader interface {
	IsSelected(col domain.Collection, id domain.ItemID) bool
	Selected(col domain.Collection) []domain.ItemID
	NestedSelection(key domain.AssociationKey) []domain.ItemID
	CopyMode(id domain.ItemID) domain.CopyMode
	FolderOption(id domain.ItemID) domain.FolderOption
}

type Row struct {
	ID       domain.ItemID
	Name     string
	Detail   string
	IsFolder bool
}

type nestedRow struct {
	target domain.Collection
	id     domain.ItemID
	name   string
}

// Table is the checkbox list of one collection. Enter expands the row under
// the cursor into its cross-collection associations.
type Table struct {
	collection domain.Collection
	catalog    *domain.Catalog
	rows       []Row
	cursor     int

	expanded     bool
	expandedID   domain.ItemID
	nested       []nestedRow
	nestedCursor int

	height int
}

func NewTable(col domain.Collection, catalog *domain.Catalog) Table {
	return Table{
		collection: col,
		catalog:    catalog,
		rows:       rowsFor(catalog, col),
		height:     12,
	}
}

func (t *Table) SetHeight(h int) {
	if h > 2 {
		t.height = h
	}
}

func (t Table) Collection() domain.Collection { return t.collection }

func (t Table) Len() int { return len(t.rows) }

// Expanded reports the owner row of the open nested table, if any.
func (t Table) Expanded() (domain.ItemID, bool) {
	return t.expandedID, t.expanded
}

// Update handles table keys. Changes are returned as messages carrying the
// whole new selection; the table never mutates selection state itself.
func (t Table) Update(msg tea.Msg, sel SelectionReader) (Table, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(t.rows) == 0 {
		return t, nil
	}
	if t.expanded {
		return t.updateNested(key, sel)
	}

	switch key.String() {
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
		}
	case "down", "j":
		if t.cursor < len(t.rows)-1 {
			t.cursor++
		}
	case " ":
		return t, t.toggle(sel, t.rows[t.cursor].ID)
	case "a":
		return t, t.toggleAll(sel)
	case "enter":
		t.expand()
	case "m":
		row := t.rows[t.cursor]
		if t.collection == domain.DataSources || (t.collection == domain.Files && row.IsFolder) {
			col, id := t.collection, row.ID
			return t, func() tea.Msg { return OptionCycleMsg{Collection: col, ID: id} }
		}
	}
	return t, nil
}

func (t Table) updateNested(key tea.KeyMsg, sel SelectionReader) (Table, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		if t.nestedCursor > 0 {
			t.nestedCursor--
		}
	case "down", "j":
		if t.nestedCursor < len(t.nested)-1 {
			t.nestedCursor++
		}
	case "enter", "esc":
		t.collapse()
	case " ":
		if len(t.nested) == 0 {
			return t, nil
		}
		row := t.nested[t.nestedCursor]
		k := domain.AssociationKey{Owner: t.collection, OwnerID: t.expandedID, Target: row.target}
		current := sel.NestedSelection(k)
		next := make([]domain.ItemID, 0, len(current)+1)
		found := false
		for _, id := range current {
			if id == row.id {
				found = true
				continue
			}
			next = append(next, id)
		}
		if !found {
			next = append(next, row.id)
		}
		return t, func() tea.Msg { return NestedSelectionChangeMsg{Key: k, IDs: next} }
	}
	return t, nil
}

func (t Table) toggle(sel SelectionReader, id domain.ItemID) tea.Cmd {
	var ids []domain.ItemID
	for _, r := range t.rows {
		on := sel.IsSelected(t.collection, r.ID)
		if r.ID == id {
			on = !on
		}
		if on {
			ids = append(ids, r.ID)
		}
	}
	col := t.collection
	return func() tea.Msg { return SelectionChangeMsg{Collection: col, IDs: ids} }
}

// toggleAll selects every row, or clears the tab when all are selected.
func (t Table) toggleAll(sel SelectionReader) tea.Cmd {
	var ids []domain.ItemID
	if len(sel.Selected(t.collection)) < len(t.rows) {
		for _, r := range t.rows {
			ids = append(ids, r.ID)
		}
	}
	col := t.collection
	return func() tea.Msg { return SelectionChangeMsg{Collection: col, IDs: ids} }
}

func (t *Table) expand() {
	if !t.collection.IsData() || t.catalog == nil {
		return
	}
	owner := t.rows[t.cursor].ID
	var nested []nestedRow
	for _, target := range domain.AssociationTargets(t.collection) {
		for _, id := range t.catalog.Associations(t.collection, owner, target) {
			name, _ := t.catalog.Name(target, id)
			nested = append(nested, nestedRow{target: target, id: id, name: name})
		}
	}
	if len(nested) == 0 {
		return
	}
	t.expanded = true
	t.expandedID = owner
	t.nested = nested
	t.nestedCursor = 0
}

func (t *Table) collapse() {
	t.expanded = false
	t.expandedID = 0
	t.nested = nil
	t.nestedCursor = 0
}

func (t Table) View(sel SelectionReader) string {
	if len(t.rows) == 0 {
		return dimStyle.Render("  Nothing to merge in " + strings.ToLower(t.collection.Title()))
	}

	start, end := window(t.cursor, len(t.rows), t.height)
	var b strings.Builder
	if start > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ... %d above", start)))
		b.WriteString("\n")
	}
	for i := start; i < end; i++ {
		row := t.rows[i]
		b.WriteString(t.renderRow(sel, row, i == t.cursor && !t.expanded))
		b.WriteString("\n")
		if t.expanded && row.ID == t.expandedID {
			b.WriteString(t.renderNested(sel))
		}
	}
	if end < len(t.rows) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ... %d below", len(t.rows)-end)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (t Table) renderRow(sel SelectionReader, row Row, focused bool) string {
	pointer := "  "
	if focused {
		pointer = cursorStyle.Render("> ")
	}
	box := iconUnchecked
	if sel.IsSelected(t.collection, row.ID) {
		box = checkedStyle.Render(iconChecked)
	}
	fold := " "
	if t.collection.IsData() {
		fold = iconCollapsed
		if t.expanded && row.ID == t.expandedID {
			fold = iconExpanded
		}
	}
	name := row.Name
	if row.IsFolder {
		name = iconFolder + " " + name
	}
	line := fmt.Sprintf("%s%s %s %s", pointer, box, fold, itemStyle.Render(name))
	if row.Detail != "" {
		line += "  " + dimStyle.Render(row.Detail)
	}
	if opt := t.optionLabel(sel, row); opt != "" {
		line += "  " + optionStyle.Render(opt)
	}
	return line
}

func (t Table) optionLabel(sel SelectionReader, row Row) string {
	switch {
	case t.collection == domain.DataSources:
		return sel.CopyMode(row.ID).String()
	case t.collection == domain.Files && row.IsFolder:
		return sel.FolderOption(row.ID).String()
	}
	return ""
}

func (t Table) renderNested(sel SelectionReader) string {
	var b strings.Builder
	checked := map[domain.Collection]domain.IDSet{}
	var last domain.Collection = -1
	for i, row := range t.nested {
		if row.target != last {
			last = row.target
			key := domain.AssociationKey{Owner: t.collection, OwnerID: t.expandedID, Target: row.target}
			checked[row.target] = domain.NewIDSet(sel.NestedSelection(key)...)
			b.WriteString("      ")
			b.WriteString(subtitleStyle.Render(row.target.Title()))
			b.WriteString("\n")
		}
		pointer := "  "
		if i == t.nestedCursor {
			pointer = cursorStyle.Render("> ")
		}
		box := iconUnchecked
		if set := checked[row.target]; set.Has(row.id) {
			box = checkedStyle.Render(iconChecked)
		}
		fmt.Fprintf(&b, "      %s%s %s\n", pointer, box, itemStyle.Render(row.name))
	}
	return b.String()
}

// window returns the visible row range keeping the cursor on screen.
func window(cursor, total, height int) (int, int) {
	if total <= height {
		return 0, total
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	end := start + height
	if end > total {
		end = total
		start = end - height
	}
	return start, end
}

func rowsFor(c *domain.Catalog, col domain.Collection) []Row {
	if c == nil {
		return nil
	}
	var rows []Row
	switch col {
	case domain.Screens:
		for _, s := range c.Screens {
			rows = append(rows, Row{ID: s.ID, Name: s.Name,
				Detail: fmt.Sprintf("%d data sources, %d files", len(s.DataSources), len(s.Files))})
		}
	case domain.DataSources:
		for _, d := range c.DataSources {
			rows = append(rows, Row{ID: d.ID, Name: d.Name,
				Detail: humanize.Comma(int64(d.Records)) + " records"})
		}
	case domain.Files:
		for _, f := range c.Files {
			detail := humanize.Bytes(uint64(f.Size))
			if f.IsFolder {
				detail = fmt.Sprintf("%d files", len(c.Children(f.ID)))
			}
			rows = append(rows, Row{ID: f.ID, Name: f.Name, Detail: detail, IsFolder: f.IsFolder})
		}
	case domain.Settings:
		for _, s := range c.Settings {
			rows = append(rows, Row{ID: s.ID, Name: s.Name, Detail: s.Value})
		}
	}
	return rows
}
