package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"appmerge/internal/app"
	"appmerge/internal/domain"
	"appmerge/internal/lock"
	"appmerge/internal/logging"
	"appmerge/internal/presentation"
	"appmerge/internal/selection"
)

// LockSession is the lock lifecycle the wizard depends on.
type LockSession interface {
	Open(ctx context.Context, source, destination string) (app.Lock, error)
	Extend(ctx context.Context) (time.Time, error)
	Close(ctx context.Context) error
}

// Config for the TUI
type Config struct {
	Source      string
	Destination string
	Tick        time.Duration
	Verbose     bool

	Session  LockSession
	Catalogs app.CatalogSource
	Planner  *app.Planner
	Executor *app.Executor
	Logger   logging.Logger
	Now      func() time.Time
}

// Model is the merge wizard.
type Model struct {
	config Config
	Phase  Phase

	Lock        app.Lock
	source      *domain.Catalog
	destination domain.Catalog
	coord       *selection.Coordinator

	tabs   TabBar
	tables map[domain.Collection]Table

	countdown *lock.Countdown
	lockSnap  lock.Snapshot
	extending bool
	lockErr   error

	Plan         domain.MergePlan
	spinner      spinner.Model
	progress     progress.Model
	mergeCurrent int
	mergeTotal   int
	currentItem  string
	mergeEvents  <-chan tea.Msg
	cancelMerge  context.CancelFunc
	Applied      int

	Err      error
	Quitting bool
	width    int
	height   int
}

func NewModel(cfg Config) Model {
	if cfg.Tick <= 0 {
		cfg.Tick = time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.Logger = cfg.Logger.Named("tui")

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:   cfg,
		Phase:    PhaseLocking,
		tabs:     NewTabBar(domain.AllCollections),
		tables:   map[domain.Collection]Table{},
		spinner:  s,
		progress: p,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.openSessionCmd())
}

// Coordinator exposes the selection state, nil until the lock is held.
func (m Model) Coordinator() *selection.Coordinator { return m.coord }

// LockSnapshot returns the countdown as of the last tick.
func (m Model) LockSnapshot() lock.Snapshot { return m.lockSnap }

// ActiveTab returns the collection of the focused tab.
func (m Model) ActiveTab() domain.Collection { return m.tabs.Active() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(msg.Width-20, 60)
		m.tabs.SetWidth(msg.Width)
		for col, t := range m.tables {
			t.SetHeight(msg.Height - 14)
			m.tables[col] = t
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.lockBlocking() && msg.Action == tea.MouseActionPress {
			return m.requestExtend()
		}
		return m, nil

	case SessionReadyMsg:
		return m.startConfiguring(msg)

	case lockTickMsg:
		if m.countdown == nil || !m.countdown.Running() {
			return m, nil
		}
		var cmd tea.Cmd
		m, cmd = m.observeLock(time.Time(msg))
		if m.countdown.Running() {
			return m, tea.Batch(cmd, m.lockTickCmd())
		}
		return m, cmd

	case LockExtendedMsg:
		if msg.LockID != m.Lock.ID {
			return m, nil
		}
		m.extending = false
		m.lockErr = nil
		if m.countdown == nil {
			return m, nil
		}
		m.countdown.SetDeadline(msg.Until)
		return m.observeLock(m.config.Now())

	case LockExtendFailedMsg:
		if msg.LockID != m.Lock.ID {
			return m, nil
		}
		m.extending = false
		if !errors.Is(msg.Err, app.ErrBusy) {
			m.lockErr = msg.Err
			m.config.Logger.Warnf("extending lock: %v", msg.Err)
		}
		return m, nil

	case TabSwitchMsg:
		m.config.Logger.Verbosef("tab %s", msg.Collection)
		return m, nil

	case SelectionChangeMsg:
		if m.coord != nil {
			m.coord.SetFlatSelection(msg.Collection, msg.IDs)
		}
		return m, nil

	case NestedSelectionChangeMsg:
		if m.coord != nil {
			m.coord.SetNestedSelection(msg.Key.Owner, msg.Key.OwnerID, msg.Key.Target, msg.IDs)
		}
		return m, nil

	case OptionCycleMsg:
		if m.coord == nil {
			return m, nil
		}
		switch msg.Collection {
		case domain.DataSources:
			m.coord.SetCopyMode(msg.ID, m.coord.CopyMode(msg.ID).Next())
		case domain.Files:
			m.coord.SetFolderOption(msg.ID, m.coord.FolderOption(msg.ID).Next())
		}
		return m, nil

	case PlanReadyMsg:
		m.Plan = msg.Plan
		m.Phase = PhaseReview
		return m, nil

	case MergeProgressMsg:
		m.mergeCurrent = msg.Current
		m.mergeTotal = msg.Total
		m.currentItem = msg.Item
		var cmd tea.Cmd
		if msg.Total > 0 {
			cmd = m.progress.SetPercent(float64(msg.Current) / float64(msg.Total))
		}
		return m, tea.Batch(cmd, waitForMerge(m.mergeEvents))

	case MergeDoneMsg:
		m.Phase = PhaseDone
		m.Applied = msg.Applied
		m.mergeEvents = nil
		return m, m.closeSessionCmd()

	case ErrorMsg:
		m.Phase = PhaseError
		m.Err = msg.Err
		m.mergeEvents = nil
		if m.countdown != nil {
			m.countdown.Stop()
		}
		return m, m.closeSessionCmd()

	case spinner.TickMsg:
		if m.Phase == PhaseLocking || m.Phase == PhaseMerging {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// q quits everywhere but the merge, including under the lock modal.
	if k := msg.String(); k == "ctrl+c" || (k == "q" && m.Phase != PhaseMerging) {
		return m.quit()
	}
	if m.lockBlocking() {
		return m.requestExtend()
	}

	switch m.Phase {
	case PhaseConfigure:
		return m.handleConfigureKey(msg)

	case PhaseReview:
		switch msg.String() {
		case "esc", "b":
			m.Phase = PhaseConfigure
		case "x":
			return m.requestExtend()
		case "enter":
			if !m.Plan.Blocked() && len(m.Plan.Items) > 0 {
				return m.startMerge()
			}
		}

	case PhaseExpired:
		switch msg.String() {
		case "r":
			m.Phase = PhaseLocking
			m.Err = nil
			return m, tea.Batch(m.spinner.Tick, m.openSessionCmd())
		case "enter":
			return m.quit()
		}

	case PhaseDone, PhaseError:
		if msg.String() == "enter" {
			return m.quit()
		}
	}
	return m, nil
}

func (m Model) handleConfigureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := m.tabs.Active()
	table := m.tables[active]
	_, nested := table.Expanded()

	switch msg.String() {
	case "x":
		return m.requestExtend()
	case "p":
		if m.coord.CanProceed() {
			return m, m.planCmd()
		}
		return m, nil
	case "left", "right", "h", "l", "tab", "shift+tab":
		if !nested {
			var cmd tea.Cmd
			m.tabs, cmd = m.tabs.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.tables[active], cmd = table.Update(msg, m.coord)
	return m, cmd
}

func (m Model) startConfiguring(msg SessionReadyMsg) (tea.Model, tea.Cmd) {
	src := msg.Source
	m.Lock = msg.Lock
	m.source = &src
	m.destination = msg.Destination
	m.coord = selection.NewCoordinator(m.source, m.config.Logger)
	for _, col := range domain.AllCollections {
		t := NewTable(col, m.source)
		t.SetHeight(m.height - 14)
		m.tables[col] = t
	}
	m.countdown = lock.New(msg.Lock.Until, m.config.Now())
	m.lockSnap = m.countdown.Snapshot()
	m.extending = false
	m.lockErr = nil
	m.Phase = PhaseConfigure
	m.config.Logger.Infof("configuring merge %s -> %s (%s left)", m.config.Source, m.config.Destination, m.lockSnap.Text)
	return m, m.lockTickCmd()
}

// observeLock advances the countdown to now and reacts to its events.
func (m Model) observeLock(now time.Time) (Model, tea.Cmd) {
	snap, events := m.countdown.Tick(now)
	m.lockSnap = snap
	for _, ev := range events {
		switch ev.Kind {
		case lock.EventEscalated:
			m.config.Logger.Infof("lock level %s -> %s (%s left)", ev.From, ev.To, snap.Text)
		case lock.EventExpired:
			return m.expire()
		}
	}
	return m, nil
}

// expire abandons the configuration and releases the lock.
func (m Model) expire() (Model, tea.Cmd) {
	m.config.Logger.Warnf("lock expired, discarding configuration")
	if m.coord != nil {
		m.coord.Reset()
	}
	m.Plan = domain.MergePlan{}
	m.Phase = PhaseExpired
	return m, m.closeSessionCmd()
}

// lockBlocking reports whether the critical-level modal is shown.
func (m Model) lockBlocking() bool {
	if m.Phase != PhaseConfigure && m.Phase != PhaseReview {
		return false
	}
	return m.countdown != nil && m.countdown.Running() && m.countdown.Level() == lock.Critical
}

func (m Model) requestExtend() (tea.Model, tea.Cmd) {
	if m.countdown == nil || m.extending {
		return m, nil
	}
	ev, ok := m.countdown.Extend()
	if !ok {
		return m, nil
	}
	m.config.Logger.Verbosef("extend requested at level %s", ev.From)
	m.extending = true
	session, id := m.config.Session, m.Lock.ID
	return m, func() tea.Msg {
		until, err := session.Extend(context.Background())
		if err != nil {
			return LockExtendFailedMsg{LockID: id, Err: err}
		}
		return LockExtendedMsg{LockID: id, Until: until}
	}
}

func (m Model) startMerge() (tea.Model, tea.Cmd) {
	if m.countdown != nil {
		m.countdown.Stop()
	}
	m.Phase = PhaseMerging
	m.mergeCurrent = 0
	m.mergeTotal = len(m.Plan.Items)

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelMerge = cancel
	ch := make(chan tea.Msg, 1)
	m.mergeEvents = ch

	executor, plan := m.config.Executor, m.Plan
	go func() {
		defer close(ch)
		defer cancel()
		applied := 0
		err := executor.Execute(ctx, plan, func(current, total int, item domain.PlanItem) {
			applied = current
			ch <- MergeProgressMsg{Current: current, Total: total, Item: item.Name}
		})
		if err != nil {
			ch <- ErrorMsg{Err: err}
			return
		}
		ch <- MergeDoneMsg{Applied: applied}
	}()

	return m, tea.Batch(m.spinner.Tick, waitForMerge(ch))
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.Quitting = true
	if m.cancelMerge != nil {
		m.cancelMerge()
	}
	if m.countdown != nil {
		m.countdown.Stop()
	}
	return m, tea.Sequence(m.closeSessionCmd(), tea.Quit)
}

func (m Model) openSessionCmd() tea.Cmd {
	cfg := m.config
	return func() tea.Msg {
		ctx := context.Background()
		l, err := cfg.Session.Open(ctx, cfg.Source, cfg.Destination)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		src, err := cfg.Catalogs.Load(ctx, cfg.Source)
		if err != nil {
			_ = cfg.Session.Close(ctx)
			return ErrorMsg{Err: err}
		}
		dst, err := cfg.Catalogs.Load(ctx, cfg.Destination)
		if err != nil {
			_ = cfg.Session.Close(ctx)
			return ErrorMsg{Err: err}
		}
		return SessionReadyMsg{Lock: l, Source: src, Destination: dst}
	}
}

func (m Model) closeSessionCmd() tea.Cmd {
	session, logger := m.config.Session, m.config.Logger
	return func() tea.Msg {
		if session == nil {
			return nil
		}
		if err := session.Close(context.Background()); err != nil {
			logger.Warnf("releasing lock: %v", err)
		}
		return nil
	}
}

func (m Model) planCmd() tea.Cmd {
	planner, cfg := m.config.Planner, m.coord.Snapshot()
	src, dst := *m.source, m.destination
	return func() tea.Msg {
		plan, err := planner.Plan(context.Background(), cfg, src, dst)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return PlanReadyMsg{Plan: plan}
	}
}

func (m Model) lockTickCmd() tea.Cmd {
	return tea.Tick(m.config.Tick, func(t time.Time) tea.Msg {
		return lockTickMsg(t)
	})
}

func waitForMerge(ch <-chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseLocking:
		b.WriteString(fmt.Sprintf("%s Locking %s and %s...", m.spinner.View(), m.config.Source, m.config.Destination))
	case PhaseConfigure:
		b.WriteString(m.renderConfigure())
	case PhaseReview:
		b.WriteString(m.renderReview())
	case PhaseMerging:
		b.WriteString(m.renderMerging())
	case PhaseDone:
		b.WriteString(m.renderDone())
	case PhaseExpired:
		b.WriteString(m.renderExpired())
	case PhaseError:
		b.WriteString(m.renderError())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	page := b.String()
	if m.lockBlocking() {
		return Composite(page, renderLockModal(m.lockSnap, m.extending), m.width, m.height)
	}
	return page
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("⇄ appmerge")
	subtitle := subtitleStyle.Render(fmt.Sprintf("%s %s %s", m.config.Source, iconArrow, m.config.Destination))

	lines := []string{title, subtitle}
	if m.countdown != nil && (m.Phase == PhaseConfigure || m.Phase == PhaseReview) {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%s Lock held for %s", iconLock, m.lockSnap.Text)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderConfigure() string {
	var b strings.Builder

	b.WriteString(m.tabs.View(func(col domain.Collection) int {
		return len(m.coord.Selected(col))
	}))
	b.WriteString("\n")

	if m.lockSnap.Level == lock.Warning {
		b.WriteString(renderBanner(m.lockSnap, m.width, m.extending))
		b.WriteString("\n")
	}
	if m.lockErr != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("%s Could not extend lock: %v", iconError, m.lockErr)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.tables[m.tabs.Active()].View(m.coord))
	b.WriteString("\n\n")

	if m.coord.CanProceed() {
		b.WriteString(successStyle.Render(iconArrow + " Press p to review the merge"))
	} else {
		b.WriteString(dimStyle.Render("Select at least one screen, data source or file to continue"))
	}
	return b.String()
}

func (m Model) renderReview() string {
	var b strings.Builder

	for _, col := range domain.AllCollections {
		lines := presentation.FormatItemLines(m.Plan.Items, col)
		if len(lines) == 0 {
			continue
		}
		b.WriteString(sectionStyle.Render(col.Title()))
		b.WriteString("\n")
		b.WriteString(itemStyle.Render(presentation.JoinLines(lines)))
		b.WriteString("\n")
	}

	if m.Plan.Blocked() {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(fmt.Sprintf("%s Conflicts (%d)", iconWarning, len(m.Plan.Conflicts))))
		b.WriteString("\n")
		b.WriteString(presentation.JoinLines(presentation.FormatConflictLines(m.Plan.Conflicts)))
		b.WriteString("\n")
	}

	b.WriteString(sectionStyle.Render("Summary"))
	b.WriteString("\n")
	b.WriteString(presentation.SummaryLine(m.Plan))
	b.WriteString("\n")

	if m.config.Verbose && len(m.Plan.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("Warnings:"))
		b.WriteString("\n")
		for _, w := range m.Plan.Warnings {
			b.WriteString(fmt.Sprintf("  %s %s\n", iconWarning, w))
		}
	}

	if m.Plan.Blocked() {
		b.WriteString("\n")
		b.WriteString(errorBoxStyle.Render(errorStyle.Render("Merge blocked. Rename or remove the conflicting items in the destination first.")))
	}
	return b.String()
}

func (m Model) renderMerging() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Merging"))
	b.WriteString("\n\n")

	percent := 0.0
	if m.mergeTotal > 0 {
		percent = float64(m.mergeCurrent) / float64(m.mergeTotal)
	}

	b.WriteString(fmt.Sprintf("  %s Merging into %s...\n\n", m.spinner.View(), m.config.Destination))
	b.WriteString(fmt.Sprintf("  %s\n", m.progress.ViewAs(percent)))

	countStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	b.WriteString(fmt.Sprintf("  %s %s\n",
		countStyle.Render(fmt.Sprintf("%d/%d items", m.mergeCurrent, m.mergeTotal)),
		dimStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
	))

	if m.currentItem != "" {
		b.WriteString(fmt.Sprintf("\n  %s %s\n", iconArrow, itemStyle.Render(m.currentItem)))
	}
	return b.String()
}

func (m Model) renderDone() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Merge Complete"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s %s\n\n",
		successStyle.Render(iconSuccess),
		successStyle.Render(fmt.Sprintf("Merged %d of %d items into %s", m.Applied, len(m.Plan.Items), m.config.Destination)),
	))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(presentation.SummaryLine(m.Plan)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderExpired() string {
	msg := lipgloss.JoinVertical(lipgloss.Left,
		errorStyle.Render(iconLock+" The lock expired"),
		"",
		itemStyle.Render("The merge configuration was discarded and the apps were unlocked."),
		dimStyle.Render("Press r to lock again and start over."),
	)
	return errorBoxStyle.Render(msg)
}

func (m Model) renderError() string {
	icon := errorStyle.Render(iconError)
	text := "unknown error"
	if m.Err != nil {
		text = m.Err.Error()
	}
	return errorBoxStyle.Render(fmt.Sprintf("%s %s", icon, errorStyle.Render("Error: "+text)))
}

func (m Model) renderHelp() string {
	var help string
	switch m.Phase {
	case PhaseLocking:
		help = "Acquiring lock... q to quit"
	case PhaseConfigure:
		if _, nested := m.tables[m.tabs.Active()].Expanded(); nested {
			help = "↑↓ move • space toggle • enter/esc close • q quit"
		} else {
			help = "←→ tabs • ↑↓ move • space toggle • a all • enter associations • m mode • p review • q quit"
		}
	case PhaseReview:
		if m.Plan.Blocked() {
			help = "b back • q quit"
		} else {
			help = "Enter to merge • b back • q quit"
		}
	case PhaseMerging:
		help = "Merging... ctrl+c to abort"
	case PhaseExpired:
		help = "r start over • q quit"
	case PhaseDone:
		help = "Press Enter to exit"
	case PhaseError:
		help = "Press Enter or q to exit"
	}
	return helpStyle.Render(help)
}
