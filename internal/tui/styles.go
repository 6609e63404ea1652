package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor   = lipgloss.Color("#7AA2F7") // soft blue
	secondaryColor = lipgloss.Color("#9ECE6A") // green
	warningColor   = lipgloss.Color("#E0AF68") // amber
	errorColor     = lipgloss.Color("#F7768E") // red
	mutedColor     = lipgloss.Color("#565F89")
	textColor      = lipgloss.Color("#C0CAF5")
	dimTextColor   = lipgloss.Color("#737AA2")
	surfaceColor   = lipgloss.Color("#24283B")
	baseColor      = lipgloss.Color("#1A1B26")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(dimTextColor).
			Italic(true)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondaryColor).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(mutedColor).
			MarginTop(1)

	dimStyle = lipgloss.NewStyle().Foreground(dimTextColor)

	itemStyle = lipgloss.NewStyle().Foreground(textColor)

	cursorStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	checkedStyle = lipgloss.NewStyle().Foreground(secondaryColor)

	optionStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().Foreground(warningColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	// Tab bar
	tabBarStyle = lipgloss.NewStyle().Background(surfaceColor)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(baseColor).
			Background(primaryColor).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(primaryColor).
				Background(surfaceColor).
				Padding(0, 1)

	// Lock banner shown in the warning level
	bannerStyle = lipgloss.NewStyle().
			Foreground(baseColor).
			Background(warningColor).
			Padding(0, 1).
			Bold(true)

	// Modal shown in the critical level
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(errorColor).
			Padding(1, 3)

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(baseColor).
			Background(errorColor).
			Padding(0, 2).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(1, 2).
			MarginTop(1)

	errorBoxStyle = boxStyle.
			BorderForeground(errorColor)

	spinnerStyle = lipgloss.NewStyle().Foreground(primaryColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true).
			MarginTop(1)

	iconChecked   = "[x]"
	iconUnchecked = "[ ]"
	iconExpanded  = "▾"
	iconCollapsed = "▸"
	iconFolder    = "📁"
	iconLock      = "🔒"
	iconWarning   = "⚠"
	iconSuccess   = "✓"
	iconError     = "✗"
	iconArrow     = "→"
)
