package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"appmerge/internal/lock"
)

// renderBanner is the non-blocking notice shown while the lock is in the
// warning level.
func renderBanner(snap lock.Snapshot, width int, extending bool) string {
	text := iconWarning + " Lock expires in " + snap.Text + ". Extend lock (x)"
	if extending {
		text = iconWarning + " Lock expires in " + snap.Text + ". Extending..."
	}
	style := bannerStyle
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(text)
}

// renderLockModal is the blocking dialog shown in the critical level. Every
// key extends the lock, so it has no dismiss button.
func renderLockModal(snap lock.Snapshot, extending bool) string {
	button := buttonStyle.Render("Extend lock")
	if extending {
		button = dimStyle.Render("Extending...")
	}
	body := lipgloss.JoinVertical(lipgloss.Center,
		modalTitleStyle.Render(iconLock+" Lock about to expire"),
		"",
		itemStyle.Render("Your configuration is discarded in "+snap.Text+"."),
		"",
		button,
		"",
		dimStyle.Render("press any key to extend, q to quit"),
	)
	return modalStyle.Render(body)
}

// Composite centers overlay on top of background. The background is dimmed
// and stripped of its styling so the overlay reads as modal.
func Composite(background, overlay string, totalWidth, totalHeight int) string {
	if overlay == "" {
		return background
	}

	bgLines := strings.Split(background, "\n")
	for len(bgLines) < totalHeight {
		bgLines = append(bgLines, "")
	}

	overlayLines := strings.Split(overlay, "\n")
	overlayWidth := 0
	for _, line := range overlayLines {
		if w := ansi.StringWidth(line); w > overlayWidth {
			overlayWidth = w
		}
	}

	startRow := max(0, (len(bgLines)-len(overlayLines))/2)
	if totalHeight > 0 {
		startRow = max(0, (totalHeight-len(overlayLines))/2)
	}
	startCol := max(0, (totalWidth-overlayWidth)/2)

	for i := range bgLines {
		plain := ansi.Strip(bgLines[i])
		j := i - startRow
		if j < 0 || j >= len(overlayLines) {
			bgLines[i] = dimStyle.Render(plain)
			continue
		}
		left := ansi.Truncate(plain, startCol, "")
		if w := ansi.StringWidth(left); w < startCol {
			left += strings.Repeat(" ", startCol-w)
		}
		line := overlayLines[j]
		right := ""
		if end := startCol + ansi.StringWidth(line); end < ansi.StringWidth(plain) {
			right = ansi.TruncateLeft(plain, end, "")
		}
		bgLines[i] = dimStyle.Render(left) + line + dimStyle.Render(right)
	}
	return strings.Join(bgLines, "\n")
}
