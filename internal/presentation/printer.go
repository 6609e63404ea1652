package presentation

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"appmerge/internal/domain"
)

type Printer struct {
	Writer  io.Writer
	Verbose bool
}

// PrintPreview writes the review step: items per collection, conflicts and
// a summary.
func (p Printer) PrintPreview(plan domain.MergePlan) {
	fmt.Fprintf(p.Writer, "Merging %s into %s:\n", plan.Source, plan.Destination)

	for _, col := range domain.AllCollections {
		lines := FormatItemLines(plan.Items, col)
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintln(p.Writer)
		fmt.Fprintf(p.Writer, "%s:\n", col.Title())
		for _, line := range lines {
			fmt.Fprintln(p.Writer, line)
		}
	}

	if plan.Blocked() {
		fmt.Fprintln(p.Writer)
		fmt.Fprintln(p.Writer, "Conflicts:")
		for _, line := range FormatConflictLines(plan.Conflicts) {
			fmt.Fprintln(p.Writer, line)
		}
	}

	fmt.Fprintln(p.Writer)
	fmt.Fprintln(p.Writer, SummaryLine(plan))
	if plan.Blocked() {
		fmt.Fprintln(p.Writer, "Resolve conflicts in the destination before merging.")
	}

	if p.Verbose && len(plan.Warnings) > 0 {
		fmt.Fprintln(p.Writer)
		fmt.Fprintln(p.Writer, "Warnings:")
		for _, warning := range plan.Warnings {
			fmt.Fprintln(p.Writer, "- "+warning)
		}
	}
}

func (p Printer) PrintExecution(plan domain.MergePlan, applied int) {
	fmt.Fprintf(p.Writer, "Merged %d of %d items into %s.\n", applied, len(plan.Items), plan.Destination)
	fmt.Fprintln(p.Writer, SummaryLine(plan))
}

// FormatItemLines renders the planned items of one collection.
func FormatItemLines(items []domain.PlanItem, col domain.Collection) []string {
	var lines []string
	for _, item := range items {
		if item.Collection != col {
			continue
		}
		lines = append(lines, "  "+formatItem(item))
	}
	return lines
}

func formatItem(item domain.PlanItem) string {
	var details []string
	switch item.Collection {
	case domain.DataSources:
		details = append(details, item.CopyMode.String())
	case domain.Files:
		if item.IsFolder {
			details = append(details, item.FolderOption.String())
		} else {
			details = append(details, humanize.Bytes(uint64(item.Size)))
		}
		if item.Implied {
			details = append(details, "from folder")
		}
	}
	if len(details) == 0 {
		return fmt.Sprintf("%s (#%d)", item.Name, item.ID)
	}
	return fmt.Sprintf("%s (#%d, %s)", item.Name, item.ID, strings.Join(details, ", "))
}

func FormatConflictLines(conflicts []domain.Conflict) []string {
	lines := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		lines = append(lines, fmt.Sprintf("  %s %q already exists in destination (#%d)",
			singular(c.Item.Collection), c.Item.Name, c.DestinationID))
	}
	return lines
}

func SummaryLine(plan domain.MergePlan) string {
	return fmt.Sprintf("%d screens, %d data sources, %d files (%s), %d settings; %d conflicts.",
		plan.Counts[domain.Screens],
		plan.Counts[domain.DataSources],
		plan.Counts[domain.Files],
		humanize.Bytes(uint64(plan.TotalBytes)),
		plan.Counts[domain.Settings],
		len(plan.Conflicts),
	)
}

func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

func singular(col domain.Collection) string {
	switch col {
	case domain.Screens:
		return "Screen"
	case domain.DataSources:
		return "Data source"
	case domain.Files:
		return "File"
	default:
		return "Setting"
	}
}
