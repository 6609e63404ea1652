package app

import (
	"context"
	"fmt"
	"strings"

	"appmerge/internal/domain"
	"appmerge/internal/logging"
)

type Planner struct {
	Logger logging.Logger
}

// Plan builds the review preview for a merge configuration. Items are
// grouped by collection in tab order and by catalog order within each
// collection. Names already present in the destination become conflicts.
func (p *Planner) Plan(ctx context.Context, cfg domain.MergeConfiguration, src, dst domain.Catalog) (domain.MergePlan, error) {
	stop := p.Logger.Measure("Planning merge")
	defer stop()

	plan := domain.MergePlan{
		Source:      src.App,
		Destination: dst.App,
		Counts:      map[domain.Collection]int{},
	}

	for _, col := range domain.AllCollections {
		if err := ctx.Err(); err != nil {
			return domain.MergePlan{}, err
		}
		selected := cfg.Selection(col)
		known := domain.NewIDSet()
		for _, id := range src.IDs(col) {
			known.Add(id)
		}
		for _, id := range selected.Sorted() {
			if !known.Has(id) {
				plan.Warnings = append(plan.Warnings, fmt.Sprintf("%s %d is not in %s, skipped", col, id, src.App))
			}
		}

		planned := domain.NewIDSet()
		for _, id := range src.IDs(col) {
			if !selected.Has(id) || planned.Has(id) {
				continue
			}
			item := newPlanItem(src, cfg, col, id)
			plan.Items = append(plan.Items, item)
			planned.Add(id)

			if col == domain.Files && item.IsFolder && item.FolderOption == domain.FolderWithFiles {
				plan.Items = append(plan.Items, impliedFiles(src, cfg, id, selected, planned)...)
			}
		}
	}

	destNames := indexNames(dst)
	for _, item := range plan.Items {
		plan.Counts[item.Collection]++
		plan.TotalBytes += item.Size
		if !canConflict(item) {
			continue
		}
		if destID, ok := destNames[item.Collection][strings.ToLower(item.Name)]; ok {
			plan.Conflicts = append(plan.Conflicts, domain.Conflict{Item: item, DestinationID: destID})
		}
	}

	p.Logger.Verbosef("Planned %d items (%d screens, %d data sources, %d files, %d settings), %d conflicts",
		len(plan.Items), plan.Counts[domain.Screens], plan.Counts[domain.DataSources],
		plan.Counts[domain.Files], plan.Counts[domain.Settings], len(plan.Conflicts))
	return plan, nil
}

// impliedFiles walks folder breadth-first and returns every descendant not
// already selected or planned. Sub-folders are descended into whether or not
// they are selected themselves.
func impliedFiles(src domain.Catalog, cfg domain.MergeConfiguration, folder domain.ItemID, selected, planned domain.IDSet) []domain.PlanItem {
	var out []domain.PlanItem
	visited := domain.NewIDSet(folder)
	pending := []domain.ItemID{folder}
	for len(pending) > 0 {
		next := pending[0]
		pending = pending[1:]
		for _, child := range src.Children(next) {
			if child.IsFolder && visited.Add(child.ID) {
				pending = append(pending, child.ID)
			}
			if selected.Has(child.ID) || planned.Has(child.ID) {
				continue
			}
			implied := newPlanItem(src, cfg, domain.Files, child.ID)
			implied.Implied = true
			out = append(out, implied)
			planned.Add(child.ID)
		}
	}
	return out
}

// canConflict reports whether a same-named destination item blocks the merge.
// Settings and overwriting data sources replace the destination value.
func canConflict(item domain.PlanItem) bool {
	switch item.Collection {
	case domain.Settings:
		return false
	case domain.DataSources:
		return item.CopyMode != domain.CopyOverwrite
	default:
		return true
	}
}

func newPlanItem(src domain.Catalog, cfg domain.MergeConfiguration, col domain.Collection, id domain.ItemID) domain.PlanItem {
	name, _ := src.Name(col, id)
	item := domain.PlanItem{Collection: col, ID: id, Name: name}
	switch col {
	case domain.DataSources:
		item.CopyMode = cfg.CopyMode(id)
	case domain.Files:
		if f, ok := src.File(id); ok {
			item.Size = f.Size
			item.IsFolder = f.IsFolder
			if f.IsFolder {
				item.FolderOption = cfg.FolderOption(id)
			}
		}
	}
	return item
}

func indexNames(c domain.Catalog) map[domain.Collection]map[string]domain.ItemID {
	out := map[domain.Collection]map[string]domain.ItemID{}
	for _, col := range domain.AllCollections {
		names := map[string]domain.ItemID{}
		for _, id := range c.IDs(col) {
			if name, ok := c.Name(col, id); ok {
				names[strings.ToLower(name)] = id
			}
		}
		out[col] = names
	}
	return out
}
