package domain

// PlanItem is one artifact the merge will write into the destination.
type PlanItem struct {
	Collection   Collection
	ID           ItemID
	Name         string
	Size         int64
	CopyMode     CopyMode
	FolderOption FolderOption
	IsFolder     bool
	Implied      bool // pulled in by a folder-with-files selection
}

// Conflict marks a planned item whose name already exists in the destination.
type Conflict struct {
	Item          PlanItem
	DestinationID ItemID
}

type MergePlan struct {
	Source      string
	Destination string
	Items       []PlanItem
	Conflicts   []Conflict
	Counts      map[Collection]int
	TotalBytes  int64
	Warnings    []string
}

func (p MergePlan) Blocked() bool {
	return len(p.Conflicts) > 0
}
