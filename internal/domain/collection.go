package domain

import (
	"fmt"
	"strings"
)

// Collection names one of the artifact kinds that can be merged.
type Collection int

const (
	Screens Collection = iota
	DataSources
	Files
	Settings
)

// DataCollections lists the collections that gate the proceed action.
var DataCollections = []Collection{Screens, DataSources, Files}

// AllCollections lists every collection in tab order.
var AllCollections = []Collection{Screens, DataSources, Files, Settings}

func (c Collection) String() string {
	switch c {
	case Screens:
		return "screens"
	case DataSources:
		return "data-sources"
	case Files:
		return "files"
	case Settings:
		return "settings"
	default:
		return fmt.Sprintf("collection(%d)", int(c))
	}
}

// Title returns the display label used for tabs and headings.
func (c Collection) Title() string {
	switch c {
	case Screens:
		return "Screens"
	case DataSources:
		return "Data sources"
	case Files:
		return "Files"
	case Settings:
		return "Settings"
	default:
		return c.String()
	}
}

// IsData reports whether the collection is one of the three data collections.
func (c Collection) IsData() bool {
	return c == Screens || c == DataSources || c == Files
}

func ParseCollection(s string) (Collection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "screens", "screen":
		return Screens, nil
	case "data-sources", "datasources", "data-source", "datasource":
		return DataSources, nil
	case "files", "file":
		return Files, nil
	case "settings", "setting":
		return Settings, nil
	default:
		return 0, fmt.Errorf("unknown collection %q", s)
	}
}
