package domain

import "fmt"

// CopyMode controls how much of a data source is copied.
type CopyMode int

const (
	CopyStructureOnly CopyMode = iota
	CopyOverwrite
)

func (m CopyMode) String() string {
	switch m {
	case CopyOverwrite:
		return "overwrite"
	default:
		return "structure-only"
	}
}

// Next cycles to the following mode.
func (m CopyMode) Next() CopyMode {
	if m == CopyStructureOnly {
		return CopyOverwrite
	}
	return CopyStructureOnly
}

func ParseCopyMode(s string) (CopyMode, error) {
	switch s {
	case "", "structure-only":
		return CopyStructureOnly, nil
	case "overwrite":
		return CopyOverwrite, nil
	default:
		return 0, fmt.Errorf("unknown copy mode %q", s)
	}
}

// FolderOption controls whether a folder is copied with its contents.
type FolderOption int

const (
	FolderOnly FolderOption = iota
	FolderWithFiles
)

func (o FolderOption) String() string {
	switch o {
	case FolderWithFiles:
		return "folder-with-files"
	default:
		return "folder-only"
	}
}

func (o FolderOption) Next() FolderOption {
	if o == FolderOnly {
		return FolderWithFiles
	}
	return FolderOnly
}

func ParseFolderOption(s string) (FolderOption, error) {
	switch s {
	case "", "folder-only":
		return FolderOnly, nil
	case "folder-with-files":
		return FolderWithFiles, nil
	default:
		return 0, fmt.Errorf("unknown folder option %q", s)
	}
}
