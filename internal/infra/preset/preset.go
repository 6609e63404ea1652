// Package preset reads a saved selection and replays it as coordinator
// commands. A preset is an input file only; configuration state is never
// written back.
package preset

import (
	"fmt"

	"go.yaml.in/yaml/v3"

	"appmerge/internal/domain"
	"appmerge/internal/selection"
)

type file struct {
	Screens       []domain.ItemID          `yaml:"screens"`
	DataSources   []domain.ItemID          `yaml:"data_sources"`
	Files         []domain.ItemID          `yaml:"files"`
	Settings      []domain.ItemID          `yaml:"settings"`
	CopyModes     map[domain.ItemID]string `yaml:"copy_modes"`
	FolderOptions map[domain.ItemID]string `yaml:"folder_options"`
	Nested        []nested                 `yaml:"nested"`
}

type nested struct {
	Owner  string          `yaml:"owner"`
	ID     domain.ItemID   `yaml:"id"`
	Target string          `yaml:"target"`
	IDs    []domain.ItemID `yaml:"ids"`
}

// Parse turns preset YAML into commands: flat selections first, then nested
// selections in file order, then per-item options.
func Parse(data []byte) ([]selection.Command, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing preset: %w", err)
	}

	cmds := []selection.Command{
		selection.FlatSelection{Collection: domain.Screens, IDs: f.Screens},
		selection.FlatSelection{Collection: domain.DataSources, IDs: f.DataSources},
		selection.FlatSelection{Collection: domain.Files, IDs: f.Files},
		selection.FlatSelection{Collection: domain.Settings, IDs: f.Settings},
	}

	for i, n := range f.Nested {
		owner, err := domain.ParseCollection(n.Owner)
		if err != nil {
			return nil, fmt.Errorf("nested[%d]: %w", i, err)
		}
		target, err := domain.ParseCollection(n.Target)
		if err != nil {
			return nil, fmt.Errorf("nested[%d]: %w", i, err)
		}
		cmds = append(cmds, selection.NestedSelection{
			Key: domain.AssociationKey{Owner: owner, OwnerID: n.ID, Target: target},
			IDs: n.IDs,
		})
	}

	for _, id := range sortedKeys(f.CopyModes) {
		mode, err := domain.ParseCopyMode(f.CopyModes[id])
		if err != nil {
			return nil, fmt.Errorf("copy_modes[%d]: %w", id, err)
		}
		cmds = append(cmds, selection.SetCopyMode{ID: id, Mode: mode})
	}
	for _, id := range sortedKeys(f.FolderOptions) {
		opt, err := domain.ParseFolderOption(f.FolderOptions[id])
		if err != nil {
			return nil, fmt.Errorf("folder_options[%d]: %w", id, err)
		}
		cmds = append(cmds, selection.SetFolderOption{ID: id, Option: opt})
	}
	return cmds, nil
}

func sortedKeys(m map[domain.ItemID]string) []domain.ItemID {
	set := domain.NewIDSet()
	for id := range m {
		set.Add(id)
	}
	return set.Sorted()
}
