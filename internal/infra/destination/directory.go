package destination

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"appmerge/internal/domain"
)

type FileWriter interface {
	WriteFile(path string, data []byte, perm fs.FileMode) error
}

// Directory writes one YAML manifest per applied item under Root, grouped
// by collection.
type Directory struct {
	Root string
	FS   FileWriter
}

type manifest struct {
	Collection   string `yaml:"collection"`
	ID           int    `yaml:"id"`
	Name         string `yaml:"name"`
	Size         int64  `yaml:"size,omitempty"`
	CopyMode     string `yaml:"copy_mode,omitempty"`
	FolderOption string `yaml:"folder_option,omitempty"`
	Implied      bool   `yaml:"implied,omitempty"`
}

func (d Directory) Apply(ctx context.Context, item domain.PlanItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := manifest{
		Collection: item.Collection.String(),
		ID:         int(item.ID),
		Name:       item.Name,
		Size:       item.Size,
		Implied:    item.Implied,
	}
	if item.Collection == domain.DataSources {
		m.CopyMode = item.CopyMode.String()
	}
	if item.IsFolder {
		m.FolderOption = item.FolderOption.String()
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return d.FS.WriteFile(d.path(item), data, 0o644)
}

func (d Directory) path(item domain.PlanItem) string {
	name := fmt.Sprintf("%d-%s.yaml", item.ID, slug(item.Name))
	return filepath.Join(d.Root, item.Collection.String(), name)
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
