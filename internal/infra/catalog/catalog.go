// Package catalog loads application catalogs from a YAML fixture.
package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"go.yaml.in/yaml/v3"

	"appmerge/internal/domain"
	appErrors "appmerge/internal/errors"
)

//go:embed sample.yaml
var sampleFixture []byte

type fixture struct {
	Apps map[string]appFixture `yaml:"apps"`
}

type appFixture struct {
	Screens []struct {
		ID          domain.ItemID   `yaml:"id"`
		Name        string          `yaml:"name"`
		DataSources []domain.ItemID `yaml:"data_sources,omitempty"`
		Files       []domain.ItemID `yaml:"files,omitempty"`
	} `yaml:"screens"`
	DataSources []struct {
		ID      domain.ItemID   `yaml:"id"`
		Name    string          `yaml:"name"`
		Records int             `yaml:"records,omitempty"`
		Files   []domain.ItemID `yaml:"files,omitempty"`
	} `yaml:"data_sources"`
	Files []struct {
		ID     domain.ItemID `yaml:"id"`
		Name   string        `yaml:"name"`
		Size   int64         `yaml:"size,omitempty"`
		Folder bool          `yaml:"folder,omitempty"`
		Parent domain.ItemID `yaml:"parent,omitempty"`
	} `yaml:"files"`
	Settings []struct {
		ID    domain.ItemID `yaml:"id"`
		Name  string        `yaml:"name"`
		Value string        `yaml:"value"`
	} `yaml:"settings"`
}

type Reader interface {
	ReadFile(path string) ([]byte, error)
}

// Source serves catalogs from a fixture file, or from the embedded sample
// when Path is empty.
type Source struct {
	Path string
	FS   Reader
}

func (s Source) Load(ctx context.Context, app string) (domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return domain.Catalog{}, err
	}
	data := sampleFixture
	if s.Path != "" {
		if s.FS == nil {
			return domain.Catalog{}, errors.New("catalog source requires FS when a path is set")
		}
		raw, err := s.FS.ReadFile(s.Path)
		if err != nil {
			return domain.Catalog{}, appErrors.Wrap(appErrors.IOFailure, "read catalog", s.Path, err)
		}
		data = raw
	}
	return Parse(data, app)
}

// Parse decodes a fixture and returns the catalog for one app.
func Parse(data []byte, app string) (domain.Catalog, error) {
	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return domain.Catalog{}, appErrors.Wrap(appErrors.InvalidConfig, "parse catalog", app, err)
	}
	raw, ok := fx.Apps[app]
	if !ok {
		return domain.Catalog{}, appErrors.Wrap(appErrors.NotFound, "catalog", app, fmt.Errorf("app %q not in fixture", app))
	}

	c := domain.Catalog{App: app}
	for _, s := range raw.Screens {
		c.Screens = append(c.Screens, domain.Screen{ID: s.ID, Name: s.Name, DataSources: s.DataSources, Files: s.Files})
	}
	for _, d := range raw.DataSources {
		c.DataSources = append(c.DataSources, domain.DataSource{ID: d.ID, Name: d.Name, Records: d.Records, Files: d.Files})
	}
	for _, f := range raw.Files {
		c.Files = append(c.Files, domain.File{ID: f.ID, Name: f.Name, Size: f.Size, IsFolder: f.Folder, Parent: f.Parent})
	}
	for _, s := range raw.Settings {
		c.Settings = append(c.Settings, domain.Setting{ID: s.ID, Name: s.Name, Value: s.Value})
	}
	if err := validate(c); err != nil {
		return domain.Catalog{}, appErrors.Wrap(appErrors.InvalidConfig, "catalog", app, err)
	}
	return c, nil
}

// validate rejects duplicate ids and associations to unknown items.
func validate(c domain.Catalog) error {
	for _, col := range domain.AllCollections {
		seen := domain.NewIDSet()
		for _, id := range c.IDs(col) {
			if !seen.Add(id) {
				return fmt.Errorf("duplicate %s id %d", col, id)
			}
		}
	}
	for _, s := range c.Screens {
		for _, id := range s.DataSources {
			if !c.Contains(domain.DataSources, id) {
				return fmt.Errorf("screen %d references unknown data source %d", s.ID, id)
			}
		}
		for _, id := range s.Files {
			if !c.Contains(domain.Files, id) {
				return fmt.Errorf("screen %d references unknown file %d", s.ID, id)
			}
		}
	}
	for _, d := range c.DataSources {
		for _, id := range d.Files {
			if !c.Contains(domain.Files, id) {
				return fmt.Errorf("data source %d references unknown file %d", d.ID, id)
			}
		}
	}
	for _, f := range c.Files {
		if f.Parent == 0 {
			continue
		}
		parent, ok := c.File(f.Parent)
		if !ok || !parent.IsFolder {
			return fmt.Errorf("file %d has invalid parent %d", f.ID, f.Parent)
		}
	}
	return nil
}
