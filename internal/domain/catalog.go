package domain

type Screen struct {
	ID          ItemID
	Name        string
	DataSources []ItemID
	Files       []ItemID
}

type DataSource struct {
	ID      ItemID
	Name    string
	Records int
	Files   []ItemID
}

type File struct {
	ID       ItemID
	Name     string
	Size     int64
	IsFolder bool
	Parent   ItemID // zero when the file sits at the root
}

type Setting struct {
	ID    ItemID
	Name  string
	Value string
}

// Catalog lists the items of one application.
type Catalog struct {
	App         string
	Screens     []Screen
	DataSources []DataSource
	Files       []File
	Settings    []Setting
}

// IDs returns the ids of a collection in catalog order.
func (c Catalog) IDs(col Collection) []ItemID {
	var out []ItemID
	switch col {
	case Screens:
		for _, s := range c.Screens {
			out = append(out, s.ID)
		}
	case DataSources:
		for _, d := range c.DataSources {
			out = append(out, d.ID)
		}
	case Files:
		for _, f := range c.Files {
			out = append(out, f.ID)
		}
	case Settings:
		for _, s := range c.Settings {
			out = append(out, s.ID)
		}
	}
	return out
}

func (c Catalog) Contains(col Collection, id ItemID) bool {
	_, ok := c.Name(col, id)
	return ok
}

// Name returns the display name of an item.
func (c Catalog) Name(col Collection, id ItemID) (string, bool) {
	switch col {
	case Screens:
		if s, ok := c.Screen(id); ok {
			return s.Name, true
		}
	case DataSources:
		if d, ok := c.DataSource(id); ok {
			return d.Name, true
		}
	case Files:
		if f, ok := c.File(id); ok {
			return f.Name, true
		}
	case Settings:
		for _, s := range c.Settings {
			if s.ID == id {
				return s.Name, true
			}
		}
	}
	return "", false
}

func (c Catalog) Screen(id ItemID) (Screen, bool) {
	for _, s := range c.Screens {
		if s.ID == id {
			return s, true
		}
	}
	return Screen{}, false
}

func (c Catalog) DataSource(id ItemID) (DataSource, bool) {
	for _, d := range c.DataSources {
		if d.ID == id {
			return d, true
		}
	}
	return DataSource{}, false
}

func (c Catalog) File(id ItemID) (File, bool) {
	for _, f := range c.Files {
		if f.ID == id {
			return f, true
		}
	}
	return File{}, false
}

// Children returns the files whose parent is the given folder.
func (c Catalog) Children(folder ItemID) []File {
	var out []File
	for _, f := range c.Files {
		if f.Parent == folder && f.ID != folder {
			out = append(out, f)
		}
	}
	return out
}

// Associations returns the ids in target that are associated with the owner
// item. Associations are symmetric: a data source's screens are the screens
// that list it.
func (c Catalog) Associations(owner Collection, ownerID ItemID, target Collection) []ItemID {
	switch {
	case owner == Screens && target == DataSources:
		if s, ok := c.Screen(ownerID); ok {
			return append([]ItemID(nil), s.DataSources...)
		}
	case owner == Screens && target == Files:
		if s, ok := c.Screen(ownerID); ok {
			return append([]ItemID(nil), s.Files...)
		}
	case owner == DataSources && target == Files:
		if d, ok := c.DataSource(ownerID); ok {
			return append([]ItemID(nil), d.Files...)
		}
	case owner == DataSources && target == Screens:
		var out []ItemID
		for _, s := range c.Screens {
			if containsID(s.DataSources, ownerID) {
				out = append(out, s.ID)
			}
		}
		return out
	case owner == Files && target == Screens:
		var out []ItemID
		for _, s := range c.Screens {
			if containsID(s.Files, ownerID) {
				out = append(out, s.ID)
			}
		}
		return out
	case owner == Files && target == DataSources:
		var out []ItemID
		for _, d := range c.DataSources {
			if containsID(d.Files, ownerID) {
				out = append(out, d.ID)
			}
		}
		return out
	}
	return nil
}

// AssociationTargets lists the collections that can be nested under owner.
func AssociationTargets(owner Collection) []Collection {
	switch owner {
	case Screens:
		return []Collection{DataSources, Files}
	case DataSources:
		return []Collection{Screens, Files}
	case Files:
		return []Collection{Screens, DataSources}
	default:
		return nil
	}
}

func containsID(ids []ItemID, id ItemID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
