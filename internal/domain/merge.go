package domain

// MergeConfiguration is the aggregate of everything the operator has chosen
// to copy.
type MergeConfiguration struct {
	Screens       IDSet
	DataSources   IDSet
	Files         IDSet
	Settings      IDSet
	CopyModes     map[ItemID]CopyMode
	FolderOptions map[ItemID]FolderOption
}

func NewMergeConfiguration() MergeConfiguration {
	return MergeConfiguration{
		Screens:       NewIDSet(),
		DataSources:   NewIDSet(),
		Files:         NewIDSet(),
		Settings:      NewIDSet(),
		CopyModes:     map[ItemID]CopyMode{},
		FolderOptions: map[ItemID]FolderOption{},
	}
}

// Selection returns the set held for a collection.
func (m MergeConfiguration) Selection(c Collection) IDSet {
	if s := m.set(c); s != nil {
		return *s
	}
	return IDSet{}
}

// SetPtr returns an addressable set for a collection, or nil when the
// collection is unknown.
func (m *MergeConfiguration) SetPtr(c Collection) *IDSet {
	return m.set(c)
}

func (m *MergeConfiguration) set(c Collection) *IDSet {
	switch c {
	case Screens:
		return &m.Screens
	case DataSources:
		return &m.DataSources
	case Files:
		return &m.Files
	case Settings:
		return &m.Settings
	default:
		return nil
	}
}

// HasData reports whether any of the data collections has a selection.
func (m MergeConfiguration) HasData() bool {
	return m.Screens.Len()+m.DataSources.Len()+m.Files.Len() > 0
}

func (m MergeConfiguration) CopyMode(id ItemID) CopyMode {
	return m.CopyModes[id]
}

func (m MergeConfiguration) FolderOption(id ItemID) FolderOption {
	return m.FolderOptions[id]
}

func (m MergeConfiguration) Clone() MergeConfiguration {
	out := MergeConfiguration{
		Screens:       m.Screens.Clone(),
		DataSources:   m.DataSources.Clone(),
		Files:         m.Files.Clone(),
		Settings:      m.Settings.Clone(),
		CopyModes:     make(map[ItemID]CopyMode, len(m.CopyModes)),
		FolderOptions: make(map[ItemID]FolderOption, len(m.FolderOptions)),
	}
	for k, v := range m.CopyModes {
		out.CopyModes[k] = v
	}
	for k, v := range m.FolderOptions {
		out.FolderOptions[k] = v
	}
	return out
}
