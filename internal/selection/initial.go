package selection

import "appmerge/internal/domain"

// InitialAssociation derives the nested selection shown the first time an
// owner row is expanded: the target tab's current flat selection, limited to
// the owner's associations when a catalog is known.
func InitialAssociation(cfg domain.MergeConfiguration, catalog *domain.Catalog, owner domain.Collection, ownerID domain.ItemID, target domain.Collection) []domain.ItemID {
	selected := cfg.Selection(target)
	if catalog == nil {
		return selected.Sorted()
	}
	var out []domain.ItemID
	for _, id := range catalog.Associations(owner, ownerID, target) {
		if selected.Has(id) {
			out = append(out, id)
		}
	}
	return out
}
