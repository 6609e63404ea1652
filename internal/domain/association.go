package domain

import "fmt"

// AssociationKey addresses the nested selection of target items under one
// expanded owner row.
type AssociationKey struct {
	Owner   Collection
	OwnerID ItemID
	Target  Collection
}

func (k AssociationKey) String() string {
	return fmt.Sprintf("%s/%d/%s", k.Owner, k.OwnerID, k.Target)
}

// ToggleEvent records a single membership change within a nested selection.
type ToggleEvent struct {
	Target   Collection
	ID       ItemID
	Selected bool
}
