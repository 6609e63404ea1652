package domain

import "sort"

// ItemID identifies an item within one collection.
type ItemID int

// IDSet is an unordered set of item ids.
type IDSet struct {
	m map[ItemID]struct{}
}

func NewIDSet(ids ...ItemID) IDSet {
	s := IDSet{m: make(map[ItemID]struct{}, len(ids))}
	for _, id := range ids {
		s.m[id] = struct{}{}
	}
	return s
}

// Add inserts id and reports whether the set changed.
func (s *IDSet) Add(id ItemID) bool {
	if s.m == nil {
		s.m = make(map[ItemID]struct{})
	}
	if _, ok := s.m[id]; ok {
		return false
	}
	s.m[id] = struct{}{}
	return true
}

// Remove deletes id and reports whether the set changed.
func (s *IDSet) Remove(id ItemID) bool {
	if _, ok := s.m[id]; !ok {
		return false
	}
	delete(s.m, id)
	return true
}

func (s IDSet) Has(id ItemID) bool {
	_, ok := s.m[id]
	return ok
}

func (s IDSet) Len() int {
	return len(s.m)
}

func (s IDSet) Clone() IDSet {
	out := IDSet{m: make(map[ItemID]struct{}, len(s.m))}
	for id := range s.m {
		out.m[id] = struct{}{}
	}
	return out
}

func (s IDSet) Equal(other IDSet) bool {
	if len(s.m) != len(other.m) {
		return false
	}
	for id := range s.m {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Sorted returns the members in ascending order.
func (s IDSet) Sorted() []ItemID {
	out := make([]ItemID, 0, len(s.m))
	for id := range s.m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Without returns the ids from the input that are not members of s,
// preserving input order and dropping repeats.
func (s IDSet) Without(ids []ItemID) []ItemID {
	var out []ItemID
	seen := make(map[ItemID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if !s.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// Intersect returns the members of s that are also in keep.
func (s IDSet) Intersect(keep IDSet) IDSet {
	out := NewIDSet()
	for id := range s.m {
		if keep.Has(id) {
			out.m[id] = struct{}{}
		}
	}
	return out
}
