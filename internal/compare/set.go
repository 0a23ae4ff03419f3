package compare

import "real-estate-investor/internal/models"

// MaxItems is the number of properties that can be compared side by side.
const MaxItems = 4

// Set is the ordered, id-deduplicated selection of properties under comparison.
// A Set has a single owner and is not safe for concurrent use; Store guards
// the sets it hands out.
type Set struct {
	items []models.Property
}

// NewSet returns an empty comparison set.
func NewSet() *Set {
	return &Set{items: make([]models.Property, 0, MaxItems)}
}

// Add appends p unless a property with the same id is already present or the
// set is full. It reports whether the set changed.
func (s *Set) Add(p models.Property) bool {
	if s.Full() || s.Contains(p.ID) {
		return false
	}
	s.items = append(s.items, p)
	return true
}

// Remove drops the property with the given id, keeping the order of the rest.
func (s *Set) Remove(id string) bool {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Set) Clear() {
	s.items = s.items[:0]
}

func (s *Set) Contains(id string) bool {
	for i := range s.items {
		if s.items[i].ID == id {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the members in insertion order.
func (s *Set) Snapshot() []models.Property {
	out := make([]models.Property, len(s.items))
	copy(out, s.items)
	return out
}

// IDs returns the member ids in insertion order.
func (s *Set) IDs() []string {
	ids := make([]string, len(s.items))
	for i := range s.items {
		ids[i] = s.items[i].ID
	}
	return ids
}

func (s *Set) Len() int {
	return len(s.items)
}

func (s *Set) Full() bool {
	return len(s.items) >= MaxItems
}
