package compare

import (
	"reflect"
	"testing"

	"real-estate-investor/internal/models"
)

func prop(id string) models.Property {
	return models.Property{ID: id, Price: 100000, Sqft: 1000}
}

func TestSet_AddIdempotent(t *testing.T) {
	s := NewSet()
	a := prop("A")
	if !s.Add(a) {
		t.Fatalf("first Add should change the set")
	}
	if s.Add(a) {
		t.Fatalf("second Add of same id should be a no-op")
	}
	if s.Len() != 1 {
		t.Fatalf("len=%d want=1", s.Len())
	}
}

func TestSet_CapacityDropsFifth(t *testing.T) {
	s := NewSet()
	for _, id := range []string{"A", "B", "C", "D"} {
		s.Add(prop(id))
	}
	if !s.Full() {
		t.Fatalf("expected full set")
	}
	if s.Add(prop("E")) {
		t.Fatalf("Add past capacity should be a no-op")
	}
	if got, want := s.IDs(), []string{"A", "B", "C", "D"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ids=%v want=%v", got, want)
	}
}

func TestSet_RemovePreservesOrder(t *testing.T) {
	s := NewSet()
	for _, id := range []string{"A", "B", "C", "D"} {
		s.Add(prop(id))
	}
	if !s.Remove("B") {
		t.Fatalf("Remove(B) should report a change")
	}
	if got, want := s.IDs(), []string{"A", "C", "D"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ids=%v want=%v", got, want)
	}
	if s.Remove("missing") {
		t.Fatalf("Remove of non-member should be a no-op")
	}
}

func TestSet_ClearThenContains(t *testing.T) {
	s := NewSet()
	s.Add(prop("A"))
	s.Add(prop("B"))
	s.Clear()
	for _, id := range []string{"A", "B"} {
		if s.Contains(id) {
			t.Fatalf("Contains(%s) after Clear = true", id)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("len=%d want=0", s.Len())
	}
}

func TestSet_ComparisonFlow(t *testing.T) {
	s := NewSet()
	for _, id := range []string{"A", "B", "C", "D"} {
		s.Add(prop(id))
	}
	if got, want := s.IDs(), []string{"A", "B", "C", "D"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after adds ids=%v want=%v", got, want)
	}
	s.Add(prop("E"))
	if got, want := s.IDs(), []string{"A", "B", "C", "D"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after add E ids=%v want=%v", got, want)
	}
	s.Remove("B")
	if got, want := s.IDs(), []string{"A", "C", "D"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after remove B ids=%v want=%v", got, want)
	}
	s.Add(prop("E"))
	if got, want := s.IDs(), []string{"A", "C", "D", "E"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after re-add E ids=%v want=%v", got, want)
	}
}

func TestSet_SnapshotIsCopy(t *testing.T) {
	s := NewSet()
	s.Add(prop("A"))
	snap := s.Snapshot()
	snap[0].ID = "mutated"
	if !s.Contains("A") {
		t.Fatalf("snapshot mutation leaked into set")
	}
}
