package feed

import (
	"reflect"
	"testing"
)

func TestStore(t *testing.T) {
	s := NewStore()

	if _, ok := s.Get(HomeKey); ok {
		t.Fatal("Get() on empty store found an entry")
	}
	if prev := s.Put(HomeKey, &Entry{Page: 1}); prev != nil {
		t.Errorf("Put() returned %+v for a new key", prev)
	}
	if prev := s.Put(HomeKey, &Entry{Page: 2}); prev == nil || prev.Page != 1 {
		t.Errorf("Put() previous = %+v, want page 1", prev)
	}
	s.Put("art", &Entry{})

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if got := s.Keys(); !reflect.DeepEqual(got, []CacheKey{"art", HomeKey}) {
		t.Errorf("Keys() = %v", got)
	}

	if removed := s.Delete(HomeKey); removed == nil || removed.Page != 2 {
		t.Errorf("Delete() = %+v", removed)
	}
	if removed := s.Delete(HomeKey); removed != nil {
		t.Errorf("second Delete() = %+v, want nil", removed)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}
