package core

import (
	"slices"
	"testing"
)

func TestChangeSet_KeepsFirstOldValue(t *testing.T) {
	cs := NewChangeSet()
	cs.Record("count", 0, 1, nil)
	cs.Record("count", 1, 2, nil)
	cs.Record("name", "a", "b", nil)
	cs.Record("count", 2, 3, nil)

	if old, _ := OldValue[int](cs, "count"); old != 0 {
		t.Errorf("expected old 0, got %d", old)
	}
	if cur, _ := NewValue[int](cs, "count"); cur != 3 {
		t.Errorf("expected new 3, got %d", cur)
	}
	if got := cs.Names(); !slices.Equal(got, []string{"count", "name"}) {
		t.Errorf("expected first-write order, got %v", got)
	}
	if cs.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", cs.Len())
	}
}

func TestChangeSet_HasChangedUsesEquality(t *testing.T) {
	cs := NewChangeSet()
	cs.Record("n", 1, 2, nil)
	cs.Record("n", 2, 1, nil)
	if !cs.Has("n") {
		t.Error("expected n recorded")
	}
	if cs.HasChanged("n") {
		t.Error("value returned to old, expected unchanged")
	}

	caseless := func(a, b any) bool {
		as, _ := a.(string)
		bs, _ := b.(string)
		return len(as) == len(bs)
	}
	cs.Record("s", "abc", "xyz", caseless)
	if cs.HasChanged("s") {
		t.Error("custom equality should treat same-length strings as equal")
	}
	if cs.HasChanged("missing") || cs.Has("missing") {
		t.Error("missing property reported")
	}
}

func TestChangeSet_DrainAndClear(t *testing.T) {
	cs := NewChangeSet()
	cs.Record("a", 1, 2, nil)

	drained := cs.DrainAndClear()
	if !drained.HasChanged("a") {
		t.Error("drained set should hold the change")
	}
	if cs.Len() != 0 || cs.Has("a") {
		t.Error("source set should be empty after drain")
	}

	cs.Record("a", 2, 3, nil)
	if old, _ := OldValue[int](cs, "a"); old != 2 {
		t.Errorf("new cycle should start fresh, got old %d", old)
	}
	if old, _ := OldValue[int](drained, "a"); old != 1 {
		t.Errorf("drained set must not be affected, got old %d", old)
	}
}

func TestChangeSet_Nil(t *testing.T) {
	var cs *ChangeSet
	if cs.Has("a") || cs.HasChanged("a") || cs.Len() != 0 || cs.Names() != nil {
		t.Error("nil change set should be empty")
	}
	if _, ok := cs.Old("a"); ok {
		t.Error("nil change set has no old values")
	}
}

func TestDefaultEqual(t *testing.T) {
	type point struct{ X, Y int }
	slice := []int{1, 2}
	m := map[string]int{"a": 1}
	p := &point{1, 2}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"ints", 1, 1, true},
		{"different ints", 1, 2, false},
		{"different types", 1, int64(1), false},
		{"nil nil", nil, nil, true},
		{"nil value", nil, 0, false},
		{"structs", point{1, 2}, point{1, 2}, true},
		{"same pointer", p, p, true},
		{"equal pointees", p, &point{1, 2}, false},
		{"same slice", slice, slice, true},
		{"equal slices", slice, []int{1, 2}, false},
		{"same map", m, m, true},
		{"equal maps", m, map[string]int{"a": 1}, false},
		{"funcs", func() {}, func() {}, false},
		{"arrays", [2]int{1, 2}, [2]int{1, 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("DefaultEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
