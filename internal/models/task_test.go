package models

import (
	"reflect"
	"testing"
)

func TestTaskSet_KeepsInsertionOrder(t *testing.T) {
	set := NewTaskSet()
	for _, id := range []string{"30", "10", "20"} {
		set.Add(&Task{ID: id})
	}
	set.Add(&Task{ID: "10", Text: "replaced"})

	if got := set.IDs(); !reflect.DeepEqual(got, []string{"30", "10", "20"}) {
		t.Errorf("IDs() = %v", got)
	}
	if set.Len() != 3 {
		t.Errorf("Len() = %d, want 3", set.Len())
	}
	task, ok := set.Get("10")
	if !ok || task.Text != "replaced" {
		t.Errorf("Get(10) = %+v, %v", task, ok)
	}
	all := set.All()
	if len(all) != 3 || all[0].ID != "30" || all[2].ID != "20" {
		t.Errorf("All() order wrong: %v", all)
	}
}

func TestTagSet_Sorted(t *testing.T) {
	set := NewTagSet("b", "a", "b")
	if got := set.Sorted(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Sorted() = %v", got)
	}
	if !set.Has("a") || set.Has("c") {
		t.Error("Has() returned the wrong answer")
	}
}

func TestTask_ParentKey(t *testing.T) {
	if key := (&Task{}).ParentKey(); key != "" {
		t.Errorf("ParentKey() = %q for a root", key)
	}
	if key := (&Task{ParentID: 42}).ParentKey(); key != "42" {
		t.Errorf("ParentKey() = %q, want 42", key)
	}
}
