package routing

import (
	"errors"
	"reflect"
	"testing"

	"github.com/TWRT/rtm2todoist/internal/models"
)

func TestTable_Lookup(t *testing.T) {
	table := Table{"L1": {ProjectID: 100}}

	route, err := table.Lookup("L1")
	if err != nil {
		t.Fatalf("Lookup(L1) err = %v", err)
	}
	if route.ProjectID != 100 || route.SectionID != 0 {
		t.Errorf("Lookup(L1) = %+v", route)
	}

	_, err = table.Lookup("L9")
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Lookup(L9) err = %v, want *ConfigurationError", err)
	}
	if cfgErr.ListID != "L9" {
		t.Errorf("ListID = %q", cfgErr.ListID)
	}
	if !errors.Is(err, ErrUnmappedList) {
		t.Error("errors.Is(err, ErrUnmappedList) = false")
	}
}

func TestTable_Validate(t *testing.T) {
	table := Table{"L1": {ProjectID: 1}}
	tasks := []*models.Task{
		{ID: "1", ListID: "L1"},
		{ID: "2", ListID: "L2"},
		{ID: "3", ListID: "L3"},
	}

	err := table.Validate(tasks)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Validate() err = %v, want *ConfigurationError", err)
	}
	if cfgErr.ListID != "L2" || cfgErr.TaskID != "2" {
		t.Errorf("first failure = %+v, want list L2 task 2", cfgErr)
	}

	if err := table.Validate(tasks[:1]); err != nil {
		t.Errorf("Validate(mapped) err = %v", err)
	}
}

func TestPlacement(t *testing.T) {
	tests := []struct {
		route       models.Route
		wantProject string
		wantSection string
	}{
		{models.Route{ProjectID: 100}, "100", ""},
		{models.Route{ProjectID: 100, SectionID: 7}, "100", "7"},
		{models.Route{}, "", ""},
		{models.Route{ProjectID: -1, SectionID: -1}, "", ""},
	}
	for _, tt := range tests {
		p, s := Placement(tt.route)
		if p != tt.wantProject || s != tt.wantSection {
			t.Errorf("Placement(%+v) = (%q, %q), want (%q, %q)", tt.route, p, s, tt.wantProject, tt.wantSection)
		}
	}
}

func TestTable_ListIDs(t *testing.T) {
	table := Table{"b": {}, "a": {}}
	if got := table.ListIDs(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("ListIDs() = %v", got)
	}
}
