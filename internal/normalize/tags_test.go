package normalize

import (
	"reflect"
	"testing"

	"github.com/TWRT/rtm2todoist/internal/models"
)

type tagObject string

func (t tagObject) TagName() string { return string(t) }

func TestTags(t *testing.T) {
	tests := []struct {
		name  string
		value TagValue
		want  []string
	}{
		{"nil", nil, []string{}},
		{"empty joined string", TagsJoined(""), []string{}},
		{"only separators", TagsJoined(" , ,"), []string{}},
		{"joined", TagsJoined("home, errands,home"), []string{"errands", "home"}},
		{"list", TagsList{"work", " work ", "calls"}, []string{"calls", "work"}},
		{"list with commas", TagsList{"a,b", "c"}, []string{"a", "b", "c"}},
		{"set", TagsSet{"x": {}, "y ": {}}, []string{"x", "y"}},
		{"objects", TagsObjects{tagObject("travel"), tagObject(""), tagObject("travel")}, []string{"travel"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tags(tt.value).Sorted()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTags_NeverContainsEmpty(t *testing.T) {
	set := Tags(TagsJoined(",,a,, ,"))
	if set.Has("") {
		t.Error("Tags() contains the empty string")
	}
}

func TestTags_Idempotent(t *testing.T) {
	first := Tags(TagsJoined(" b,a , c,a"))
	second := Tags(TagsSet(first))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Tags(Tags(x)) = %v, want %v", second, first)
	}

	third := Tags(TagsList(second.Sorted()))
	if !reflect.DeepEqual(models.TagSet(second), third) {
		t.Errorf("Tags(list of normalized) = %v, want %v", third, second)
	}
}
