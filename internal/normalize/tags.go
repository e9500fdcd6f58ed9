package normalize

import (
	"strings"

	"github.com/TWRT/rtm2todoist/internal/models"
)

// TagValue is a tag collection as the source delivered it.
type TagValue interface {
	tagStrings() []string
}

// TagsJoined is a single comma separated string.
type TagsJoined string

type TagsList []string

type TagsSet map[string]struct{}

// Named is any tag object exposing its name.
type Named interface {
	TagName() string
}

type TagsObjects []Named

func (v TagsJoined) tagStrings() []string {
	return strings.Split(string(v), ",")
}

func (v TagsList) tagStrings() []string {
	return splitAll(v)
}

func (v TagsSet) tagStrings() []string {
	out := make([]string, 0, len(v))
	for t := range v {
		out = append(out, t)
	}
	return splitAll(out)
}

func (v TagsObjects) tagStrings() []string {
	out := make([]string, 0, len(v))
	for _, n := range v {
		if n != nil {
			out = append(out, n.TagName())
		}
	}
	return splitAll(out)
}

func splitAll(tags []string) []string {
	var out []string
	for _, t := range tags {
		out = append(out, strings.Split(t, ",")...)
	}
	return out
}

// Tags trims every tag, drops empty ones and removes duplicates.
func Tags(v TagValue) models.TagSet {
	set := models.NewTagSet()
	if v == nil {
		return set
	}
	for _, t := range v.tagStrings() {
		t = strings.TrimSpace(t)
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}
