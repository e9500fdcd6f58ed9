package normalize

// NoteValue is a note collection as the source delivered it.
type NoteValue interface {
	noteStrings() []string
}

type NoteString string

type NoteList []string

// Texter is any note object exposing its body.
type Texter interface {
	NoteText() string
}

type NoteObjects []Texter

func (v NoteString) noteStrings() []string {
	if v == "" {
		return nil
	}
	return []string{string(v)}
}

func (v NoteList) noteStrings() []string {
	return v
}

func (v NoteObjects) noteStrings() []string {
	out := make([]string, 0, len(v))
	for _, n := range v {
		if n != nil {
			out = append(out, n.NoteText())
		}
	}
	return out
}

// Notes flattens v into plain strings, keeping source order.
func Notes(v NoteValue) []string {
	if v == nil {
		return []string{}
	}
	notes := v.noteStrings()
	out := make([]string, len(notes))
	copy(out, notes)
	return out
}
