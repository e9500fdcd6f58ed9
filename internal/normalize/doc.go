// Package normalize converts raw source task records into models.Task.
//
// Source fields arrive in several shapes depending on whether they came from a
// live API query or from a JSON export. Each field with more than one shape is a
// small sealed variant (TagValue, NoteValue, RecurrenceValue, DueValue); adding a
// new source shape means adding a variant here and nothing downstream.
//
// All translators are total: malformed input yields the field's absent value.
package normalize
