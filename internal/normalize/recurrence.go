package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/TWRT/rtm2todoist/internal/models"
	"github.com/teambition/rrule-go"
)

const rrulePrefix = "RRULE:"

// ErrNoRecurrence is returned by ParseRecurrence when the value describes a task
// that does not repeat.
var ErrNoRecurrence = errors.New("no recurrence")

// RecurrenceValue is a recurrence as the source delivered it.
type RecurrenceValue interface {
	rule() (string, bool)
}

// RuleString is a bare RRULE body, with or without the "RRULE:" prefix.
type RuleString string

// RuleDescriptor is the structured form: Every "0" disables the rule.
type RuleDescriptor struct {
	Every string
	Rule  string
}

func (v RuleString) rule() (string, bool) {
	s := strings.TrimPrefix(strings.TrimSpace(string(v)), rrulePrefix)
	return s, s != ""
}

func (v RuleDescriptor) rule() (string, bool) {
	if strings.TrimSpace(v.Every) == "0" {
		return "", false
	}
	return RuleString(v.Rule).rule()
}

// ParseRecurrence validates the rule and renders its human phrase.
func ParseRecurrence(v RecurrenceValue) (*models.Repeat, error) {
	if v == nil {
		return nil, ErrNoRecurrence
	}
	body, ok := v.rule()
	if !ok {
		return nil, ErrNoRecurrence
	}
	opt, err := rrule.StrToROption(body)
	if err != nil {
		return nil, fmt.Errorf("parse rrule %q: %w", body, err)
	}
	return &models.Repeat{
		RRule: rrulePrefix + body,
		Human: Describe(opt),
	}, nil
}
