package normalize

import (
	"errors"
	"strings"
	"testing"
)

func TestRecurrence_Absent(t *testing.T) {
	tests := []struct {
		name  string
		value RecurrenceValue
	}{
		{"nil", nil},
		{"empty string", RuleString("")},
		{"every 0", RuleDescriptor{Every: "0", Rule: "FREQ=WEEKLY;INTERVAL=1;BYDAY=MO"}},
		{"descriptor without rule", RuleDescriptor{Every: "1"}},
		{"unparseable", RuleString("NOT_A_RULE")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := ParseRecurrence(tt.value); got != nil {
				t.Errorf("ParseRecurrence() = %+v, want nil", got)
			}
		})
	}
}

func TestParseRecurrence_Errors(t *testing.T) {
	if _, err := ParseRecurrence(RuleDescriptor{Every: "0", Rule: "FREQ=DAILY"}); !errors.Is(err, ErrNoRecurrence) {
		t.Errorf("ParseRecurrence(every 0) err = %v, want ErrNoRecurrence", err)
	}
	_, err := ParseRecurrence(RuleString("FREQ=SOMETIMES"))
	if err == nil || errors.Is(err, ErrNoRecurrence) {
		t.Errorf("ParseRecurrence(bad freq) err = %v, want a parse error", err)
	}
}

func TestRecurrence_Weekly(t *testing.T) {
	r, err := ParseRecurrence(RuleDescriptor{Every: "1", Rule: "FREQ=WEEKLY;INTERVAL=1;BYDAY=MO"})
	if err != nil {
		t.Fatalf("ParseRecurrence() error = %v", err)
	}
	if r.RRule != "RRULE:FREQ=WEEKLY;INTERVAL=1;BYDAY=MO" {
		t.Errorf("RRule = %q", r.RRule)
	}
	if r.Human != "every Monday" {
		t.Errorf("Human = %q, want %q", r.Human, "every Monday")
	}
}

func TestRecurrence_PrefixNotDoubled(t *testing.T) {
	r, err := ParseRecurrence(RuleString("RRULE:FREQ=DAILY;INTERVAL=2"))
	if err != nil {
		t.Fatalf("ParseRecurrence() error = %v", err)
	}
	if strings.Count(r.RRule, "RRULE:") != 1 {
		t.Errorf("RRule = %q, want a single prefix", r.RRule)
	}
	if r.Human != "every 2 days" {
		t.Errorf("Human = %q, want %q", r.Human, "every 2 days")
	}
}

func TestRecurrence_HumanPhrases(t *testing.T) {
	tests := []struct {
		rule string
		want string
	}{
		{"FREQ=DAILY;INTERVAL=1", "every day"},
		{"FREQ=WEEKLY;INTERVAL=1", "every week"},
		{"FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,TH", "every 2 weeks on Monday and Thursday"},
		{"FREQ=WEEKLY;INTERVAL=1;BYDAY=MO,WE,FR", "every Monday, Wednesday and Friday"},
		{"FREQ=MONTHLY;INTERVAL=1;BYMONTHDAY=1", "every month on the 1st"},
		{"FREQ=MONTHLY;INTERVAL=3;BYMONTHDAY=1,15", "every 3 months on the 1st and 15th"},
		{"FREQ=MONTHLY;INTERVAL=1;BYDAY=2TU", "every month on the 2nd Tuesday"},
		{"FREQ=MONTHLY;INTERVAL=1;BYDAY=-1FR", "every month on the last Friday"},
		{"FREQ=MONTHLY;INTERVAL=1;BYDAY=MO;BYSETPOS=1", "every month on the 1st Monday"},
		{"FREQ=MONTHLY;INTERVAL=1;BYDAY=MO,TU,WE,TH,FR;BYSETPOS=-1", "every month on the last weekday"},
		{"FREQ=MONTHLY;INTERVAL=1;BYDAY=MO,FR;BYSETPOS=2", "every month on the 2nd Monday or Friday"},
		{"FREQ=MONTHLY;INTERVAL=1;BYMONTHDAY=-1", "every month on the last day"},
		{"FREQ=MONTHLY;INTERVAL=1;BYMONTHDAY=-2", "every month on the 2nd to last day"},
		{"FREQ=MONTHLY;INTERVAL=1", "every month"},
		{"FREQ=YEARLY;INTERVAL=1;BYMONTH=3;BYMONTHDAY=14", "every year on March 14th"},
		{"FREQ=DAILY;INTERVAL=1;COUNT=5", "every day for 5 times"},
		{"FREQ=WEEKLY;INTERVAL=1;UNTIL=20241231T000000Z", "every week until 2024-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			r, err := ParseRecurrence(RuleString(tt.rule))
			if err != nil {
				t.Fatalf("ParseRecurrence(%q) error = %v", tt.rule, err)
			}
			if r.Human != tt.want {
				t.Errorf("Human = %q, want %q", r.Human, tt.want)
			}
		})
	}
}

func TestFixMonthClause(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1st of every month", "every month on the 1st"},
		{"2nd Tuesday of every 2 months", "every 2 months on the 2nd Tuesday"},
		{"every month", "every month"},
		{"every Monday", "every Monday"},
		{"every week", "every week"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := fixMonthClause(tt.in); got != tt.want {
				t.Errorf("fixMonthClause(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
