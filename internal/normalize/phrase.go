package normalize

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/teambition/rrule-go"
)

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var monthNames = [13]string{"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

var freqUnits = map[rrule.Frequency]string{
	rrule.YEARLY:   "year",
	rrule.MONTHLY:  "month",
	rrule.WEEKLY:   "week",
	rrule.DAILY:    "day",
	rrule.HOURLY:   "hour",
	rrule.MINUTELY: "minute",
	rrule.SECONDLY: "second",
}

// Describe renders a recurrence rule as an English phrase such as
// "every 2 weeks on Monday and Thursday" or "every month on the 1st".
func Describe(opt *rrule.ROption) string {
	phrase := fixMonthClause(basePhrase(opt))
	if opt.Count > 0 {
		phrase += fmt.Sprintf(" for %d times", opt.Count)
	}
	if !opt.Until.IsZero() {
		phrase += " until " + opt.Until.Format(dateLayout)
	}
	return phrase
}

func basePhrase(opt *rrule.ROption) string {
	every := everyClause(opt.Freq, opt.Interval)
	days := weekdays(opt.Byweekday)

	switch opt.Freq {
	case rrule.WEEKLY:
		if len(days) == 0 {
			return every
		}
		if opt.Interval <= 1 {
			return "every " + joinWords(days)
		}
		return every + " on " + joinWords(days)
	case rrule.MONTHLY:
		if len(opt.Bymonthday) > 0 {
			return joinWords(monthDays(opt.Bymonthday)) + " of " + every
		}
		if len(opt.Bysetpos) > 0 && len(opt.Byweekday) > 0 {
			return joinWords(ordinals(opt.Bysetpos)) + " " + dayChoice(opt.Byweekday) + " of " + every
		}
		if len(days) > 0 {
			return joinWords(days) + " of " + every
		}
		return every
	case rrule.YEARLY:
		if len(opt.Bymonth) > 0 {
			on := joinWords(months(opt.Bymonth))
			if len(opt.Bymonthday) > 0 {
				on += " " + joinWords(monthDays(opt.Bymonthday))
			}
			return every + " on " + on
		}
		return every
	default:
		if len(days) > 0 {
			return every + " on " + joinWords(days)
		}
		return every
	}
}

// fixMonthClause moves the "every ..." clause of a month based phrase to the
// front: "1st of every month" reads as "every month on the 1st".
func fixMonthClause(phrase string) string {
	if strings.HasPrefix(phrase, "every") || !strings.Contains(phrase, "month") {
		return phrase
	}
	idx := strings.Index(phrase, "every")
	if idx < 0 {
		return phrase
	}
	end := phrase[idx:]
	beginning := strings.TrimSpace(strings.Replace(phrase[:idx], " of ", "", 1))
	return end + " on the " + beginning
}

func everyClause(freq rrule.Frequency, interval int) string {
	unit, ok := freqUnits[freq]
	if !ok {
		unit = "day"
	}
	if interval <= 1 {
		return "every " + unit
	}
	return fmt.Sprintf("every %d %ss", interval, unit)
}

func weekdays(days []rrule.Weekday) []string {
	out := make([]string, 0, len(days))
	for i := range days {
		wd := &days[i]
		name := weekdayNames[wd.Day()%7]
		if n := wd.N(); n != 0 {
			name = ordinal(n) + " " + name
		}
		out = append(out, name)
	}
	return out
}

// dayChoice names the weekdays a BYSETPOS position picks from:
// "Monday", "Monday or Friday", or "weekday" for Monday to Friday.
func dayChoice(days []rrule.Weekday) string {
	seen := make(map[int]bool, len(days))
	for i := range days {
		seen[days[i].Day()%7] = true
	}
	if len(seen) == 5 && !seen[5] && !seen[6] {
		return "weekday"
	}
	names := make([]string, 0, len(seen))
	for d, name := range weekdayNames {
		if seen[d] {
			names = append(names, name)
		}
	}
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

// monthDays renders BYMONTHDAY values; counting from the end needs a noun:
// "1st", "last day", "2nd to last day".
func monthDays(ns []int) []string {
	out := ordinals(ns)
	for i, n := range ns {
		if n < 0 {
			out[i] += " day"
		}
	}
	return out
}

func ordinals(ns []int) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, ordinal(n))
	}
	return out
}

func ordinal(n int) string {
	switch {
	case n == -1:
		return "last"
	case n < -1:
		return humanize.Ordinal(-n) + " to last"
	default:
		return humanize.Ordinal(n)
	}
}

func months(ms []int) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		if m >= 1 && m <= 12 {
			out = append(out, monthNames[m])
		}
	}
	return out
}

func joinWords(words []string) string {
	switch len(words) {
	case 0:
		return ""
	case 1:
		return words[0]
	default:
		return strings.Join(words[:len(words)-1], ", ") + " and " + words[len(words)-1]
	}
}
