// Package recurrence expands a recurrence rule into the concrete calendar
// dates it covers. Expansion is a pure computation; callers persist whatever
// they need per date.
package recurrence

import (
	"fmt"
	"time"
)

type Frequency string

const (
	FrequencyWeekly           Frequency = "WEEKLY"
	FrequencyBiweekly         Frequency = "BIWEEKLY"
	FrequencyMonthlyByDate    Frequency = "MONTHLY_BY_DATE"
	FrequencyMonthlyByWeekday Frequency = "MONTHLY_BY_WEEKDAY"
)

// Rule describes one recurrence pattern. Which fields apply depends on the
// frequency: Weekday for WEEKLY/BIWEEKLY/MONTHLY_BY_WEEKDAY, DayOfMonth for
// MONTHLY_BY_DATE, Nth (1-5) for MONTHLY_BY_WEEKDAY.
type Rule struct {
	Frequency  Frequency    `json:"frequency"`
	Weekday    time.Weekday `json:"weekday,omitempty"`
	DayOfMonth int          `json:"day_of_month,omitempty"`
	Nth        int          `json:"nth,omitempty"`
}

// Expand returns every date the rule produces inside [start, end], both
// inclusive, in ascending order.
func Expand(rule Rule, start, end time.Time) ([]time.Time, error) {
	start = midnight(start)
	end = midnight(end)
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s is before start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	switch rule.Frequency {
	case FrequencyWeekly:
		return expandEveryNDays(rule.Weekday, start, end, 7), nil
	case FrequencyBiweekly:
		return expandEveryNDays(rule.Weekday, start, end, 14), nil
	case FrequencyMonthlyByDate:
		if rule.DayOfMonth < 1 || rule.DayOfMonth > 31 {
			return nil, fmt.Errorf("day of month must be between 1 and 31, got %d", rule.DayOfMonth)
		}
		return expandMonthlyByDate(rule.DayOfMonth, start, end), nil
	case FrequencyMonthlyByWeekday:
		if rule.Nth < 1 || rule.Nth > 5 {
			return nil, fmt.Errorf("nth occurrence must be between 1 and 5, got %d", rule.Nth)
		}
		return expandMonthlyByWeekday(rule.Nth, rule.Weekday, start, end), nil
	default:
		return nil, fmt.Errorf("unknown recurrence frequency %q", rule.Frequency)
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// expandEveryNDays seeds on the first matching weekday at or after start and
// steps by a fixed day count.
func expandEveryNDays(weekday time.Weekday, start, end time.Time, step int) []time.Time {
	offset := (int(weekday) - int(start.Weekday()) + 7) % 7
	var dates []time.Time
	for d := start.AddDate(0, 0, offset); !d.After(end); d = d.AddDate(0, 0, step) {
		dates = append(dates, d)
	}
	return dates
}

// expandMonthlyByDate emits day-of-month per month, skipping months where the
// calendar date does not exist (no Feb-30).
func expandMonthlyByDate(day int, start, end time.Time) []time.Time {
	var dates []time.Time
	for month := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC); !month.After(end); month = month.AddDate(0, 1, 0) {
		if day > daysInMonth(month.Year(), month.Month()) {
			continue
		}
		d := time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, time.UTC)
		if d.Before(start) || d.After(end) {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

// expandMonthlyByWeekday emits the nth weekday of each month in range; a
// month without that occurrence contributes nothing. The year bound past end
// is a safety stop only.
func expandMonthlyByWeekday(nth int, weekday time.Weekday, start, end time.Time) []time.Time {
	var dates []time.Time
	for month := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC); !month.After(end); month = month.AddDate(0, 1, 0) {
		if month.Year() > end.Year()+1 {
			break
		}
		firstOffset := (int(weekday) - int(month.Weekday()) + 7) % 7
		dayNum := 1 + firstOffset + (nth-1)*7
		if dayNum > daysInMonth(month.Year(), month.Month()) {
			continue
		}
		d := time.Date(month.Year(), month.Month(), dayNum, 0, 0, 0, 0, time.UTC)
		if d.Before(start) || d.After(end) {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
