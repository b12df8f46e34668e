// Package recurrence computes occurrence dates for repeating tasks.
//
// Supported rule grammar (case-insensitive, surrounding whitespace ignored):
//
//	daily                 every day
//	weekdays              Monday through Friday
//	weekly:MON,WED,FRI    given days of the week
//	monthly:15            given day of the month
//	monthly:3:WED         Nth weekday of the month
//	yearly:03-15          given calendar date each year (MM-DD)
package recurrence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidRule reports a rule or date that cannot be interpreted.
var ErrInvalidRule = errors.New("invalid recurrence rule")

const dateLayout = "2006-01-02"

var weekdayCodes = map[string]time.Weekday{
	"MON": time.Monday,
	"TUE": time.Tuesday,
	"WED": time.Wednesday,
	"THU": time.Thursday,
	"FRI": time.Friday,
	"SAT": time.Saturday,
	"SUN": time.Sunday,
}

// NextOccurrence returns the next date strictly after fromDate that matches
// rule, as a YYYY-MM-DD string. It never returns a date equal to or before
// fromDate. Unparsable rules or dates yield ErrInvalidRule.
func NextOccurrence(rule, fromDate string) (string, error) {
	rule = normalize(rule)
	if rule == "" || fromDate == "" {
		return "", ErrInvalidRule
	}
	from, err := time.Parse(dateLayout, fromDate)
	if err != nil {
		return "", fmt.Errorf("%w: bad date %q", ErrInvalidRule, fromDate)
	}

	next, err := nextAfter(rule, from)
	if err != nil {
		return "", err
	}
	return next.Format(dateLayout), nil
}

// Matches reports whether date itself satisfies rule. Invalid rules or dates
// match nothing.
func Matches(rule, date string) bool {
	rule = normalize(rule)
	if rule == "" || date == "" {
		return false
	}
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return false
	}

	switch {
	case rule == "daily":
		return true
	case rule == "weekdays":
		return isWeekday(day)
	case strings.HasPrefix(rule, "weekly:"):
		days, err := parseWeekdaySet(strings.TrimPrefix(rule, "weekly:"))
		if err != nil {
			return false
		}
		return days[day.Weekday()]
	case strings.HasPrefix(rule, "monthly:"):
		dayOfMonth, weekday, nth, err := parseMonthly(strings.TrimPrefix(rule, "monthly:"))
		if err != nil {
			return false
		}
		if nth == 0 {
			return day.Day() == dayOfMonth
		}
		// Count which occurrence of its weekday this date is within the month.
		return day.Weekday() == weekday && (day.Day()-1)/7+1 == nth
	case strings.HasPrefix(rule, "yearly:"):
		month, dayOfMonth, err := parseYearly(strings.TrimPrefix(rule, "yearly:"))
		if err != nil {
			return false
		}
		return day.Month() == month && day.Day() == dayOfMonth
	}
	return false
}

func nextAfter(rule string, from time.Time) (time.Time, error) {
	switch {
	case rule == "daily":
		return from.AddDate(0, 0, 1), nil

	case rule == "weekdays":
		next := from.AddDate(0, 0, 1)
		for !isWeekday(next) {
			next = next.AddDate(0, 0, 1)
		}
		return next, nil

	case strings.HasPrefix(rule, "weekly:"):
		days, err := parseWeekdaySet(strings.TrimPrefix(rule, "weekly:"))
		if err != nil {
			return time.Time{}, err
		}
		next := from.AddDate(0, 0, 1)
		for i := 1; i < 7; i++ {
			if days[next.Weekday()] {
				break
			}
			next = next.AddDate(0, 0, 1)
		}
		return next, nil

	case strings.HasPrefix(rule, "monthly:"):
		dayOfMonth, weekday, nth, err := parseMonthly(strings.TrimPrefix(rule, "monthly:"))
		if err != nil {
			return time.Time{}, err
		}
		if nth == 0 {
			return nextMonthlyDay(from, dayOfMonth), nil
		}
		return nextNthWeekday(from, weekday, nth), nil

	case strings.HasPrefix(rule, "yearly:"):
		month, dayOfMonth, err := parseYearly(strings.TrimPrefix(rule, "yearly:"))
		if err != nil {
			return time.Time{}, err
		}
		target := time.Date(from.Year(), month, dayOfMonth, 0, 0, 0, 0, time.UTC)
		if from.Before(target) {
			return target, nil
		}
		return target.AddDate(1, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidRule, rule)
}

// nextMonthlyDay returns day-of-month n in from's month if still ahead,
// otherwise in the following month (rolling the year at December).
func nextMonthlyDay(from time.Time, n int) time.Time {
	if from.Day() < n {
		return time.Date(from.Year(), from.Month(), n, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(from.Year(), from.Month(), n, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}

// nextNthWeekday returns the nth occurrence of weekday in from's month, or in
// the following month when that occurrence is not strictly after from.
func nextNthWeekday(from time.Time, weekday time.Weekday, nth int) time.Time {
	result := nthWeekdayOfMonth(from.Year(), from.Month(), weekday, nth)
	if !result.After(from) {
		following := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		result = nthWeekdayOfMonth(following.Year(), following.Month(), weekday, nth)
	}
	return result
}

func nthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, nth int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+(nth-1)*7)
}

func parseWeekdaySet(spec string) (map[time.Weekday]bool, error) {
	days := make(map[time.Weekday]bool)
	for _, code := range strings.Split(spec, ",") {
		weekday, ok := weekdayCodes[strings.ToUpper(strings.TrimSpace(code))]
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", ErrInvalidRule, code)
		}
		days[weekday] = true
	}
	if len(days) == 0 {
		return nil, ErrInvalidRule
	}
	return days, nil
}

// parseMonthly handles both "N" (day of month, nth returned as 0) and
// "N:WDY" (nth weekday of month).
func parseMonthly(spec string) (dayOfMonth int, weekday time.Weekday, nth int, err error) {
	parts := strings.Split(spec, ":")
	switch len(parts) {
	case 1:
		dayOfMonth, err = strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || dayOfMonth < 1 || dayOfMonth > 31 {
			return 0, 0, 0, fmt.Errorf("%w: bad day of month %q", ErrInvalidRule, spec)
		}
		return dayOfMonth, 0, 0, nil
	case 2:
		nth, err = strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || nth < 1 || nth > 5 {
			return 0, 0, 0, fmt.Errorf("%w: bad occurrence count %q", ErrInvalidRule, spec)
		}
		var ok bool
		weekday, ok = weekdayCodes[strings.ToUpper(strings.TrimSpace(parts[1]))]
		if !ok {
			return 0, 0, 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidRule, parts[1])
		}
		return 0, weekday, nth, nil
	}
	return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidRule, spec)
}

func parseYearly(spec string) (time.Month, int, error) {
	target, err := time.Parse("01-02", strings.TrimSpace(spec))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad yearly date %q", ErrInvalidRule, spec)
	}
	return target.Month(), target.Day(), nil
}

func normalize(rule string) string {
	return strings.ToLower(strings.TrimSpace(rule))
}

func isWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
