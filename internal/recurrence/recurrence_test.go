package recurrence

import (
	"errors"
	"testing"
)

func TestNextOccurrence(t *testing.T) {
	cases := []struct {
		name string
		rule string
		from string
		want string
	}{
		{"daily advances one day", "daily", "2025-01-20", "2025-01-21"},
		{"daily rolls month", "daily", "2025-01-31", "2025-02-01"},
		{"daily rolls year", "daily", "2025-12-31", "2026-01-01"},

		{"weekdays monday to tuesday", "weekdays", "2025-01-20", "2025-01-21"},
		{"weekdays thursday to friday", "weekdays", "2025-01-23", "2025-01-24"},
		{"weekdays friday skips to monday", "weekdays", "2025-01-24", "2025-01-27"},
		{"weekdays saturday to monday", "weekdays", "2025-01-25", "2025-01-27"},
		{"weekdays sunday to monday", "weekdays", "2025-01-26", "2025-01-27"},

		{"weekly monday to wednesday", "weekly:MON,WED,FRI", "2025-01-20", "2025-01-22"},
		{"weekly wednesday to friday", "weekly:MON,WED,FRI", "2025-01-22", "2025-01-24"},
		{"weekly friday wraps to monday", "weekly:MON,WED,FRI", "2025-01-24", "2025-01-27"},
		{"weekly single day full cycle", "weekly:TUE", "2025-01-21", "2025-01-28"},
		{"weekly lowercase codes", "weekly:mon,wed", "2025-01-20", "2025-01-22"},

		{"monthly before target day", "monthly:15", "2025-01-10", "2025-01-15"},
		{"monthly on target day", "monthly:15", "2025-01-15", "2025-02-15"},
		{"monthly after target day", "monthly:15", "2025-01-20", "2025-02-15"},
		{"monthly december rolls year", "monthly:15", "2025-12-20", "2026-01-15"},

		{"nth weekday before occurrence", "monthly:3:WED", "2025-01-10", "2025-01-15"},
		{"nth weekday on occurrence", "monthly:3:WED", "2025-01-15", "2025-02-19"},
		{"first monday after it passed", "monthly:1:MON", "2025-01-10", "2025-02-03"},

		{"yearly before target", "yearly:03-15", "2025-01-20", "2025-03-15"},
		{"yearly on target", "yearly:03-15", "2025-03-15", "2026-03-15"},
		{"yearly after target", "yearly:03-15", "2025-06-01", "2026-03-15"},

		{"whitespace and case ignored", "  DAILY ", "2025-01-20", "2025-01-21"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextOccurrence(tc.rule, tc.from)
			if err != nil {
				t.Fatalf("NextOccurrence(%q, %q) failed: %v", tc.rule, tc.from, err)
			}
			if got != tc.want {
				t.Errorf("NextOccurrence(%q, %q) = %q, want %q", tc.rule, tc.from, got, tc.want)
			}
			if got <= tc.from {
				t.Errorf("next occurrence %q is not strictly after %q", got, tc.from)
			}
			if !Matches(tc.rule, got) {
				t.Errorf("Matches(%q, %q) = false for its own next occurrence", tc.rule, got)
			}
		})
	}
}

func TestNextOccurrenceInvalid(t *testing.T) {
	cases := []struct {
		name string
		rule string
		from string
	}{
		{"unknown rule", "invalid", "2025-01-20"},
		{"empty rule", "", "2025-01-20"},
		{"empty date", "daily", ""},
		{"unparsable date", "daily", "invalid-date"},
		{"unknown weekday code", "weekly:XYZ", "2025-01-20"},
		{"weekly empty day list", "weekly:", "2025-01-20"},
		{"monthly non-integer day", "monthly:abc", "2025-01-20"},
		{"monthly day out of range", "monthly:45", "2025-01-20"},
		{"nth weekday bad count", "monthly:0:WED", "2025-01-20"},
		{"nth weekday bad day", "monthly:3:XYZ", "2025-01-20"},
		{"yearly malformed", "yearly:13-45", "2025-01-20"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NextOccurrence(tc.rule, tc.from); !errors.Is(err, ErrInvalidRule) {
				t.Errorf("NextOccurrence(%q, %q): got err %v, want ErrInvalidRule", tc.rule, tc.from, err)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	cases := []struct {
		name string
		rule string
		date string
		want bool
	}{
		{"daily matches any date", "daily", "2025-01-26", true},
		{"weekdays matches friday", "weekdays", "2025-01-24", true},
		{"weekdays rejects saturday", "weekdays", "2025-01-25", false},
		{"weekly matches listed day", "weekly:MON,WED,FRI", "2025-01-22", true},
		{"weekly rejects unlisted day", "weekly:MON,WED,FRI", "2025-01-21", false},
		{"monthly matches day", "monthly:15", "2025-03-15", true},
		{"monthly rejects other day", "monthly:15", "2025-03-14", false},
		{"third wednesday matches", "monthly:3:WED", "2025-01-15", true},
		{"second wednesday rejected", "monthly:3:WED", "2025-01-08", false},
		{"other weekday rejected", "monthly:3:WED", "2025-01-16", false},
		{"yearly matches date", "yearly:03-15", "2026-03-15", true},
		{"yearly rejects other date", "yearly:03-15", "2026-03-16", false},
		{"invalid rule matches nothing", "bogus", "2025-01-20", false},
		{"invalid date matches nothing", "daily", "not-a-date", false},
		{"empty rule matches nothing", "", "2025-01-20", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Matches(tc.rule, tc.date); got != tc.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tc.rule, tc.date, got, tc.want)
			}
		})
	}
}
