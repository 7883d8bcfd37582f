// Package schedule implements the operation hours resolution engine: typed
// season/exception rules, season selection, per-day resolution and the bounded
// forward search for the next open window.
package schedule

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Wire formats for human-entered fields. The admin API validates against these
// before anything reaches the engine.
const (
	TimeOfDayFormat    = "15:04"
	SeasonBeginFormat  = "01/02"
	ExceptionDayFormat = "02/01/2006"
)

// weekdayNames holds the seven lowercase English weekday names every season
// must define a rule for.
var weekdayNames = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a 24-hour "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(TimeOfDayFormat, s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: expected HH:MM", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// String renders the time back into "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// minutes returns the offset from midnight, used for ordering comparisons.
func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// After reports whether t is strictly later than other.
func (t TimeOfDay) After(other TimeOfDay) bool {
	return t.minutes() > other.minutes()
}

// MonthDay is a year-less recurring date anchor (a season's begin).
type MonthDay struct {
	Month time.Month
	Day   int
}

// ParseMonthDay parses an "MM/DD" season begin anchor.
func ParseMonthDay(s string) (MonthDay, error) {
	t, err := time.Parse(SeasonBeginFormat, s)
	if err != nil {
		return MonthDay{}, fmt.Errorf("invalid season begin %q: expected MM/DD", s)
	}
	return MonthDay{Month: t.Month(), Day: t.Day()}, nil
}

// String renders the anchor back into "MM/DD" form.
func (m MonthDay) String() string {
	return fmt.Sprintf("%02d/%02d", int(m.Month), m.Day)
}

// ParseExceptionDay parses a "DD/MM/YYYY" exception date in the facility zone.
func ParseExceptionDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(ExceptionDayFormat, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid exception day %q: expected DD/MM/YYYY", s)
	}
	return t, nil
}

// DayRule is a single weekday's open/closed window within a season.
type DayRule struct {
	Closed bool
	From   TimeOfDay
	To     TimeOfDay
}

// SeasonRule is a recurring yearly schedule block: a begin anchor plus a rule
// for each of the seven weekdays.
type SeasonRule struct {
	Begin MonthDay
	Days  map[string]DayRule
}

// ExceptionRule is a date-specific override that outranks season rules.
// Day carries day precision only; From/To are meaningful when Open is true.
type ExceptionRule struct {
	Day  time.Time
	Open bool
	From TimeOfDay
	To   TimeOfDay
}

// Config is the validated schedule configuration the engine resolves against.
// It is read-only for the duration of a resolution call.
type Config struct {
	Location   *time.Location
	Seasons    map[string]SeasonRule
	Exceptions []ExceptionRule
}

// Validate checks the whole configuration once at the load boundary so the
// resolution engine can assume well-typed input. Any violation is a fatal
// configuration error; the engine never silently defaults to open or closed.
func (c *Config) Validate() error {
	if c.Location == nil {
		return fmt.Errorf("schedule config: facility time zone is not set")
	}
	if len(c.Seasons) == 0 {
		return fmt.Errorf("schedule config: no seasons defined")
	}

	for name, season := range c.Seasons {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("schedule config: season with empty name")
		}
		for _, weekday := range weekdayNames {
			rule, ok := season.Days[weekday]
			if !ok {
				return fmt.Errorf("schedule config: season %q is missing a rule for %s", name, weekday)
			}
			if rule.Closed {
				continue
			}
			if !rule.To.After(rule.From) {
				return fmt.Errorf("schedule config: season %q %s: to %s must be after from %s",
					name, weekday, rule.To, rule.From)
			}
		}
	}

	seen := make(map[string]struct{}, len(c.Exceptions))
	for i, exc := range c.Exceptions {
		if exc.Day.IsZero() {
			return fmt.Errorf("schedule config: exception %d has no day", i)
		}
		key := exc.Day.Format("2006-01-02")
		if _, dup := seen[key]; dup {
			return fmt.Errorf("schedule config: duplicate exception for %s", key)
		}
		seen[key] = struct{}{}
		if exc.Open && !exc.To.After(exc.From) {
			return fmt.Errorf("schedule config: exception for %s: to %s must be after from %s",
				key, exc.To, exc.From)
		}
	}

	return nil
}

// SeasonNames returns the configured season names in deterministic order.
func (c *Config) SeasonNames() []string {
	names := make([]string, 0, len(c.Seasons))
	for name := range c.Seasons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// midnight truncates t to the start of its calendar day in loc.
func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// daysBetween returns the signed calendar-day difference from one date to
// another, ignoring the time of day. Rounding keeps the count correct across
// DST transitions where a calendar day is not exactly 24 hours long.
func daysBetween(from, to time.Time) int {
	f := midnight(from, from.Location())
	t := midnight(to, from.Location())
	return int(math.Round(t.Sub(f).Hours() / 24))
}

// isToday reports whether date falls on the same calendar day as now.
func isToday(date, now time.Time) bool {
	return daysBetween(now, date) == 0
}

// timeOfDay extracts the wall-clock component of an instant.
func timeOfDay(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}
