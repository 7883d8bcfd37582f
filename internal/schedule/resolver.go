package schedule

import (
	"fmt"
	"strings"
	"time"
)

// HorizonDays bounds the forward search. A configuration where every day is
// closed must terminate after examining today plus seven more days.
const HorizonDays = 7

// Result is a resolved open window: the calendar day it falls on and its
// wall-clock bounds.
type Result struct {
	Day  time.Time
	From TimeOfDay
	To   TimeOfDay
}

// OpenAt reports whether the facility is open at the given instant, i.e. the
// resolved window falls on now's calendar day and now is inside it.
func (r Result) OpenAt(now time.Time) bool {
	if !isToday(r.Day, now) {
		return false
	}
	tod := timeOfDay(now)
	return !r.From.After(tod) && !tod.After(r.To)
}

// dayStatus classifies a single candidate day during the walk.
type dayStatus int

const (
	// dayOpen: the day has a usable open window.
	dayOpen dayStatus = iota
	// dayClosed: the day is closed outright.
	dayClosed
	// dayElapsed: the day is open on paper but its window already ended today.
	dayElapsed
)

// Resolve determines the current or next open window within the horizon.
// It returns found=false when no open day exists within HorizonDays; that is a
// valid outcome, not an error. now must be captured once by the caller in the
// facility zone and is threaded through every check so today/tomorrow/elapsed
// comparisons stay mutually consistent.
//
// The active season is selected once from now and reused for every candidate
// date: season choice tracks today, not the walked-forward day.
func Resolve(cfg *Config, now time.Time) (Result, bool, error) {
	seasonName, err := ActiveSeason(cfg.Seasons, now)
	if err != nil {
		return Result{}, false, err
	}
	season := cfg.Seasons[seasonName]

	today := midnight(now, cfg.Location)
	for offset := 0; offset <= HorizonDays; offset++ {
		date := today.AddDate(0, 0, offset)

		status, rule, err := resolveDay(date, now, season, cfg.Exceptions)
		if err != nil {
			return Result{}, false, err
		}
		if status == dayOpen {
			return Result{Day: date, From: rule.From, To: rule.To}, true, nil
		}
	}

	return Result{}, false, nil
}

// resolveDay decides whether a single calendar date is usable. Exceptions
// outrank season rules: a matching closed exception closes the day, a matching
// open exception supplies the window unless it already elapsed today. Without
// an exception the active season's weekday rule applies with the same
// elapsed-today check.
func resolveDay(date, now time.Time, season SeasonRule, exceptions []ExceptionRule) (dayStatus, DayRule, error) {
	if exc, ok := findException(exceptions, date); ok {
		if !exc.Open {
			return dayClosed, DayRule{}, nil
		}
		if isToday(date, now) && timeOfDay(now).After(exc.To) {
			return dayElapsed, DayRule{}, nil
		}
		return dayOpen, DayRule{From: exc.From, To: exc.To}, nil
	}

	weekday := strings.ToLower(date.Weekday().String())
	rule, ok := season.Days[weekday]
	if !ok {
		// Validation guarantees all seven weekdays; fail loudly rather than
		// mask a data-entry bug with a silent default.
		return dayClosed, DayRule{}, fmt.Errorf("season has no rule for %s", weekday)
	}
	if rule.Closed {
		return dayClosed, DayRule{}, nil
	}
	if isToday(date, now) && timeOfDay(now).After(rule.To) {
		return dayElapsed, DayRule{}, nil
	}
	return dayOpen, rule, nil
}

// findException scans for an exception on the given calendar date. The first
// match wins; validation rejects duplicate dates at the load boundary.
func findException(exceptions []ExceptionRule, date time.Time) (ExceptionRule, bool) {
	for _, exc := range exceptions {
		if daysBetween(exc.Day, date) == 0 {
			return exc, true
		}
	}
	return ExceptionRule{}, false
}
