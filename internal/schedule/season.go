package schedule

import (
	"errors"
	"sort"
	"time"
)

// ErrNoSeasons is returned when resolution is attempted against a
// configuration with no seasons. It is a configuration error, not a valid
// "closed" answer.
var ErrNoSeasons = errors.New("no seasons defined")

// IsNotConfigured reports whether err means the schedule has no seasons yet.
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNoSeasons)
}

// ActiveSeason picks the season governing "now": for each season the most
// recent start on or before today is computed (falling back to the previous
// year when this year's anchor has not been reached yet), and the season with
// the latest such start wins. Ties are broken by season name so the choice is
// deterministic. An empty season set is a fatal configuration error.
func ActiveSeason(seasons map[string]SeasonRule, now time.Time) (string, error) {
	if len(seasons) == 0 {
		return "", ErrNoSeasons
	}

	names := make([]string, 0, len(seasons))
	for name := range seasons {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		active string
		start  time.Time
	)
	for _, name := range names {
		candidate := seasonStart(seasons[name], now)
		if active == "" || candidate.After(start) {
			active = name
			start = candidate
		}
	}
	return active, nil
}

// seasonStart computes the season's most recent start date relative to now.
// A season cannot have started after today, so an anchor still in the future
// this year resolves to the previous year.
func seasonStart(season SeasonRule, now time.Time) time.Time {
	year := now.In(now.Location()).Year()
	start := time.Date(year, season.Begin.Month, season.Begin.Day, 0, 0, 0, 0, now.Location())
	if daysBetween(now, start) > 0 {
		start = time.Date(year-1, season.Begin.Month, season.Begin.Day, 0, 0, 0, 0, now.Location())
	}
	return start
}
