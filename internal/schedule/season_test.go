package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoSeasons builds the typical winter/summer split used by the tests:
// winter starting November 1st, summer starting May 1st.
func twoSeasons() map[string]SeasonRule {
	return map[string]SeasonRule{
		"winter": {Begin: MonthDay{Month: time.November, Day: 1}, Days: openAllWeek("10:00", "16:00")},
		"summer": {Begin: MonthDay{Month: time.May, Day: 1}, Days: openAllWeek("08:00", "18:00")},
	}
}

// TestActiveSeason tests season selection by most recent start
func TestActiveSeason(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Europe/Luxembourg")
	require.NoError(t, err)

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{
			name: "mid june picks summer",
			now:  time.Date(2024, 6, 15, 12, 0, 0, 0, loc),
			want: "summer",
		},
		{
			name: "mid december picks winter",
			now:  time.Date(2024, 12, 15, 12, 0, 0, 0, loc),
			want: "winter",
		},
		{
			name: "january picks winter from previous year anchor",
			now:  time.Date(2024, 1, 10, 12, 0, 0, 0, loc),
			want: "winter",
		},
		{
			name: "season switches on its begin date",
			now:  time.Date(2024, 5, 1, 0, 30, 0, 0, loc),
			want: "summer",
		},
		{
			name: "day before the switch still winter",
			now:  time.Date(2024, 4, 30, 23, 30, 0, 0, loc),
			want: "winter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ActiveSeason(twoSeasons(), tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestActiveSeason_NoSeasons tests the empty configuration error
func TestActiveSeason_NoSeasons(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Europe/Luxembourg")
	require.NoError(t, err)

	_, err = ActiveSeason(nil, time.Date(2024, 6, 15, 12, 0, 0, 0, loc))
	require.Error(t, err)
	assert.True(t, IsNotConfigured(err))
}

// TestActiveSeason_Deterministic tests that ties resolve by name
func TestActiveSeason_Deterministic(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Europe/Luxembourg")
	require.NoError(t, err)

	seasons := map[string]SeasonRule{
		"b-season": {Begin: MonthDay{Month: time.May, Day: 1}, Days: openAllWeek("08:00", "18:00")},
		"a-season": {Begin: MonthDay{Month: time.May, Day: 1}, Days: openAllWeek("09:00", "17:00")},
	}

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, loc)
	for i := 0; i < 10; i++ {
		got, err := ActiveSeason(seasons, now)
		require.NoError(t, err)
		assert.Equal(t, "a-season", got)
	}
}

// TestSeasonStart_PreviousYearFallback tests the year wrap for future anchors
func TestSeasonStart_PreviousYearFallback(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Europe/Luxembourg")
	require.NoError(t, err)

	season := SeasonRule{Begin: MonthDay{Month: time.November, Day: 1}}

	// In June the November anchor has not been reached yet this year.
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, loc)
	start := seasonStart(season, now)
	assert.Equal(t, 2023, start.Year())

	// In December it has.
	now = time.Date(2024, 12, 15, 12, 0, 0, 0, loc)
	start = seasonStart(season, now)
	assert.Equal(t, 2024, start.Year())
}
