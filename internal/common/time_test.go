package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"single digit day and hour", time.Date(2021, time.March, 5, 9, 5, 0, 0, time.UTC), "March 5, 2021 · 09:05"},
		{"two digit day", time.Date(2019, time.December, 31, 23, 59, 59, 0, time.UTC), "December 31, 2019 · 23:59"},
		{"midnight", time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), "January 1, 2020 · 00:00"},
		{"nine o'clock is padded", time.Date(2018, time.July, 14, 9, 9, 0, 0, time.UTC), "July 14, 2018 · 09:09"},
		{"afternoon uses 24h clock", time.Date(2018, time.July, 14, 17, 30, 0, 0, time.UTC), "July 14, 2018 · 17:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.t))
		})
	}
}

func TestFormatDate_Deterministic(t *testing.T) {
	ts := time.Date(2021, time.March, 5, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, FormatDate(ts), FormatDate(ts))
}

func TestFormatDate_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2021, time.March, 5, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "March 5, 2021 · 11:05", FormatDate(ts.In(loc)))
}

func TestFormatDateString(t *testing.T) {
	got, err := FormatDateString("2021-03-05T09:05:00Z")
	require.NoError(t, err)
	assert.Equal(t, "March 5, 2021 · 09:05", got)

	got, err = FormatDateString("2021-03-05 09:05:00")
	require.NoError(t, err)
	assert.Equal(t, "March 5, 2021 · 09:05", got)

	_, err = FormatDateString("not a date")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestTimeSince(t *testing.T) {
	now := time.Date(2021, time.March, 5, 9, 5, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    string
	}{
		{"zero", 0, "less than a minute ago"},
		{"30 seconds", 30 * time.Second, "less than a minute ago"},
		{"44 seconds", 44 * time.Second, "less than a minute ago"},
		{"45 seconds", 45 * time.Second, "about a minute ago"},
		{"89 seconds", 89 * time.Second, "about a minute ago"},
		{"90 seconds falls to minutes", 90 * time.Second, "2 minutes ago"},
		{"2 minutes", 2 * time.Minute, "2 minutes ago"},
		{"44 minutes", 44 * time.Minute, "44 minutes ago"},
		{"45 minutes", 45 * time.Minute, "about an hour ago"},
		{"89 minutes", 89 * time.Minute, "about an hour ago"},
		{"90 minutes", 90 * time.Minute, "about 2 hours ago"},
		{"5 hours", 5 * time.Hour, "about 5 hours ago"},
		{"23 hours", 23 * time.Hour, "about 23 hours ago"},
		{"24 hours", 24 * time.Hour, "a day ago"},
		{"25 hours", 25 * time.Hour, "a day ago"},
		{"41 hours", 41 * time.Hour, "a day ago"},
		{"42 hours", 42 * time.Hour, "2 days ago"},
		{"10 days", 10 * 24 * time.Hour, "10 days ago"},
		{"29 days", 29 * 24 * time.Hour, "29 days ago"},
		{"30 days", 30 * 24 * time.Hour, "about a month ago"},
		{"44 days", 44 * 24 * time.Hour, "about a month ago"},
		{"45 days", 45 * 24 * time.Hour, "2 months ago"},
		{"200 days", 200 * 24 * time.Hour, "7 months ago"},
		{"364 days", 364 * 24 * time.Hour, "12 months ago"},
		{"365 days", 365 * 24 * time.Hour, "about a year ago"},
		{"400 days", 400 * 24 * time.Hour, "about a year ago"},
		{"548 days", 548 * 24 * time.Hour, "2 years ago"},
		{"5 years", 5 * 365 * 24 * time.Hour, "5 years ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeSince(now, now.Add(-tt.elapsed)))
		})
	}
}

func TestTimeSince_UnderFortyFiveSeconds(t *testing.T) {
	now := time.Date(2021, time.March, 5, 9, 5, 0, 0, time.UTC)
	for s := 0; s < 45; s++ {
		assert.Equal(t, "less than a minute ago", TimeSince(now, now.Add(-time.Duration(s)*time.Second)), "s=%d", s)
	}
}

func TestTimeSince_SameInstant(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "less than a minute ago", TimeSince(now, now))
}

func TestTimeSince_FutureEvent(t *testing.T) {
	now := time.Date(2021, time.March, 5, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "less than a minute ago", TimeSince(now, now.Add(10*time.Second)))
	assert.Equal(t, "less than a minute ago", TimeSince(now, now.Add(72*time.Hour)))
}

func TestTimeSince_RoundsHalfAwayFromZero(t *testing.T) {
	now := time.Date(2021, time.March, 5, 9, 5, 0, 0, time.UTC)
	// 2.5 minutes rounds up to 3
	assert.Equal(t, "3 minutes ago", TimeSince(now, now.Add(-150*time.Second)))
	// 2.49 minutes rounds down
	assert.Equal(t, "2 minutes ago", TimeSince(now, now.Add(-149*time.Second)))
}

func TestTimeSince_AlwaysEndsWithAgo(t *testing.T) {
	now := time.Date(2021, time.March, 5, 9, 5, 0, 0, time.UTC)
	for d := time.Duration(0); d < 3*365*24*time.Hour; d += 97 * time.Hour {
		assert.Regexp(t, ` ago$`, TimeSince(now, now.Add(-d)))
	}
}

func TestTimeSinceString(t *testing.T) {
	got, err := TimeSinceString("2021-03-05T10:05:00Z", "2021-03-05T09:05:00Z")
	require.NoError(t, err)
	assert.Equal(t, "about an hour ago", got)

	_, err = TimeSinceString("garbage", "2021-03-05T09:05:00Z")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = TimeSinceString("2021-03-05T09:05:00Z", "")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2021, time.March, 5, 9, 5, 0, 0, time.UTC)

	for _, s := range []string{
		"2021-03-05T09:05:00Z",
		"2021-03-05T09:05:00.000Z",
		"2021-03-05T11:05:00+02:00",
		"2021-03-05 09:05:00",
		"2021-03-05T09:05:00",
		"2021-03-05 09:05",
		" 2021-03-05 09:05 ",
	} {
		t.Run(s, func(t *testing.T) {
			got, err := ParseTimestamp(s)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %v", got)
		})
	}

	got, err := ParseTimestamp("2021-03-05")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Day())
}
