package common

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a timestamp string cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// dateLayout renders e.g. "March 5, 2021 · 09:05".
const dateLayout = "January 2, 2006 · 15:04"

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses a timestamp string in one of the formats sprout
// stores or accepts on the command line. Strings without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// FormatDate renders t in its own location as "<Month> <Day>, <Year> · <HH>:<MM>".
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatDateString parses s and formats it like FormatDate.
func FormatDateString(s string) (string, error) {
	t, err := ParseTimestamp(s)
	if err != nil {
		return "", err
	}
	return FormatDate(t), nil
}

// elapsed holds the time between two instants in every unit the bucket
// table inspects.
type elapsed struct {
	seconds float64
	minutes float64
	hours   float64
	days    float64
	years   float64
}

func newElapsed(d time.Duration) elapsed {
	// Events in the future count as no time at all.
	if d < 0 {
		d = 0
	}
	e := elapsed{seconds: d.Seconds()}
	e.minutes = e.seconds / 60
	e.hours = e.minutes / 60
	e.days = e.hours / 24
	e.years = e.days / 365
	return e
}

// bucket is one row of the relative time table. quantity is nil for
// buckets whose template has no placeholder.
type bucket struct {
	name     string
	match    func(e elapsed) bool
	quantity func(e elapsed) float64
}

var templates = map[string]string{
	"seconds": "less than a minute",
	"minute":  "about a minute",
	"minutes": "%d minutes",
	"hour":    "about an hour",
	"hours":   "about %d hours",
	"day":     "a day",
	"days":    "%d days",
	"month":   "about a month",
	"months":  "%d months",
	"year":    "about a year",
	"years":   "%d years",
}

// buckets is evaluated top to bottom; the first match wins.
var buckets = []bucket{
	{"seconds", func(e elapsed) bool { return e.seconds < 45 }, nil},
	{"minute", func(e elapsed) bool { return e.seconds < 90 }, nil},
	{"minutes", func(e elapsed) bool { return e.minutes < 45 }, func(e elapsed) float64 { return e.minutes }},
	{"hour", func(e elapsed) bool { return e.minutes < 90 }, nil},
	{"hours", func(e elapsed) bool { return e.hours < 24 }, func(e elapsed) float64 { return e.hours }},
	{"day", func(e elapsed) bool { return e.hours < 42 }, nil},
	{"days", func(e elapsed) bool { return e.days < 30 }, func(e elapsed) float64 { return e.days }},
	{"month", func(e elapsed) bool { return e.days < 45 }, nil},
	{"months", func(e elapsed) bool { return e.days < 365 }, func(e elapsed) float64 { return e.days / 30 }},
	{"year", func(e elapsed) bool { return e.years < 1.5 }, nil},
	{"years", func(e elapsed) bool { return true }, func(e elapsed) float64 { return e.years }},
}

// render fills the bucket template with n rounded half away from zero.
func render(name string, n float64) string {
	return strings.Replace(templates[name], "%d", strconv.Itoa(int(math.Abs(math.Round(n)))), 1)
}

// TimeSince returns a phrase like "about 3 hours ago" describing how long
// before now the event happened.
func TimeSince(now, event time.Time) string {
	e := newElapsed(now.Sub(event))
	for _, b := range buckets {
		if !b.match(e) {
			continue
		}
		n := 1.0
		if b.quantity != nil {
			n = b.quantity(e)
		}
		return render(b.name, n) + " ago"
	}
	// unreachable: the last bucket always matches
	return render("years", e.years) + " ago"
}

// TimeSinceString is TimeSince for string timestamps.
func TimeSinceString(now, event string) (string, error) {
	n, err := ParseTimestamp(now)
	if err != nil {
		return "", err
	}
	ev, err := ParseTimestamp(event)
	if err != nil {
		return "", err
	}
	return TimeSince(n, ev), nil
}
