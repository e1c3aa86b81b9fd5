package news

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/deusflow/newsbot/internal/rss"
)

// zoneOffsets resolves the zone abbreviations feeds commonly emit. Go parses
// an unknown abbreviation with a zero offset.
var zoneOffsets = map[string]int{
	"EST":  -5 * 3600,
	"EDT":  -4 * 3600,
	"CST":  -6 * 3600,
	"CDT":  -5 * 3600,
	"MST":  -7 * 3600,
	"MDT":  -6 * 3600,
	"PST":  -8 * 3600,
	"PDT":  -7 * 3600,
	"WET":  0,
	"WEST": 1 * 3600,
	"BST":  1 * 3600,
	"CET":  1 * 3600,
	"CEST": 2 * 3600,
	"EET":  2 * 3600,
	"EEST": 3 * 3600,
}

// PublishedAt tries the published, updated and created fields in that order
// and returns the first date that parses. Entries without a usable date are
// stamped with now.
func PublishedAt(e rss.Entry, now time.Time) time.Time {
	candidates := []struct {
		parsed *time.Time
		raw    string
	}{
		{e.PublishedParsed, e.Published},
		{e.UpdatedParsed, e.Updated},
		{nil, e.Created},
	}
	for _, c := range candidates {
		if c.parsed != nil && !c.parsed.IsZero() {
			return *c.parsed
		}
		if t, ok := ParseDate(c.raw); ok {
			return t
		}
	}
	return now.UTC()
}

// ParseDate parses s in any format dateparse recognizes. Dates without a
// zone are taken as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return withZoneOffset(t), true
}

func withZoneOffset(t time.Time) time.Time {
	name, offset := t.Zone()
	want, ok := zoneOffsets[name]
	if !ok || offset == want {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
		time.FixedZone(name, want))
}
