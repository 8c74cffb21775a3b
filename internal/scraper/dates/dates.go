// Package dates normalizes the date shapes the source sites publish
// into timestamps in the catalog's target zone.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var monthMap = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November,
	"dec": time.December,
}

var (
	fracSecondsRe = regexp.MustCompile(`\.\d+`)

	// "February 20, 2026 at 7:30 pm", "Feb 15", "March 15th, 2026 7pm"
	// The \b after the day keeps a four-digit year from being misread
	// as a day in strings like "02 Jan 2027".
	monthNameRe = regexp.MustCompile(`(?i)(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s+(20\d{2}))?(?:\s+(?:at\s+)?(\d{1,2})(?::(\d{2}))?\s*(am|pm))?`)

	clockRe = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)
)

// Normalizer parses source date strings into local civil timestamps.
type Normalizer struct {
	loc         *time.Location
	defaultHour int
}

// New builds a Normalizer for the named IANA zone. When the timezone
// database does not carry the zone, a fixed UTC-5 offset is used; that
// fallback ignores DST and is lossy around transitions.
func New(timezone string, defaultHour int) *Normalizer {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.FixedZone("EST", -5*60*60)
	}
	if defaultHour <= 0 || defaultHour > 23 {
		defaultHour = 10
	}
	return &Normalizer{loc: loc, defaultHour: defaultHour}
}

// Location returns the target zone.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// atDefaultHour rebuilds a date-only timestamp at the default civil
// hour. Adding a duration from midnight instead would drift by an hour
// on DST transition days.
func (n *Normalizer) atDefaultHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), n.defaultHour, 0, 0, 0, n.loc)
}

// Parse normalizes s into a timestamp in the target zone. The attempts
// run in fixed order: strict ISO-8601, explicit numeric layouts, a
// month-name scan, then a general layout sweep. ok=false means the
// string carries no usable date and the enclosing listing is dropped.
func (n *Normalizer) Parse(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, ok := n.parseISO(s); ok {
		return t, true
	}
	if t, ok := n.parseNumeric(s); ok {
		return t, true
	}
	if t, ok := n.parseMonthName(s, now); ok {
		return t, true
	}
	if t, ok := n.parseFallback(s); ok {
		return t, true
	}
	return time.Time{}, false
}

func (n *Normalizer) parseISO(s string) (time.Time, bool) {
	clean := fracSecondsRe.ReplaceAllString(s, "")

	// Zone-qualified timestamps convert into the target zone so a UTC
	// source reads as local civil time, DST included.
	if t, err := time.Parse(time.RFC3339, clean); err == nil {
		return t.In(n.loc), true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", clean, n.loc); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", clean, n.loc); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02", clean, n.loc); err == nil {
		return n.atDefaultHour(t), true
	}
	return time.Time{}, false
}

func (n *Normalizer) parseNumeric(s string) (time.Time, bool) {
	for _, layout := range []string{
		"1/2/2006 15:04:05",
		"1/2/2006 15:04",
		"1/2/2006 3:04 PM",
		"1/2/2006 3:04PM",
	} {
		if t, err := time.ParseInLocation(layout, s, n.loc); err == nil {
			return t, true
		}
	}
	for _, layout := range []string{"1/2/2006", "2006/1/2"} {
		if t, err := time.ParseInLocation(layout, s, n.loc); err == nil {
			return n.atDefaultHour(t), true
		}
	}
	return time.Time{}, false
}

func (n *Normalizer) parseMonthName(s string, now time.Time) (time.Time, bool) {
	m := monthNameRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	month, ok := monthMap[strings.ToLower(m[1])]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, false
	}

	hour := n.defaultHour
	minute := 0
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		if m[5] != "" {
			minute, _ = strconv.Atoi(m[5])
		}
		switch strings.ToLower(m[6]) {
		case "pm":
			if hour != 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
	}

	if m[3] != "" {
		year, _ := strconv.Atoi(m[3])
		t := time.Date(year, month, day, hour, minute, 0, 0, n.loc)
		if t.Month() != month || t.Day() != day {
			return time.Time{}, false
		}
		return t, true
	}

	// Bare date: anchor to today's year and roll forward when the date
	// has already passed.
	t := time.Date(now.Year(), month, day, hour, minute, 0, 0, n.loc)
	if t.Before(now) {
		t = time.Date(now.Year()+1, month, day, hour, minute, 0, 0, n.loc)
	}
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func (n *Normalizer) parseFallback(s string) (time.Time, bool) {
	for _, layout := range []string{
		"2006-01-02 15:04:05",
		"02 Jan 2006",
		"2 January 2006",
		"Jan 2, 2006",
		"January 2, 2006",
		"Monday, January 2, 2006",
		"Mon, 02 Jan 2006 15:04:05 MST",
	} {
		if t, err := time.ParseInLocation(layout, s, n.loc); err == nil {
			if t.Hour() == 0 && t.Minute() == 0 && !strings.Contains(layout, "15:04") {
				t = n.atDefaultHour(t)
			}
			return t, true
		}
	}
	return time.Time{}, false
}

// ApplyClock merges a separate time-of-day string like "7:30 PM" or
// "19:00" onto an already-parsed date. Unusable clock strings leave t
// untouched.
func (n *Normalizer) ApplyClock(t time.Time, clock string) time.Time {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return t
	}

	m := clockRe.FindStringSubmatch(clock)
	if m == nil {
		return t
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil || hour > 23 {
		return t
	}
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
		if minute > 59 {
			return t
		}
	}
	switch strings.ToLower(m[3]) {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	case "":
		// A bare small number without meridiem is too ambiguous.
		if m[2] == "" {
			return t
		}
	}
	if hour > 23 {
		return t
	}

	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}
