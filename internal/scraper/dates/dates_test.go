package dates

import (
	"testing"
	"time"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	return New("America/New_York", 10)
}

func TestParseISO(t *testing.T) {
	n := newTestNormalizer(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, n.Location())

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "plain iso",
			input: "2026-03-15T19:30:00",
			want:  time.Date(2026, 3, 15, 19, 30, 0, 0, n.Location()),
		},
		{
			name:  "iso with fractional seconds",
			input: "2026-03-15T19:30:00.123",
			want:  time.Date(2026, 3, 15, 19, 30, 0, 0, n.Location()),
		},
		{
			// 23:00 UTC in June is 19:00 EDT the same day.
			name:  "utc suffix converts with dst",
			input: "2026-06-15T23:00:00Z",
			want:  time.Date(2026, 6, 15, 19, 0, 0, 0, n.Location()),
		},
		{
			// 23:00 UTC in January is 18:00 EST.
			name:  "utc suffix converts without dst",
			input: "2026-01-15T23:00:00Z",
			want:  time.Date(2026, 1, 15, 18, 0, 0, 0, n.Location()),
		},
		{
			name:  "explicit offset",
			input: "2026-02-17T20:00:00-05:00",
			want:  time.Date(2026, 2, 17, 20, 0, 0, 0, n.Location()),
		},
		{
			name:  "date only gets default hour",
			input: "2026-04-01",
			want:  time.Date(2026, 4, 1, 10, 0, 0, 0, n.Location()),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.Parse(tt.input, now)
			if !ok {
				t.Fatalf("Parse(%q) failed", tt.input)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseMonthName(t *testing.T) {
	n := newTestNormalizer(t)
	now := time.Date(2025, 12, 10, 12, 0, 0, 0, n.Location())

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "full form with time",
			input: "February 20, 2026 at 7:30 pm",
			want:  time.Date(2026, 2, 20, 19, 30, 0, 0, n.Location()),
		},
		{
			name:  "noon stays noon",
			input: "March 3, 2026 at 12:00 pm",
			want:  time.Date(2026, 3, 3, 12, 0, 0, 0, n.Location()),
		},
		{
			name:  "midnight resolves to zero",
			input: "March 3, 2026 at 12:00 am",
			want:  time.Date(2026, 3, 3, 0, 0, 0, 0, n.Location()),
		},
		{
			name:  "bare date rolls into next year",
			input: "Feb 15",
			want:  time.Date(2026, 2, 15, 10, 0, 0, 0, n.Location()),
		},
		{
			name:  "bare date later this year stays",
			input: "Dec 20",
			want:  time.Date(2025, 12, 20, 10, 0, 0, 0, n.Location()),
		},
		{
			name:  "embedded in surrounding text",
			input: "On view until February 22, 2026 in the main gallery",
			want:  time.Date(2026, 2, 22, 10, 0, 0, 0, n.Location()),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.Parse(tt.input, now)
			if !ok {
				t.Fatalf("Parse(%q) failed", tt.input)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNumericAndFallback(t *testing.T) {
	n := newTestNormalizer(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, n.Location())

	got, ok := n.Parse("3/15/2026", now)
	if !ok || !got.Equal(time.Date(2026, 3, 15, 10, 0, 0, 0, n.Location())) {
		t.Errorf("slash date = %v (ok=%v)", got, ok)
	}

	got, ok = n.Parse("2026-05-09 08:00:00", now)
	if !ok || !got.Equal(time.Date(2026, 5, 9, 8, 0, 0, 0, n.Location())) {
		t.Errorf("sql-style datetime = %v (ok=%v)", got, ok)
	}

	got, ok = n.Parse("02 Jan 2027", now)
	if !ok || !got.Equal(time.Date(2027, 1, 2, 10, 0, 0, 0, n.Location())) {
		t.Errorf("day-first date = %v (ok=%v)", got, ok)
	}
}

func TestDefaultHourOnDstTransitionDays(t *testing.T) {
	n := newTestNormalizer(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, n.Location())

	// Nov 1 2026 falls back, Mar 8 2026 springs forward. The default
	// hour is a civil hour, so both days still land at 10:00 local.
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2026-11-01", time.Date(2026, 11, 1, 10, 0, 0, 0, n.Location())},
		{"2026-03-08", time.Date(2026, 3, 8, 10, 0, 0, 0, n.Location())},
		{"11/1/2026", time.Date(2026, 11, 1, 10, 0, 0, 0, n.Location())},
		{"01 Nov 2026", time.Date(2026, 11, 1, 10, 0, 0, 0, n.Location())},
	}

	for _, tt := range tests {
		got, ok := n.Parse(tt.input, now)
		if !ok {
			t.Fatalf("Parse(%q) failed", tt.input)
		}
		if !got.Equal(tt.want) || got.Hour() != 10 {
			t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	n := newTestNormalizer(t)
	now := time.Now()

	for _, input := range []string{"", "soon", "every friday", "TBD"} {
		if _, ok := n.Parse(input, now); ok {
			t.Errorf("Parse(%q) unexpectedly succeeded", input)
		}
	}
}

func TestApplyClock(t *testing.T) {
	n := newTestNormalizer(t)
	day := time.Date(2026, 2, 17, 0, 0, 0, 0, n.Location())

	tests := []struct {
		clock string
		want  time.Time
	}{
		{"7:30 PM", time.Date(2026, 2, 17, 19, 30, 0, 0, n.Location())},
		{"7pm", time.Date(2026, 2, 17, 19, 0, 0, 0, n.Location())},
		{"12:00AM", time.Date(2026, 2, 17, 0, 0, 0, 0, n.Location())},
		{"19:00", time.Date(2026, 2, 17, 19, 0, 0, 0, n.Location())},
		{"", day},
		{"doors", day},
	}

	for _, tt := range tests {
		if got := n.ApplyClock(day, tt.clock); !got.Equal(tt.want) {
			t.Errorf("ApplyClock(%q) = %v, want %v", tt.clock, got, tt.want)
		}
	}
}

func TestNewUnknownZoneFallsBack(t *testing.T) {
	n := New("Not/AZone", 10)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Fixed-offset fallback still converts UTC stamps.
	got, ok := n.Parse("2026-01-15T23:00:00Z", now)
	if !ok {
		t.Fatal("Parse failed under fallback zone")
	}
	if got.Hour() != 18 {
		t.Errorf("fallback conversion hour = %d, want 18", got.Hour())
	}
}
