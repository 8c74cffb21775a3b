package sites

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"phillyevents/internal/models/domain"
)

const runSignUpAPI = "https://runsignup.com/rest/races"

// Look this far ahead; big races open registration over a year out.
const runSignUpHorizonDays = 548

// runSignUpExcludeWords disqualify a listing outright.
var runSignUpExcludeWords = []string{"virtual", "online", "challenge only", "fundraiser only"}

// runSignUpOutsideWords catch charity teams that register a Philly
// address for a marathon held elsewhere.
var runSignUpOutsideWords = []string{
	"berlin marathon", "boston marathon", "new york marathon", "chicago marathon",
	"london marathon", "tokyo marathon", "nyc marathon",
}

// RunSignUp pulls Philadelphia races from the RunSignUp public API.
// A race document nests sub-events per distance; the earliest upcoming
// in-person start per day becomes one catalog event.
type RunSignUp struct {
	client *http.Client
	now    func() time.Time
}

func NewRunSignUp(client *http.Client, now func() time.Time) *RunSignUp {
	return &RunSignUp{client: client, now: now}
}

func (r *RunSignUp) Config() Config {
	return Config{
		Name:            "Philadelphia Running Races",
		URL:             "https://runsignup.com/races/pa/philadelphia",
		DefaultCategory: domain.CategoryRunning,
		DefaultLocation: "Philadelphia, PA",
	}
}

func (r *RunSignUp) Fetch(ctx context.Context) (*RawDocument, error) {
	now := r.now()
	params := url.Values{
		"city":             {"Philadelphia"},
		"state":            {"PA"},
		"events":           {"T"},
		"format":           {"json"},
		"start_date":       {now.Format("2006-01-02")},
		"end_date":         {now.AddDate(0, 0, runSignUpHorizonDays).Format("2006-01-02")},
		"results_per_page": {"50"},
		"page":             {"1"},
	}
	return fetchPages(ctx, r.client, []string{runSignUpAPI + "?" + params.Encode()},
		map[string]string{"Accept": "application/json"})
}

func (r *RunSignUp) Extract(doc *RawDocument) []Draft {
	var drafts []Draft
	seen := make(map[string]struct{})

	for _, p := range doc.Pages {
		var payload struct {
			Races []struct {
				Race map[string]any `json:"race"`
			} `json:"races"`
		}
		if err := json.Unmarshal(p.Body, &payload); err != nil {
			continue
		}
		for _, wrapper := range payload.Races {
			drafts = append(drafts, r.parseRace(wrapper.Race, seen)...)
		}
	}
	return drafts
}

func (r *RunSignUp) parseRace(race map[string]any, seen map[string]struct{}) []Draft {
	name := cleanText(jsonStr(race, "name"))
	if name == "" || containsAny(name, runSignUpOutsideWords) {
		return nil
	}

	addr := jsonMap(race, "address")
	if state := strings.ToUpper(cleanText(jsonStr(addr, "state"))); state != "" && state != "PA" {
		return nil
	}
	location := r.location(addr)

	raceURL := jsonStr(race, "url")
	if raceURL == "" {
		raceURL = r.Config().URL
	}
	description := truncate(stripTags(jsonStr(race, "description")), 500)

	subEvents := jsonList(race, "events")
	if len(subEvents) == 0 {
		if d, ok := r.raceLevel(race, name, location, raceURL, description, seen); ok {
			return []Draft{d}
		}
		return nil
	}

	inPerson := false
	for _, raw := range subEvents {
		if !strings.Contains(strings.ToLower(jsonStr(subEvent(raw), "event_type")), "virtual") {
			inPerson = true
			break
		}
	}
	if !inPerson {
		return nil
	}

	var drafts []Draft
	for _, raw := range subEvents {
		if d, ok := r.subEventDraft(name, subEvent(raw), location, raceURL, description, seen); ok {
			drafts = append(drafts, d)
		}
	}
	if len(drafts) == 0 {
		// Every sub-event was filtered; the race-level date may still hold.
		if d, ok := r.raceLevel(race, name, location, raceURL, description, seen); ok {
			drafts = append(drafts, d)
		}
	}
	return drafts
}

// subEvent unwraps the two shapes the API returns: a plain dict or a
// dict wrapped under an "event" key.
func subEvent(raw any) map[string]any {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	if _, direct := m["event_id"]; direct {
		return m
	}
	if inner, ok := m["event"].(map[string]any); ok {
		return inner
	}
	return m
}

func (r *RunSignUp) subEventDraft(raceName string, sub map[string]any, location, raceURL, description string, seen map[string]struct{}) (Draft, bool) {
	if sub == nil {
		return Draft{}, false
	}
	if strings.Contains(strings.ToLower(jsonStr(sub, "event_type")), "virtual") {
		return Draft{}, false
	}
	if containsAny(raceName, runSignUpExcludeWords) {
		return Draft{}, false
	}

	startText := jsonStr(sub, "start_time")
	if startText == "" {
		return Draft{}, false
	}

	// One entry per race per day regardless of how many distances run.
	day := startText
	if len(day) > 10 {
		day = day[:10]
	}
	key := raceName + "_" + day
	if _, dup := seen[key]; dup {
		return Draft{}, false
	}
	seen[key] = struct{}{}

	if distance, unit := jsonStr(sub, "distance"), jsonStr(sub, "distance_unit"); distance != "" && unit != "" {
		dist := distance + " " + unit
		if !strings.Contains(strings.ToLower(description), strings.ToLower(dist)) {
			description = cleanText(dist + " race. " + description)
		}
	}

	return Draft{
		Title:       raceName,
		Description: truncate(description, 500),
		DateText:    startText,
		Location:    location,
		Category:    domain.CategoryRunning,
		Price:       cheapestFee(jsonList(sub, "registration_periods")),
		URL:         raceURL,
	}, true
}

func (r *RunSignUp) raceLevel(race map[string]any, name, location, raceURL, description string, seen map[string]struct{}) (Draft, bool) {
	if containsAny(name, runSignUpExcludeWords) {
		return Draft{}, false
	}
	nextDate := jsonStr(race, "next_date")
	if nextDate == "" {
		return Draft{}, false
	}
	key := name + "_" + nextDate
	if _, dup := seen[key]; dup {
		return Draft{}, false
	}
	seen[key] = struct{}{}

	return Draft{
		Title:       name,
		Description: description,
		// next_date is MM/DD/YYYY; races start in the morning.
		DateText: nextDate,
		TimeText: "8:00 AM",
		Location: location,
		Category: domain.CategoryRunning,
		URL:      raceURL,
	}, true
}

func (r *RunSignUp) location(addr map[string]any) string {
	city := cleanText(jsonStr(addr, "city"))
	if city == "" {
		city = "Philadelphia"
	}
	street := cleanText(jsonStr(addr, "street"))
	if street == "" {
		return city + ", PA"
	}
	zip := cleanText(jsonStr(addr, "zipcode"))
	return cleanText(strings.TrimSpace(fmt.Sprintf("%s, %s, PA %s", street, city, zip)))
}

// cheapestFee picks the lowest registration fee across periods. The
// API returns fees as "$30.00" strings.
func cheapestFee(periods []any) string {
	min := -1.0
	for _, raw := range periods {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if inner, ok := m["registration_period"].(map[string]any); ok {
			m = inner
		}
		fee := strings.NewReplacer("$", "", ",", "").Replace(jsonStr(m, "race_fee"))
		v, err := strconv.ParseFloat(strings.TrimSpace(fee), 64)
		if err != nil {
			continue
		}
		if min < 0 || v < min {
			min = v
		}
	}
	switch {
	case min < 0:
		return ""
	case min == 0:
		return "Free"
	default:
		return fmt.Sprintf("$%.2f", min)
	}
}

func containsAny(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
