package sites

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"phillyevents/internal/models/domain"
)

// Philadelphia Runner's signature annual races. The store's own page
// carries no dates, so each race is looked up on RunSignUp by name.
var phillyRunnerRaces = []struct {
	name    string
	infoURL string
}{
	{"Cold Hearts 5K", "https://www.philadelphiarunner.com/content/pr-races"},
	{"Philly Run Fest", "https://www.phillyrunfest.com/"},
	{"The Philly 10K", "https://www.thephilly10k.com/"},
	{"Philadelphia Distance Run", "https://www.philadelphiadistancerun.com/"},
}

var phillyRunnerWordRe = regexp.MustCompile(`[^a-z0-9 ]`)

// Words too generic to carry a match on their own.
var phillyRunnerStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "run": {}, "race": {},
}

// PhillyRunner resolves the store's sponsored races to live RunSignUp
// listings. One search per race; the page Tag remembers which race the
// response answers.
type PhillyRunner struct {
	client *http.Client
	now    func() time.Time
}

func NewPhillyRunner(client *http.Client, now func() time.Time) *PhillyRunner {
	return &PhillyRunner{client: client, now: now}
}

func (r *PhillyRunner) Config() Config {
	return Config{
		Name:            "Philadelphia Runner",
		URL:             "https://www.philadelphiarunner.com/content/pr-races",
		DefaultCategory: domain.CategoryRunning,
		DefaultLocation: "Philadelphia, PA",
	}
}

func (r *PhillyRunner) Fetch(ctx context.Context) (*RawDocument, error) {
	headers := map[string]string{"Accept": "application/json"}
	doc := &RawDocument{}
	var lastErr error

	for _, race := range phillyRunnerRaces {
		params := url.Values{
			"search":           {race.name},
			"state":            {"PA"},
			"events":           {"T"},
			"format":           {"json"},
			"start_date":       {r.now().Format("2006-01-02")},
			"results_per_page": {"10"},
		}
		page, err := fetchPage(ctx, r.client, runSignUpAPI+"?"+params.Encode(), headers)
		if err != nil {
			lastErr = err
			continue
		}
		page.Tag = race.name
		doc.Pages = append(doc.Pages, page)
	}
	if len(doc.Pages) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return doc, nil
}

func (r *PhillyRunner) Extract(doc *RawDocument) []Draft {
	seen := make(map[string]struct{})
	var drafts []Draft

	for _, p := range doc.Pages {
		race, ok := r.matchedRace(p)
		if !ok {
			continue
		}
		drafts = append(drafts, r.raceDrafts(race, p.Tag, seen)...)
	}
	return drafts
}

// matchedRace picks the first search result whose name overlaps the
// queried race; the search API ranks loosely and returns lookalikes.
func (r *PhillyRunner) matchedRace(p Page) (map[string]any, bool) {
	var payload struct {
		Races []struct {
			Race map[string]any `json:"race"`
		} `json:"races"`
	}
	if err := json.Unmarshal(p.Body, &payload); err != nil {
		return nil, false
	}

	for _, wrapper := range payload.Races {
		name := cleanText(jsonStr(wrapper.Race, "name"))
		if !namesMatch(p.Tag, name) {
			continue
		}
		addr := jsonMap(wrapper.Race, "address")
		if state := strings.ToUpper(cleanText(jsonStr(addr, "state"))); state != "" && state != "PA" {
			continue
		}
		return wrapper.Race, true
	}
	return nil, false
}

func (r *PhillyRunner) raceDrafts(race map[string]any, queried string, seen map[string]struct{}) []Draft {
	raceName := cleanText(jsonStr(race, "name"))
	raceURL := jsonStr(race, "url")
	if raceURL == "" {
		raceURL = r.infoURL(queried)
	}
	description := truncate(stripTags(jsonStr(race, "description")), 500)
	location := r.location(jsonMap(race, "address"))

	subEvents := jsonList(race, "events")
	if len(subEvents) == 0 {
		if nextDate := jsonStr(race, "next_date"); nextDate != "" {
			key := raceName + "_" + nextDate
			if _, dup := seen[key]; dup {
				return nil
			}
			seen[key] = struct{}{}
			return []Draft{{
				Title:       raceName,
				Description: description,
				DateText:    nextDate,
				TimeText:    "8:00 AM",
				Location:    location,
				Category:    domain.CategoryRunning,
				URL:         raceURL,
			}}
		}
		return nil
	}

	var drafts []Draft
	for _, raw := range subEvents {
		sub := subEvent(raw)
		if sub == nil {
			continue
		}
		startText := jsonStr(sub, "start_time")
		if startText == "" {
			continue
		}

		title := raceName
		if subName := cleanText(jsonStr(sub, "name")); subName != "" &&
			!strings.Contains(strings.ToLower(raceName), strings.ToLower(subName)) {
			title = raceName + " - " + subName
		}

		key := title + "_" + truncate(startText, 16)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		desc := description
		if distance, unit := jsonStr(sub, "distance"), jsonStr(sub, "distance_unit"); distance != "" {
			desc = cleanText(strings.TrimSpace(distance+" "+unit) + " race. " + desc)
		}

		drafts = append(drafts, Draft{
			Title:       title,
			Description: truncate(desc, 500),
			DateText:    startText,
			Location:    location,
			Category:    domain.CategoryRunning,
			Price:       cheapestFee(jsonList(sub, "registration_periods")),
			URL:         raceURL,
		})
	}
	return drafts
}

func (r *PhillyRunner) infoURL(raceName string) string {
	for _, race := range phillyRunnerRaces {
		if race.name == raceName {
			return race.infoURL
		}
	}
	return r.Config().URL
}

func (r *PhillyRunner) location(addr map[string]any) string {
	city := cleanText(jsonStr(addr, "city"))
	if city == "" {
		city = "Philadelphia"
	}
	if street := cleanText(jsonStr(addr, "street")); street != "" {
		return cleanText(street + ", " + city + ", PA " + cleanText(jsonStr(addr, "zipcode")))
	}
	return city + ", PA"
}

// namesMatch accepts a candidate when at least half the meaningful
// words of the query appear in it.
func namesMatch(query, candidate string) bool {
	q := phillyRunnerWordRe.ReplaceAllString(strings.ToLower(query), "")
	c := phillyRunnerWordRe.ReplaceAllString(strings.ToLower(candidate), "")

	candidateWords := make(map[string]struct{})
	for _, w := range strings.Fields(c) {
		candidateWords[w] = struct{}{}
	}

	key, hit := 0, 0
	for _, w := range strings.Fields(q) {
		if _, stop := phillyRunnerStopWords[w]; stop {
			continue
		}
		key++
		if _, ok := candidateWords[w]; ok {
			hit++
		}
	}
	return key > 0 && hit*2 >= key
}
