package sites

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func pageOf(body string) Page {
	return Page{URL: "https://example.test/events", Body: []byte(body)}
}

func TestJSONLDSingleEvent(t *testing.T) {
	body := `<html><head><script type="application/ld+json">{
		"@type": "Event",
		"name": "Winter Jazz Night",
		"description": "An evening of <b>live jazz</b>.",
		"startDate": "2026-02-17T20:00:00-05:00",
		"endDate": "2026-02-17T23:00:00-05:00",
		"url": "https://example.test/jazz",
		"image": {"url": "https://example.test/jazz.jpg"},
		"offers": {"price": "25"},
		"location": {
			"name": "The Hall",
			"address": {"streetAddress": "1 Main St", "addressLocality": "Philadelphia", "addressRegion": "pa"}
		}
	}</script></head></html>`

	s := &JSONLD{}
	drafts := s.Extract(pageOf(body))
	if len(drafts) != 1 {
		t.Fatalf("got %d drafts, want 1", len(drafts))
	}

	d := drafts[0]
	if d.Title != "Winter Jazz Night" {
		t.Errorf("title = %q", d.Title)
	}
	if strings.Contains(d.Description, "<b>") {
		t.Errorf("description kept markup: %q", d.Description)
	}
	if d.DateText != "2026-02-17T20:00:00-05:00" {
		t.Errorf("date text = %q", d.DateText)
	}
	if d.Price != "$25" {
		t.Errorf("price = %q", d.Price)
	}
	if d.Region != "PA" {
		t.Errorf("region = %q", d.Region)
	}
	if d.Location != "The Hall, 1 Main St, Philadelphia, PA" {
		t.Errorf("location = %q", d.Location)
	}
	if d.ImageURL != "https://example.test/jazz.jpg" {
		t.Errorf("image = %q", d.ImageURL)
	}
}

func TestJSONLDItemList(t *testing.T) {
	body := `<script type="application/ld+json">{
		"@type": "ItemList",
		"itemListElement": [
			{"item": {"@type": "Event", "name": "First", "startDate": "2026-03-01"}},
			{"item": {"@type": "Event", "name": "Second", "startDate": "2026-03-02"}},
			{"item": {"@type": "Thing", "name": "Not an event"}}
		]
	}</script>`

	drafts := (&JSONLD{}).Extract(pageOf(body))
	if len(drafts) != 2 {
		t.Fatalf("got %d drafts, want 2", len(drafts))
	}
	if drafts[0].Title != "First" || drafts[1].Title != "Second" {
		t.Errorf("titles = %q, %q", drafts[0].Title, drafts[1].Title)
	}
}

func TestJSONLDSkipTitles(t *testing.T) {
	body := `<script type="application/ld+json">[
		{"@type": "Event", "name": "Gift Cards", "startDate": "2099-01-01"},
		{"@type": "Event", "name": "Harvest Festival", "startDate": "2026-10-01"}
	]</script>`

	s := &JSONLD{SkipTitles: []string{"gift cards"}}
	drafts := s.Extract(pageOf(body))
	if len(drafts) != 1 || drafts[0].Title != "Harvest Festival" {
		t.Fatalf("drafts = %+v", drafts)
	}
}

func TestChainFallsBackWhenStructuredDataBroken(t *testing.T) {
	// The ld+json block is truncated mid-object, so the structured
	// strategy yields nothing and the card strategy must take over.
	body := `<html>
		<script type="application/ld+json">{"@type": "Event", "name": "Broken</script>
		<div class="show"><h3>Card Show</h3></div>
	</html>`

	chain := Chain{
		&JSONLD{},
		&Cards{Selector: "div.show", Parse: func(p Page, sel *goquery.Selection) (Draft, bool) {
			return Draft{Title: cleanText(sel.Find("h3").Text()), DateText: "2026-05-01"}, true
		}},
	}

	drafts := chain.Extract(&RawDocument{Pages: []Page{pageOf(body)}})
	if len(drafts) != 1 || drafts[0].Title != "Card Show" {
		t.Fatalf("drafts = %+v", drafts)
	}
}

func TestScriptScanPairsNearestDate(t *testing.T) {
	body := `rsc:{"name":"The Venue"}...{"name":"Opening Act"},"startDate":"2026-04-10T20:00:00-04:00"` +
		strings.Repeat(" ", 2100) +
		`{"name":"Far Away Show"}`

	s := &ScriptScan{
		NameRe:    matcher(`"name"\s*:\s*"([^"]{3,100})"`),
		DateRe:    matcher(`"startDate"\s*:\s*"(\d{4}-\d{2}-\d{2}T[^"]+)"`),
		SkipNames: []string{"The Venue"},
	}

	drafts := s.Extract(pageOf(body))
	if len(drafts) != 1 {
		t.Fatalf("got %d drafts, want 1: %+v", len(drafts), drafts)
	}
	if drafts[0].Title != "Opening Act" {
		t.Errorf("title = %q", drafts[0].Title)
	}
	if drafts[0].DateText != "2026-04-10T20:00:00-04:00" {
		t.Errorf("date = %q", drafts[0].DateText)
	}
}

func TestScriptScanDeduplicatesNames(t *testing.T) {
	body := `{"name":"Same Show"},"startDate":"2026-04-10T20:00:00Z" {"name":"Same Show"},"startDate":"2026-04-10T20:00:00Z"`

	s := &ScriptScan{
		NameRe: matcher(`"name"\s*:\s*"([^"]{3,100})"`),
		DateRe: matcher(`"startDate"\s*:\s*"(\d{4}-\d{2}-\d{2}T[^"]+)"`),
	}
	if got := len(s.Extract(pageOf(body))); got != 1 {
		t.Fatalf("got %d drafts, want 1", got)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"0", "Free"},
		{"free", "Free"},
		{"$0", "Free"},
		{"25", "$25"},
		{"12.50", "$12.50"},
		{"$30.00", "$30.00"},
		{"donation suggested at the door please", "donation suggested at the door"},
	}
	for _, tt := range tests {
		if got := formatPrice(tt.in); got != tt.want {
			t.Errorf("formatPrice(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
