package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category is the fixed event category enumeration. Values are part of
// the API contract and are stored as-is.
type Category string

const (
	CategoryMusic          Category = "music"
	CategoryFoodAndDrink   Category = "foodAndDrink"
	CategoryArtsAndCulture Category = "artsAndCulture"
	CategoryRunning        Category = "running"
	CategoryCommunity      Category = "community"
	CategoryBusiness       Category = "business"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryMusic,
	CategoryFoodAndDrink,
	CategoryArtsAndCulture,
	CategoryRunning,
	CategoryCommunity,
	CategoryBusiness,
}

// Valid reports whether c is a member of the enumeration.
func (c Category) Valid() bool {
	switch c {
	case CategoryMusic, CategoryFoodAndDrink, CategoryArtsAndCulture,
		CategoryRunning, CategoryCommunity, CategoryBusiness:
		return true
	default:
		return false
	}
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory returns the matching category, or (community, false)
// when the input is not a member of the enumeration.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	if c.Valid() {
		return c, true
	}
	return CategoryCommunity, false
}

// Event - the canonical, store-ready event produced by normalization.
type Event struct {
	ID          uuid.UUID
	Title       string
	Description string
	Start       time.Time
	End         *time.Time
	Location    string
	Category    Category
	Price       string
	Source      string
	SourceURL   string
	ImageURL    string
}

// IdentityKey resolves the dedup identity of an event: the source URL
// when present, otherwise title plus start.
func (e Event) IdentityKey() string {
	if e.SourceURL != "" {
		return e.SourceURL
	}
	return e.Title + "|" + e.Start.Format(time.RFC3339)
}
