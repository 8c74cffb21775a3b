// Package categorize maps listing text to the fixed category
// enumeration by ordered keyword matching.
package categorize

import (
	"strings"

	"phillyevents/internal/models/domain"
)

type rule struct {
	keyword  string
	category domain.Category
}

// rules is evaluated top to bottom; the first hit wins. A slice, not a
// map - the order is a contract and map iteration would randomize it.
var rules = []rule{
	{"run", domain.CategoryRunning},
	{"race", domain.CategoryRunning},
	{"marathon", domain.CategoryRunning},
	{"5k", domain.CategoryRunning},
	{"10k", domain.CategoryRunning},
	{"yoga", domain.CategoryRunning},
	{"fitness", domain.CategoryRunning},

	{"jazz", domain.CategoryMusic},
	{"concert", domain.CategoryMusic},
	{"band", domain.CategoryMusic},
	{"dj", domain.CategoryMusic},
	{"live music", domain.CategoryMusic},
	{"symphony", domain.CategoryMusic},
	{"orchestra", domain.CategoryMusic},

	{"food", domain.CategoryFoodAndDrink},
	{"drink", domain.CategoryFoodAndDrink},
	{"beer", domain.CategoryFoodAndDrink},
	{"wine", domain.CategoryFoodAndDrink},
	{"tasting", domain.CategoryFoodAndDrink},
	{"dining", domain.CategoryFoodAndDrink},
	{"brunch", domain.CategoryFoodAndDrink},
	{"cocktail", domain.CategoryFoodAndDrink},

	{"art", domain.CategoryArtsAndCulture},
	{"museum", domain.CategoryArtsAndCulture},
	{"gallery", domain.CategoryArtsAndCulture},
	{"theatre", domain.CategoryArtsAndCulture},
	{"theater", domain.CategoryArtsAndCulture},
	{"film", domain.CategoryArtsAndCulture},
	{"comedy", domain.CategoryArtsAndCulture},
	{"dance", domain.CategoryArtsAndCulture},
	{"exhibition", domain.CategoryArtsAndCulture},

	{"network", domain.CategoryBusiness},
	{"entrepreneur", domain.CategoryBusiness},
	{"startup", domain.CategoryBusiness},
	{"career", domain.CategoryBusiness},
	{"professional", domain.CategoryBusiness},

	{"festival", domain.CategoryCommunity},
	{"fair", domain.CategoryCommunity},
	{"market", domain.CategoryCommunity},
	{"parade", domain.CategoryCommunity},
}

// Categorize scans text (title plus description) case-insensitively and
// returns the category of the first matching keyword, or fallback when
// nothing matches.
func Categorize(text string, fallback domain.Category) domain.Category {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if strings.Contains(lower, r.keyword) {
			return r.category
		}
	}
	return fallback
}
