package categorize

import (
	"testing"

	"phillyevents/internal/models/domain"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		fallback domain.Category
		want     domain.Category
	}{
		{
			name:     "running keyword",
			text:     "Cold Hearts 5K",
			fallback: domain.CategoryCommunity,
			want:     domain.CategoryRunning,
		},
		{
			name:     "case insensitive",
			text:     "JAZZ Night at the Lounge",
			fallback: domain.CategoryCommunity,
			want:     domain.CategoryMusic,
		},
		{
			name:     "matches in description too",
			text:     "Second Saturday An evening of wine tasting",
			fallback: domain.CategoryCommunity,
			want:     domain.CategoryFoodAndDrink,
		},
		{
			// "run" is declared before "beer", so declaration order,
			// not best match, decides.
			name:     "first declared keyword wins",
			text:     "Beer Run Social Club",
			fallback: domain.CategoryCommunity,
			want:     domain.CategoryRunning,
		},
		{
			name:     "no match uses fallback",
			text:     "Something entirely unremarkable",
			fallback: domain.CategoryBusiness,
			want:     domain.CategoryBusiness,
		},
		{
			name:     "substring match",
			text:     "Marathoners meetup",
			fallback: domain.CategoryCommunity,
			want:     domain.CategoryRunning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.text, tt.fallback); got != tt.want {
				t.Errorf("Categorize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCategorizeAlwaysInEnumeration(t *testing.T) {
	inputs := []string{"film festival", "startup mixer", "parade", "xyz"}
	for _, in := range inputs {
		got := Categorize(in, domain.CategoryCommunity)
		if !got.Valid() {
			t.Errorf("Categorize(%q) produced invalid category %q", in, got)
		}
	}
}
