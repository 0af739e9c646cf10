package filter

import (
	"testing"

	"newspulse/internal/feed"
)

func TestMatches(t *testing.T) {
	item := feed.Item{
		Title:    "Chip exports tighten",
		Summary:  "New semiconductor restrictions announced",
		Category: "Technology",
	}

	tests := []struct {
		name     string
		item     feed.Item
		category string
		query    string
		want     bool
	}{
		{"all category, empty query", item, "all", "", true},
		{"all accepts any category", feed.Item{Category: "x"}, "all", "", true},
		{"category case-insensitive", item, "TECHNOLOGY", "", true},
		{"category mismatch", item, "world", "", false},
		{"unknown matches empty category", feed.Item{}, "Unknown", "", true},
		{"query in title", item, "all", "chip", true},
		{"query only in summary", item, "all", "semiconductor", true},
		{"query case-insensitive", item, "all", "RESTRICTIONS", true},
		{"query no match", item, "all", "football", false},
		{"both clauses must hold", item, "world", "chip", false},
		{"category and query both match", item, "technology", "exports", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.item, tt.category, tt.query); got != tt.want {
				t.Errorf("Matches(cat=%q, q=%q) = %v, want %v", tt.category, tt.query, got, tt.want)
			}
		})
	}
}

func TestEmptyQueryAcceptsEverything(t *testing.T) {
	items := []feed.Item{
		{Title: "a"}, {Title: "b", Category: "world"}, {Summary: "c"},
	}
	for i, it := range items {
		if !Matches(it, "all", "") {
			t.Errorf("item %d rejected with category=all and empty query", i)
		}
	}
}
