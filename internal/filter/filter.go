// Package filter holds the single visibility predicate applied everywhere
// the dashboard decides whether an item is shown: bulk render, live-push
// render, and filter changes all go through Matches.
package filter

import (
	"strings"

	"newspulse/internal/feed"
)

// CategoryAll is the active-category value that accepts every item.
const CategoryAll = "all"

// Matches reports whether an item passes the active category and free-text
// query. The category clause compares normalized categories
// case-insensitively; the text clause is a case-insensitive substring test
// against both title and summary. An empty query accepts everything.
func Matches(it feed.Item, activeCategory, query string) bool {
	return categoryMatches(it, activeCategory) && textMatches(it, query)
}

func categoryMatches(it feed.Item, activeCategory string) bool {
	if activeCategory == CategoryAll {
		return true
	}
	return it.NormCategory() == strings.ToLower(activeCategory)
}

func textMatches(it feed.Item, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(it.Title), q) ||
		strings.Contains(strings.ToLower(it.Summary), q)
}
