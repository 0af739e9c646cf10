// Package view projects the item store into the visible ordered sequence
// handed to a renderer. It is the seam between the dashboard core and
// whatever paints the screen.
package view

import (
	"newspulse/internal/feed"
	"newspulse/internal/filter"
)

// Project filters items through the visibility predicate, preserving store
// order. It is a pure function: the input slice is not modified and the
// result shares no backing storage with it.
func Project(items []feed.Item, activeCategory, query string) []feed.Item {
	visible := make([]feed.Item, 0, len(items))
	for _, it := range items {
		if filter.Matches(it, activeCategory, query) {
			visible = append(visible, it)
		}
	}
	return visible
}
