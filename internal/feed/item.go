// Package feed provides the item model and the shared in-memory item store
// for the dashboard session, with pub/sub for live updates.
package feed

import (
	"strings"
	"time"
)

// Label classifies an item's sentiment.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
)

// Item is one classified feed entry as delivered by the server, either in the
// bulk history response or as a single live push frame. Items carry no unique
// identifier; two structurally distinct payloads are two distinct items.
type Item struct {
	Title     string  `json:"title"`
	Summary   string  `json:"summary"`
	Link      string  `json:"link"`
	Category  string  `json:"category"`
	Sentiment float64 `json:"sentiment_score"`
	Label     Label   `json:"sentiment_label"`
	Published float64 `json:"published"` // Unix seconds, fractional.
}

// NormCategory returns the item's category lowercased, with an absent or
// empty category mapped to "unknown". All category comparisons in the
// dashboard go through this normal form.
func (it Item) NormCategory() string {
	c := strings.TrimSpace(it.Category)
	if c == "" {
		return "unknown"
	}
	return strings.ToLower(c)
}

// PublishedTime converts the wire timestamp to a time.Time.
func (it Item) PublishedTime() time.Time {
	sec := int64(it.Published)
	nsec := int64((it.Published - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
