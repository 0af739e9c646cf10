// Package analytics derives trend and aggregate views from the item store:
// a bounded rolling window of sentiment scores for the trend chart,
// per-category counts and means, and an overall sentiment classification.
package analytics

import "newspulse/internal/feed"

// WindowCapacity is the fixed size of the rolling trend window.
const WindowCapacity = 20

// TrendWindow is a fixed-capacity FIFO of sentiment scores held in
// chronological order (oldest first, ready for plotting). Pushing past
// capacity evicts the chronologically oldest score.
type TrendWindow struct {
	scores []float64
}

// NewTrendWindow creates an empty window.
func NewTrendWindow() *TrendWindow {
	return &TrendWindow{scores: make([]float64, 0, WindowCapacity)}
}

// Seed initializes the window from a newest-first item sequence, as returned
// by the store. The head of the sequence holds the most recent items; those
// are taken (up to capacity) and reversed into chronological order. Any
// previous window contents are discarded.
func (w *TrendWindow) Seed(items []feed.Item) {
	n := len(items)
	if n > WindowCapacity {
		n = WindowCapacity
	}
	w.scores = w.scores[:0]
	for i := n - 1; i >= 0; i-- {
		w.scores = append(w.scores, items[i].Sentiment)
	}
}

// Push appends one score, evicting the oldest if the window is full.
func (w *TrendWindow) Push(score float64) {
	w.scores = append(w.scores, score)
	if len(w.scores) > WindowCapacity {
		w.scores = w.scores[1:]
	}
}

// Scores returns a copy of the window in chronological order.
func (w *TrendWindow) Scores() []float64 {
	out := make([]float64, len(w.scores))
	copy(out, w.scores)
	return out
}

// Len returns the number of scores currently held.
func (w *TrendWindow) Len() int {
	return len(w.scores)
}

// CategoryStat is the derived aggregate for one category.
type CategoryStat struct {
	Category     string
	Count        int
	AvgSentiment float64
}

// CategoryAggregate groups items by normalized category and computes the
// count and mean sentiment per group. Output order is the order of first
// appearance scanning the input, so a fixed input ordering yields an
// identical result every time.
func CategoryAggregate(items []feed.Item) []CategoryStat {
	idx := make(map[string]int)
	var stats []CategoryStat
	sums := make(map[string]float64)

	for _, it := range items {
		cat := it.NormCategory()
		i, ok := idx[cat]
		if !ok {
			i = len(stats)
			idx[cat] = i
			stats = append(stats, CategoryStat{Category: cat})
		}
		stats[i].Count++
		sums[cat] += it.Sentiment
	}

	for i := range stats {
		stats[i].AvgSentiment = sums[stats[i].Category] / float64(stats[i].Count)
	}
	return stats
}

// OverallLabel classifies the mean sentiment over all items. The second
// return is false when there are no items, in which case no label should be
// shown at all.
func OverallLabel(items []feed.Item) (feed.Label, bool) {
	if len(items) == 0 {
		return "", false
	}
	var sum float64
	for _, it := range items {
		sum += it.Sentiment
	}
	avg := sum / float64(len(items))
	switch {
	case avg > 0.2:
		return feed.LabelPositive, true
	case avg < -0.2:
		return feed.LabelNegative, true
	default:
		return feed.LabelNeutral, true
	}
}
