package archive

import (
	"context"
	"path/filepath"
	"testing"

	"newspulse/internal/feed"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestAppendAndCount(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	items := []feed.Item{
		{Title: "one", Link: "l1", Category: "Tech", Sentiment: 0.5, Label: feed.LabelPositive, Published: 1700000000},
		{Title: "two", Link: "l2", Sentiment: -0.3, Label: feed.LabelNegative, Published: 1700000100},
	}
	for _, it := range items {
		if err := a.Append(ctx, it); err != nil {
			t.Fatalf("Append(%q) error: %v", it.Title, err)
		}
	}

	n, err := a.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
}

func TestRecentNewestFirst(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	for _, title := range []string{"oldest", "middle", "newest"} {
		if err := a.Append(ctx, feed.Item{Title: title, Label: feed.LabelNeutral}); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}

	got, err := a.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent(2) returned %d items", len(got))
	}
	if got[0].Title != "newest" || got[1].Title != "middle" {
		t.Errorf("Recent order = [%q %q], want [newest middle]", got[0].Title, got[1].Title)
	}
}

func TestAppendNormalizesCategory(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	if err := a.Append(ctx, feed.Item{Title: "x", Category: "", Label: feed.LabelNeutral}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	got, err := a.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if got[0].Category != "unknown" {
		t.Errorf("archived category = %q, want %q", got[0].Category, "unknown")
	}
}
