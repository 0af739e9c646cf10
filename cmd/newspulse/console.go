package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"newspulse/internal/channel"
	"newspulse/internal/chat"
	"newspulse/internal/session"
	"newspulse/internal/tui"
	"newspulse/internal/util"
)

const consoleRows = 10

// runConsole is the --plain mode: a periodic dump of the session snapshot
// for terminals where the full-screen UI is unwanted (pipes, logs, tmux
// panes). No input handling; ctrl-c ends the session.
func runConsole(ctx context.Context, sess *session.Session) error {
	sess.Load(ctx)
	printSnapshot(sess.Snapshot())

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			printSnapshot(sess.Snapshot())
		case <-sess.Updates():
			printSnapshot(sess.Snapshot())
		case <-ctx.Done():
			return nil
		}
	}
}

func printSnapshot(snap session.Snapshot) {
	fmt.Printf("\n=== newspulse %s ===\n", time.Now().Format("15:04:05"))

	state := "offline"
	switch snap.Channel {
	case channel.StateConnected:
		state = "live"
	case channel.StateConnecting:
		state = "connecting"
	}
	fmt.Printf("channel: %s   items: %d shown / %d held / %d on server\n",
		state, len(snap.Items), snap.TotalItems, snap.Stats.TotalArticles)
	if snap.DroppedFrames > 0 {
		fmt.Printf("bad frames dropped: %d\n", snap.DroppedFrames)
	}

	fmt.Printf("trend: %s", tui.Sparkline(snap.TrendScores))
	if snap.HasOverall {
		fmt.Printf("   overall: %s", snap.OverallLabel)
	}
	fmt.Println()

	if len(snap.Categories) > 0 {
		var parts []string
		for _, c := range snap.Categories {
			parts = append(parts, fmt.Sprintf("%s %d (%+.2f)", c.Category, c.Count, c.AvgSentiment))
		}
		fmt.Printf("categories: %s\n", strings.Join(parts, "  "))
	}

	if len(snap.Insights.TrendingKeywords) > 0 {
		var parts []string
		for _, kw := range snap.Insights.TrendingKeywords {
			parts = append(parts, fmt.Sprintf("%s(%d)", kw.Keyword, kw.Count))
		}
		fmt.Printf("trending: %s\n", strings.Join(parts, " "))
	}

	n := len(snap.Items)
	if n > consoleRows {
		n = consoleRows
	}
	for _, it := range snap.Items[:n] {
		fmt.Printf("  %+.2f [%s] %s\n", it.Sentiment, it.NormCategory(), util.Truncate(it.Title, 90))
	}
	if len(snap.Items) > n {
		fmt.Printf("  ... %d more\n", len(snap.Items)-n)
	}

	for _, m := range snap.Messages {
		if m.Role == chat.RoleUser {
			fmt.Printf("you: %s\n", m.Text)
		} else {
			fmt.Printf("bot: %s\n", m.Text)
			for _, src := range chat.VisibleSources(m) {
				fmt.Printf("     %s %s\n", src.Title, src.Link)
			}
		}
	}
}
