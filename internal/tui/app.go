// Package tui renders a dashboard session in the terminal. It is strictly a
// consumer of session snapshots: all dashboard logic stays in the core, and
// user input is routed back as named actions.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"newspulse/internal/channel"
	"newspulse/internal/chat"
	"newspulse/internal/feed"
	"newspulse/internal/filter"
	"newspulse/internal/session"
	"newspulse/internal/util"
)

// inputMode says what the text input currently feeds.
type inputMode int

const (
	modeBrowse inputMode = iota
	modeSearch
	modeChat
)

const maxListRows = 15

// Messages.
type updateMsg struct{}
type tickMsg time.Time
type loadedMsg struct{}
type actionDoneMsg struct{}

// App is the bubbletea model for the dashboard.
type App struct {
	sess *session.Session

	input   textinput.Model
	spin    spinner.Model
	mode    inputMode
	loading bool

	catIdx int // index into snapshot categories, -1 = all

	width  int
	height int
}

// NewApp creates the TUI around an existing session.
func NewApp(sess *session.Session) *App {
	ti := textinput.New()
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	return &App{sess: sess, input: ti, spin: sp, catIdx: -1, loading: true}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, sess *session.Session) error {
	p := tea.NewProgram(NewApp(sess), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.spin.Tick,
		a.loadCmd(),
		a.waitForUpdate(),
		tickCmd(),
	)
}

// loadCmd runs the bulk load off the update loop.
func (a *App) loadCmd() tea.Cmd {
	sess := a.sess
	return func() tea.Msg {
		sess.Load(context.Background())
		return loadedMsg{}
	}
}

// waitForUpdate blocks on the session's update channel and converts each
// tick into a repaint.
func (a *App) waitForUpdate() tea.Cmd {
	ch := a.sess.Updates()
	return func() tea.Msg {
		<-ch
		return updateMsg{}
	}
}

// dispatchCmd routes a user action to the core without blocking the UI;
// chat submissions in particular wait on the network.
func (a *App) dispatchCmd(act session.Action) tea.Cmd {
	sess := a.sess
	return func() tea.Msg {
		sess.Dispatch(context.Background(), act)
		return actionDoneMsg{}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case updateMsg:
		return a, a.waitForUpdate()

	case tickMsg:
		return a, tickCmd()

	case loadedMsg:
		a.loading = false
		return a, nil

	case actionDoneMsg:
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.mode != modeBrowse {
		switch msg.String() {
		case "esc":
			a.mode = modeBrowse
			a.input.Blur()
			return a, nil
		case "enter":
			return a.commitInput()
		default:
			var cmd tea.Cmd
			a.input, cmd = a.input.Update(msg)
			if a.mode == modeSearch {
				// Live search: every keystroke re-filters.
				return a, tea.Batch(cmd,
					a.dispatchCmd(session.Action{Kind: session.ActionSearchChanged, Value: a.input.Value()}))
			}
			return a, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "/":
		a.mode = modeSearch
		a.input.Placeholder = "search title or summary"
		a.input.SetValue(a.sess.Snapshot().Query)
		a.input.Focus()
		return a, nil
	case "c":
		a.mode = modeChat
		a.input.Placeholder = "ask the assistant"
		a.input.SetValue("")
		a.input.Focus()
		return a, nil
	case "r":
		a.loading = true
		return a, tea.Batch(a.loadCmd(),
			a.dispatchCmd(session.Action{Kind: session.ActionRefreshRequested}))
	case "tab":
		return a, a.cycleCategory()
	}
	return a, nil
}

func (a *App) commitInput() (tea.Model, tea.Cmd) {
	value := a.input.Value()
	mode := a.mode
	a.mode = modeBrowse
	a.input.Blur()

	switch mode {
	case modeSearch:
		return a, a.dispatchCmd(session.Action{Kind: session.ActionSearchChanged, Value: value})
	case modeChat:
		a.input.SetValue("")
		return a, a.dispatchCmd(session.Action{Kind: session.ActionMessageSubmitted, Value: value})
	}
	return a, nil
}

// cycleCategory steps through all → first category → … → all.
func (a *App) cycleCategory() tea.Cmd {
	snap := a.sess.Snapshot()
	a.catIdx++
	if a.catIdx >= len(snap.Categories) {
		a.catIdx = -1
	}
	value := filter.CategoryAll
	if a.catIdx >= 0 {
		value = snap.Categories[a.catIdx].Category
	}
	return a.dispatchCmd(session.Action{Kind: session.ActionCategorySelected, Value: value})
}

func (a *App) View() string {
	snap := a.sess.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render(" newspulse "))
	b.WriteString("  ")
	b.WriteString(statusLine(snap, a.loading, a.spin.View()))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("sentiment trend"))
	b.WriteString("  ")
	b.WriteString(trendStyle.Render(Sparkline(snap.TrendScores)))
	if snap.HasOverall {
		b.WriteString("  overall: ")
		lbl := string(snap.OverallLabel)
		switch snap.OverallLabel {
		case feed.LabelPositive:
			b.WriteString(positiveStyle.Render(lbl))
		case feed.LabelNegative:
			b.WriteString(negativeStyle.Render(lbl))
		default:
			b.WriteString(neutralStyle.Render(lbl))
		}
	}
	b.WriteString("\n\n")

	b.WriteString(renderCategories(snap))
	b.WriteString("\n")
	b.WriteString(renderKeywords(snap))
	b.WriteString("\n")
	b.WriteString(renderItems(snap))
	b.WriteString("\n")
	b.WriteString(renderChat(snap))

	b.WriteString("\n")
	switch a.mode {
	case modeBrowse:
		b.WriteString(dimStyle.Render("q quit · / search · c chat · tab category · r refresh"))
	default:
		b.WriteString(promptStyle.Render("> "))
		b.WriteString(a.input.View())
	}
	b.WriteString("\n")
	return b.String()
}

func statusLine(snap session.Snapshot, loading bool, spin string) string {
	var st string
	switch snap.Channel {
	case channel.StateConnected:
		st = connectedSt.Render("● live")
	case channel.StateConnecting:
		st = connectingSt.Render("● connecting")
	default:
		st = disconnectSt.Render("● offline")
	}

	parts := []string{st,
		fmt.Sprintf("%d shown / %d held / %d on server",
			len(snap.Items), snap.TotalItems, snap.Stats.TotalArticles)}
	if snap.ActiveCategory != filter.CategoryAll {
		parts = append(parts, "category: "+snap.ActiveCategory)
	}
	if snap.Query != "" {
		parts = append(parts, "search: "+snap.Query)
	}
	if snap.DroppedFrames > 0 {
		parts = append(parts, disconnectSt.Render(fmt.Sprintf("%d bad frames", snap.DroppedFrames)))
	}
	if loading {
		parts = append(parts, spin+" loading")
	}
	return statusStyle.Render(strings.Join(parts, "  ·  "))
}

// Sparkline maps sentiment scores in [-1,1] onto block glyphs, oldest first.
func Sparkline(scores []float64) string {
	if len(scores) == 0 {
		return "(no data)"
	}
	ramp := []rune("▁▂▃▄▅▆▇█")
	var b strings.Builder
	for _, s := range scores {
		if s < -1 {
			s = -1
		}
		if s > 1 {
			s = 1
		}
		idx := int((s + 1) / 2 * float64(len(ramp)-1))
		b.WriteRune(ramp[idx])
	}
	return b.String()
}

func renderCategories(snap session.Snapshot) string {
	if len(snap.Categories) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(sectionStyle.Render("categories"))
	b.WriteString("\n")
	for _, c := range snap.Categories {
		b.WriteString(fmt.Sprintf("  %s %3d  %s\n",
			categoryStyle.Render(fmt.Sprintf("%-12s", c.Category)),
			c.Count,
			sentimentStyle(c.AvgSentiment).Render(fmt.Sprintf("%+.2f", c.AvgSentiment))))
	}
	return b.String()
}

func renderKeywords(snap session.Snapshot) string {
	if len(snap.Insights.TrendingKeywords) == 0 {
		return ""
	}
	var parts []string
	for _, kw := range snap.Insights.TrendingKeywords {
		parts = append(parts, fmt.Sprintf("%s(%d)", kw.Keyword, kw.Count))
	}
	return sectionStyle.Render("trending") + "  " + statusStyle.Render(strings.Join(parts, " ")) + "\n"
}

func renderItems(snap session.Snapshot) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("feed"))
	b.WriteString("\n")
	if len(snap.Items) == 0 {
		b.WriteString(dimStyle.Render("  nothing matches the current filter\n"))
		return b.String()
	}
	n := len(snap.Items)
	if n > maxListRows {
		n = maxListRows
	}
	for _, it := range snap.Items[:n] {
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			sentimentStyle(it.Sentiment).Render(fmt.Sprintf("%+.2f", it.Sentiment)),
			categoryStyle.Render(fmt.Sprintf("[%s]", it.NormCategory())),
			headlineStyle.Render(util.Truncate(it.Title, 80))))
	}
	if len(snap.Items) > n {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more\n", len(snap.Items)-n)))
	}
	return b.String()
}

func renderChat(snap session.Snapshot) string {
	if len(snap.Messages) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(sectionStyle.Render("assistant"))
	b.WriteString("\n")
	for _, m := range snap.Messages {
		if m.Role == chat.RoleUser {
			b.WriteString(userMsgStyle.Render("  you: "))
			b.WriteString(m.Text)
		} else {
			b.WriteString(botMsgStyle.Render("  bot: " + m.Text))
			for _, src := range chat.VisibleSources(m) {
				b.WriteString("\n       ")
				b.WriteString(sourceStyle.Render(src.Title))
				b.WriteString(dimStyle.Render(" " + src.Link))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
