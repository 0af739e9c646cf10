// Package chat manages the request/response assistant exchange: an
// append-only message log with optimistic local echo, a fixed fallback on
// request failure, and a render-time source view deduplicated by title.
package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"newspulse/internal/util"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Source is one evidence link attached to an assistant answer.
type Source struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Reply is the assistant's response to one question.
type Reply struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// Message is one entry in the session log. Sources keeps the assistant's
// original list, duplicates included; deduplication happens in
// VisibleSources because it is a rendering concern, not a storage one.
type Message struct {
	Role    Role
	Text    string
	Sources []Source
}

// FallbackText is appended as a bot message when the assistant request fails
// for any reason. The user has to resend; there is no automatic retry.
const FallbackText = "Sorry — I couldn't reach the assistant. Please try again."

// sourceTitleMax bounds rendered source titles; the full link is preserved.
const sourceTitleMax = 30

// Poster issues one assistant request. Implemented by apiclient.Client.
type Poster interface {
	Chat(ctx context.Context, text string) (Reply, error)
}

// Session is the append-only chat log for one dashboard session.
type Session struct {
	mu       sync.RWMutex
	messages []Message
	poster   Poster
	log      *slog.Logger
}

// NewSession creates an empty session backed by the given poster.
func NewSession(poster Poster, log *slog.Logger) *Session {
	return &Session{poster: poster, log: log}
}

// Send submits one question. A blank text is a no-op. The user message is
// appended immediately, before the request is issued, so the log always shows
// the question even when the assistant is unreachable. The call blocks until
// the bot message (answer or fallback) has been appended.
func (s *Session) Send(ctx context.Context, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	s.append(Message{Role: RoleUser, Text: text})

	reply, err := s.poster.Chat(ctx, text)
	if err != nil {
		s.log.Warn("chat request failed", "error", err)
		s.append(Message{Role: RoleBot, Text: FallbackText})
		return
	}
	s.append(Message{Role: RoleBot, Text: reply.Answer, Sources: reply.Sources})
}

// Messages returns a copy of the log in append order.
func (s *Session) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) append(m Message) {
	s.mu.Lock()
	s.messages = append(s.messages, m)
	s.mu.Unlock()
}

// VisibleSources produces the rendered source badges for a message: one badge
// per distinct title (first occurrence wins, order preserved), title cut to
// 30 runes with an ellipsis, link untouched for navigation.
func VisibleSources(m Message) []Source {
	seen := make(map[string]bool, len(m.Sources))
	var out []Source
	for _, src := range m.Sources {
		if seen[src.Title] {
			continue
		}
		seen[src.Title] = true
		out = append(out, Source{
			Title: util.Truncate(src.Title, sourceTitleMax),
			Link:  src.Link,
		})
	}
	return out
}
