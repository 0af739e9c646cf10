// Package apiclient is the HTTP client for the news-intelligence API:
// bulk article history, server-side insights, stats, and the chat endpoint.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"newspulse/internal/chat"
	"newspulse/internal/feed"
)

// KeywordCount is one trending keyword from the insights endpoint.
type KeywordCount struct {
	Keyword string `json:"_id"`
	Count   int    `json:"count"`
}

// ServerCategoryStat is the server's own per-category sentiment aggregate,
// computed over its recent window rather than the client's store.
type ServerCategoryStat struct {
	Category     string  `json:"_id"`
	AvgSentiment float64 `json:"avg_sentiment"`
	Count        int     `json:"count"`
}

// Insights is the response of GET /api/insights.
type Insights struct {
	TrendingKeywords []KeywordCount       `json:"trending_keywords"`
	CategoryStats    []ServerCategoryStat `json:"category_stats"`
}

// Stats is the response of GET /api/stats.
type Stats struct {
	TotalArticles int `json:"total_articles"`
}

// Client talks to the news-intelligence server. Requests share one
// rate limiter so refresh spamming cannot flood the server; there are no
// retries — a failed fetch leaves the dashboard with stale data and a
// failed chat call is surfaced by the chat session itself.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client for the API rooted at baseURL, allowing at most
// ratePerMin requests per minute.
func NewClient(baseURL string, ratePerMin int) *Client {
	if ratePerMin <= 0 {
		ratePerMin = 30
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(float64(ratePerMin)/60.0), 5),
	}
}

// Articles retrieves the historical snapshot, newest first.
func (c *Client) Articles(ctx context.Context) ([]feed.Item, error) {
	var items []feed.Item
	if err := c.getJSON(ctx, "/api/articles", &items); err != nil {
		return nil, fmt.Errorf("fetching articles: %w", err)
	}
	return items, nil
}

// Insights retrieves trending keywords and server-side category stats.
func (c *Client) Insights(ctx context.Context) (Insights, error) {
	var ins Insights
	if err := c.getJSON(ctx, "/api/insights", &ins); err != nil {
		return Insights{}, fmt.Errorf("fetching insights: %w", err)
	}
	return ins, nil
}

// Stats retrieves the server's total article count.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	if err := c.getJSON(ctx, "/api/stats", &st); err != nil {
		return Stats{}, fmt.Errorf("fetching stats: %w", err)
	}
	return st, nil
}

// Chat posts one question and decodes the assistant's reply. It satisfies
// chat.Poster.
func (c *Client) Chat(ctx context.Context, text string) (chat.Reply, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return chat.Reply{}, err
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return chat.Reply{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return chat.Reply{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("posting chat: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return chat.Reply{}, fmt.Errorf("chat: unexpected status %d", resp.StatusCode)
	}

	var reply chat.Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return chat.Reply{}, fmt.Errorf("decoding chat reply: %w", err)
	}
	return reply, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
