package api

import (
	"context"
	"fmt"
	"net/http"
)

// Wish is a customization request opened by a consumer.
type Wish struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Details  string `json:"details"`
	Status   string `json:"status"`
	Consumer string `json:"consumer"`
	Merchant string `json:"merchant"`
	Timeline []struct {
		ID        int64  `json:"id"`
		Message   string `json:"message"`
		Author    string `json:"author"`
		CreatedAt string `json:"created_at"`
	} `json:"timeline"`
	CreatedAt string `json:"created_at"`
}

// CreateWishRequest opens a new customization wish.
type CreateWishRequest struct {
	Title   string `json:"title"`
	Details string `json:"details,omitempty"`
}

// AnalyticsMetric is one captured analytics data point.
type AnalyticsMetric struct {
	ID         int64          `json:"id"`
	Key        string         `json:"key"`
	Value      string         `json:"value"`
	CapturedAt string         `json:"captured_at"`
	Metadata   map[string]any `json:"metadata"`
}

// TerminalResult is the outcome of one admin terminal command.
type TerminalResult struct {
	ID        int64  `json:"id"`
	Command   string `json:"command"`
	Output    string `json:"output"`
	ExitCode  int    `json:"exit_code"`
	CreatedAt string `json:"created_at"`
}

func (c *Client) Wishes(ctx context.Context) ([]Wish, error) {
	var wishes []Wish
	if err := c.execute(ctx, http.MethodGet, "customization/wishes/", nil, &wishes); err != nil {
		return nil, err
	}
	return wishes, nil
}

func (c *Client) CreateWish(ctx context.Context, req CreateWishRequest) (*Wish, error) {
	var wish Wish
	if err := c.execute(ctx, http.MethodPost, "customization/wishes/", req, &wish); err != nil {
		return nil, err
	}
	return &wish, nil
}

func (c *Client) AddWishTimeline(ctx context.Context, id int64, message string) (*Wish, error) {
	var wish Wish
	body := map[string]string{"message": message}
	if err := c.execute(ctx, http.MethodPost, fmt.Sprintf("customization/wishes/%d/timeline/", id), body, &wish); err != nil {
		return nil, err
	}
	return &wish, nil
}

func (c *Client) AssignWish(ctx context.Context, id int64) (*Wish, error) {
	var wish Wish
	if err := c.execute(ctx, http.MethodPost, fmt.Sprintf("customization/wishes/%d/assign/", id), nil, &wish); err != nil {
		return nil, err
	}
	return &wish, nil
}

func (c *Client) AnalyticsOverview(ctx context.Context) (map[string]any, error) {
	overview := make(map[string]any)
	if err := c.execute(ctx, http.MethodGet, "analytics/overview/", nil, &overview); err != nil {
		return nil, err
	}
	return overview, nil
}

func (c *Client) AnalyticsMetrics(ctx context.Context) ([]AnalyticsMetric, error) {
	var metrics []AnalyticsMetric
	if err := c.execute(ctx, http.MethodGet, "analytics/metrics/", nil, &metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}

func (c *Client) RunTerminalCommand(ctx context.Context, command string) (*TerminalResult, error) {
	var result TerminalResult
	body := map[string]string{"command": command}
	if err := c.execute(ctx, http.MethodPost, "admin/terminal/", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) TerminalHistory(ctx context.Context) ([]TerminalResult, error) {
	var history []TerminalResult
	if err := c.execute(ctx, http.MethodGet, "admin/terminal/", nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}
