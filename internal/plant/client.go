package plant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bm9tech/wrapdash/internal/config"
)

// Client talks to the plant backend that records and shift-classifies
// machine events. All methods are safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend client from config.
func NewClient(cfg *config.PlantConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithBase creates a client pointed at an explicit base URL.
// Used by tests against httptest servers.
func NewClientWithBase(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	apiURL := c.baseURL + path
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("malformed backend response for %s: %w", path, err)
	}
	return nil
}

// FetchDetails retrieves the completion event log for one (date, machine)
// pair. date is YYYY-MM-DD.
func (c *Client) FetchDetails(ctx context.Context, date string, machine Machine) ([]CompletionEvent, error) {
	q := url.Values{}
	q.Set("date", date)
	q.Set("machine", string(machine))

	var resp detailsResponse
	if err := c.getJSON(ctx, "/production/details", q, &resp); err != nil {
		return nil, err
	}
	return resp.Logs, nil
}

// FetchDailyStats retrieves the aggregated production counters for one date.
// An empty date asks the backend for today.
func (c *Client) FetchDailyStats(ctx context.Context, date string) (*DailyStats, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}

	var stats DailyStats
	if err := c.getJSON(ctx, "/production/stats", q, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// FetchMonthlySummary retrieves the backend-aggregated summary for one month.
func (c *Client) FetchMonthlySummary(ctx context.Context, year, month int) (*MonthlySummary, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	q.Set("month", fmt.Sprintf("%02d", month))

	var sum MonthlySummary
	if err := c.getJSON(ctx, "/production/summary/monthly", q, &sum); err != nil {
		return nil, err
	}
	if sum.Year == 0 {
		sum.Year = year
	}
	if sum.Month == 0 {
		sum.Month = month
	}
	return &sum, nil
}

// FetchYearlySummary retrieves the backend-aggregated summary for one year.
func (c *Client) FetchYearlySummary(ctx context.Context, year int) (*YearlySummary, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))

	var sum YearlySummary
	if err := c.getJSON(ctx, "/production/summary/yearly", q, &sum); err != nil {
		return nil, err
	}
	if sum.Year == 0 {
		sum.Year = year
	}
	return &sum, nil
}

// FetchStatus retrieves the live status of all machines.
func (c *Client) FetchStatus(ctx context.Context) (StatusSnapshot, error) {
	var snap StatusSnapshot
	if err := c.getJSON(ctx, "/status", nil, &snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// SendControl forwards a control command (START, STOP, RESET) to one machine.
// The caller surfaces failures to the operator; they are never swallowed.
func (c *Client) SendControl(ctx context.Context, machine Machine, command string) error {
	payload, err := json.Marshal(map[string]string{"command": command})
	if err != nil {
		return err
	}

	apiURL := fmt.Sprintf("%s/control/%s", c.baseURL, machine)
	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("control dispatch failed with status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
