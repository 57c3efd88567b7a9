// Package activitywatch fetches focused-window and browser-tab events from a
// local ActivityWatch-compatible tracker over its REST API.
package activitywatch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jaekyeom/dayrecap/internal/domain"
	"github.com/jaekyeom/dayrecap/internal/ports"
)

const (
	bucketTypeWindow = "currentwindow"
	bucketTypeWeb    = "web.tab.current"

	// The lock screen reports as its own app while the machine is idle.
	lockScreenApp = "loginwindow"

	bucketListTimeout = 5 * time.Second
	eventsTimeout     = 10 * time.Second
)

// Client queries one tracker instance. MinDuration is the strict lower bound
// a single event must exceed to count at all.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	minDuration float64
	logger      *slog.Logger
}

var _ ports.ActivitySource = (*Client)(nil)

func NewClient(host string, port int, minDuration float64, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:     fmt.Sprintf("http://%s:%d/api/0", host, port),
		httpClient:  httpClient,
		minDuration: minDuration,
		logger:      logger,
	}
}

type bucketInfo struct {
	Type string `json:"type"`
}

type event struct {
	Duration float64         `json:"duration"`
	Data     json.RawMessage `json:"data"`
}

type windowEventData struct {
	App string `json:"app"`
}

type webEventData struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// FetchWindowActivity accumulates focus seconds per application name over
// every currentwindow bucket. Partial data is returned when individual
// buckets fail; only a failed bucket listing yields an error.
func (c *Client) FetchWindowActivity(ctx context.Context, window domain.TimeWindow) (map[string]float64, error) {
	bucketIDs, err := c.bucketIDsByType(ctx, bucketTypeWindow)
	if err != nil {
		return nil, fmt.Errorf("list window buckets: %w", err)
	}
	if len(bucketIDs) == 0 {
		c.logger.Warn("no window activity bucket found")
		return map[string]float64{}, nil
	}

	durations := make(map[string]float64)
	for _, bucketID := range bucketIDs {
		events, err := c.fetchEvents(ctx, bucketID, window)
		if err != nil {
			c.logger.Warn("window bucket fetch failed", "bucket", bucketID, "error", err)
			continue
		}

		for _, ev := range events {
			var data windowEventData
			if err := json.Unmarshal(ev.Data, &data); err != nil || data.App == "" {
				continue
			}
			if strings.EqualFold(data.App, lockScreenApp) {
				continue
			}
			if ev.Duration > c.minDuration {
				durations[data.App] += ev.Duration
			}
		}
	}

	return durations, nil
}

// FetchWebActivity accumulates seconds per domain across every web bucket
// and keeps each qualifying event as an individual visit.
func (c *Client) FetchWebActivity(ctx context.Context, window domain.TimeWindow) (map[string]float64, []domain.URLVisit, error) {
	bucketIDs, err := c.bucketIDsByType(ctx, bucketTypeWeb)
	if err != nil {
		return nil, nil, fmt.Errorf("list web buckets: %w", err)
	}
	if len(bucketIDs) == 0 {
		c.logger.Warn("no web activity bucket found")
		return map[string]float64{}, nil, nil
	}

	durations := make(map[string]float64)
	var visits []domain.URLVisit
	for _, bucketID := range bucketIDs {
		events, err := c.fetchEvents(ctx, bucketID, window)
		if err != nil {
			c.logger.Warn("web bucket fetch failed", "bucket", bucketID, "error", err)
			continue
		}

		for _, ev := range events {
			var data webEventData
			if err := json.Unmarshal(ev.Data, &data); err != nil || data.URL == "" {
				continue
			}
			if ev.Duration <= c.minDuration {
				continue
			}

			visitDomain := domain.ExtractDomain(data.URL)
			durations[visitDomain] += ev.Duration
			visits = append(visits, domain.URLVisit{
				URL:             data.URL,
				Domain:          visitDomain,
				Title:           data.Title,
				DurationSeconds: ev.Duration,
			})
		}
	}

	return durations, visits, nil
}

func (c *Client) bucketIDsByType(ctx context.Context, bucketType string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, bucketListTimeout)
	defer cancel()

	// The trailing slash is required by the tracker's router.
	var buckets map[string]bucketInfo
	if err := c.getJSON(ctx, c.baseURL+"/buckets/", &buckets); err != nil {
		return nil, err
	}

	var ids []string
	for id, bucket := range buckets {
		if bucket.Type == bucketType {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

func (c *Client) fetchEvents(ctx context.Context, bucketID string, window domain.TimeWindow) ([]event, error) {
	ctx, cancel := context.WithTimeout(ctx, eventsTimeout)
	defer cancel()

	query := url.Values{}
	query.Set("start", window.Start.Format(time.RFC3339))
	query.Set("end", window.End.Format(time.RFC3339))
	query.Set("limit", "-1")

	endpoint := fmt.Sprintf("%s/buckets/%s/events?%s", c.baseURL, url.PathEscape(bucketID), query.Encode())

	var events []event
	if err := c.getJSON(ctx, endpoint, &events); err != nil {
		return nil, err
	}

	return events, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, 32<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("status %d: %s", response.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	return nil
}
