package activitywatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jaekyeom/dayrecap/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTracker struct {
	buckets map[string]map[string]string
	events  map[string][]map[string]any
	fail    map[string]bool
}

func (f *fakeTracker) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/0/buckets/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/0/buckets/")
		if rest == "" {
			_ = json.NewEncoder(w).Encode(f.buckets)
			return
		}

		bucketID, _, _ := strings.Cut(rest, "/")
		bucketID, _ = url.PathUnescape(bucketID)
		if f.fail[bucketID] {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(f.events[bucketID])
	})
	return mux
}

func newTestClient(t *testing.T, tracker *fakeTracker, minDuration float64) *Client {
	t.Helper()

	server := httptest.NewServer(tracker.handler())
	t.Cleanup(server.Close)

	parsed, err := url.Parse(server.URL)
	require.NoError(t, err)

	host, portStr, _ := strings.Cut(parsed.Host, ":")
	var port int
	_, err = fmt.Sscanf(portStr, "%d", &port)
	require.NoError(t, err)

	return NewClient(host, port, minDuration, server.Client(), nil)
}

func testWindow() domain.TimeWindow {
	return domain.NewTimeWindow(time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC))
}

func TestFetchWindowActivityAccumulatesPerApp(t *testing.T) {
	tracker := &fakeTracker{
		buckets: map[string]map[string]string{
			"aw-watcher-window_host": {"type": "currentwindow"},
		},
		events: map[string][]map[string]any{
			"aw-watcher-window_host": {
				{"duration": 4000.0, "data": map[string]any{"app": "Terminal"}},
				{"duration": 700.0, "data": map[string]any{"app": "Chrome"}},
				{"duration": 500.0, "data": map[string]any{"app": "Chrome"}},
				{"duration": 300.0, "data": map[string]any{"app": "loginwindow"}},
				{"duration": 10.0, "data": map[string]any{"app": "Mail"}}, // exactly at threshold
				{"duration": 11.0, "data": map[string]any{"app": "Mail"}},
			},
		},
	}

	client := newTestClient(t, tracker, 10)
	durations, err := client.FetchWindowActivity(context.Background(), testWindow())
	require.NoError(t, err)

	assert.InDelta(t, 4000, durations["Terminal"], 0.001)
	assert.InDelta(t, 1200, durations["Chrome"], 0.001)
	assert.InDelta(t, 11, durations["Mail"], 0.001)
	assert.NotContains(t, durations, "loginwindow")
}

func TestFetchWindowActivityNoBucketYieldsEmpty(t *testing.T) {
	tracker := &fakeTracker{buckets: map[string]map[string]string{}}

	client := newTestClient(t, tracker, 10)
	durations, err := client.FetchWindowActivity(context.Background(), testWindow())
	require.NoError(t, err)
	assert.Empty(t, durations)
}

func TestFetchWebActivityMergesBucketsAndIsolatesFailures(t *testing.T) {
	tracker := &fakeTracker{
		buckets: map[string]map[string]string{
			"aw-watcher-web-chrome":  {"type": "web.tab.current"},
			"aw-watcher-web-firefox": {"type": "web.tab.current"},
			"aw-watcher-window_host": {"type": "currentwindow"},
		},
		events: map[string][]map[string]any{
			"aw-watcher-web-chrome": {
				{"duration": 120.0, "data": map[string]any{"url": "https://example.com/a", "title": "A"}},
				{"duration": 80.0, "data": map[string]any{"url": "https://example.com/b", "title": "B"}},
				{"duration": 5.0, "data": map[string]any{"url": "https://tiny.dev/x", "title": "below threshold"}},
			},
		},
		fail: map[string]bool{"aw-watcher-web-firefox": true},
	}

	client := newTestClient(t, tracker, 10)
	durations, visits, err := client.FetchWebActivity(context.Background(), testWindow())
	require.NoError(t, err)

	assert.InDelta(t, 200, durations["example.com"], 0.001)
	assert.NotContains(t, durations, "tiny.dev")
	require.Len(t, visits, 2)
	assert.Equal(t, "example.com", visits[0].Domain)
}

func TestFetchWindowActivityBucketListErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	parsed, err := url.Parse(server.URL)
	require.NoError(t, err)
	host, portStr, _ := strings.Cut(parsed.Host, ":")
	var port int
	_, err = fmt.Sscanf(portStr, "%d", &port)
	require.NoError(t, err)

	client := NewClient(host, port, 10, server.Client(), nil)
	_, err = client.FetchWindowActivity(context.Background(), testWindow())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list window buckets")
}
