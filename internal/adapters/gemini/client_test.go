package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient("test-key", "gemini-2.5-flash")
	c.baseURL = server.URL
	return c
}

func TestSummarizeReturnsCandidateText(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "  오늘은 렌더러 작업에 집중했습니다.  "}}}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	summary, err := c.Summarize(context.Background(), "# 04/02 일일 요약\n...")
	require.NoError(t, err)

	assert.Equal(t, "오늘은 렌더러 작업에 집중했습니다.", summary)
	assert.Equal(t, "/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Contains(t, gotBody.Contents[0].Parts[0].Text, "# 04/02 일일 요약")
	assert.Contains(t, gotBody.Contents[0].Parts[0].Text, "활동 요약:")
}

func TestSummarizeNon200(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := c.Summarize(context.Background(), "report")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestSummarizeNoCandidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := c.Summarize(context.Background(), "report")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}
