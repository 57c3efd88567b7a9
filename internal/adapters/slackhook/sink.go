// Package slackhook posts the daily summary to a Slack incoming webhook,
// converting the markdown report into Slack mrkdwn first.
package slackhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/jaekyeom/dayrecap/internal/ports"
)

const requestTimeout = 10 * time.Second

var (
	linkRE     = regexp.MustCompile(`\[([^\]]+)\]\s*\(([^)]+)\)`)
	pageLinkRE = regexp.MustCompile(`(🔗.*?)\s*\((https?://[^)]+)\)`)
	headingRE  = regexp.MustCompile(`(?m)^# (.+)$`)
	boldRE     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	bulletRE   = regexp.MustCompile(`(?m)^- `)
	attachRE   = regexp.MustCompile(`(?m)^  📎`)
)

type Sink struct {
	webhookURL string
	httpClient *http.Client
}

var _ ports.Messenger = (*Sink)(nil)

func NewSink(webhookURL string) *Sink {
	return &Sink{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type webhookPayload struct {
	Text        string `json:"text"`
	UnfurlLinks bool   `json:"unfurl_links"`
}

// Post sends the message with link unfurling off; a digest full of URLs
// would otherwise explode into previews.
func (s *Sink) Post(ctx context.Context, message string) error {
	body, err := json.Marshal(webhookPayload{Text: ToMrkdwn(message), UnfurlLinks: false})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned status %d", resp.StatusCode)
	}

	return nil
}

// ToMrkdwn rewrites common markdown into Slack's dialect: <url|title> links,
// *bold* headings, and • bullets.
func ToMrkdwn(markdown string) string {
	text := linkRE.ReplaceAllString(markdown, "<$2|$1>")
	text = pageLinkRE.ReplaceAllString(text, "<$2|$1>")
	text = headingRE.ReplaceAllString(text, "*$1*")
	text = boldRE.ReplaceAllString(text, "*$1*")
	text = bulletRE.ReplaceAllString(text, "• ")
	text = attachRE.ReplaceAllString(text, "    📎")

	return strings.TrimSpace(text)
}
