// Package gemini turns a finished daily report into a short natural-language
// summary via the Gemini generateContent REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jaekyeom/dayrecap/internal/ports"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	requestTimeout = 60 * time.Second
	maxBodyBytes   = 4 << 20
)

const promptTemplate = `다음은 하루 동안의 활동 요약 리포트입니다. 이 내용을 바탕으로 **5가지 핵심 활동**을 아래 형식에 맞춰 요약해주세요.

요구사항:
1. **타이틀(Title)**: 활동의 핵심 내용을 명확하게 요약 (예: "로그인 페이지 UI 구현")
2. **설명(Description)**: 구체적인 작업 내용, 성과, 또는 이슈 (한 문장)
3. **관련 링크(Related Links)**: 해당 활동과 직접 관련된 URL (없으면 생략)
4. **번호 매기기**: 1번부터 5번까지 중요도 순으로 나열
5. **언어**: 한국어
6. **링크 형식 필수 준수**: 반드시 ` + "`[링크 제목](URL)`" + ` 형식을 사용할 것. (예: ` + "`[GitHub PR](https://...)`" + `)

출력 형식 (반드시 준수):
1. **[타이틀]**
   [설명]
   - 🔗 [링크 제목](URL)
   - 🔗 [링크 제목](URL)

2. **[타이틀]**
   [설명]
   ...

리포트 내용:
%s

활동 요약:`

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

var _ ports.Summarizer = (*Client)(nil)

func NewClient(apiKey, model string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Summarize sends the report through the summary prompt and returns the
// model's text.
func (c *Client) Summarize(ctx context.Context, report string) (string, error) {
	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(promptTemplate, report)}}}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode summary request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build summary request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}

	return text, nil
}
