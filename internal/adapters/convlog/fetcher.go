// Package convlog scans JSON-Lines conversation logs and pairs the target
// day's turns into intent/result tasks.
package convlog

import (
	"bufio"
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jaekyeom/dayrecap/internal/domain"
	"github.com/jaekyeom/dayrecap/internal/ports"
)

const scannerBuffer = 1 << 20

// Fetcher walks a log root recursively for *.jsonl files.
type Fetcher struct {
	root   string
	logger *slog.Logger
}

var _ ports.ConversationSource = (*Fetcher)(nil)

func NewFetcher(root string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Fetcher{root: root, logger: logger}
}

type logLine struct {
	Timestamp string  `json:"timestamp"`
	IsMeta    bool    `json:"isMeta"`
	Message   message `json:"message"`
}

type message struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// FetchTasks collects the window's user/assistant turns across all log files
// and builds conversation tasks from them. A missing root is an empty
// result; malformed lines and unreadable files are skipped.
func (f *Fetcher) FetchTasks(ctx context.Context, window domain.TimeWindow) ([]domain.ConversationTask, error) {
	if f.root == "" {
		return nil, nil
	}
	if _, err := os.Stat(f.root); err != nil {
		return nil, nil
	}

	var messages []domain.Message
	walkErr := filepath.WalkDir(f.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			f.logger.Warn("conversation log walk failed", "path", path, "error", err)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".jsonl") {
			return nil
		}

		messages = append(messages, f.readFile(path, window)...)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return domain.BuildTasks(messages), nil
}

func (f *Fetcher) readFile(path string, window domain.TimeWindow) []domain.Message {
	file, err := os.Open(path)
	if err != nil {
		f.logger.Warn("conversation log open failed", "path", path, "error", err)
		return nil
	}
	defer file.Close()

	var messages []domain.Message
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), scannerBuffer)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry logLine
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry.IsMeta || entry.Timestamp == "" {
			continue
		}

		ts, err := time.Parse(time.RFC3339, entry.Timestamp)
		if err != nil {
			continue
		}
		// Entries are attributed to the report window's local day, not the
		// day in the timestamp's own zone.
		if !window.SameDay(ts) {
			continue
		}

		role := entry.Message.Role
		if role != "user" && role != "assistant" {
			continue
		}

		content := strings.TrimSpace(extractText(entry.Message.Content))
		if utf8.RuneCountInString(content) < 2 {
			continue
		}

		messages = append(messages, domain.Message{Time: ts, Role: role, Content: content})
	}

	if err := scanner.Err(); err != nil {
		f.logger.Warn("conversation log scan failed", "path", path, "error", err)
	}

	return messages
}

// extractText handles both content shapes: a plain string or a list of typed
// parts, of which only text parts count.
func extractText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}

	var parts []contentPart
	if err := json.Unmarshal(raw, &parts); err != nil {
		return ""
	}

	texts := make([]string, 0, len(parts))
	for _, part := range parts {
		if part.Type == "text" && part.Text != "" {
			texts = append(texts, part.Text)
		}
	}

	return strings.Join(texts, " ")
}
