// Package agentsession recovers local agent-mode sessions: metadata JSON
// files paired with a sibling audit JSONL holding the conversation and tool
// calls.
package agentsession

import (
	"bufio"
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jaekyeom/dayrecap/internal/domain"
	"github.com/jaekyeom/dayrecap/internal/ports"
)

const scannerBuffer = 1 << 20

// Tool names that create files; every other file-writing tool counts as a
// modification.
var createToolNames = map[string]struct{}{
	"write_to_file": {},
}

var modifyToolNames = map[string]struct{}{
	"Edit":                       {},
	"Replace":                    {},
	"replace_file_content":       {},
	"multi_replace_file_content": {},
}

// Keys a tool input may use for its target path.
var pathKeys = []string{"file_path", "TargetFile", "path", "AbsolutePath"}

type Fetcher struct {
	root   string
	logger *slog.Logger
}

var _ ports.SessionSource = (*Fetcher)(nil)

func NewFetcher(root string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Fetcher{root: root, logger: logger}
}

type sessionMetadata struct {
	SessionID      string `json:"sessionId"`
	Title          string `json:"title"`
	CreatedAt      int64  `json:"createdAt"`
	LastActivityAt int64  `json:"lastActivityAt"`
}

type auditEntry struct {
	Type    string       `json:"type"`
	Message auditMessage `json:"message"`
}

type auditMessage struct {
	Content json.RawMessage `json:"content"`
}

type auditContentItem struct {
	Type  string          `json:"type"`
	Text  string          `json:"text"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// FetchSessions returns one SessionContext per session whose last activity
// falls on the target date. Sessions without an audit log are skipped.
func (f *Fetcher) FetchSessions(ctx context.Context, window domain.TimeWindow) ([]domain.SessionContext, error) {
	if f.root == "" {
		return nil, nil
	}
	if _, err := os.Stat(f.root); err != nil {
		return nil, nil
	}

	var sessions []domain.SessionContext
	walkErr := filepath.WalkDir(f.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			f.logger.Warn("session walk failed", "path", path, "error", err)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		if strings.Contains(path, "todos") {
			return nil
		}

		session, ok := f.readSession(path, window)
		if ok {
			sessions = append(sessions, session)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return sessions, nil
}

func (f *Fetcher) readSession(path string, window domain.TimeWindow) (domain.SessionContext, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.SessionContext{}, false
	}

	var meta sessionMetadata
	if err := json.Unmarshal(data, &meta); err != nil || meta.LastActivityAt == 0 {
		return domain.SessionContext{}, false
	}

	lastActivity := time.UnixMilli(meta.LastActivityAt)
	if !window.SameDay(lastActivity) {
		return domain.SessionContext{}, false
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	auditPath := filepath.Join(filepath.Dir(path), stem, "audit.jsonl")

	audit, err := os.Open(auditPath)
	if err != nil {
		return domain.SessionContext{}, false
	}
	defer audit.Close()

	session := domain.SessionContext{
		ID:    meta.SessionID,
		Title: meta.Title,
		Goal:  "No user input found",
	}
	if session.Title == "" {
		session.Title = "Untitled Session"
	}
	if meta.CreatedAt > 0 {
		session.DurationMinutes = int(time.UnixMilli(meta.LastActivityAt).Sub(time.UnixMilli(meta.CreatedAt)).Minutes())
	}

	created := make(map[string]struct{})
	modified := make(map[string]struct{})

	scanner := bufio.NewScanner(audit)
	scanner.Buffer(make([]byte, 64*1024), scannerBuffer)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry auditEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}

		switch entry.Type {
		case "user":
			session.InteractionCount++
			text := firstText(entry.Message.Content)
			if text == "" {
				continue
			}
			if session.InteractionCount == 1 {
				session.Goal = domain.TruncateGoal(text)
			}
			session.FullMessages = append(session.FullMessages, strings.TrimSpace(text))
		case "assistant":
			collectFileEffects(entry.Message.Content, created, modified)
		}
	}
	if err := scanner.Err(); err != nil {
		f.logger.Warn("audit log scan failed", "path", auditPath, "error", err)
	}

	session.FilesCreated = sortedKeys(created)
	session.FilesModified = sortedKeys(modified)

	return session, true
}

// firstText returns a string content verbatim, or the first text part of a
// typed-part list.
func firstText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}

	var items []auditContentItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return ""
	}
	for _, item := range items {
		if item.Type == "text" && item.Text != "" {
			return item.Text
		}
	}

	return ""
}

func collectFileEffects(raw json.RawMessage, created, modified map[string]struct{}) {
	var items []auditContentItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return
	}

	for _, item := range items {
		if item.Type != "tool_use" {
			continue
		}

		path := toolTargetPath(item.Input)
		if path == "" {
			continue
		}

		name := filepath.Base(path)
		if _, ok := createToolNames[item.Name]; ok {
			created[name] = struct{}{}
		} else if _, ok := modifyToolNames[item.Name]; ok {
			modified[name] = struct{}{}
		}
	}
}

func toolTargetPath(input json.RawMessage) string {
	if len(input) == 0 {
		return ""
	}

	var params map[string]json.RawMessage
	if err := json.Unmarshal(input, &params); err != nil {
		return ""
	}

	for _, key := range pathKeys {
		raw, ok := params[key]
		if !ok {
			continue
		}
		var value string
		if json.Unmarshal(raw, &value) == nil && value != "" {
			return value
		}
	}

	return ""
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}

	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}
