// Package clihistory reads the coding CLI's command history, a JSONL file of
// prompts with millisecond timestamps.
package clihistory

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jaekyeom/dayrecap/internal/domain"
	"github.com/jaekyeom/dayrecap/internal/ports"
)

const scannerBuffer = 1 << 20

type Fetcher struct {
	path   string
	logger *slog.Logger
}

var _ ports.HistorySource = (*Fetcher)(nil)

func NewFetcher(path string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Fetcher{path: path, logger: logger}
}

type historyLine struct {
	Timestamp int64  `json:"timestamp"`
	Display   string `json:"display"`
	SessionID string `json:"sessionId"`
}

// FetchCommands returns the day's prompts in chronological order.
func (f *Fetcher) FetchCommands(ctx context.Context, window domain.TimeWindow) ([]domain.CommandEntry, error) {
	if f.path == "" {
		return nil, nil
	}

	file, err := os.Open(f.path)
	if err != nil {
		return nil, nil
	}
	defer file.Close()

	var entries []domain.CommandEntry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), scannerBuffer)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record historyLine
		if err := json.Unmarshal([]byte(line), &record); err != nil || record.Timestamp == 0 {
			continue
		}

		at := time.UnixMilli(record.Timestamp)
		if !window.SameDay(at) {
			continue
		}

		command := strings.TrimSpace(record.Display)
		if command == "" {
			continue
		}

		entries = append(entries, domain.CommandEntry{
			Time:      at,
			Command:   command,
			SessionID: record.SessionID,
		})
	}
	if err := scanner.Err(); err != nil {
		f.logger.Warn("history scan failed", "path", f.path, "error", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Time.Before(entries[j].Time)
	})

	return entries, nil
}
