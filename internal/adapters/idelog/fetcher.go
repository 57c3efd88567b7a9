// Package idelog pulls user queries out of IDE assistant dumps. Each project
// keeps its latest exchanges as markdown under <root>/<project>/latest/, with
// the verbatim prompt wrapped in <user_query> tags.
package idelog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jaekyeom/dayrecap/internal/domain"
	"github.com/jaekyeom/dayrecap/internal/ports"
)

const maxQueryRunes = 150

var userQueryRE = regexp.MustCompile(`(?s)<user_query>(.*?)</user_query>`)

type Fetcher struct {
	root   string
	logger *slog.Logger
}

var _ ports.QuerySource = (*Fetcher)(nil)

func NewFetcher(root string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Fetcher{root: root, logger: logger}
}

// FetchQueries scans every project's latest/ dump and keeps queries from
// files last modified on the target date.
func (f *Fetcher) FetchQueries(ctx context.Context, window domain.TimeWindow) ([]domain.ToolQuery, error) {
	if f.root == "" {
		return nil, nil
	}

	projects, err := os.ReadDir(f.root)
	if err != nil {
		return nil, nil
	}

	var queries []domain.ToolQuery
	for _, project := range projects {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !project.IsDir() {
			continue
		}

		latestDir := filepath.Join(f.root, project.Name(), "latest")
		dumps, err := os.ReadDir(latestDir)
		if err != nil {
			continue
		}

		for _, dump := range dumps {
			if dump.IsDir() || !strings.HasSuffix(dump.Name(), ".md") {
				continue
			}

			info, err := dump.Info()
			if err != nil || !window.SameDay(info.ModTime()) {
				continue
			}

			path := filepath.Join(latestDir, dump.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				f.logger.Warn("read query dump failed", "path", path, "error", err)
				continue
			}

			for _, match := range userQueryRE.FindAllStringSubmatch(string(data), -1) {
				text := strings.TrimSpace(match[1])
				if text == "" {
					continue
				}
				queries = append(queries, domain.ToolQuery{
					Project: project.Name(),
					Query:   domain.Truncate(text, maxQueryRunes),
				})
			}
		}
	}

	return queries, nil
}
