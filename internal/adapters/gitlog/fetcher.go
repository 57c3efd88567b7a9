// Package gitlog collects a day's git activity across the configured working
// directories, plus the objectives recorded by the assistant's session logs.
package gitlog

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jaekyeom/dayrecap/internal/domain"
	"github.com/jaekyeom/dayrecap/internal/ports"
)

const (
	gitTimeout       = 5 * time.Second
	minObjectiveLen  = 5
	objectiveMarker  = "USER Objective:"
	overviewRelative = ".system_generated/logs/overview.txt"
)

// commandRunner executes a command in a directory and returns its stdout.
// Tests swap it out for a canned map.
type commandRunner func(ctx context.Context, dir string, name string, args ...string) (string, error)

type Fetcher struct {
	workDirs []string
	brainDir string
	run      commandRunner
	logger   *slog.Logger
}

var _ ports.RepoSource = (*Fetcher)(nil)

func NewFetcher(workDirs []string, brainDir string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Fetcher{
		workDirs: workDirs,
		brainDir: brainDir,
		run:      runCommand,
		logger:   logger,
	}
}

func runCommand(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("run %s: %w", name, err)
	}

	return string(out), nil
}

// FetchRepoActivity merges touched files and commit subjects from every
// existing work directory with the day's recorded objectives. A repo that
// fails to answer is skipped with a warning.
func (f *Fetcher) FetchRepoActivity(ctx context.Context, window domain.TimeWindow) (domain.RepoActivity, error) {
	since := window.Start.Format("2006-01-02") + " 00:00:00"
	until := window.Start.Format("2006-01-02") + " 23:59:59"

	files := make(map[string]struct{})
	var commits []string

	for _, dir := range f.workDirs {
		if ctx.Err() != nil {
			return domain.RepoActivity{}, ctx.Err()
		}
		if _, err := os.Stat(dir); err != nil {
			continue
		}

		for _, file := range f.gitLines(ctx, dir, since, until, "--name-only", "--pretty=format:") {
			if strings.ContainsAny(file, "/.") {
				files[file] = struct{}{}
			}
		}
		for _, subject := range f.gitLines(ctx, dir, since, until, "--pretty=format:%s") {
			commits = append(commits, subject)
		}
	}

	activity := domain.RepoActivity{
		FilesModified:  domain.CapSlice(sortedKeys(files), domain.MaxRepoFiles),
		CommitMessages: domain.CapSlice(commits, domain.MaxCommitMessages),
		UserQueries:    domain.CapSlice(f.readObjectives(window), domain.MaxRepoUserQueries),
	}

	return activity, nil
}

func (f *Fetcher) gitLines(ctx context.Context, dir, since, until string, formatArgs ...string) []string {
	ctx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()

	args := append([]string{"log", "--since", since, "--until", until}, formatArgs...)
	out, err := f.run(ctx, dir, "git", args...)
	if err != nil {
		f.logger.Warn("git log failed", "dir", dir, "error", err)
		return nil
	}

	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

// readObjectives pulls "USER Objective:" lines out of the assistant brain
// directory, keyed by conversation directories touched on the target date.
func (f *Fetcher) readObjectives(window domain.TimeWindow) []string {
	if f.brainDir == "" {
		return nil
	}

	conversations, err := os.ReadDir(f.brainDir)
	if err != nil {
		return nil
	}

	var objectives []string
	for _, conv := range conversations {
		if !conv.IsDir() {
			continue
		}

		info, err := conv.Info()
		if err != nil || !window.SameDay(info.ModTime()) {
			continue
		}

		path := filepath.Join(f.brainDir, conv.Name(), overviewRelative)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		lines := strings.Split(string(data), "\n")
		for i, line := range lines {
			if !strings.Contains(line, objectiveMarker) || i+1 >= len(lines) {
				continue
			}
			objective := strings.TrimSpace(lines[i+1])
			if len([]rune(objective)) > minObjectiveLen {
				objectives = append(objectives, objective)
			}
		}
	}

	return objectives
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
