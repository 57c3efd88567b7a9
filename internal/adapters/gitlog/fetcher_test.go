package gitlog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaekyeom/dayrecap/internal/domain"
)

// mapRunner answers git invocations from canned output keyed by directory
// and whether the call asked for file names or subjects.
func mapRunner(t *testing.T, files, subjects map[string]string, failDirs map[string]bool) commandRunner {
	t.Helper()

	return func(ctx context.Context, dir string, name string, args ...string) (string, error) {
		require.Equal(t, "git", name)
		if failDirs[dir] {
			return "", errors.New("exit status 128")
		}

		joined := strings.Join(args, " ")
		if strings.Contains(joined, "--name-only") {
			return files[dir], nil
		}
		return subjects[dir], nil
	}
}

func TestFetchRepoActivityMergesRepos(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	window := domain.NewTimeWindow(time.Date(2025, 4, 2, 0, 0, 0, 0, time.Local))

	f := NewFetcher([]string{dirA, dirB, filepath.Join(dirA, "absent")}, "", nil)
	f.run = mapRunner(t,
		map[string]string{
			dirA: "internal/render/report.go\n\nREADME.md\nnoext\n",
			dirB: "cmd/root.go\n",
		},
		map[string]string{
			dirA: "렌더러 섹션 순서 고정\n",
			dirB: "루트 커맨드 플래그 추가\n",
		},
		nil,
	)

	activity, err := f.FetchRepoActivity(context.Background(), window)
	require.NoError(t, err)

	assert.Equal(t, []string{"README.md", "cmd/root.go", "internal/render/report.go"}, activity.FilesModified)
	assert.Equal(t, []string{"렌더러 섹션 순서 고정", "루트 커맨드 플래그 추가"}, activity.CommitMessages)
	assert.False(t, activity.IsEmpty())
}

func TestFetchRepoActivitySkipsFailingRepo(t *testing.T) {
	good := t.TempDir()
	bad := t.TempDir()
	window := domain.NewTimeWindow(time.Date(2025, 4, 2, 0, 0, 0, 0, time.Local))

	f := NewFetcher([]string{bad, good}, "", nil)
	f.run = mapRunner(t,
		map[string]string{good: "main.go\n"},
		map[string]string{good: "초기 커밋\n"},
		map[string]bool{bad: true},
	)

	activity, err := f.FetchRepoActivity(context.Background(), window)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, activity.FilesModified)
	assert.Equal(t, []string{"초기 커밋"}, activity.CommitMessages)
}

func TestFetchRepoActivityCapsLists(t *testing.T) {
	dir := t.TempDir()
	window := domain.NewTimeWindow(time.Date(2025, 4, 2, 0, 0, 0, 0, time.Local))

	var files, subjects strings.Builder
	for i := 0; i < 30; i++ {
		files.WriteString(filepath.Join("pkg", string(rune('a'+i)), "file.go") + "\n")
		subjects.WriteString("커밋 메시지\n")
	}

	f := NewFetcher([]string{dir}, "", nil)
	f.run = mapRunner(t,
		map[string]string{dir: files.String()},
		map[string]string{dir: subjects.String()},
		nil,
	)

	activity, err := f.FetchRepoActivity(context.Background(), window)
	require.NoError(t, err)
	assert.Len(t, activity.FilesModified, domain.MaxRepoFiles)
	assert.Len(t, activity.CommitMessages, domain.MaxCommitMessages)
}

func TestReadObjectives(t *testing.T) {
	brain := t.TempDir()
	window := domain.NewTimeWindow(time.Date(2025, 4, 2, 0, 0, 0, 0, time.Local))
	sameDay := time.Date(2025, 4, 2, 13, 0, 0, 0, time.Local)

	convDir := filepath.Join(brain, "conv-1")
	logsDir := filepath.Join(convDir, ".system_generated", "logs")
	require.NoError(t, os.MkdirAll(logsDir, 0o755))
	overview := "header\nUSER Objective:\n집계 파이프라인 리팩터링\nUSER Objective:\nok\n"
	require.NoError(t, os.WriteFile(filepath.Join(logsDir, "overview.txt"), []byte(overview), 0o644))
	require.NoError(t, os.Chtimes(convDir, sameDay, sameDay))

	staleDir := filepath.Join(brain, "conv-stale")
	require.NoError(t, os.MkdirAll(staleDir, 0o755))
	stale := time.Date(2025, 3, 30, 13, 0, 0, 0, time.Local)
	require.NoError(t, os.Chtimes(staleDir, stale, stale))

	f := NewFetcher(nil, brain, nil)
	activity, err := f.FetchRepoActivity(context.Background(), window)
	require.NoError(t, err)

	// The two-character "ok" objective falls under the length floor.
	assert.Equal(t, []string{"집계 파이프라인 리팩터링"}, activity.UserQueries)
}
