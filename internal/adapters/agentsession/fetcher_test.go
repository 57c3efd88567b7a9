package agentsession

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaekyeom/dayrecap/internal/domain"
)

func writeSessionFixture(t *testing.T, root, stem string, meta map[string]any, auditLines []string) {
	t.Helper()

	metaBytes, err := json.Marshal(meta)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, stem+".json"), metaBytes, 0o644))

	auditDir := filepath.Join(root, stem)
	require.NoError(t, os.MkdirAll(auditDir, 0o755))

	var content string
	for _, line := range auditLines {
		content += line + "\n"
	}
	require.NoError(t, os.WriteFile(filepath.Join(auditDir, "audit.jsonl"), []byte(content), 0o644))
}

func TestFetchSessionsParsesMetadataAndAudit(t *testing.T) {
	root := t.TempDir()
	day := time.Date(2025, 4, 2, 0, 0, 0, 0, time.Local)
	window := domain.NewTimeWindow(day)

	createdAt := time.Date(2025, 4, 2, 9, 0, 0, 0, time.Local).UnixMilli()
	lastActivity := time.Date(2025, 4, 2, 9, 45, 0, 0, time.Local).UnixMilli()

	writeSessionFixture(t, root, "sess-1", map[string]any{
		"sessionId":      "sess-1",
		"title":          "리포트 렌더러 구현",
		"createdAt":      createdAt,
		"lastActivityAt": lastActivity,
	}, []string{
		`{"type":"user","message":{"content":"마크다운 렌더러를 만들어줘. 섹션별로 나눠서."}}`,
		`{"type":"assistant","message":{"content":[{"type":"tool_use","name":"write_to_file","input":{"file_path":"/repo/internal/render/report.go"}}]}}`,
		`{"type":"assistant","message":{"content":[{"type":"tool_use","name":"Edit","input":{"file_path":"/repo/internal/render/report.go"}},{"type":"tool_use","name":"replace_file_content","input":{"TargetFile":"/repo/cmd/root.go"}}]}}`,
		`{"type":"user","message":{"content":[{"type":"text","text":"테스트도 추가해줘"}]}}`,
	})

	f := NewFetcher(root, nil)
	sessions, err := f.FetchSessions(context.Background(), window)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.Equal(t, "sess-1", s.ID)
	assert.Equal(t, "리포트 렌더러 구현", s.Title)
	assert.Equal(t, 45, s.DurationMinutes)
	assert.Equal(t, 2, s.InteractionCount)
	assert.Equal(t, "마크다운 렌더러를 만들어줘. 섹션별로 나눠서.", s.Goal)
	assert.Equal(t, []string{"report.go"}, s.FilesCreated)
	assert.Equal(t, []string{"report.go", "root.go"}, s.FilesModified)
	assert.Equal(t, []string{"마크다운 렌더러를 만들어줘. 섹션별로 나눠서.", "테스트도 추가해줘"}, s.FullMessages)
}

func TestFetchSessionsFiltersByLastActivityDate(t *testing.T) {
	root := t.TempDir()
	window := domain.NewTimeWindow(time.Date(2025, 4, 2, 0, 0, 0, 0, time.Local))

	otherDay := time.Date(2025, 4, 3, 10, 0, 0, 0, time.Local).UnixMilli()
	writeSessionFixture(t, root, "sess-old", map[string]any{
		"sessionId":      "sess-old",
		"lastActivityAt": otherDay,
	}, []string{
		`{"type":"user","message":{"content":"어제 작업"}}`,
	})

	f := NewFetcher(root, nil)
	sessions, err := f.FetchSessions(context.Background(), window)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestFetchSessionsSkipsTodosAndMissingAudit(t *testing.T) {
	root := t.TempDir()
	window := domain.NewTimeWindow(time.Date(2025, 4, 2, 0, 0, 0, 0, time.Local))
	sameDay := time.Date(2025, 4, 2, 14, 0, 0, 0, time.Local).UnixMilli()

	todosDir := filepath.Join(root, "todos")
	require.NoError(t, os.MkdirAll(todosDir, 0o755))
	todo := fmt.Sprintf(`{"sessionId":"todo","lastActivityAt":%d}`, sameDay)
	require.NoError(t, os.WriteFile(filepath.Join(todosDir, "todo.json"), []byte(todo), 0o644))

	// Metadata without an audit log beside it.
	orphan := fmt.Sprintf(`{"sessionId":"orphan","lastActivityAt":%d}`, sameDay)
	require.NoError(t, os.WriteFile(filepath.Join(root, "orphan.json"), []byte(orphan), 0o644))

	f := NewFetcher(root, nil)
	sessions, err := f.FetchSessions(context.Background(), window)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestFetchSessionsTruncatesLongGoal(t *testing.T) {
	root := t.TempDir()
	window := domain.NewTimeWindow(time.Date(2025, 4, 2, 0, 0, 0, 0, time.Local))
	sameDay := time.Date(2025, 4, 2, 14, 0, 0, 0, time.Local).UnixMilli()

	long := ""
	for i := 0; i < 30; i++ {
		long += "0123456789"
	}
	writeSessionFixture(t, root, "sess-long", map[string]any{
		"sessionId":      "sess-long",
		"lastActivityAt": sameDay,
	}, []string{
		fmt.Sprintf(`{"type":"user","message":{"content":%q}}`, long),
	})

	f := NewFetcher(root, nil)
	sessions, err := f.FetchSessions(context.Background(), window)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 203, len([]rune(sessions[0].Goal)))
}

func TestFetchSessionsMissingRoot(t *testing.T) {
	f := NewFetcher(filepath.Join(t.TempDir(), "absent"), nil)
	sessions, err := f.FetchSessions(context.Background(), domain.NewTimeWindow(time.Now()))
	require.NoError(t, err)
	assert.Nil(t, sessions)
}
