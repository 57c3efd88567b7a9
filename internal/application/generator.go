package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jaekyeom/dayrecap/internal/domain"
	"github.com/jaekyeom/dayrecap/internal/ports"
)

const (
	reportFileMode = 0o644
	reportDirMode  = 0o755
)

// Renderer turns an aggregated day into the markdown report body.
type Renderer interface {
	Render(day domain.AggregatedDay) string
}

// Generator runs the whole pipeline: aggregate, render, save, then fan out
// to the optional sinks. Sink failures are logged and swallowed; once the
// report file exists the run counts as successful.
type Generator struct {
	aggregator *Aggregator
	renderer   Renderer
	summarizer ports.Summarizer
	messenger  ports.Messenger
	archive    ports.ReportArchive
	notifier   ports.Notifier
	clock      ports.Clock
	outputDir  string
	logger     *slog.Logger
}

type GeneratorOptions struct {
	Summarizer ports.Summarizer
	Messenger  ports.Messenger
	Archive    ports.ReportArchive
	Notifier   ports.Notifier
	Clock      ports.Clock
}

func NewGenerator(aggregator *Aggregator, renderer Renderer, outputDir string, opts GeneratorOptions, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Generator{
		aggregator: aggregator,
		renderer:   renderer,
		summarizer: opts.Summarizer,
		messenger:  opts.Messenger,
		archive:    opts.Archive,
		notifier:   opts.Notifier,
		clock:      clock,
		outputDir:  outputDir,
		logger:     logger,
	}
}

// Result describes a finished run.
type Result struct {
	Path      string
	Day       domain.AggregatedDay
	AISummary string
}

// Generate builds and delivers the report for one day. It fails only when
// the tracker produced no app and no web data, or the report file cannot be
// written.
func (g *Generator) Generate(ctx context.Context, window domain.TimeWindow, calendarNames []string) (Result, error) {
	day := g.aggregator.Aggregate(ctx, window, calendarNames)
	if !day.HasActivity() {
		return Result{}, domain.ErrNoActivityData
	}

	report := g.renderer.Render(day)

	path, err := g.saveReport(report, window)
	if err != nil {
		return Result{}, err
	}
	g.logger.Info("report saved", "path", path)

	summary := g.summarize(ctx, report, path)
	g.post(ctx, window, path, summary)
	g.record(ctx, window, path, day)
	g.notify(window)

	return Result{Path: path, Day: day, AISummary: summary}, nil
}

func (g *Generator) saveReport(report string, window domain.TimeWindow) (string, error) {
	if err := os.MkdirAll(g.outputDir, reportDirMode); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(g.outputDir, window.Start.Format("2006-01-02")+"-daily-summary.md")
	if err := os.WriteFile(path, []byte(report), reportFileMode); err != nil {
		return "", fmt.Errorf("write report file: %w", err)
	}

	return path, nil
}

// summarize asks the AI sink for a digest and appends it to the saved file.
// Returns "" when no summarizer is wired or the call fails.
func (g *Generator) summarize(ctx context.Context, report, path string) string {
	if g.summarizer == nil {
		return ""
	}

	summary, err := g.summarizer.Summarize(ctx, report)
	if err != nil {
		g.logger.Warn("ai summary failed", "error", err)
		return ""
	}

	appendix := fmt.Sprintf("\n\n---\n\n## 🤖 AI 요약 (Gemini)\n\n%s\n", summary)
	if err := appendToFile(path, appendix); err != nil {
		g.logger.Warn("append ai summary failed", "path", path, "error", err)
	}

	return summary
}

func appendToFile(path, text string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, reportFileMode)
	if err != nil {
		return err
	}

	_, writeErr := file.WriteString(text)
	closeErr := file.Close()

	return errors.Join(writeErr, closeErr)
}

// post sends the AI summary to the webhook, or a plain "report ready" notice
// when no summary exists.
func (g *Generator) post(ctx context.Context, window domain.TimeWindow, path, summary string) {
	if g.messenger == nil {
		return
	}

	var message string
	if summary != "" {
		message = fmt.Sprintf("*📊 %s 일일 요약 (AI 생성)*\n\n%s\n\n---\n*상세 리포트*: `%s`",
			window.Start.Format("01/02"), summary, path)
	} else {
		reason := "Gemini API 키가 설정되지 않아 AI 요약은 생략되었습니다."
		if g.summarizer != nil {
			reason = "Gemini API 호출 중 오류가 발생했습니다. (로그 확인 필요)"
		}
		message = fmt.Sprintf("✅ *%s* 일일 리포트가 생성되었습니다.\n\n*위치*: `%s`\n(%s)",
			window.Start.Format("01/02"), path, reason)
	}

	if err := g.messenger.Post(ctx, message); err != nil {
		g.logger.Warn("webhook post failed", "error", err)
	}
}

func (g *Generator) record(ctx context.Context, window domain.TimeWindow, path string, day domain.AggregatedDay) {
	if g.archive == nil {
		return
	}

	record := ports.ReportRecord{
		RunID:        uuid.NewString(),
		Date:         window.Start.Format("2006-01-02"),
		Path:         path,
		TotalSeconds: day.TotalActiveSeconds(),
		AppCount:     len(day.Activity.AppDurations),
		MeetingCount: len(day.Meetings),
		TaskCount:    len(day.Tasks),
		CreatedAt:    g.clock.Now().Format(time.RFC3339),
	}
	if err := g.archive.Record(ctx, record); err != nil {
		g.logger.Warn("archive record failed", "error", err)
	}
}

func (g *Generator) notify(window domain.TimeWindow) {
	if g.notifier == nil {
		return
	}

	title := fmt.Sprintf("%s 일일 리포트 생성 완료", window.Start.Format("01/02"))
	if err := g.notifier.Notify(title, "리포트가 저장되었습니다."); err != nil {
		g.logger.Warn("desktop notification failed", "error", err)
	}
}
