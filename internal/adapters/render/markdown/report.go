// Package markdown renders an aggregated day into the daily summary report.
// The renderer is pure: same day in, same report out.
package markdown

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jaekyeom/dayrecap/internal/domain"
)

const (
	topAppCount     = 3
	topDomainCount  = 3
	shownTaskCount  = 7
	shownFileCount  = 10
	maxPageTitle    = 40
	maxMessageRunes = 150
	maxLinkTitle    = 100
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces the full markdown report for one day.
func (r *Renderer) Render(day domain.AggregatedDay) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s 일일 요약\n\n", day.Window.Start.Format("01/02"))

	writeActivityLine(&b, day)
	writeDomainLine(&b, day.Activity)
	writeMeetings(&b, day.Meetings)
	writeTasks(&b, day.Tasks)
	writeSessions(&b, day.Sessions)
	writeQueries(&b, day.Queries)
	writeRepo(&b, day.Repo)
	writeCommands(&b, day.Commands)
	writeDetails(&b, day)

	fmt.Fprintf(&b, "> %s\n", oneLiner(day.Activity.AppDurations))

	return b.String()
}

func writeActivityLine(b *strings.Builder, day domain.AggregatedDay) {
	if len(day.Activity.AppDurations) == 0 {
		return
	}

	var parts []string
	for _, app := range domain.TopSubjects(day.Activity.AppDurations, topAppCount) {
		parts = append(parts, fmt.Sprintf("%s %s", app, domain.FormatSeconds(day.Activity.AppDurations[app])))
	}

	fmt.Fprintf(b, "**💻 %s** — %s\n\n", domain.FormatSeconds(day.TotalActiveSeconds()), strings.Join(parts, ", "))
}

func writeDomainLine(b *strings.Builder, activity domain.ActivitySummary) {
	if len(activity.DomainDurations) == 0 {
		return
	}

	var parts []string
	for rank, name := range domain.TopSubjects(activity.DomainDurations, topDomainCount) {
		entry := fmt.Sprintf("%d. %s", rank+1, name)
		if title := topPageTitle(activity.Visits, name); title != "" {
			entry += fmt.Sprintf(" (%s)", domain.Truncate(title, maxPageTitle))
		}
		parts = append(parts, entry)
	}

	fmt.Fprintf(b, "**🌐 사이트** — %s\n\n", strings.Join(parts, " / "))
}

// topPageTitle returns the longest-viewed page title on one domain.
func topPageTitle(visits []domain.URLVisit, domainName string) string {
	durations := make(map[string]float64)
	for _, v := range visits {
		title := strings.TrimSpace(v.Title)
		if v.Domain == domainName && title != "" {
			durations[title] += v.DurationSeconds
		}
	}
	if len(durations) == 0 {
		return ""
	}

	return domain.TopSubjects(durations, 1)[0]
}

func writeMeetings(b *strings.Builder, meetings []domain.CalendarEvent) {
	if len(meetings) == 0 {
		b.WriteString("**📅 미팅/일정**\n- (데이터 없음)\n\n")
		return
	}

	fmt.Fprintf(b, "**📅 미팅/일정** (%d건)\n", len(meetings))
	for _, ev := range meetings {
		fmt.Fprintf(b, "- %s~%s %s (%d분)\n",
			ev.Start.Format("15:04"), ev.End.Format("15:04"), ev.Title, ev.DurationMinutes)
	}
	b.WriteString("\n")
}

func writeTasks(b *strings.Builder, tasks []domain.ConversationTask) {
	if len(tasks) == 0 {
		b.WriteString("**🤖 AI 작업**\n- (데이터 없음)\n\n")
		return
	}

	fmt.Fprintf(b, "**🤖 AI 작업** (%d건)\n", len(tasks))
	shown := tasks
	if len(shown) > shownTaskCount {
		shown = shown[:shownTaskCount]
	}
	for _, task := range shown {
		line := "- " + task.Intent
		if task.Result != "" {
			line += " — " + task.Result
		}
		b.WriteString(line + "\n")

		if len(task.URLs) > 0 {
			var domains []string
			for _, u := range task.URLs {
				domains = append(domains, domain.ExtractDomain(u))
			}
			fmt.Fprintf(b, "  📎 %s\n", strings.Join(domains, ", "))
		}
	}
	if len(tasks) > shownTaskCount {
		fmt.Fprintf(b, "- ...외 %d건\n", len(tasks)-shownTaskCount)
	}
	b.WriteString("\n")
}

func writeSessions(b *strings.Builder, sessions []domain.SessionContext) {
	if len(sessions) == 0 {
		b.WriteString("**🤖 에이전트 세션**\n- (데이터 없음)\n\n")
		return
	}

	fmt.Fprintf(b, "**🤖 에이전트 세션** (%d건)\n", len(sessions))
	for _, s := range sessions {
		fmt.Fprintf(b, "### 📂 %s\n", s.Title)
		fmt.Fprintf(b, "> ⏱️ **%d분** 동안 **%d번**의 상호작용\n\n", s.DurationMinutes, s.InteractionCount)
		fmt.Fprintf(b, "**🎯 작업 목표**\n%s\n\n", s.Goal)

		hasChanges := false
		if len(s.FilesCreated) > 0 {
			fmt.Fprintf(b, "- 🆕 **생성된 파일**: %s\n", strings.Join(s.FilesCreated, ", "))
			hasChanges = true
		}
		if len(s.FilesModified) > 0 {
			fmt.Fprintf(b, "- 📝 **수정된 파일**: %s\n", strings.Join(s.FilesModified, ", "))
			hasChanges = true
		}
		if !hasChanges {
			b.WriteString("- ⚠️ 파일 변경 사항 없음\n")
		}
		b.WriteString("\n")
	}
}

func writeQueries(b *strings.Builder, queries []domain.ToolQuery) {
	if len(queries) == 0 {
		b.WriteString("**🤖 IDE 질의**\n- (데이터 없음)\n\n")
		return
	}

	fmt.Fprintf(b, "**🤖 IDE 질의** (%d건)\n", len(queries))

	byProject := make(map[string][]string)
	var order []string
	for _, q := range queries {
		if _, seen := byProject[q.Project]; !seen {
			order = append(order, q.Project)
		}
		byProject[q.Project] = append(byProject[q.Project], q.Query)
	}

	for _, project := range order {
		fmt.Fprintf(b, "### 📂 %s\n", project)
		for _, query := range byProject[project] {
			fmt.Fprintf(b, "- %s\n", query)
		}
		b.WriteString("\n")
	}
}

func writeRepo(b *strings.Builder, repo domain.RepoActivity) {
	b.WriteString("**🛠️ 리포지토리 활동**\n")
	if repo.IsEmpty() {
		b.WriteString("- (데이터 없음)\n\n")
		return
	}

	if len(repo.UserQueries) > 0 {
		fmt.Fprintf(b, "- 💬 **AI 프롬프트** (%d건)\n", len(repo.UserQueries))
		for _, query := range repo.UserQueries {
			fmt.Fprintf(b, "  - %s\n", query)
		}
	}
	if len(repo.CommitMessages) > 0 {
		fmt.Fprintf(b, "- 📝 **활동 내역** (%d건)\n", len(repo.CommitMessages))
		for _, msg := range repo.CommitMessages {
			fmt.Fprintf(b, "  - %s\n", msg)
		}
	}
	if len(repo.FilesModified) > 0 {
		fmt.Fprintf(b, "- 🛠️ **수정된 파일** (%d개)\n", len(repo.FilesModified))
		shown := repo.FilesModified
		if len(shown) > shownFileCount {
			shown = shown[:shownFileCount]
		}
		for _, file := range shown {
			fmt.Fprintf(b, "  - `%s`\n", file)
		}
		if len(repo.FilesModified) > shownFileCount {
			fmt.Fprintf(b, "  - ...외 %d개\n", len(repo.FilesModified)-shownFileCount)
		}
	}
	b.WriteString("\n")
}

func writeCommands(b *strings.Builder, commands []domain.CommandEntry) {
	if len(commands) == 0 {
		return
	}

	fmt.Fprintf(b, "**⌨️ CLI 타임라인** (%d건)\n", len(commands))
	for _, c := range commands {
		fmt.Fprintf(b, "- %s %s\n", c.Time.Format("15:04"), c.Command)
	}
	b.WriteString("\n")
}

func writeDetails(b *strings.Builder, day domain.AggregatedDay) {
	b.WriteString("---\n\n## 📋 상세 활동 목록\n\n")

	for _, s := range day.Sessions {
		if len(s.FullMessages) == 0 {
			continue
		}

		fmt.Fprintf(b, "### 💬 %s\n", s.Title)
		for i, msg := range s.FullMessages {
			display := strings.ReplaceAll(domain.Truncate(msg, maxMessageRunes), "\n", " ")
			fmt.Fprintf(b, "%d. %s\n", i+1, display)
		}
		b.WriteString("\n")
	}

	writeVisitedPages(b, day.Activity.Visits)
}

func writeVisitedPages(b *strings.Builder, visits []domain.URLVisit) {
	if len(visits) == 0 {
		return
	}

	// First URL seen per title wins; titles listed alphabetically.
	pages := make(map[string]string)
	for _, v := range visits {
		title := strings.TrimSpace(v.Title)
		if title == "" || v.URL == "" {
			continue
		}
		if _, seen := pages[title]; !seen {
			pages[title] = v.URL
		}
	}
	if len(pages) == 0 {
		return
	}

	titles := make([]string, 0, len(pages))
	for title := range pages {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	b.WriteString("### 🌐 방문한 웹페이지\n")
	for i, title := range titles {
		fmt.Fprintf(b, "%d. [%s](%s)\n", i+1, domain.Truncate(title, maxLinkTitle), pages[title])
	}
	b.WriteString("\n")
}

// oneLiner is the rule-based closing summary keyed on the top app name.
func oneLiner(appDurations map[string]float64) string {
	if len(appDurations) == 0 {
		return "오늘은 컴퓨터를 사용하지 않았습니다."
	}

	top := domain.TopSubjects(appDurations, 1)[0]
	lowered := strings.ToLower(top)
	duration := domain.FormatSeconds(appDurations[top])

	switch {
	case strings.Contains(lowered, "chrome") || strings.Contains(lowered, "firefox") || strings.Contains(lowered, "safari"):
		return fmt.Sprintf("주로 웹 브라우징에 %s 시간을 사용했습니다.", duration)
	case strings.Contains(lowered, "code") || strings.Contains(lowered, "studio"):
		return fmt.Sprintf("주로 코딩에 %s 시간을 사용했습니다.", duration)
	case strings.Contains(lowered, "slack") || strings.Contains(lowered, "teams"):
		return fmt.Sprintf("주로 협업 도구 사용에 %s 시간을 사용했습니다.", duration)
	default:
		return fmt.Sprintf("%s에 %s 시간을 사용했습니다.", top, duration)
	}
}
