package domain

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxIntentRunes = 100
	maxResultRunes = 80
	maxTaskURLs    = 3

	// User messages at or below this length with no URLs of their own are
	// follow-ups ("ok", "고마워") and merge into the previous task.
	followUpRunes = 10
)

// Message is one conversation turn extracted from a tool log.
type Message struct {
	Time    time.Time
	Role    string
	Content string
}

// ConversationTask pairs one user intent with the outcome of the assistant
// replies that immediately follow it.
type ConversationTask struct {
	Intent string
	Result string
	URLs   []string
}

var (
	urlPattern     = regexp.MustCompile(`https?://[^\s)\]>"]+`)
	markdownLeadRE = regexp.MustCompile(`^[#*>\-\s]+`)
)

// BuildTasks converts a day's messages into tasks: each user message opens a
// task, the assistant replies until the next user message supply the result
// line and reference URLs. Trailing short user messages without URLs merge
// into the previous task instead of opening a new one.
func BuildTasks(messages []Message) []ConversationTask {
	sorted := make([]Message, len(messages))
	copy(sorted, messages)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	var tasks []ConversationTask
	i := 0
	for i < len(sorted) {
		if sorted[i].Role != "user" {
			i++
			continue
		}

		task := ConversationTask{Intent: Truncate(sorted[i].Content, maxIntentRunes)}

		j := i + 1
		for j < len(sorted) && sorted[j].Role == "assistant" {
			reply := sorted[j].Content
			task.URLs = appendDistinctDomainURLs(task.URLs, urlPattern.FindAllString(reply, -1))
			if task.Result == "" {
				task.Result = summarizeReply(reply)
			}
			j++
		}

		if len(task.URLs) > maxTaskURLs {
			task.URLs = task.URLs[:maxTaskURLs]
		}

		tasks = append(tasks, task)
		i = j
	}

	return mergeFollowUps(tasks)
}

// mergeFollowUps folds tasks whose intent is a short follow-up into the
// preceding task's URL list.
func mergeFollowUps(tasks []ConversationTask) []ConversationTask {
	var merged []ConversationTask
	for _, task := range tasks {
		if len(merged) > 0 && utf8.RuneCountInString(task.Intent) <= followUpRunes && len(task.URLs) == 0 {
			continue
		}
		merged = append(merged, task)
	}

	return merged
}

// summarizeReply takes the first line of an assistant reply, strips leading
// markdown symbols, and truncates it to the result budget.
func summarizeReply(reply string) string {
	first, _, _ := strings.Cut(reply, "\n")
	first = markdownLeadRE.ReplaceAllString(strings.TrimSpace(first), "")

	return Truncate(first, maxResultRunes)
}

func appendDistinctDomainURLs(urls []string, found []string) []string {
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		seen[ExtractDomain(u)] = struct{}{}
	}

	for _, u := range found {
		d := ExtractDomain(u)
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		urls = append(urls, u)
	}

	return urls
}
