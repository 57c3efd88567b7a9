package domain

import (
	"net/url"
	"sort"
)

// URLVisit is a single qualifying browser-tab event. Visits are kept
// individually (not pre-aggregated) so the renderer can pick the most-viewed
// page title per domain afterwards.
type URLVisit struct {
	URL             string
	Domain          string
	Title           string
	DurationSeconds float64
}

// ActivitySummary holds per-subject accumulated focus durations for one day.
type ActivitySummary struct {
	AppDurations    map[string]float64
	DomainDurations map[string]float64
	Visits          []URLVisit
}

// ExtractDomain derives the host part of raw. A string that does not parse
// as a URL, or parses without a host, degrades to the raw string itself.
func ExtractDomain(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return raw
	}

	return parsed.Host
}

// TopSubjects returns up to n subjects ordered by descending duration. Ties
// break on subject name so output stays deterministic.
func TopSubjects(durations map[string]float64, n int) []string {
	subjects := make([]string, 0, len(durations))
	for subject := range durations {
		subjects = append(subjects, subject)
	}

	sort.Slice(subjects, func(i, j int) bool {
		a, b := subjects[i], subjects[j]
		if durations[a] != durations[b] {
			return durations[a] > durations[b]
		}
		return a < b
	})

	if n > 0 && len(subjects) > n {
		subjects = subjects[:n]
	}

	return subjects
}
