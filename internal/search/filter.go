package search

import (
	"strings"
	"time"

	"jobfinder/internal/job"
	"jobfinder/internal/jobtech"
)

const dateFormat = "2006-01-02"

// Publication dates arrive either as a bare date or with a time part and no
// zone designator.
var publishedFormats = []string{"2006-01-02T15:04:05", dateFormat}

// Apply returns the jobs that pass the filter configuration. The input
// slice is never mutated; the result is always a fresh slice. Unknown
// filter keys never narrow the result.
func Apply(jobs []job.Job, cfg map[string]string, now time.Time) []job.Job {
	out := make([]job.Job, 0, len(jobs))
	for _, j := range jobs {
		if matches(j, cfg, now) {
			out = append(out, j)
		}
	}
	return out
}

func matches(j job.Job, cfg map[string]string, now time.Time) bool {
	if label, ok := jobtech.WorkingHoursLabel(cfg[jobtech.FilterWorkingHours]); ok {
		if !strings.EqualFold(j.WorkingHours, label) {
			return false
		}
	}

	if days, ok := jobtech.PublishedDays(cfg[jobtech.FilterPublished]); ok {
		published, ok := parsePublished(j.PublishedDate)
		if !ok {
			// A recency filter can only keep jobs whose publication
			// date is known.
			return false
		}
		cutoff := now.AddDate(0, 0, -days).Format(dateFormat)
		if published.Format(dateFormat) < cutoff {
			return false
		}
	}

	return true
}

func parsePublished(s string) (time.Time, bool) {
	for _, f := range publishedFormats {
		if t, err := time.Parse(f, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
