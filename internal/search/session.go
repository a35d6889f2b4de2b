package search

import (
	"sync"
	"time"

	"jobfinder/internal/job"
)

// Session holds the jobs from the most recent successful search together
// with the active filter configuration. A successful search replaces the
// snapshot wholesale; a failed one leaves it untouched.
type Session struct {
	mu      sync.Mutex
	jobs    []job.Job
	total   int
	filters map[string]string
}

func NewSession() *Session {
	return &Session{filters: make(map[string]string)}
}

func (s *Session) Replace(jobs []job.Job, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append([]job.Job(nil), jobs...)
	s.total = total
}

func (s *Session) SetFilters(cfg map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = make(map[string]string, len(cfg))
	for k, v := range cfg {
		s.filters[k] = v
	}
}

func (s *Session) Filters() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := make(map[string]string, len(s.filters))
	for k, v := range s.filters {
		cfg[k] = v
	}
	return cfg
}

// SessionView is the snapshot surfaces render: the current jobs after
// client-side filtering, the provider-reported total, and the filters that
// produced the view.
type SessionView struct {
	Jobs    []job.Job         `json:"jobs"`
	Total   int               `json:"total"`
	Filters map[string]string `json:"filters"`
}

func (s *Session) View(now time.Time) SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := make(map[string]string, len(s.filters))
	for k, v := range s.filters {
		cfg[k] = v
	}
	return SessionView{
		Jobs:    Apply(s.jobs, cfg, now),
		Total:   s.total,
		Filters: cfg,
	}
}
