// Package search orchestrates job searches: it owns the session snapshot,
// runs each accepted search on its own goroutine, and pushes outcomes to a
// presenter.
package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"jobfinder/internal/apperror"
	"jobfinder/internal/history"
	"jobfinder/internal/job"
	"jobfinder/internal/jobtech"
)

// Searcher is the provider call the orchestrator depends on. Satisfied by
// *jobtech.Client.
type Searcher interface {
	Search(ctx context.Context, query string, locations []string, filters map[string]string, limit int) (*jobtech.Result, error)
}

// Recorder persists executed searches. Satisfied by *history.Service.
type Recorder interface {
	Record(ctx context.Context, s history.Search) error
}

// Request carries one search submission. A nil Filters leaves the session's
// active configuration in place; a non-nil one replaces it first.
type Request struct {
	Query     string            `json:"query"`
	Locations []string          `json:"locations,omitempty"`
	Filters   map[string]string `json:"filters,omitempty"`
	Limit     int               `json:"limit,omitempty"`
}

func (r *Request) Validate() *apperror.AppError {
	if strings.TrimSpace(r.Query) == "" {
		return apperror.New(apperror.BadRequest, "query must not be empty")
	}
	return nil
}

// maxTrackedTasks caps the task handles retained for lookup.
const maxTrackedTasks = 32

type Service struct {
	searcher  Searcher
	recorder  Recorder
	session   *Session
	presenter Presenter
	post      func(func())
	baseCtx   context.Context
	now       func() time.Time

	mu    sync.Mutex
	tasks map[string]*Task
	order []string
	last  *Task
}

func NewService(searcher Searcher, recorder Recorder, opts ...Option) *Service {
	s := &Service{
		searcher: searcher,
		recorder: recorder,
		session:  NewSession(),
		baseCtx:  context.Background(),
		now:      time.Now,
		tasks:    make(map[string]*Task),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type Option func(*Service)

// WithPresenter sets the callback sink for search outcomes.
func WithPresenter(p Presenter) Option {
	return func(s *Service) { s.presenter = p }
}

// WithPoster routes presenter callbacks through the given hand-off, e.g. a
// UI loop's Post. The default invokes them directly on the search goroutine.
func WithPoster(post func(func())) Option {
	return func(s *Service) { s.post = post }
}

// WithBaseContext sets the context background searches run under, so
// shutdown can abort in-flight provider calls.
func WithBaseContext(ctx context.Context) Option {
	return func(s *Service) { s.baseCtx = ctx }
}

func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Submit starts one background search and returns its handle. It rejects
// blank queries and refuses to overlap a running search; both rejections
// leave the session and any running task untouched.
func (s *Service) Submit(req Request) (*Task, error) {
	req.Query = strings.TrimSpace(req.Query)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.last != nil && s.last.State() == StateRunning {
		s.mu.Unlock()
		return nil, apperror.New(apperror.Conflict, "a search is already running")
	}
	t := newTask(req.Query)
	s.tasks[t.ID()] = t
	s.order = append(s.order, t.ID())
	// Every task but the newest is settled, so the oldest can go.
	for len(s.order) > maxTrackedTasks {
		delete(s.tasks, s.order[0])
		s.order = s.order[1:]
	}
	s.last = t
	s.mu.Unlock()

	if req.Filters != nil {
		s.session.SetFilters(req.Filters)
	}
	filters := s.session.Filters()

	s.setSearchEnabled(false)
	go s.run(t, req, filters)

	return t, nil
}

func (s *Service) run(t *Task, req Request, filters map[string]string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("search panicked", "query", req.Query, "panic", r)
			s.finishFailed(t, "search failed")
		}
	}()

	// The search is part of history whether or not it succeeds, and a
	// history that cannot be written means the store is broken, so stop
	// before spending a network call.
	rec := history.Search{Query: req.Query, Locations: req.Locations, Filters: filters}
	if err := s.recorder.Record(s.baseCtx, rec); err != nil {
		slog.Error("search aborted, history write failed", "query", req.Query, "error", err)
		s.finishFailed(t, "could not record the search in history")
		return
	}

	res, err := s.searcher.Search(s.baseCtx, req.Query, req.Locations, filters, req.Limit)
	if err != nil {
		slog.Error("search failed", "query", req.Query, "error", err)
		s.finishFailed(t, describe(err))
		return
	}

	jobs := job.FromHits(res.Hits)
	s.session.Replace(jobs, res.Total)

	view := s.session.View(s.now())
	s.notify(func(p Presenter) { p.ShowResults(view.Jobs, view.Total) })
	s.setSearchEnabled(true)
	t.complete(jobs, res.Total)
}

func (s *Service) finishFailed(t *Task, msg string) {
	s.notify(func(p Presenter) { p.ShowError(msg) })
	s.setSearchEnabled(true)
	t.fail(msg)
}

func (s *Service) notify(fn func(Presenter)) {
	if s.presenter == nil {
		return
	}
	p := s.presenter
	if s.post != nil {
		s.post(func() { fn(p) })
		return
	}
	fn(p)
}

func (s *Service) setSearchEnabled(enabled bool) {
	s.notify(func(p Presenter) { p.SetSearchEnabled(enabled) })
}

// describe turns a typed search failure into the message shown to the user.
func describe(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code() {
		case apperror.Transport:
			return "could not reach the job search service"
		case apperror.Parse:
			return "the job search service returned an unreadable response"
		}
	}
	return "search failed"
}

// Task returns the handle for id, or nil when no such task exists. Only the
// maxTrackedTasks most recent handles are kept.
func (s *Service) Task(id string) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks[id]
}

// State reports the orchestrator state: idle before the first submission,
// afterwards the state of the most recent task.
func (s *Service) State() State {
	s.mu.Lock()
	last := s.last
	s.mu.Unlock()
	if last == nil {
		return StateIdle
	}
	return last.State()
}

// Session returns the current snapshot with the active filters applied.
func (s *Service) Session() SessionView {
	return s.session.View(s.now())
}

// ApplyFilters replaces the session's filter configuration and returns the
// re-filtered snapshot. It touches neither the network nor the store.
func (s *Service) ApplyFilters(cfg map[string]string) SessionView {
	s.session.SetFilters(cfg)
	return s.session.View(s.now())
}
