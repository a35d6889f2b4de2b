package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"jobfinder/internal/apperror"
	"jobfinder/internal/history"
	"jobfinder/internal/job"
	"jobfinder/internal/jobtech"
)

// --- mock searcher ---
type mockSearcher struct {
	mu            sync.Mutex
	calls         int
	lastQuery     string
	lastLocations []string
	lastFilters   map[string]string
	lastLimit     int
	result        *jobtech.Result
	err           error
	block         chan struct{}
}

func (m *mockSearcher) Search(_ context.Context, query string, locations []string, filters map[string]string, limit int) (*jobtech.Result, error) {
	m.mu.Lock()
	m.calls++
	m.lastQuery = query
	m.lastLocations = locations
	m.lastFilters = filters
	m.lastLimit = limit
	block := m.block
	err := m.err
	result := m.result
	m.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (m *mockSearcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockSearcher) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// --- mock recorder ---
type mockRecorder struct {
	mu      sync.Mutex
	records []history.Search
	err     error
}

func (m *mockRecorder) Record(_ context.Context, s history.Search) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, s)
	return nil
}

func (m *mockRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func (m *mockRecorder) last() history.Search {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[len(m.records)-1]
}

// --- recording presenter ---
type recordingPresenter struct {
	mu      sync.Mutex
	results [][]job.Job
	totals  []int
	errors  []string
	enabled []bool
}

func (p *recordingPresenter) ShowResults(jobs []job.Job, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = append(p.results, jobs)
	p.totals = append(p.totals, total)
}

func (p *recordingPresenter) ShowError(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errors = append(p.errors, msg)
}

func (p *recordingPresenter) SetSearchEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = append(p.enabled, enabled)
}

func (p *recordingPresenter) snapshot() ([][]job.Job, []string, []bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.results, p.errors, p.enabled
}

func testResult() *jobtech.Result {
	h1 := jobtech.Hit{ID: "29000001", Headline: "Go Developer", PublicationDate: "2024-06-14T08:00:00"}
	h1.WorkplaceAddress.Municipality = "Stockholm"
	h1.WorkingHoursType.Label = "Heltid"
	h2 := jobtech.Hit{ID: "29000002"}
	return &jobtech.Result{Hits: []jobtech.Hit{h1, h2}, Total: 42}
}

func waitDone(t *testing.T, task *Task) {
	t.Helper()
	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("task did not finish in time")
	}
}

func TestSubmit_Success(t *testing.T) {
	searcher := &mockSearcher{result: testResult()}
	recorder := &mockRecorder{}
	presenter := &recordingPresenter{}
	svc := NewService(searcher, recorder, WithPresenter(presenter))

	task, err := svc.Submit(Request{Query: "  go developer ", Locations: []string{"Stockholm"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitDone(t, task)

	if task.State() != StateDone {
		t.Fatalf("expected done, got %s", task.State())
	}
	jobs, total := task.Result()
	if len(jobs) != 2 || total != 42 {
		t.Errorf("expected 2 jobs and total 42, got %d and %d", len(jobs), total)
	}
	if jobs[1].Title != job.PlaceholderTitle {
		t.Errorf("expected placeholder title on sparse hit, got %q", jobs[1].Title)
	}

	if searcher.lastQuery != "go developer" {
		t.Errorf("expected trimmed query, got %q", searcher.lastQuery)
	}
	if recorder.count() != 1 || recorder.last().Query != "go developer" {
		t.Errorf("expected one history record for the query, got %+v", recorder.records)
	}

	view := svc.Session()
	if len(view.Jobs) != 2 || view.Total != 42 {
		t.Errorf("session not replaced: %d jobs, total %d", len(view.Jobs), view.Total)
	}

	results, errs, enabled := presenter.snapshot()
	if len(results) != 1 || len(errs) != 0 {
		t.Errorf("expected exactly one ShowResults, got %d results and %d errors", len(results), len(errs))
	}
	if len(enabled) != 2 || enabled[0] || !enabled[1] {
		t.Errorf("expected trigger disabled then re-enabled, got %v", enabled)
	}
}

func TestSubmit_EmptyQuery(t *testing.T) {
	searcher := &mockSearcher{result: testResult()}
	recorder := &mockRecorder{}
	presenter := &recordingPresenter{}
	svc := NewService(searcher, recorder, WithPresenter(presenter))

	_, err := svc.Submit(Request{Query: "   "})

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code() != apperror.BadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
	if svc.State() != StateIdle {
		t.Errorf("expected idle state, got %s", svc.State())
	}
	if searcher.callCount() != 0 || recorder.count() != 0 {
		t.Error("empty query must not reach the recorder or the provider")
	}
	_, _, enabled := presenter.snapshot()
	if len(enabled) != 0 {
		t.Errorf("empty query must not toggle the trigger, got %v", enabled)
	}
}

func TestSubmit_HistoryFailureAbortsBeforeNetwork(t *testing.T) {
	searcher := &mockSearcher{result: testResult()}
	recorder := &mockRecorder{err: errors.New("disk full")}
	presenter := &recordingPresenter{}
	svc := NewService(searcher, recorder, WithPresenter(presenter))

	task, err := svc.Submit(Request{Query: "go developer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitDone(t, task)

	if task.State() != StateFailed {
		t.Fatalf("expected failed, got %s", task.State())
	}
	if searcher.callCount() != 0 {
		t.Error("provider must not be called when the history write fails")
	}

	_, errs, enabled := presenter.snapshot()
	if len(errs) != 1 {
		t.Fatalf("expected one ShowError, got %v", errs)
	}
	if len(enabled) == 0 || !enabled[len(enabled)-1] {
		t.Errorf("trigger must end re-enabled, got %v", enabled)
	}
}

func TestSubmit_SearchFailureKeepsSnapshot(t *testing.T) {
	searcher := &mockSearcher{result: testResult()}
	recorder := &mockRecorder{}
	presenter := &recordingPresenter{}
	svc := NewService(searcher, recorder, WithPresenter(presenter))

	first, err := svc.Submit(Request{Query: "go developer"})
	if err != nil {
		t.Fatal(err)
	}
	waitDone(t, first)

	searcher.setErr(apperror.New(apperror.Transport, "connection refused"))
	second, err := svc.Submit(Request{Query: "backend"})
	if err != nil {
		t.Fatal(err)
	}
	waitDone(t, second)

	if second.State() != StateFailed {
		t.Fatalf("expected failed, got %s", second.State())
	}
	if second.Err() != "could not reach the job search service" {
		t.Errorf("unexpected failure message: %q", second.Err())
	}

	view := svc.Session()
	if len(view.Jobs) != 2 || view.Total != 42 {
		t.Errorf("failed search must not touch the snapshot, got %d jobs total %d", len(view.Jobs), view.Total)
	}

	// The failed query is still part of history.
	if recorder.count() != 2 {
		t.Errorf("expected 2 history records, got %d", recorder.count())
	}

	_, errs, enabled := presenter.snapshot()
	if len(errs) != 1 {
		t.Errorf("expected one ShowError, got %v", errs)
	}
	if !enabled[len(enabled)-1] {
		t.Errorf("trigger must end re-enabled, got %v", enabled)
	}
}

func TestSubmit_RejectsOverlap(t *testing.T) {
	block := make(chan struct{})
	searcher := &mockSearcher{result: testResult(), block: block}
	recorder := &mockRecorder{}
	svc := NewService(searcher, recorder)

	first, err := svc.Submit(Request{Query: "go developer"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Submit(Request{Query: "backend"})
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code() != apperror.Conflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if first.State() != StateRunning {
		t.Errorf("running task must be unaffected, got %s", first.State())
	}

	close(block)
	waitDone(t, first)
	if first.State() != StateDone {
		t.Errorf("expected first task to finish, got %s", first.State())
	}

	// Once settled, new submissions are accepted again.
	second, err := svc.Submit(Request{Query: "backend"})
	if err != nil {
		t.Fatalf("submit after completion: %v", err)
	}
	waitDone(t, second)
}

func TestSubmit_PanicBecomesFailedTask(t *testing.T) {
	svc := NewService(panicSearcher{}, &mockRecorder{})

	task, err := svc.Submit(Request{Query: "go developer"})
	if err != nil {
		t.Fatal(err)
	}
	waitDone(t, task)

	if task.State() != StateFailed {
		t.Fatalf("expected failed, got %s", task.State())
	}
	if task.Err() == "" {
		t.Error("expected a user-facing failure message")
	}
}

type panicSearcher struct{}

func (panicSearcher) Search(context.Context, string, []string, map[string]string, int) (*jobtech.Result, error) {
	panic("provider exploded")
}

func TestApplyFilters_NoNetworkNoHistory(t *testing.T) {
	searcher := &mockSearcher{result: testResult()}
	recorder := &mockRecorder{}
	svc := NewService(searcher, recorder, WithNow(func() time.Time {
		return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	}))

	task, err := svc.Submit(Request{Query: "go developer"})
	if err != nil {
		t.Fatal(err)
	}
	waitDone(t, task)

	view := svc.ApplyFilters(map[string]string{jobtech.FilterWorkingHours: jobtech.WorkingHoursFullTime})
	if len(view.Jobs) != 1 || view.Jobs[0].ID != "29000001" {
		t.Errorf("expected only the full-time job, got %+v", view.Jobs)
	}
	if view.Total != 42 {
		t.Errorf("provider total must survive filtering, got %d", view.Total)
	}

	if searcher.callCount() != 1 || recorder.count() != 1 {
		t.Error("ApplyFilters must not search or record")
	}

	// Filters persist on the session.
	if svc.Session().Filters[jobtech.FilterWorkingHours] != jobtech.WorkingHoursFullTime {
		t.Errorf("filters not retained: %v", svc.Session().Filters)
	}
}

func TestSubmit_UsesSessionFilters(t *testing.T) {
	searcher := &mockSearcher{result: testResult()}
	recorder := &mockRecorder{}
	svc := NewService(searcher, recorder)

	svc.ApplyFilters(map[string]string{jobtech.FilterPublished: jobtech.PublishedToday})

	task, err := svc.Submit(Request{Query: "go developer"})
	if err != nil {
		t.Fatal(err)
	}
	waitDone(t, task)

	if searcher.lastFilters[jobtech.FilterPublished] != jobtech.PublishedToday {
		t.Errorf("provider call missed session filters: %v", searcher.lastFilters)
	}
	if recorder.last().Filters[jobtech.FilterPublished] != jobtech.PublishedToday {
		t.Errorf("history record missed session filters: %v", recorder.last().Filters)
	}

	// A request carrying its own filters replaces the session's.
	task, err = svc.Submit(Request{
		Query:   "backend",
		Filters: map[string]string{jobtech.FilterWorkingHours: jobtech.WorkingHoursPartTime},
	})
	if err != nil {
		t.Fatal(err)
	}
	waitDone(t, task)

	if _, ok := searcher.lastFilters[jobtech.FilterPublished]; ok {
		t.Errorf("replaced filters still carry old keys: %v", searcher.lastFilters)
	}
	if svc.Session().Filters[jobtech.FilterWorkingHours] != jobtech.WorkingHoursPartTime {
		t.Errorf("session filters not replaced: %v", svc.Session().Filters)
	}
}

func TestTaskLookup(t *testing.T) {
	searcher := &mockSearcher{result: testResult()}
	svc := NewService(searcher, &mockRecorder{})

	task, err := svc.Submit(Request{Query: "go developer"})
	if err != nil {
		t.Fatal(err)
	}
	waitDone(t, task)

	if svc.Task(task.ID()) != task {
		t.Error("expected lookup to return the submitted task")
	}
	if svc.Task("unknown") != nil {
		t.Error("expected nil for unknown task id")
	}
}

func TestSubmit_DropsOldestTaskHandles(t *testing.T) {
	searcher := &mockSearcher{result: testResult()}
	svc := NewService(searcher, &mockRecorder{})

	ids := make([]string, 0, maxTrackedTasks+1)
	for i := 0; i <= maxTrackedTasks; i++ {
		task, err := svc.Submit(Request{Query: "go developer"})
		if err != nil {
			t.Fatal(err)
		}
		waitDone(t, task)
		ids = append(ids, task.ID())
	}

	if svc.Task(ids[0]) != nil {
		t.Error("expected the oldest handle to be dropped")
	}
	if svc.Task(ids[len(ids)-1]) == nil {
		t.Error("expected the newest handle to be retained")
	}
	if len(svc.tasks) != maxTrackedTasks {
		t.Errorf("expected %d retained handles, got %d", maxTrackedTasks, len(svc.tasks))
	}
}
