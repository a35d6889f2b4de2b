package search

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"jobfinder/internal/job"
)

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

// Task is the handle for one background search. It is created running and
// settles exactly once into done or failed; Done is closed on settlement.
type Task struct {
	id      string
	query   string
	created time.Time

	mu       sync.Mutex
	state    State
	jobs     []job.Job
	total    int
	errText  string
	finished time.Time
	done     chan struct{}
}

func newTask(query string) *Task {
	return &Task{
		id:      uuid.NewString(),
		query:   query,
		created: time.Now(),
		state:   StateRunning,
		done:    make(chan struct{}),
	}
}

func (t *Task) ID() string    { return t.id }
func (t *Task) Query() string { return t.query }

func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Done is closed once the task reaches a terminal state.
func (t *Task) Done() <-chan struct{} { return t.done }

// Result returns the fetched jobs and the provider-reported total. It is
// only meaningful once the task is done.
func (t *Task) Result() ([]job.Job, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.jobs, t.total
}

// Err returns the user-facing failure description, empty unless failed.
func (t *Task) Err() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.errText
}

func (t *Task) complete(jobs []job.Job, total int) {
	t.mu.Lock()
	if t.state != StateRunning {
		t.mu.Unlock()
		return
	}
	t.state = StateDone
	t.jobs = jobs
	t.total = total
	t.finished = time.Now()
	t.mu.Unlock()
	close(t.done)
}

func (t *Task) fail(msg string) {
	t.mu.Lock()
	if t.state != StateRunning {
		t.mu.Unlock()
		return
	}
	t.state = StateFailed
	t.errText = msg
	t.finished = time.Now()
	t.mu.Unlock()
	close(t.done)
}

// TaskView is a point-in-time copy of a task, safe to marshal and to hand
// across goroutines.
type TaskView struct {
	ID         string    `json:"id"`
	Query      string    `json:"query"`
	State      State     `json:"state"`
	Jobs       []job.Job `json:"jobs,omitempty"`
	Total      int       `json:"total"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

func (t *Task) View() TaskView {
	t.mu.Lock()
	defer t.mu.Unlock()

	v := TaskView{
		ID:         t.id,
		Query:      t.query,
		State:      t.state,
		Total:      t.total,
		Error:      t.errText,
		CreatedAt:  t.created,
		FinishedAt: t.finished,
	}
	if t.state == StateDone {
		v.Jobs = append([]job.Job(nil), t.jobs...)
	}
	return v
}
