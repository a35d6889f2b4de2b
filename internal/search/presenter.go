package search

import "jobfinder/internal/job"

// Presenter receives orchestrator callbacks. Calls are marshaled through
// the service's poster, so implementations backed by a single-goroutine UI
// may touch their state directly.
type Presenter interface {
	ShowResults(jobs []job.Job, total int)
	ShowError(message string)
	SetSearchEnabled(enabled bool)
}
