// Package saved tracks jobs the user has set aside, together with an
// application status and free-text notes.
package saved

import (
	"fmt"
	"time"

	"jobfinder/internal/job"
)

// Status tracks how far an application for a saved job has progressed.
type Status string

const (
	StatusNew       Status = "new"
	StatusSaved     Status = "saved"
	StatusApplied   Status = "applied"
	StatusInterview Status = "interview"
	StatusRejected  Status = "rejected"
	StatusAccepted  Status = "accepted"
)

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusNew, StatusSaved, StatusApplied, StatusInterview, StatusRejected, StatusAccepted:
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Job is one saved entry: the job record itself plus tracking state. Entries
// are keyed by the job record's id; saving the same id again replaces the
// entry and refreshes SavedAt.
type Job struct {
	Job     job.Job   `json:"job"`
	Status  Status    `json:"status"`
	Notes   string    `json:"notes,omitempty"`
	SavedAt time.Time `json:"savedAt"`
}
