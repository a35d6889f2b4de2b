package saved

import (
	"context"
	"errors"
	"testing"

	"jobfinder/internal/apperror"
	"jobfinder/internal/job"
)

// --- mock repo ---
type mockRepo struct {
	entries    []Job
	deleted    []string
	listStatus Status
}

func (m *mockRepo) Upsert(_ context.Context, entry Job) error {
	for i, e := range m.entries {
		if e.Job.ID == entry.Job.ID {
			m.entries[i] = entry
			return nil
		}
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockRepo) List(_ context.Context, status Status) ([]Job, error) {
	m.listStatus = status
	return m.entries, nil
}

func (m *mockRepo) Delete(_ context.Context, jobID string) error {
	m.deleted = append(m.deleted, jobID)
	return nil
}

func (m *mockRepo) CountByStatus(_ context.Context) (map[Status]int, error) {
	counts := make(map[Status]int)
	for _, e := range m.entries {
		counts[e.Status]++
	}
	return counts, nil
}

func TestParseStatus(t *testing.T) {
	for _, s := range []Status{StatusNew, StatusSaved, StatusApplied, StatusInterview, StatusRejected, StatusAccepted} {
		got, err := ParseStatus(string(s))
		if err != nil {
			t.Errorf("ParseStatus(%q) unexpected error: %v", s, err)
		}
		if got != s {
			t.Errorf("ParseStatus(%q) = %q", s, got)
		}
	}

	for _, s := range []string{"", "archived", "SAVED", " saved"} {
		if _, err := ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) should fail", s)
		}
	}
}

func TestSave_DefaultsStatus(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	err := svc.Save(context.Background(), Job{Job: job.Job{ID: "29000001"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.entries) != 1 || repo.entries[0].Status != StatusSaved {
		t.Errorf("expected one entry with status saved, got %+v", repo.entries)
	}
}

func TestSave_RejectsMissingID(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	err := svc.Save(context.Background(), Job{})
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code() != apperror.BadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
	if len(repo.entries) != 0 {
		t.Errorf("store should not be touched, got %d entries", len(repo.entries))
	}
}

func TestSave_RejectsUnknownStatus(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	err := svc.Save(context.Background(), Job{Job: job.Job{ID: "29000001"}, Status: "archived"})
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code() != apperror.BadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestList_ParsesStatusFilter(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	if _, err := svc.List(context.Background(), "applied"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.listStatus != StatusApplied {
		t.Errorf("expected repo called with applied, got %q", repo.listStatus)
	}

	if _, err := svc.List(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.listStatus != "" {
		t.Errorf("expected repo called with empty status, got %q", repo.listStatus)
	}

	if _, err := svc.List(context.Background(), "bogus"); err == nil {
		t.Error("expected error for unknown status filter")
	}
}

func TestDelete_RequiresID(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	if err := svc.Delete(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank id")
	}
	if err := svc.Delete(context.Background(), "29000001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "29000001" {
		t.Errorf("expected delete forwarded to repo, got %v", repo.deleted)
	}
}
