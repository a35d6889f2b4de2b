package job

import (
	"testing"

	"jobfinder/internal/jobtech"
)

func TestFromHit_AllFieldsMissing(t *testing.T) {
	j := FromHit(jobtech.Hit{})

	if j.Title != PlaceholderTitle {
		t.Errorf("expected title %q, got %q", PlaceholderTitle, j.Title)
	}
	if j.Company != PlaceholderCompany {
		t.Errorf("expected company %q, got %q", PlaceholderCompany, j.Company)
	}
	if j.Location != PlaceholderLocation {
		t.Errorf("expected location %q, got %q", PlaceholderLocation, j.Location)
	}
	for name, got := range map[string]string{
		"id":              j.ID,
		"url":             j.URL,
		"published_date":  j.PublishedDate,
		"deadline":        j.Deadline,
		"description":     j.Description,
		"salary":          j.Salary,
		"employment_type": j.EmploymentType,
		"working_hours":   j.WorkingHours,
	} {
		if got != "" {
			t.Errorf("expected empty %s, got %q", name, got)
		}
	}
}

func TestFromHit_Full(t *testing.T) {
	h := jobtech.Hit{
		ID:                  "29000001",
		Headline:            "Go Developer",
		WebpageURL:          "https://example.com/jobs/29000001",
		PublicationDate:     "2024-06-10T08:00:00",
		ApplicationDeadline: "2024-07-01T23:59:59",
		SalaryDescription:   "Fast månadslön",
	}
	h.Employer.Name = "Acme AB"
	h.WorkplaceAddress.Municipality = "Stockholm"
	h.Description.Text = "Build backend services."
	h.EmploymentType.Label = "Vanlig anställning"
	h.WorkingHoursType.Label = "Heltid"

	j := FromHit(h)

	if j.ID != "29000001" || j.Title != "Go Developer" || j.Company != "Acme AB" {
		t.Errorf("unexpected mapping: %+v", j)
	}
	if j.Location != "Stockholm" || j.URL != "https://example.com/jobs/29000001" {
		t.Errorf("unexpected mapping: %+v", j)
	}
	if j.Description != "Build backend services." || j.WorkingHours != "Heltid" {
		t.Errorf("unexpected mapping: %+v", j)
	}
}

func TestFromHit_NestedFieldsDefaultIndependently(t *testing.T) {
	h := jobtech.Hit{Headline: "Go Developer"}
	h.Employer.Name = "Acme AB"
	// Municipality left empty while employer is present.

	j := FromHit(h)

	if j.Company != "Acme AB" {
		t.Errorf("expected company 'Acme AB', got %q", j.Company)
	}
	if j.Location != PlaceholderLocation {
		t.Errorf("expected location placeholder, got %q", j.Location)
	}
}

func TestFromHits_PreservesOrder(t *testing.T) {
	hits := []jobtech.Hit{
		{ID: "1", Headline: "First"},
		{ID: "2", Headline: "Second"},
	}

	jobs := FromHits(hits)

	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != "1" || jobs[1].ID != "2" {
		t.Errorf("expected order preserved, got %q then %q", jobs[0].ID, jobs[1].ID)
	}
}

func TestApplyDefaults_KeepsExistingValues(t *testing.T) {
	j := Job{Title: "Go Developer"}
	ApplyDefaults(&j)

	if j.Title != "Go Developer" {
		t.Errorf("expected title untouched, got %q", j.Title)
	}
	if j.Company != PlaceholderCompany {
		t.Errorf("expected company placeholder, got %q", j.Company)
	}
}
