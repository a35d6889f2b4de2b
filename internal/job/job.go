package job

import "jobfinder/internal/jobtech"

// Placeholder text for display fields the source left empty. The provider is
// Swedish and so are its conventions.
const (
	PlaceholderTitle    = "Utan titel"
	PlaceholderCompany  = "Okänd arbetsgivare"
	PlaceholderLocation = "Plats ej angiven"
)

// Job is one normalized job listing. Treat values as immutable once
// constructed; build them with FromHit or rehydrate them from a stored
// payload.
type Job struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	URL            string `json:"url"`
	PublishedDate  string `json:"published_date"`
	Deadline       string `json:"deadline"`
	Description    string `json:"description"`
	Salary         string `json:"salary"`
	EmploymentType string `json:"employment_type"`
	WorkingHours   string `json:"working_hours"`
}

// FromHit maps a raw provider record onto a Job. It never fails: every
// nested field defaults independently when absent. No trimming or HTML
// cleanup is applied.
func FromHit(h jobtech.Hit) Job {
	j := Job{
		ID:             h.ID,
		Title:          h.Headline,
		Company:        h.Employer.Name,
		Location:       h.WorkplaceAddress.Municipality,
		URL:            h.WebpageURL,
		PublishedDate:  h.PublicationDate,
		Deadline:       h.ApplicationDeadline,
		Description:    h.Description.Text,
		Salary:         h.SalaryDescription,
		EmploymentType: h.EmploymentType.Label,
		WorkingHours:   h.WorkingHoursType.Label,
	}
	ApplyDefaults(&j)
	return j
}

// FromHits maps one page of hits in order.
func FromHits(hits []jobtech.Hit) []Job {
	jobs := make([]Job, 0, len(hits))
	for _, h := range hits {
		jobs = append(jobs, FromHit(h))
	}
	return jobs
}

// ApplyDefaults fills the placeholder display fields when empty. Stored
// payloads are rehydrated through the same defaulting as fresh API records.
func ApplyDefaults(j *Job) {
	if j.Title == "" {
		j.Title = PlaceholderTitle
	}
	if j.Company == "" {
		j.Company = PlaceholderCompany
	}
	if j.Location == "" {
		j.Location = PlaceholderLocation
	}
}
