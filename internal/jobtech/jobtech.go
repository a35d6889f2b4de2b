// Package jobtech implements a client for the Swedish JobTech job-listing
// API (Platsbanken). One search issues one GET against the search endpoint
// and decodes the hits envelope; pagination beyond a single page is out of
// scope.
package jobtech

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jobfinder/internal/apperror"
)

const (
	defaultBaseURL = "https://jobsearch.api.jobtechdev.se"
	defaultLimit   = 100
	defaultTimeout = 10 * time.Second
	dateFormat     = "2006-01-02"
)

// Filter option names and values understood by the client. Anything outside
// these adds no request parameter.
const (
	FilterWorkingHours = "working-hours"
	FilterPublished    = "published"

	WorkingHoursAll      = "all"
	WorkingHoursFullTime = "full-time"
	WorkingHoursPartTime = "part-time"

	PublishedAll        = "all"
	PublishedToday      = "today"
	PublishedLast7Days  = "last-7-days"
	PublishedLast30Days = "last-30-days"
)

// Hit mirrors one raw job record in the search response. Nested objects are
// value structs so missing or null keys decode to zero values instead of
// failing.
type Hit struct {
	ID       string `json:"id"`
	Headline string `json:"headline"`
	Employer struct {
		Name string `json:"name"`
	} `json:"employer"`
	WorkplaceAddress struct {
		Municipality string `json:"municipality"`
	} `json:"workplace_address"`
	WebpageURL          string `json:"webpage_url"`
	PublicationDate     string `json:"publication_date"`
	ApplicationDeadline string `json:"application_deadline"`
	Description         struct {
		Text string `json:"text"`
	} `json:"description"`
	SalaryDescription string `json:"salary_description"`
	EmploymentType    struct {
		Label string `json:"label"`
	} `json:"employment_type"`
	WorkingHoursType struct {
		Label string `json:"label"`
	} `json:"working_hours_type"`
}

// Result is the decoded search envelope. Total is the provider's reported
// match count and may exceed len(Hits) when the page size caps the hits.
type Result struct {
	Hits  []Hit
	Total int
}

type searchResponse struct {
	Hits  []Hit `json:"hits"`
	Total struct {
		Value int `json:"value"`
	} `json:"total"`
}

// Client fetches job listings from the JobTech search API.
type Client struct {
	client  *http.Client
	baseURL string
	limit   int
	now     func() time.Time
}

// New creates a Client with the given options applied.
func New(opts ...Option) *Client {
	c := &Client{
		client:  &http.Client{Timeout: defaultTimeout},
		baseURL: defaultBaseURL,
		limit:   defaultLimit,
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Option configures a Client.
type Option func(*Client)

// WithClient sets the HTTP client. Its timeout bounds each search request.
func WithClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout overrides the request timeout on the current HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// WithLimit sets the page size used when a search passes limit <= 0.
func WithLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithNow overrides the clock used for published-after lower bounds.
func WithNow(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// Search issues one GET against the search endpoint. Locations are joined
// into a single municipality parameter; filters map onto provider parameters
// per the constants above. Transport failures (including timeout and non-2xx
// status) and malformed bodies are reported as distinct apperror codes and
// propagate unmodified; there is no retry.
func (c *Client) Search(ctx context.Context, query string, locations []string, filters map[string]string, limit int) (*Result, error) {
	if limit <= 0 {
		limit = c.limit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	if len(locations) > 0 {
		params.Set("municipality", strings.Join(locations, ","))
	}
	c.applyFilters(params, filters)

	slog.Info("searching jobs", "query", query, "locations", strings.Join(locations, ","))

	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, apperror.Wrap(apperror.Transport, "build search request", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req) //nolint:gosec // URL built from internal config
	if err != nil {
		return nil, apperror.Wrap(apperror.Transport, "job search request failed", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, apperror.New(apperror.Transport, fmt.Sprintf("job search returned HTTP %d", res.StatusCode))
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, apperror.Wrap(apperror.Transport, "read search response", err)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, apperror.Wrap(apperror.Parse, "parse search response", err)
	}

	slog.Info("search finished", "query", query, "count", len(sr.Hits), "total", sr.Total.Value)

	return &Result{Hits: sr.Hits, Total: sr.Total.Value}, nil
}

func (c *Client) applyFilters(params url.Values, filters map[string]string) {
	if label, ok := WorkingHoursLabel(filters[FilterWorkingHours]); ok {
		params.Set("working-hours-type", label)
	}
	if days, ok := PublishedDays(filters[FilterPublished]); ok {
		params.Set("published-after", c.now().AddDate(0, 0, -days).Format(dateFormat))
	}
}

// WorkingHoursLabel maps a working-hours option to the provider's Swedish
// enum value. The second return is false for options that add no parameter.
func WorkingHoursLabel(option string) (string, bool) {
	switch option {
	case WorkingHoursFullTime:
		return "heltid", true
	case WorkingHoursPartTime:
		return "deltid", true
	default:
		return "", false
	}
}

// PublishedDays maps a recency option to how many days back its lower bound
// lies. The second return is false for options that add no parameter.
func PublishedDays(option string) (int, bool) {
	switch option {
	case PublishedToday:
		return 0, true
	case PublishedLast7Days:
		return 7, true
	case PublishedLast30Days:
		return 30, true
	default:
		return 0, false
	}
}
