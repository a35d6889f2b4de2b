package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"jobfinder/internal/history"
	"jobfinder/internal/job"
	"jobfinder/internal/saved"
)

const bannerText = `
     ██╗ ██████╗ ██████╗ ███████╗██╗███╗   ██╗██████╗ ███████╗██████╗
     ██║██╔═══██╗██╔══██╗██╔════╝██║████╗  ██║██╔══██╗██╔════╝██╔══██╗
     ██║██║   ██║██████╔╝█████╗  ██║██╔██╗ ██║██║  ██║█████╗  ██████╔╝
██   ██║██║   ██║██╔══██╗██╔══╝  ██║██║╚██╗██║██║  ██║██╔══╝  ██╔══██╗
╚█████╔╝╚██████╔╝██████╔╝██║     ██║██║ ╚████║██████╔╝██║     ██║  ██║
 ╚════╝  ╚═════╝ ╚═════╝ ╚═╝     ╚═╝╚═╝  ╚═══╝╚═════╝ ╚═╝     ╚═╝  ╚═╝
`

// PrintBanner displays the application banner unless silenced.
func PrintBanner(silence bool) {
	if silence {
		return
	}
	from := pterm.NewRGB(41, 128, 185)
	to := pterm.NewRGB(142, 68, 173)

	var b strings.Builder
	runes := []rune(bannerText)
	for i, r := range runes {
		b.WriteString(from.Fade(0, float32(len(runes)), float32(i), to).Sprint(string(r)))
	}
	fmt.Println(b.String())
}

// FormatURL renders a URL, as a clickable OSC 8 terminal hyperlink when
// supported. BEL terminates the sequence for wider compatibility.
func FormatURL(url string, useHyperlink bool) string {
	if !useHyperlink {
		return url
	}
	return fmt.Sprintf("\033]8;;%s\a%s\033]8;;\a", url, "Open listing")
}

// Terminal implements the search presenter on top of the UI loop: the
// orchestrator posts its callbacks, the main goroutine executes them here.
type Terminal struct {
	useLinks bool
	spinner  *pterm.SpinnerPrinter
}

func NewTerminal(useLinks bool) *Terminal {
	return &Terminal{useLinks: useLinks}
}

// SetSearchEnabled drives the in-flight indicator: the trigger is disabled
// exactly while a search runs.
func (t *Terminal) SetSearchEnabled(enabled bool) {
	if !enabled {
		if t.spinner == nil {
			t.spinner, _ = pterm.DefaultSpinner.Start("Searching...")
		}
		return
	}
	t.stopSpinner()
}

func (t *Terminal) ShowResults(jobs []job.Job, total int) {
	t.stopSpinner()
	RenderJobs(jobs, total, t.useLinks)
}

func (t *Terminal) ShowError(message string) {
	t.stopSpinner()
	fmt.Println(pterm.Red(message))
}

func (t *Terminal) stopSpinner() {
	if t.spinner != nil {
		_ = t.spinner.Stop()
		t.spinner = nil
	}
}

// RenderJobs prints the result list with 1-based indexes so commands like
// `save 2` can reference a row.
func RenderJobs(jobs []job.Job, total int, useLinks bool) {
	if len(jobs) == 0 {
		fmt.Println("No jobs matched.")
		return
	}

	fmt.Printf("Showing %d of %d jobs\n\n", len(jobs), total)
	for i, j := range jobs {
		fmt.Printf("%2d. %s\n", i+1, pterm.Cyan(j.Title))
		fmt.Printf("    %s | %s\n", j.Company, j.Location)
		if j.WorkingHours != "" || j.EmploymentType != "" {
			fmt.Printf("    %s\n", joinNonEmpty(" | ", j.EmploymentType, j.WorkingHours))
		}
		if j.PublishedDate != "" {
			fmt.Printf("    Published: %s\n", j.PublishedDate)
		}
		if j.URL != "" {
			fmt.Printf("    %s\n", FormatURL(j.URL, useLinks))
		}
		fmt.Println()
	}
}

// RenderHistory prints past searches with 1-based indexes so `rerun <n>`
// can reference a row.
func RenderHistory(entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Println("No searches recorded yet.")
		return
	}

	for i, e := range entries {
		line := fmt.Sprintf("%2d. %q", i+1, e.Query)
		if len(e.Locations) > 0 {
			line += " in " + strings.Join(e.Locations, ", ")
		}
		fmt.Printf("%s  (%s)\n", line, humanize.Time(e.Timestamp))
	}
}

func RenderSaved(entries []saved.Job, useLinks bool) {
	if len(entries) == 0 {
		fmt.Println("No saved jobs.")
		return
	}

	for _, e := range entries {
		fmt.Printf("%s  [%s]\n", pterm.Cyan(e.Job.Title), colorizeStatus(e.Status))
		fmt.Printf("    %s | %s | saved %s\n", e.Job.Company, e.Job.Location, humanize.Time(e.SavedAt))
		if e.Notes != "" {
			fmt.Printf("    notes: %s\n", e.Notes)
		}
		if e.Job.URL != "" {
			fmt.Printf("    %s\n", FormatURL(e.Job.URL, useLinks))
		}
		fmt.Printf("    id: %s\n\n", e.Job.ID)
	}
}

// statusOrder fixes the rendering order for stats; map iteration would
// shuffle it.
var statusOrder = []saved.Status{
	saved.StatusNew, saved.StatusSaved, saved.StatusApplied,
	saved.StatusInterview, saved.StatusRejected, saved.StatusAccepted,
}

// orderedStatuses lists every status present in counts: the known ones in
// display order, then anything else the store carries, sorted.
func orderedStatuses(counts map[saved.Status]int) []saved.Status {
	known := make(map[saved.Status]bool, len(statusOrder))
	ordered := make([]saved.Status, 0, len(counts))
	for _, st := range statusOrder {
		known[st] = true
		if counts[st] > 0 {
			ordered = append(ordered, st)
		}
	}

	var extras []saved.Status
	for st, n := range counts {
		if n > 0 && !known[st] {
			extras = append(extras, st)
		}
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i] < extras[j] })
	return append(ordered, extras...)
}

func RenderStats(counts map[saved.Status]int) {
	statuses := orderedStatuses(counts)
	if len(statuses) == 0 {
		fmt.Println("No saved jobs.")
		return
	}

	total := 0
	for _, st := range statuses {
		fmt.Printf("%-10s %d\n", st, counts[st])
		total += counts[st]
	}
	fmt.Printf("%-10s %d\n", "total", total)
}

func colorizeStatus(s saved.Status) string {
	switch s {
	case saved.StatusAccepted:
		return pterm.Green(string(s))
	case saved.StatusInterview:
		return pterm.LightGreen(string(s))
	case saved.StatusApplied:
		return pterm.Yellow(string(s))
	case saved.StatusRejected:
		return pterm.Red(string(s))
	default:
		return pterm.Cyan(string(s))
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
