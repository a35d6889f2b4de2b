package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"jobfinder/internal/apperror"
	"jobfinder/internal/config"
	"jobfinder/internal/history"
	"jobfinder/internal/jobtech"
	"jobfinder/internal/logging"
	"jobfinder/internal/platform/sqlite"
	historyrepo "jobfinder/internal/repository/history"
	savedrepo "jobfinder/internal/repository/saved"
	"jobfinder/internal/saved"
	"jobfinder/internal/search"
	"jobfinder/internal/ui"
)

// printExamples displays usage examples for the program.
func printExamples() {
	fmt.Println("\nUsage examples:")
	fmt.Println("\n1. Search for Go jobs in Stockholm:")
	fmt.Println("   jobfinder -query \"golang\" -locations \"Stockholm\"")
	fmt.Println("\n2. Full-time jobs published in the last week, keep the 2nd hit with a note:")
	fmt.Println("   jobfinder -query \"backend\" -working-hours full-time -published last-7-days -save 2 -notes \"call recruiter\"")
	fmt.Println("\n3. List saved jobs you have applied to:")
	fmt.Println("   jobfinder -saved -status applied")
	fmt.Println("\n4. Show the 10 most recent searches:")
	fmt.Println("   jobfinder -history 10")
	fmt.Println("\n5. Remove a saved job and show the remaining counts:")
	fmt.Println("   jobfinder -delete 29000001 && jobfinder -stats")
	fmt.Println("\nWithout action flags jobfinder starts an interactive prompt; type help there.")
}

type app struct {
	ctx        context.Context
	searchSvc  *search.Service
	historySvc *history.Service
	savedSvc   *saved.Service
	loop       *ui.Loop
	useLinks   bool

	locations   []string
	lastHistory []history.Entry
}

func main() {
	query := flag.String("query", "", "search for jobs matching this text")
	locationsFlag := flag.String("locations", "", "comma separated municipalities to search in")
	workingHours := flag.String("working-hours", "", "all, full-time or part-time")
	published := flag.String("published", "", "all, today, last-7-days or last-30-days")
	limit := flag.Int("limit", 0, "maximum results to request (0 = configured default)")
	saveN := flag.Int("save", 0, "save the Nth result of this search")
	notes := flag.String("notes", "", "notes to attach when saving")
	status := flag.String("status", "", "status filter for -saved, or status to set with -save")
	historyN := flag.Int("history", 0, "show the N most recent searches")
	listSaved := flag.Bool("saved", false, "list saved jobs")
	deleteID := flag.String("delete", "", "delete a saved job by id")
	stats := flag.Bool("stats", false, "show saved job counts by status")
	silence := flag.Bool("silence", false, "silence the banner")
	dbPath := flag.String("db", "", "database path override")
	examples := flag.Bool("examples", false, "show usage examples")
	flag.Parse()

	ui.PrintBanner(*silence)

	if *examples {
		printExamples()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	// The terminal owns stdout; logs go to the file only.
	logFile, err := logging.Setup(cfg.LogPath, cfg.LogLevel, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, "set up logging:", err)
		os.Exit(1)
	}
	defer func() { _ = logFile.Close() }()

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open database:", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	historySvc := history.NewService(historyrepo.NewRepository(db.DB), history.WithLimit(cfg.HistoryLimit))
	savedSvc := saved.NewService(savedrepo.NewRepository(db.DB))

	loop := ui.NewLoop()
	term := ui.NewTerminal(true)
	client := jobtech.New(
		jobtech.WithBaseURL(cfg.APIBaseURL),
		jobtech.WithTimeout(time.Duration(cfg.APITimeoutSeconds)*time.Second),
		jobtech.WithLimit(cfg.ResultLimit),
	)
	searchSvc := search.NewService(client, historySvc,
		search.WithPresenter(term),
		search.WithPoster(loop.Post),
	)

	a := &app{
		ctx:        context.Background(),
		searchSvc:  searchSvc,
		historySvc: historySvc,
		savedSvc:   savedSvc,
		loop:       loop,
		useLinks:   true,
		locations:  splitLocations(*locationsFlag),
	}

	switch {
	case *query != "":
		if !a.oneShotSearch(*query, *workingHours, *published, *limit, *saveN, *status, *notes) {
			os.Exit(1)
		}
	case *historyN > 0:
		a.showHistory(*historyN)
	case *listSaved:
		a.showSaved(*status)
	case *deleteID != "":
		a.deleteSaved(*deleteID)
	case *stats:
		a.showStats()
	default:
		a.repl()
	}
}

func (a *app) oneShotSearch(query, workingHours, published string, limit, saveN int, status, notes string) bool {
	filters, err := buildFilters(workingHours, published)
	if err != nil {
		fmt.Println(pterm.Red(err.Error()))
		return false
	}

	task, err := a.searchSvc.Submit(search.Request{
		Query:     query,
		Locations: a.locations,
		Filters:   filters,
		Limit:     limit,
	})
	if err != nil {
		fmt.Println(pterm.Red(errMessage(err)))
		return false
	}
	a.loop.RunUntil(task.Done())

	if task.State() == search.StateFailed {
		return false
	}
	if saveN > 0 {
		a.saveResult(saveN, status, notes)
	}
	return true
}

func (a *app) saveResult(n int, status, notes string) {
	view := a.searchSvc.Session()
	if n > len(view.Jobs) {
		fmt.Println(pterm.Red(fmt.Sprintf("there is no result %d to save", n)))
		return
	}

	entry := saved.Job{Job: view.Jobs[n-1], Status: saved.Status(status), Notes: notes}
	if err := a.savedSvc.Save(a.ctx, entry); err != nil {
		fmt.Println(pterm.Red(errMessage(err)))
		return
	}
	fmt.Println(pterm.Green("Saved: " + entry.Job.Title))
}

func (a *app) showHistory(limit int) {
	entries, err := a.historySvc.List(a.ctx, limit)
	if err != nil {
		fmt.Println(pterm.Red(errMessage(err)))
		return
	}
	a.lastHistory = entries
	ui.RenderHistory(entries)
}

func (a *app) showSaved(status string) {
	entries, err := a.savedSvc.List(a.ctx, status)
	if err != nil {
		fmt.Println(pterm.Red(errMessage(err)))
		return
	}
	ui.RenderSaved(entries, a.useLinks)
}

func (a *app) deleteSaved(id string) {
	if err := a.savedSvc.Delete(a.ctx, id); err != nil {
		fmt.Println(pterm.Red(errMessage(err)))
		return
	}
	fmt.Println("Deleted", id)
}

func (a *app) showStats() {
	counts, err := a.savedSvc.Stats(a.ctx)
	if err != nil {
		fmt.Println(pterm.Red(errMessage(err)))
		return
	}
	ui.RenderStats(counts)
}

const replHelp = `Commands:
  search <text>              run a search with the current locations and filters
  loc <a,b,...> | loc clear  set or clear the locations
  filter <key> <value>       set a filter: working-hours or published
  filters                    show the active locations and filters
  show                       show the current results again
  save <n> [notes...]        save the nth result, with optional notes
  saved [status]             list saved jobs, optionally by status
  delete <id>                delete a saved job
  history [n]                show recent searches
  rerun <n>                  re-run a search from the history list
  stats                      saved job counts by status
  help                       this text
  quit                       leave`

var filterOptions = map[string][]string{
	jobtech.FilterWorkingHours: {jobtech.WorkingHoursAll, jobtech.WorkingHoursFullTime, jobtech.WorkingHoursPartTime},
	jobtech.FilterPublished:    {jobtech.PublishedAll, jobtech.PublishedToday, jobtech.PublishedLast7Days, jobtech.PublishedLast30Days},
}

// buildFilters turns the one-shot filter flags into a search filter set. An
// empty value or "all" leaves its key unset.
func buildFilters(workingHours, published string) (map[string]string, error) {
	pairs := []struct{ key, value string }{
		{jobtech.FilterWorkingHours, workingHours},
		{jobtech.FilterPublished, published},
	}

	var filters map[string]string
	for _, p := range pairs {
		if p.value == "" || p.value == "all" {
			continue
		}
		if !validFilterValue(p.key, p.value) {
			return nil, fmt.Errorf("%s can be one of: %s", p.key, strings.Join(filterOptions[p.key], ", "))
		}
		if filters == nil {
			filters = make(map[string]string, len(pairs))
		}
		filters[p.key] = p.value
	}
	return filters, nil
}

func validFilterValue(key, value string) bool {
	for _, o := range filterOptions[key] {
		if value == o {
			return true
		}
	}
	return false
}

func (a *app) repl() {
	fmt.Println("Type help for commands.")
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("jobfinder> ")

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !a.dispatch(line) {
			break
		}
		fmt.Print("jobfinder> ")
	}
}

// dispatch runs one prompt line; it returns false to leave the prompt.
func (a *app) dispatch(line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "search":
		if len(args) == 0 {
			fmt.Println(pterm.Red("usage: search <text>"))
			return true
		}
		a.runSearch(strings.Join(args, " "))

	case "loc":
		if len(args) == 0 {
			fmt.Println(pterm.Red("usage: loc <a,b,...> or loc clear"))
			return true
		}
		if args[0] == "clear" {
			a.locations = nil
			fmt.Println("Locations cleared.")
			return true
		}
		a.locations = splitLocations(strings.Join(args, " "))
		fmt.Println("Searching in:", strings.Join(a.locations, ", "))

	case "filter":
		a.setFilter(args)

	case "filters":
		a.showFilters()

	case "show":
		view := a.searchSvc.Session()
		ui.RenderJobs(view.Jobs, view.Total, a.useLinks)

	case "save":
		if len(args) == 0 {
			fmt.Println(pterm.Red("usage: save <n> [notes...]"))
			return true
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			fmt.Println(pterm.Red("save wants a result number, e.g. save 2"))
			return true
		}
		a.saveResult(n, "", strings.Join(args[1:], " "))

	case "saved":
		status := ""
		if len(args) > 0 {
			status = args[0]
		}
		a.showSaved(status)

	case "delete":
		if len(args) == 0 {
			fmt.Println(pterm.Red("usage: delete <id>"))
			return true
		}
		a.deleteSaved(args[0])

	case "history":
		limit := 0
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				fmt.Println(pterm.Red("history wants a count, e.g. history 5"))
				return true
			}
			limit = n
		}
		a.showHistory(limit)

	case "rerun":
		a.rerun(args)

	case "stats":
		a.showStats()

	case "help":
		fmt.Println(replHelp)

	case "quit", "exit":
		return false

	default:
		fmt.Println(pterm.Red("unknown command; type help"))
	}
	return true
}

func (a *app) runSearch(query string) {
	task, err := a.searchSvc.Submit(search.Request{
		Query:     query,
		Locations: a.locations,
	})
	if err != nil {
		fmt.Println(pterm.Red(errMessage(err)))
		return
	}
	a.loop.RunUntil(task.Done())
}

func (a *app) setFilter(args []string) {
	if len(args) != 2 {
		fmt.Println(pterm.Red("usage: filter <working-hours|published> <value>"))
		return
	}
	key, value := args[0], args[1]

	options, ok := filterOptions[key]
	if !ok {
		fmt.Println(pterm.Red("unknown filter " + key))
		return
	}
	if !validFilterValue(key, value) {
		fmt.Println(pterm.Red(fmt.Sprintf("%s can be one of: %s", key, strings.Join(options, ", "))))
		return
	}

	cfg := a.searchSvc.Session().Filters
	if value == "all" {
		delete(cfg, key)
	} else {
		cfg[key] = value
	}

	view := a.searchSvc.ApplyFilters(cfg)
	ui.RenderJobs(view.Jobs, view.Total, a.useLinks)
}

func (a *app) showFilters() {
	if len(a.locations) > 0 {
		fmt.Println("Locations:", strings.Join(a.locations, ", "))
	} else {
		fmt.Println("Locations: anywhere")
	}

	cfg := a.searchSvc.Session().Filters
	if len(cfg) == 0 {
		fmt.Println("Filters:   none")
		return
	}
	for key, value := range cfg {
		fmt.Printf("Filter:    %s = %s\n", key, value)
	}
}

func (a *app) rerun(args []string) {
	if len(args) == 0 {
		fmt.Println(pterm.Red("usage: rerun <n> (list searches with history first)"))
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		fmt.Println(pterm.Red("rerun wants a history number, e.g. rerun 1"))
		return
	}
	if len(a.lastHistory) == 0 {
		fmt.Println(pterm.Red("no history listed yet; run history first"))
		return
	}
	if n > len(a.lastHistory) {
		fmt.Println(pterm.Red(fmt.Sprintf("there is no history entry %d", n)))
		return
	}

	entry := a.lastHistory[n-1]
	a.locations = entry.Locations
	a.runSearch(entry.Query)
}

func errMessage(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message()
	}
	return err.Error()
}

func splitLocations(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	locations := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			locations = append(locations, trimmed)
		}
	}
	return locations
}
