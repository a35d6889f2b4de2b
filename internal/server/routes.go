package server

import (
	"net/http"

	"jobfinder/internal/history"
	"jobfinder/internal/saved"
	"jobfinder/internal/search"
)

// NewHandler creates the full HTTP handler with routes and middleware.
// Exported for use in tests (e.g., httptest.NewServer).
func NewHandler(searchSvc *search.Service, historySvc *history.Service, savedSvc *saved.Service) http.Handler {
	return newMux(searchSvc, historySvc, savedSvc)
}

func newMux(searchSvc *search.Service, historySvc *history.Service, savedSvc *saved.Service) http.Handler {
	h := &handler{
		searchSvc:  searchSvc,
		historySvc: historySvc,
		savedSvc:   savedSvc,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("POST /api/v1/search", h.submitSearch)
	mux.HandleFunc("GET /api/v1/search/tasks/{id}", h.getTask)
	mux.HandleFunc("GET /api/v1/search/session", h.getSession)
	mux.HandleFunc("PUT /api/v1/search/filters", h.putFilters)
	mux.HandleFunc("GET /api/v1/history", h.listHistory)
	mux.HandleFunc("GET /api/v1/saved", h.listSaved)
	mux.HandleFunc("PUT /api/v1/saved", h.saveJob)
	mux.HandleFunc("DELETE /api/v1/saved/{id}", h.deleteSaved)
	mux.HandleFunc("GET /api/v1/saved/stats", h.savedStats)

	// Apply middleware stack: recovery -> requestID -> logging
	var handler http.Handler = mux
	handler = logging(handler)
	handler = requestID(handler)
	handler = recovery(handler)

	return handler
}
