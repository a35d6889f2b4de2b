package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"jobfinder/internal/history"
	"jobfinder/internal/saved"
	"jobfinder/internal/search"
)

type handler struct {
	searchSvc  *search.Service
	historySvc *history.Service
	savedSvc   *saved.Service
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// submitSearch accepts the search and answers immediately with the task
// handle; callers poll the task endpoint for the outcome.
func (h *handler) submitSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.searchSvc.Submit(search.Request{
		Query:     req.Query,
		Locations: req.Locations,
		Filters:   req.Filters,
		Limit:     req.Limit,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, task.View())
}

func (h *handler) getTask(w http.ResponseWriter, r *http.Request) {
	task := h.searchSvc.Task(r.PathValue("id"))
	if task == nil {
		writeError(w, http.StatusNotFound, "no such task")
		return
	}
	writeJSON(w, http.StatusOK, task.View())
}

func (h *handler) getSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.searchSvc.Session())
}

func (h *handler) putFilters(w http.ResponseWriter, r *http.Request) {
	var req filtersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Filters == nil {
		req.Filters = map[string]string{}
	}

	writeJSON(w, http.StatusOK, h.searchSvc.ApplyFilters(req.Filters))
}

func (h *handler) listHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.historySvc.List(r.Context(), limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *handler) listSaved(w http.ResponseWriter, r *http.Request) {
	entries, err := h.savedSvc.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *handler) saveJob(w http.ResponseWriter, r *http.Request) {
	var req saveJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry := saved.Job{
		Job:    req.Job,
		Status: saved.Status(req.Status),
		Notes:  req.Notes,
	}
	if err := h.savedSvc.Save(r.Context(), entry); err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": req.Job.ID})
}

func (h *handler) deleteSaved(w http.ResponseWriter, r *http.Request) {
	if err := h.savedSvc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) savedStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.savedSvc.Stats(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}
