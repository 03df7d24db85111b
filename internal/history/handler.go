// Package history serves the stored crane runs.
package history

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"Jibcrane/internal/logger"
	"Jibcrane/internal/repo"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type Handler struct {
	Repo repo.Repository
}

// List answers GET /api/runs?limit=n.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	runs, err := h.Repo.ListRuns(r.Context(), limit)
	if err != nil {
		logger.Log.WithError(err).Error("list runs")
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

// Get answers GET /api/runs/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid run id", http.StatusBadRequest)
		return
	}
	run, err := h.Repo.GetRun(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log.WithError(err).WithField("run_id", id.String()).Error("get run")
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}
