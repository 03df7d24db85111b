package batch

import (
	"encoding/json"
	"net/http"

	"Jibcrane/internal/calc/crane"
)

type Handler struct {
	Runner Runner
}

func (h *Handler) Crane(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(r.Context(), h.Runner, input)
	if err != nil {
		crane.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
