package importer

import (
	"encoding/json"
	"net/http"

	"Jibcrane/internal/calc/crane"
	"Jibcrane/internal/logger"

	"github.com/xuri/excelize/v2"
)

const MaxUploadSize = 10 << 20

type Handler struct {
	Runner Runner
}

// Crane imports a multipart "file" xlsx. With ?format=xlsx the answer is a
// workbook, otherwise JSON.
func (h *Handler) Crane(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	defer f.Close()

	rows, err := ParseSheet(f)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := Run(r.Context(), h.Runner, rows)
	if err != nil {
		crane.WriteError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "xlsx" {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename=\"crane-results.xlsx\"")
		if err := WriteWorkbook(w, res); err != nil {
			logger.Log.WithError(err).Error("write result workbook")
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
