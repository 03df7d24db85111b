package crane

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"Jibcrane/internal/calc/section"
	"Jibcrane/internal/export/scad"
	"Jibcrane/internal/frame"
	"Jibcrane/internal/logger"
	"Jibcrane/internal/metrics"
	"Jibcrane/internal/repo"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RunStore receives every successful calculation. It may be nil.
type RunStore interface {
	SaveRun(ctx context.Context, run repo.Run) error
}

type Handler struct {
	Calculator *Calculator
	Runs       RunStore
	Metrics    *metrics.Metrics
}

func NewHandler(c *Calculator, runs RunStore, m *metrics.Metrics) *Handler {
	return &Handler{Calculator: c, Runs: runs, Metrics: m}
}

// Run calculates in, records it and returns the run id.
func (h *Handler) Run(ctx context.Context, in Input) (uuid.UUID, Result, error) {
	id := uuid.New()
	log := logger.Log.WithField("run_id", id.String())
	start := time.Now()

	res, err := h.Calculator.Calculate(ctx, in)
	elapsed := time.Since(start)
	if err != nil {
		outcome := metrics.OutcomeError
		if IsInputError(err) {
			outcome = metrics.OutcomeInvalid
		}
		h.Metrics.ObserveRun(outcome, elapsed.Seconds(), 0)
		log.WithError(err).WithField("outcome", outcome).Warn("crane calculation failed")
		return id, Result{}, err
	}

	outcome := metrics.OutcomeOK
	if !res.OK {
		outcome = metrics.OutcomeFailed
	}
	h.Metrics.ObserveRun(outcome, elapsed.Seconds(), res.MaxStress)
	log.WithFields(logrus.Fields{
		"duration":   elapsed,
		"max_stress": res.MaxStress,
		"tip_dz":     res.TipDisplacement.DZ,
		"failures":   len(res.Failures),
	}).Info("crane calculation")

	if h.Runs != nil {
		if err := h.Runs.SaveRun(ctx, NewRun(id, start, res)); err != nil {
			log.WithError(err).Error("store run")
		}
	}
	return id, res, nil
}

// NewRun flattens a result for the run history.
func NewRun(id uuid.UUID, at time.Time, res Result) repo.Run {
	params, _ := json.Marshal(res.Input)
	body, _ := json.Marshal(res)
	return repo.Run{
		ID:          id,
		CreatedAt:   at.UTC(),
		Grade:       res.Grade,
		Combination: res.Combination,
		MaxStress:   res.MaxStress,
		TipDZ:       res.TipDisplacement.DZ,
		OK:          res.OK,
		Params:      params,
		Result:      body,
	}
}

// IsInputError reports whether err comes from the request parameters
// rather than from the solve.
func IsInputError(err error) bool {
	var ie *InputError
	var ge *frame.InvalidGeometryError
	var se *section.InvalidSectionError
	return errors.As(err, &ie) || errors.As(err, &ge) || errors.As(err, &se)
}

// Calc answers with the result document. Calculation errors are reported
// as {"error": ...} with status 200.
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	id, res, err := h.Run(r.Context(), input)
	w.Header().Set("X-Run-ID", id.String())
	if err != nil {
		WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// Scad returns the crane geometry as an OpenSCAD document.
func (h *Handler) Scad(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	p, err := Resolve(input)
	if err != nil {
		WriteError(w, err)
		return
	}
	m, err := BuildModel(p)
	if err != nil {
		WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/x-openscad")
	w.Header().Set("Content-Disposition", "attachment; filename=\"crane_model.scad\"")
	if err := scad.Write(w, m.Frame, p.PipeOD); err != nil {
		logger.Log.WithError(err).Error("write scad")
	}
}

// WriteError sends the {"error": message} envelope.
func WriteError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
