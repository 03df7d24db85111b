package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"Jibcrane/internal/calc/crane"
	"Jibcrane/internal/logger"

	"github.com/google/uuid"
	"github.com/phpdave11/gofpdf"
)

type Input struct {
	Project string      `json:"project"`
	Author  string      `json:"author"`
	Title   string      `json:"title"`
	Notes   string      `json:"notes"`
	Crane   crane.Input `json:"crane"`
}

// Runner runs one crane calculation.
type Runner interface {
	Run(ctx context.Context, in crane.Input) (uuid.UUID, crane.Result, error)
}

type Handler struct {
	Runner Runner
}

// Generate calculates the crane in the request and answers with a PDF.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	id, res, err := h.Runner.Run(r.Context(), input.Crane)
	if err != nil {
		crane.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"crane-report.pdf\"")
	w.Header().Set("X-Run-ID", id.String())
	if err := Write(w, input, res, time.Now()); err != nil {
		logger.Log.WithError(err).WithField("run_id", id.String()).Error("report generation")
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}

// Write renders res as an A4 report.
func Write(w io.Writer, meta Input, res crane.Result, at time.Time) error {
	if meta.Title == "" {
		meta.Title = "Jib Crane Frame Check"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, meta.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", meta.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", meta.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", at.Format("2006-01-02")))
	pdf.Ln(10)

	verdict := "PASS"
	if !res.OK {
		verdict = "FAIL"
	}
	heading(pdf, "Summary")
	rows(pdf, [][2]string{
		{"Verdict", verdict},
		{"Tube", fmt.Sprintf("%s (A = %.1f mm2, I = %.0f mm4)", res.Section.Name, res.Section.Area, res.Section.Iy)},
		{"Grade", fmt.Sprintf("%s, yield %.0f N/mm2", res.Grade, res.YieldStress)},
		{"Combination", res.Combination},
		{"Tip deflection dz", fmt.Sprintf("%.3f mm", res.TipDisplacement.DZ)},
		{"Max bending stress", fmt.Sprintf("%.1f N/mm2 (%.0f%% of yield)", res.MaxStress, 100*res.MaxStress/res.YieldStress)},
	})

	p := res.Input
	heading(pdf, "Geometry and load")
	rows(pdf, [][2]string{
		{"Pipe OD x wall", fmt.Sprintf("%g x %g mm", p.PipeOD, p.TWall)},
		{"Base L x W", fmt.Sprintf("%g x %g mm", p.BaseLen, p.BaseWid)},
		{"Brace / tripod / pivot height", fmt.Sprintf("%g / %g / %g mm", p.BraceMastHeight, p.TripodAttachHeight, p.ArmPivotHeight)},
		{"Arm length, angle", fmt.Sprintf("%g mm, %g deg", p.ArmLen, p.ArmAngle)},
		{"Tip mass", fmt.Sprintf("%g kg", p.MassTip)},
	})

	heading(pdf, "Members")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(70, 6, "Member", "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 6, "Max moment [N mm]", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, "Stress [N/mm2]", "1", 0, "R", false, 0, "")
	pdf.CellFormat(20, 6, "", "1", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	failed := make(map[string]bool, len(res.Failures))
	for _, f := range res.Failures {
		failed[f] = true
	}
	for _, name := range crane.MemberNames() {
		mr, ok := res.MemberResults[name]
		if !ok {
			continue
		}
		mark := "ok"
		if failed[name] {
			mark = "FAIL"
		}
		pdf.CellFormat(70, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, fmt.Sprintf("%.0f", mr.MaxMoment), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.1f", mr.MaxStress), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, mark, "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	heading(pdf, "Support reactions FZ")
	var rr [][2]string
	for _, c := range crane.Corners {
		rr = append(rr, [2]string{c, fmt.Sprintf("%.1f N", res.Reactions[c])})
	}
	rows(pdf, rr)

	if meta.Notes != "" || res.Notes != "" {
		heading(pdf, "Notes")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, res.Notes+"\n"+meta.Notes, "", "L", false)
	}
	return pdf.Output(w)
}

func heading(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, s)
	pdf.Ln(8)
}

func rows(pdf *gofpdf.Fpdf, kv [][2]string) {
	pdf.SetFont("Helvetica", "", 11)
	for _, r := range kv {
		pdf.CellFormat(70, 6, r[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, r[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}
