package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"Jibcrane/internal/calc/crane"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type Runner interface {
	Run(ctx context.Context, in crane.Input) (uuid.UUID, crane.Result, error)
}

// Row is one parsed sheet line. Line is the 1-based row number.
type Row struct {
	Line  int
	Label string
	Input crane.Input
	Err   error
}

type RowResult struct {
	Line      int      `json:"line"`
	Label     string   `json:"label,omitempty"`
	RunID     string   `json:"run_id,omitempty"`
	TipDZ     float64  `json:"tip_dz"`
	MaxStress float64  `json:"max_stress"`
	Yield     float64  `json:"yield_stress"`
	OK        bool     `json:"ok"`
	Failures  []string `json:"failures,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// ImportResult is the JSON answer of an import.
type ImportResult struct {
	Count   int         `json:"count"`
	Failed  int         `json:"failed"`
	Results []RowResult `json:"results"`
}

var numberColumns = map[string]func(*crane.Input, *float64){
	"pipe_od":              func(in *crane.Input, v *float64) { in.PipeOD = v },
	"t_wall":               func(in *crane.Input, v *float64) { in.TWall = v },
	"base_len":             func(in *crane.Input, v *float64) { in.BaseLen = v },
	"base_wid":             func(in *crane.Input, v *float64) { in.BaseWid = v },
	"arm_pivot_height":     func(in *crane.Input, v *float64) { in.ArmPivotHeight = v },
	"tripod_attach_height": func(in *crane.Input, v *float64) { in.TripodAttachHeight = v },
	"brace_mast_height":    func(in *crane.Input, v *float64) { in.BraceMastHeight = v },
	"arm_len":              func(in *crane.Input, v *float64) { in.ArmLen = v },
	"arm_angle":            func(in *crane.Input, v *float64) { in.ArmAngle = v },
	"mass_tip":             func(in *crane.Input, v *float64) { in.MassTip = v },
	"yield_stress":         func(in *crane.Input, v *float64) { in.YieldStress = v },
}

// ParseSheet reads the first sheet. The header row names the columns by
// their request field names plus an optional "label"; empty cells keep
// the default.
func ParseSheet(f *excelize.File) ([]Row, error) {
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.ToLower(strings.TrimSpace(h))
		switch {
		case h == "label" || h == "grade" || h == "combination":
		case numberColumns[h] != nil:
		case h == "":
		default:
			return nil, fmt.Errorf("unknown column %q", rows[0][i])
		}
		header[i] = h
	}

	var out []Row
	for i := 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		out = append(out, parseRow(i+1, header, rows[i]))
	}
	return out, nil
}

func parseRow(line int, header, cells []string) Row {
	r := Row{Line: line}
	for c, cell := range cells {
		if c >= len(header) {
			break
		}
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		switch h := header[c]; h {
		case "":
		case "label":
			r.Label = cell
		case "grade":
			r.Input.Grade = cell
		case "combination":
			r.Input.Combination = strings.ToLower(cell)
		default:
			v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", "."), 64)
			if err != nil {
				r.Err = fmt.Errorf("row %d: %s: %q is not a number", line, h, cell)
				return r
			}
			numberColumns[h](&r.Input, &v)
		}
	}
	return r
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Run calculates every parsed row.
func Run(ctx context.Context, run Runner, rows []Row) (ImportResult, error) {
	out := ImportResult{Results: make([]RowResult, 0, len(rows))}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return ImportResult{}, err
		}
		rr := RowResult{Line: row.Line, Label: row.Label}
		err := row.Err
		if err == nil {
			var id uuid.UUID
			var res crane.Result
			id, res, err = run.Run(ctx, row.Input)
			if err == nil {
				rr.RunID = id.String()
				rr.TipDZ = res.TipDisplacement.DZ
				rr.MaxStress = res.MaxStress
				rr.Yield = res.YieldStress
				rr.OK = res.OK
				rr.Failures = res.Failures
			}
		}
		if err != nil {
			rr.Error = err.Error()
			out.Failed++
		}
		out.Results = append(out.Results, rr)
	}
	out.Count = len(out.Results)
	return out, nil
}

var resultHeader = []interface{}{"line", "label", "tip_dz", "max_stress", "yield_stress", "ok", "failures", "error", "run_id"}

// WriteWorkbook writes the results as a one-sheet xlsx.
func WriteWorkbook(w io.Writer, res ImportResult) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &resultHeader); err != nil {
		return err
	}
	for i, r := range res.Results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.Line, r.Label, r.TipDZ, r.MaxStress, r.Yield, r.OK, strings.Join(r.Failures, ", "), r.Error, r.RunID}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}
