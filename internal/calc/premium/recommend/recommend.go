package recommend

import (
	"context"
	"fmt"

	"Jibcrane/internal/calc/crane"
)

type Input struct {
	crane.Input
	// Utilization is the accepted stress/yield ratio, 1.0 when unset.
	Utilization float64 `json:"utilization"`
}

type Option struct {
	Grade       string  `json:"grade"`
	YieldStress float64 `json:"yield_stress"`
	Utilization float64 `json:"utilization"`
	OK          bool    `json:"ok"`
}

type Result struct {
	MaxStress   float64  `json:"max_stress"`
	Recommended string   `json:"recommended"`
	Options     []Option `json:"options"`
	Notes       string   `json:"notes"`
}

// Grade picks the lowest-yield catalog grade that carries the crane. The
// grade does not change stiffness, so one solve serves every option.
func Grade(ctx context.Context, c *crane.Calculator, in Input) (Result, error) {
	if in.Utilization <= 0 {
		in.Utilization = 1.0
	}
	if in.Utilization > 1 {
		return Result{}, fmt.Errorf("utilization %g above 1", in.Utilization)
	}
	in.Input.YieldStress = nil
	in.Input.Grade = ""

	res, err := c.Calculate(ctx, in.Input)
	if err != nil {
		return Result{}, err
	}

	out := Result{MaxStress: res.MaxStress}
	for _, g := range c.Catalog.Grades() {
		u := res.MaxStress / g.YieldStress
		ok := u <= in.Utilization
		out.Options = append(out.Options, Option{Grade: g.Name, YieldStress: g.YieldStress, Utilization: u, OK: ok})
		if ok && out.Recommended == "" {
			out.Recommended = g.Name
		}
	}
	if out.Recommended == "" {
		out.Notes = fmt.Sprintf("No grade carries %.1f N/mm2; use a larger or thicker tube.", res.MaxStress)
	} else {
		out.Notes = fmt.Sprintf("Lowest grade with stress/yield <= %.2f.", in.Utilization)
	}
	return out, nil
}
