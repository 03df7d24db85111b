// Package crane builds, solves and checks the pipe-frame jib crane: a
// rectangular base, a mast over the left mid-point braced by two tripod
// legs, and a horizontal arm with a diagonal brace, all cut from one round
// tube size and loaded by a mass at the arm tip.
package crane

import (
	"context"
	"fmt"

	"Jibcrane/internal/calc/material"
	"Jibcrane/internal/calc/section"
	"Jibcrane/internal/calc/stress"
	"Jibcrane/internal/frame"
	"Jibcrane/internal/frame/linear"
)

type Displacement struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
	DZ float64 `json:"dz"`
}

// MemberResult is the worst moment and stress along one physical tube.
type MemberResult struct {
	Elements  []string `json:"elements"`
	MaxMoment float64  `json:"max_moment"`
	MaxStress float64  `json:"max_stress"`
}

type ElementResult struct {
	Tube      string  `json:"tube"`
	MaxMoment float64 `json:"max_moment"`
	MaxStress float64 `json:"max_stress"`
}

type Result struct {
	Input             Params                   `json:"input"`
	Section           section.Section          `json:"section"`
	TipDisplacement   Displacement             `json:"tip_displacement"`
	NodeDisplacements map[string]Displacement  `json:"node_displacements"`
	MemberResults     map[string]MemberResult  `json:"member_results"`
	ElementResults    map[string]ElementResult `json:"element_results"`
	MaxStress         float64                  `json:"max_stress"`
	YieldStress       float64                  `json:"yield_stress"`
	Grade             string                   `json:"grade"`
	Failures          []string                 `json:"failures"`
	Reactions         map[string]float64       `json:"reactions"`
	Combination       string                   `json:"combination"`
	OK                bool                     `json:"ok"`
	Notes             string                   `json:"notes"`
}

// Model is a built crane ready to solve.
type Model struct {
	Frame       *frame.Model
	Section     section.Section
	Combination string
}

// BuildModel creates a fresh frame model for p.
func BuildModel(p Params) (*Model, error) {
	sec, err := section.CHS(p.PipeOD, p.TWall)
	if err != nil {
		return nil, err
	}
	joints, err := BuildGeometry(p)
	if err != nil {
		return nil, err
	}

	m := frame.NewModel()
	for _, j := range joints {
		if err := m.AddJoint(j.Name, j.X, j.Y, j.Z); err != nil {
			return nil, err
		}
	}
	if err := AssembleTopology(m, sec, material.Steel()); err != nil {
		return nil, err
	}
	if err := ApplySupports(m); err != nil {
		return nil, err
	}
	combo, err := ApplyLoads(m, p.MassTip, p.Combination)
	if err != nil {
		return nil, err
	}
	return &Model{Frame: m, Section: sec, Combination: combo}, nil
}

type Calculator struct {
	Solver  frame.Solver
	Catalog *material.Catalog
}

// New returns a Calculator with the linear solver and the built-in grades.
func New() *Calculator {
	return &Calculator{Solver: linear.New(), Catalog: material.DefaultCatalog()}
}

// Calculate runs the reference pipeline with New().
func Calculate(ctx context.Context, in Input) (Result, error) {
	return New().Calculate(ctx, in)
}

func (c *Calculator) Calculate(ctx context.Context, in Input) (Result, error) {
	p, err := Resolve(in)
	if err != nil {
		return Result{}, err
	}
	grade, err := c.Catalog.Lookup(p.Grade)
	if err != nil {
		return Result{}, err
	}
	p.Grade = grade.Name
	yield := grade.YieldStress
	notes := fmt.Sprintf("Linear-elastic 3-D frame, %s, yield of grade %s.", p.Combination, grade.Name)
	if p.YieldStress > 0 {
		yield = p.YieldStress
		notes = fmt.Sprintf("Linear-elastic 3-D frame, %s, yield set to %g N/mm².", p.Combination, yield)
	}

	cm, err := BuildModel(p)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	an, err := c.Solver.Solve(ctx, cm.Frame)
	if err != nil {
		return Result{}, err
	}

	members := cm.Frame.Members()
	rep, err := stress.Evaluate(an, members, cm.Section, cm.Combination, yield)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Input:             p,
		Section:           cm.Section,
		NodeDisplacements: make(map[string]Displacement),
		MemberResults:     make(map[string]MemberResult, len(rep.Tubes)),
		ElementResults:    make(map[string]ElementResult, len(members)),
		MaxStress:         rep.MaxStress,
		YieldStress:       yield,
		Grade:             grade.Name,
		Failures:          rep.Failures,
		Reactions:         make(map[string]float64, len(Corners)),
		Combination:       cm.Combination,
		OK:                len(rep.Failures) == 0,
		Notes:             notes,
	}
	for _, j := range cm.Frame.Joints() {
		d, err := an.Displacement(j.Name, cm.Combination)
		if err != nil {
			return Result{}, err
		}
		res.NodeDisplacements[j.Name] = Displacement{DX: d.DX, DY: d.DY, DZ: d.DZ}
	}
	res.TipDisplacement = res.NodeDisplacements[ATip]
	for i, ms := range rep.Members {
		res.ElementResults[ms.Member] = ElementResult{
			Tube:      members[i].Tube,
			MaxMoment: ms.MaxMoment,
			MaxStress: ms.Stress,
		}
	}
	for _, ts := range rep.Tubes {
		res.MemberResults[ts.Tube] = MemberResult{
			Elements:  ts.Elements,
			MaxMoment: ts.MaxMoment,
			MaxStress: ts.Stress,
		}
	}
	for _, corner := range Corners {
		r, err := an.Reaction(corner, cm.Combination)
		if err != nil {
			return Result{}, err
		}
		res.Reactions[corner] = r.FZ
	}
	return res, nil
}
