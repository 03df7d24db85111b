// Package stress turns member moment envelopes into bending stresses and
// checks them against a yield stress.
package stress

import (
	"errors"
	"fmt"
	"math"

	"Jibcrane/internal/calc/section"
	"Jibcrane/internal/frame"
)

type MemberStress struct {
	Member    string  `json:"member"`
	MaxMoment float64 `json:"max_moment"`
	Stress    float64 `json:"max_stress"`
	Failed    bool    `json:"failed"`
}

// TubeStress is the worst of the elements cut from one physical tube.
type TubeStress struct {
	Tube      string   `json:"tube"`
	Elements  []string `json:"elements"`
	MaxMoment float64  `json:"max_moment"`
	Stress    float64  `json:"max_stress"`
	Failed    bool     `json:"failed"`
}

// Report lists element stresses in model order and tube stresses in the
// order each tube first appears. Failures names failing tubes.
type Report struct {
	Members     []MemberStress `json:"members"`
	Tubes       []TubeStress   `json:"tubes"`
	MaxStress   float64        `json:"max_stress"`
	YieldStress float64        `json:"yield_stress"`
	Failures    []string       `json:"failures"`
}

// MemberError reports a member whose moment envelope could not be read.
type MemberError struct {
	Member string
	Err    error
}

func (e *MemberError) Error() string {
	return fmt.Sprintf("member %s: %v", e.Member, e.Err)
}

func (e *MemberError) Unwrap() error { return e.Err }

// Evaluate computes σ = M/Z for every member in the given order and folds
// the members into their tubes. The analysis must implement
// frame.MomentEnvelopes. Members whose envelope cannot be read are collected
// and returned together.
func Evaluate(a frame.Analysis, members []frame.Member, sec section.Section, combo string, yield float64) (Report, error) {
	if !(yield > 0) || math.IsInf(yield, 0) {
		return Report{}, fmt.Errorf("invalid yield stress %g", yield)
	}
	if !(sec.Iy > 0) {
		return Report{}, fmt.Errorf("section %s has no bending stiffness", sec.Name)
	}
	env, ok := a.(frame.MomentEnvelopes)
	if !ok {
		return Report{}, frame.ErrMomentRecoveryUnavailable
	}

	rep := Report{
		Members:     make([]MemberStress, 0, len(members)),
		YieldStress: yield,
		Failures:    []string{},
	}
	z := sec.ElasticModulus()
	tubeIdx := make(map[string]int)

	var errs []error
	for _, mb := range members {
		e, err := env.MomentEnvelope(mb.Name, combo)
		if err != nil {
			errs = append(errs, &MemberError{Member: mb.Name, Err: err})
			continue
		}
		m := e.MaxAbs()
		s := m / z
		ms := MemberStress{Member: mb.Name, MaxMoment: m, Stress: s, Failed: s > yield}
		rep.Members = append(rep.Members, ms)
		if s > rep.MaxStress {
			rep.MaxStress = s
		}

		tube := mb.Tube
		if tube == "" {
			tube = mb.Name
		}
		i, ok := tubeIdx[tube]
		if !ok {
			i = len(rep.Tubes)
			tubeIdx[tube] = i
			rep.Tubes = append(rep.Tubes, TubeStress{Tube: tube})
		}
		ts := &rep.Tubes[i]
		ts.Elements = append(ts.Elements, mb.Name)
		if m > ts.MaxMoment {
			ts.MaxMoment = m
		}
		if s > ts.Stress {
			ts.Stress = s
		}
		ts.Failed = ts.Failed || ms.Failed
	}
	if len(errs) > 0 {
		return Report{}, errors.Join(errs...)
	}
	for _, ts := range rep.Tubes {
		if ts.Failed {
			rep.Failures = append(rep.Failures, ts.Tube)
		}
	}
	return rep, nil
}
