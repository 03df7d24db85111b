package frame

import (
	"context"
	"math"
)

// Displacement of a joint in global axes.
type Displacement struct {
	DX, DY, DZ float64
	RX, RY, RZ float64
}

// Reaction of a support in global axes.
type Reaction struct {
	FX, FY, FZ float64
	MX, MY, MZ float64
}

// MomentEnvelope is the extreme bending moment along a member about its two
// local transverse axes.
type MomentEnvelope struct {
	MinMy, MaxMy float64
	MinMz, MaxMz float64
}

// MaxAbs is the worst moment magnitude about either axis.
func (e MomentEnvelope) MaxAbs() float64 {
	my := math.Max(math.Abs(e.MinMy), math.Abs(e.MaxMy))
	mz := math.Max(math.Abs(e.MinMz), math.Abs(e.MaxMz))
	return math.Max(my, mz)
}

// Solver runs a static analysis of a model. A structure that cannot be
// solved (unstable, singular, statics mismatch) is reported as *SolverFailure.
type Solver interface {
	Solve(ctx context.Context, m *Model) (Analysis, error)
}

// Analysis is the result of a solve, keyed by load combination name.
type Analysis interface {
	Displacement(joint, combo string) (Displacement, error)
	Reaction(joint, combo string) (Reaction, error)
}

// MomentEnvelopes is implemented by analyses that can recover member
// bending moments. Callers must check for it instead of assuming zero.
type MomentEnvelopes interface {
	MomentEnvelope(member, combo string) (MomentEnvelope, error)
}
