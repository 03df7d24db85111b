package frame

import (
	"errors"
	"fmt"
)

// ErrMomentRecoveryUnavailable is returned when an analysis cannot report
// member moment envelopes.
var ErrMomentRecoveryUnavailable = errors.New("moment recovery unavailable")

// InvalidGeometryError reports parameters that produce a degenerate frame.
type InvalidGeometryError struct {
	Subject string
	Reason  string
}

func (e *InvalidGeometryError) Error() string {
	return fmt.Sprintf("invalid geometry: %s: %s", e.Subject, e.Reason)
}

// DanglingReferenceError means a member, support or load names a joint that
// is not in the model. It is an internal consistency defect, never a user
// input problem.
type DanglingReferenceError struct {
	Owner string
	Joint string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s references unknown joint %q", e.Owner, e.Joint)
}

type DuplicateNameError struct {
	Kind string
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate %s %q", e.Kind, e.Name)
}

// SolverFailure wraps any failure of the structural solve.
type SolverFailure struct {
	Reason string
	Err    error
}

func (e *SolverFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("solver failure: %s: %v", e.Reason, e.Err)
	}
	return "solver failure: " + e.Reason
}

func (e *SolverFailure) Unwrap() error { return e.Err }
