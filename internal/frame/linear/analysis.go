package linear

import (
	"fmt"

	"Jibcrane/internal/frame"
)

// Analysis holds the results of every load combination of one solve.
type Analysis struct {
	disp    map[string]map[string]frame.Displacement
	react   map[string]map[string]frame.Reaction
	moments map[string]map[string]frame.MomentEnvelope
	joints  map[string]bool
}

var (
	_ frame.Analysis        = (*Analysis)(nil)
	_ frame.MomentEnvelopes = (*Analysis)(nil)
)

func (a *Analysis) Displacement(joint, combo string) (frame.Displacement, error) {
	byJoint, ok := a.disp[combo]
	if !ok {
		return frame.Displacement{}, fmt.Errorf("no results for load combination %q", combo)
	}
	d, ok := byJoint[joint]
	if !ok {
		return frame.Displacement{}, fmt.Errorf("unknown joint %q", joint)
	}
	return d, nil
}

func (a *Analysis) Reaction(joint, combo string) (frame.Reaction, error) {
	byJoint, ok := a.react[combo]
	if !ok {
		return frame.Reaction{}, fmt.Errorf("no results for load combination %q", combo)
	}
	r, ok := byJoint[joint]
	if !ok {
		if a.joints[joint] {
			return frame.Reaction{}, fmt.Errorf("joint %q is not supported", joint)
		}
		return frame.Reaction{}, fmt.Errorf("unknown joint %q", joint)
	}
	return r, nil
}

func (a *Analysis) MomentEnvelope(member, combo string) (frame.MomentEnvelope, error) {
	byMember, ok := a.moments[combo]
	if !ok {
		return frame.MomentEnvelope{}, fmt.Errorf("no results for load combination %q", combo)
	}
	e, ok := byMember[member]
	if !ok {
		return frame.MomentEnvelope{}, fmt.Errorf("unknown member %q", member)
	}
	return e, nil
}
