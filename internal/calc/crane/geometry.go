package crane

import (
	"math"

	"Jibcrane/internal/frame"
)

// Joint names of the reference crane.
const (
	FL      = "FL"
	FR      = "FR"
	RR      = "RR"
	RL      = "RL"
	Fmid    = "Fmid"
	Rmid    = "Rmid"
	Lmid    = "Lmid"
	RmidX0  = "RmidX0"
	MBrace  = "M_brace"
	MAttach = "M_attach"
	MTop    = "M_top"
	ABrace  = "A_brace"
	ATip    = "A_tip"
)

// Corners are the supported base joints.
var Corners = []string{FL, FR, RR, RL}

// BuildGeometry places the joints. The base lies at z0 = pipe_od/2, the
// mast rises above Lmid and the arm runs horizontally from M_top at
// arm_angle degrees from +X.
func BuildGeometry(p Params) ([]frame.Joint, error) {
	L, W := p.BaseLen, p.BaseWid
	z0 := p.PipeOD / 2
	th := p.ArmAngle * math.Pi / 180
	dir := frame.Vec3{X: math.Cos(th), Y: math.Sin(th)}

	mast := frame.Vec3{X: -L / 2, Z: z0}
	top := mast.Add(frame.Vec3{Z: p.ArmPivotHeight})
	brace := top.Add(dir.Scale(p.ArmLen / 2))
	tip := top.Add(dir.Scale(p.ArmLen))

	at := func(name string, v frame.Vec3) frame.Joint {
		return frame.Joint{Name: name, X: v.X, Y: v.Y, Z: v.Z}
	}
	joints := []frame.Joint{
		{Name: FL, X: -L / 2, Y: -W / 2, Z: z0},
		{Name: FR, X: L / 2, Y: -W / 2, Z: z0},
		{Name: RR, X: L / 2, Y: W / 2, Z: z0},
		{Name: RL, X: -L / 2, Y: W / 2, Z: z0},
		{Name: Fmid, X: 0, Y: -W / 2, Z: z0},
		{Name: Rmid, X: 0, Y: W / 2, Z: z0},
		{Name: Lmid, X: -L / 2, Y: 0, Z: z0},
		{Name: RmidX0, X: L / 2, Y: 0, Z: z0},
		at(MBrace, mast.Add(frame.Vec3{Z: p.BraceMastHeight})),
		at(MAttach, mast.Add(frame.Vec3{Z: p.TripodAttachHeight})),
		at(MTop, top),
		at(ABrace, brace),
		at(ATip, tip),
	}
	for _, j := range joints {
		if math.IsNaN(j.X+j.Y+j.Z) || math.IsInf(j.X+j.Y+j.Z, 0) {
			return nil, &frame.InvalidGeometryError{Subject: "joint " + j.Name, Reason: "non-finite coordinate"}
		}
	}
	return joints, nil
}
