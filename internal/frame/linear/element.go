package linear

import (
	"Jibcrane/internal/frame"
)

// element is a 3-D Euler-Bernoulli frame element with 6 DOFs per end:
//
//	ux uy uz rx ry rz (end i) | ux uy uz rx ry rz (end j)
//
// Local x runs from i to j. Local y is the component of the reference
// direction (global Z, or global X for vertical members) normal to x, and
// z = x × y.
type element struct {
	member frame.Member
	i, j   int
	length float64
	rot    [3][3]float64 // rows are local x, y, z in global axes
	kl     [12][12]float64
}

func newElement(mb frame.Member, pi, pj frame.Vec3, i, j int) *element {
	e := &element{member: mb, i: i, j: j}
	d := pj.Sub(pi)
	e.length = d.Norm()
	ex := d.Unit()

	ref := frame.Vec3{Z: 1}
	if ex.Cross(ref).Norm() < 1e-6 {
		ref = frame.Vec3{X: 1}
	}
	ez := ex.Cross(ref).Unit()
	ey := ez.Cross(ex)

	e.rot = [3][3]float64{
		{ex.X, ex.Y, ex.Z},
		{ey.X, ey.Y, ey.Z},
		{ez.X, ez.Y, ez.Z},
	}
	e.localStiffness()
	return e
}

func (e *element) localStiffness() {
	st := e.member.Stiffness
	EIz := st.E * st.Iz // bending in the local x-y plane
	EIy := st.E * st.Iy // bending in the local x-z plane
	GJ := st.G * st.J
	EA := st.E * st.A
	l := e.length
	ll := l * l
	lll := l * ll

	k := &e.kl

	k[0][0], k[0][6] = EA/l, -EA/l
	k[6][0], k[6][6] = -EA/l, EA/l

	k[3][3], k[3][9] = GJ/l, -GJ/l
	k[9][3], k[9][9] = -GJ/l, GJ/l

	k[1][1], k[1][5], k[1][7], k[1][11] = 12*EIz/lll, 6*EIz/ll, -12*EIz/lll, 6*EIz/ll
	k[5][1], k[5][5], k[5][7], k[5][11] = 6*EIz/ll, 4*EIz/l, -6*EIz/ll, 2*EIz/l
	k[7][1], k[7][5], k[7][7], k[7][11] = -12*EIz/lll, -6*EIz/ll, 12*EIz/lll, -6*EIz/ll
	k[11][1], k[11][5], k[11][7], k[11][11] = 6*EIz/ll, 2*EIz/l, -6*EIz/ll, 4*EIz/l

	k[2][2], k[2][4], k[2][8], k[2][10] = 12*EIy/lll, -6*EIy/ll, -12*EIy/lll, -6*EIy/ll
	k[4][2], k[4][4], k[4][8], k[4][10] = -6*EIy/ll, 4*EIy/l, 6*EIy/ll, 2*EIy/l
	k[8][2], k[8][4], k[8][8], k[8][10] = -12*EIy/lll, 6*EIy/ll, 12*EIy/lll, 6*EIy/ll
	k[10][2], k[10][4], k[10][8], k[10][10] = -6*EIy/ll, 2*EIy/l, 6*EIy/ll, 4*EIy/l
}

// globalStiffness returns Tᵀ·Kl·T, computed block by block since T is
// block diagonal with four copies of rot.
func (e *element) globalStiffness() [12][12]float64 {
	var kg [12][12]float64
	for a := 0; a < 4; a++ {
		for b := 0; b < 4; b++ {
			var tmp [3][3]float64 // Kl_ab · R
			for r := 0; r < 3; r++ {
				for c := 0; c < 3; c++ {
					var s float64
					for m := 0; m < 3; m++ {
						s += e.kl[3*a+r][3*b+m] * e.rot[m][c]
					}
					tmp[r][c] = s
				}
			}
			for r := 0; r < 3; r++ {
				for c := 0; c < 3; c++ {
					var s float64
					for m := 0; m < 3; m++ {
						s += e.rot[m][r] * tmp[m][c]
					}
					kg[3*a+r][3*b+c] = s
				}
			}
		}
	}
	return kg
}

// dofs maps the element DOFs to global equation numbers.
func (e *element) dofs() [12]int {
	var d [12]int
	for k := 0; k < 6; k++ {
		d[k] = 6*e.i + k
		d[6+k] = 6*e.j + k
	}
	return d
}

// endForces returns the local end forces Kl·T·u for global displacements u.
func (e *element) endForces(u []float64) [12]float64 {
	var ul [12]float64
	d := e.dofs()
	for blk := 0; blk < 4; blk++ {
		for r := 0; r < 3; r++ {
			var s float64
			for c := 0; c < 3; c++ {
				s += e.rot[r][c] * u[d[3*blk+c]]
			}
			ul[3*blk+r] = s
		}
	}
	var f [12]float64
	for r := 0; r < 12; r++ {
		var s float64
		for c := 0; c < 12; c++ {
			s += e.kl[r][c] * ul[c]
		}
		f[r] = s
	}
	return f
}

// envelope recovers the bending moment extremes. Without member loads the
// moment is linear along the member, so the end values bound it.
func (e *element) envelope(u []float64) frame.MomentEnvelope {
	f := e.endForces(u)
	myI, myJ := -f[4], f[10]
	mzI, mzJ := -f[5], f[11]
	return frame.MomentEnvelope{
		MinMy: min(myI, myJ),
		MaxMy: max(myI, myJ),
		MinMz: min(mzI, mzJ),
		MaxMz: max(mzI, mzJ),
	}
}
