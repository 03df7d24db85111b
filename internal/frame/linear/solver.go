// Package linear is a small-deformation, linear-elastic static solver for
// 3-D frames made of prismatic members loaded at the joints.
package linear

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"Jibcrane/internal/frame"

	"gonum.org/v1/gonum/mat"
)

// StaticsTolerance is the relative equilibrium residual accepted by the
// statics check.
const StaticsTolerance = 1e-6

var dofNames = [6]string{"DX", "DY", "DZ", "RX", "RY", "RZ"}

type Solver struct {
	// CheckStatics verifies that reactions balance the applied loads.
	CheckStatics bool
}

func New() *Solver {
	return &Solver{CheckStatics: true}
}

func (s *Solver) Solve(ctx context.Context, m *frame.Model) (frame.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	joints := m.Joints()
	members := m.Members()
	if len(members) == 0 {
		return nil, &frame.SolverFailure{Reason: "model has no members"}
	}
	if len(m.Combinations()) == 0 {
		return nil, &frame.SolverFailure{Reason: "model has no load combinations"}
	}
	if err := checkConnectivity(m, joints, members); err != nil {
		return nil, err
	}

	n := 6 * len(joints)
	elems := make([]*element, len(members))
	K := mat.NewSymDense(n, nil)
	for k, mb := range members {
		i, _ := m.JointIndex(mb.I)
		j, _ := m.JointIndex(mb.J)
		e := newElement(mb, joints[i].Pos(), joints[j].Pos(), i, j)
		elems[k] = e

		kg := e.globalStiffness()
		d := e.dofs()
		for r := 0; r < 12; r++ {
			for c := r; c < 12; c++ {
				a, b := d[r], d[c]
				if a > b {
					a, b = b, a
				}
				K.SetSym(a, b, K.At(a, b)+kg[r][c])
			}
		}
	}

	fixed := make([]bool, n)
	for _, sp := range m.Supports() {
		j, _ := m.JointIndex(sp.Joint)
		for k, f := range sp.Fixed() {
			fixed[6*j+k] = f
		}
	}
	free := make([]int, 0, n)
	for d := 0; d < n; d++ {
		if fixed[d] {
			continue
		}
		if K.At(d, d) == 0 {
			return nil, &frame.SolverFailure{
				Reason: fmt.Sprintf("joint %s has no stiffness in %s", joints[d/6].Name, dofNames[d%6]),
			}
		}
		free = append(free, d)
	}

	nf := len(free)
	Kff := mat.NewSymDense(nf, nil)
	for a := 0; a < nf; a++ {
		for b := a; b < nf; b++ {
			Kff.SetSym(a, b, K.At(free[a], free[b]))
		}
	}
	var chol mat.Cholesky
	if nf > 0 && !chol.Factorize(Kff) {
		return nil, &frame.SolverFailure{Reason: "stiffness matrix is not positive definite, the structure is unstable"}
	}

	res := &Analysis{
		disp:    make(map[string]map[string]frame.Displacement),
		react:   make(map[string]map[string]frame.Reaction),
		moments: make(map[string]map[string]frame.MomentEnvelope),
		joints:  make(map[string]bool, len(joints)),
	}
	for _, j := range joints {
		res.joints[j.Name] = true
	}

	for _, combo := range m.Combinations() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		F := loadVector(m, combo, n)

		u := make([]float64, n)
		if nf > 0 {
			Ff := mat.NewVecDense(nf, nil)
			for a, d := range free {
				Ff.SetVec(a, F[d])
			}
			var uf mat.VecDense
			if err := chol.SolveVecTo(&uf, Ff); err != nil {
				var cond mat.Condition
				if errors.As(err, &cond) {
					return nil, &frame.SolverFailure{Reason: "stiffness matrix is singular to working precision", Err: err}
				}
				return nil, &frame.SolverFailure{Reason: "linear solve", Err: err}
			}
			for a, d := range free {
				u[d] = uf.AtVec(a)
			}
		}

		disp := make(map[string]frame.Displacement, len(joints))
		for j, jt := range joints {
			b := 6 * j
			disp[jt.Name] = frame.Displacement{
				DX: u[b], DY: u[b+1], DZ: u[b+2],
				RX: u[b+3], RY: u[b+4], RZ: u[b+5],
			}
		}

		react := make(map[string]frame.Reaction)
		for _, sp := range m.Supports() {
			j, _ := m.JointIndex(sp.Joint)
			var r [6]float64
			for k, f := range sp.Fixed() {
				if !f {
					continue
				}
				d := 6*j + k
				var ku float64
				for c := 0; c < n; c++ {
					ku += K.At(d, c) * u[c]
				}
				r[k] = ku - F[d]
			}
			react[sp.Joint] = frame.Reaction{FX: r[0], FY: r[1], FZ: r[2], MX: r[3], MY: r[4], MZ: r[5]}
		}

		if s.CheckStatics {
			if err := checkStatics(m, joints, F, react); err != nil {
				return nil, &frame.SolverFailure{Reason: "statics check for " + combo.Name, Err: err}
			}
		}

		env := make(map[string]frame.MomentEnvelope, len(elems))
		for _, e := range elems {
			env[e.member.Name] = e.envelope(u)
		}

		res.disp[combo.Name] = disp
		res.react[combo.Name] = react
		res.moments[combo.Name] = env
	}
	return res, nil
}

// loadVector assembles the factored joint loads of a combination.
func loadVector(m *frame.Model, combo frame.LoadCombination, n int) []float64 {
	F := make([]float64, n)
	for _, l := range m.Loads() {
		f, ok := combo.Factors[l.Case]
		if !ok {
			continue
		}
		j, _ := m.JointIndex(l.Joint)
		F[6*j+l.Direction.DOF()] += f * l.Magnitude
	}
	return F
}

// checkConnectivity requires every joint to reach a support through members.
func checkConnectivity(m *frame.Model, joints []frame.Joint, members []frame.Member) error {
	parent := make([]int, len(joints))
	for i := range parent {
		parent[i] = i
	}
	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for _, mb := range members {
		i, _ := m.JointIndex(mb.I)
		j, _ := m.JointIndex(mb.J)
		parent[find(i)] = find(j)
	}

	supported := make(map[int]bool)
	for _, sp := range m.Supports() {
		j, _ := m.JointIndex(sp.Joint)
		supported[find(j)] = true
	}

	var loose []string
	for i, jt := range joints {
		if !supported[find(i)] {
			loose = append(loose, jt.Name)
		}
	}
	if len(loose) > 0 {
		sort.Strings(loose)
		return &frame.SolverFailure{
			Reason: "joints not connected to any support: " + strings.Join(loose, ", "),
		}
	}
	return nil
}

// checkStatics compares the resultant of loads and reactions about the
// global origin with the size of the applied loads.
func checkStatics(m *frame.Model, joints []frame.Joint, F []float64, react map[string]frame.Reaction) error {
	var sumF, sumM frame.Vec3
	var scaleF, scaleM, extent float64
	for _, jt := range joints {
		extent = math.Max(extent, jt.Pos().Norm())
	}

	add := func(p, f, mo frame.Vec3) {
		sumF = sumF.Add(f)
		sumM = sumM.Add(mo).Add(p.Cross(f))
	}
	for j, jt := range joints {
		b := 6 * j
		f := frame.Vec3{X: F[b], Y: F[b+1], Z: F[b+2]}
		mo := frame.Vec3{X: F[b+3], Y: F[b+4], Z: F[b+5]}
		scaleF += f.Norm()
		scaleM += mo.Norm()
		add(jt.Pos(), f, mo)
	}
	for name, r := range react {
		jt, _ := m.Joint(name)
		add(jt.Pos(), frame.Vec3{X: r.FX, Y: r.FY, Z: r.FZ}, frame.Vec3{X: r.MX, Y: r.MY, Z: r.MZ})
	}

	tolF := StaticsTolerance * math.Max(scaleF, 1)
	tolM := StaticsTolerance * math.Max(scaleF*math.Max(extent, 1)+scaleM, 1)
	if r := sumF.Norm(); r > tolF {
		return fmt.Errorf("force resultant %.6g exceeds %.3g", r, tolF)
	}
	if r := sumM.Norm(); r > tolM {
		return fmt.Errorf("moment resultant %.6g exceeds %.3g", r, tolM)
	}
	return nil
}
