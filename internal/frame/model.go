// Package frame holds the structural model of a 3-D frame: joints, members,
// supports, nodal loads and load combinations, kept in insertion order and
// indexed by name. Insertion is validated so a Model is always referentially
// consistent.
package frame

import (
	"fmt"
	"math"
)

// Direction is a nodal load component in global axes.
type Direction int

const (
	FX Direction = iota
	FY
	FZ
	MX
	MY
	MZ
)

var directionNames = [...]string{"FX", "FY", "FZ", "MX", "MY", "MZ"}

func (d Direction) String() string {
	if d < FX || d > MZ {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// DOF is the joint degree of freedom the load component acts on.
func (d Direction) DOF() int { return int(d) }

type Joint struct {
	Name    string
	X, Y, Z float64
}

func (j Joint) Pos() Vec3 { return Vec3{j.X, j.Y, j.Z} }

// Stiffness holds the elastic constants of a member: moduli in N/mm²,
// area in mm², second moments and torsion constant in mm⁴.
type Stiffness struct {
	E, G      float64
	A         float64
	Iy, Iz, J float64
}

func (s Stiffness) check() error {
	for _, f := range [...]struct {
		name string
		v    float64
	}{{"E", s.E}, {"G", s.G}, {"A", s.A}, {"Iy", s.Iy}, {"Iz", s.Iz}, {"J", s.J}} {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be positive and finite, got %g", f.name, f.v)
		}
	}
	return nil
}

// Member is a straight element between two distinct joints. Tube names the
// physical tube the element is cut from; an unsplit tube has Tube == Name.
type Member struct {
	Name      string
	I, J      string
	Tube      string
	Stiffness Stiffness
}

// Support restrains the flagged degrees of freedom of one joint.
type Support struct {
	Joint      string
	DX, DY, DZ bool
	RX, RY, RZ bool
}

// Fixed returns the flags in DOF order (DX, DY, DZ, RX, RY, RZ).
func (s Support) Fixed() [6]bool {
	return [6]bool{s.DX, s.DY, s.DZ, s.RX, s.RY, s.RZ}
}

type Load struct {
	Joint     string
	Direction Direction
	Magnitude float64
	Case      string
}

// LoadCombination is a factored sum of load cases.
type LoadCombination struct {
	Name    string
	Factors map[string]float64
}

type Model struct {
	joints   []Joint
	jointIdx map[string]int

	members   []Member
	memberIdx map[string]int

	supports   []Support
	supportIdx map[string]int

	loads []Load
	cases map[string]bool

	combos   []LoadCombination
	comboIdx map[string]int
}

func NewModel() *Model {
	return &Model{
		jointIdx:   make(map[string]int),
		memberIdx:  make(map[string]int),
		supportIdx: make(map[string]int),
		cases:      make(map[string]bool),
		comboIdx:   make(map[string]int),
	}
}

func (m *Model) AddJoint(name string, x, y, z float64) error {
	if name == "" {
		return &InvalidGeometryError{Subject: "joint", Reason: "empty name"}
	}
	if _, ok := m.jointIdx[name]; ok {
		return &DuplicateNameError{Kind: "joint", Name: name}
	}
	for _, v := range [...]float64{x, y, z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &InvalidGeometryError{Subject: "joint " + name, Reason: "non-finite coordinate"}
		}
	}
	m.jointIdx[name] = len(m.joints)
	m.joints = append(m.joints, Joint{Name: name, X: x, Y: y, Z: z})
	return nil
}

func (m *Model) Joint(name string) (Joint, bool) {
	i, ok := m.jointIdx[name]
	if !ok {
		return Joint{}, false
	}
	return m.joints[i], true
}

// JointIndex is the insertion position of the joint, used as its handle.
func (m *Model) JointIndex(name string) (int, bool) {
	i, ok := m.jointIdx[name]
	return i, ok
}

func (m *Model) Joints() []Joint {
	out := make([]Joint, len(m.joints))
	copy(out, m.joints)
	return out
}

func (m *Model) AddMember(mb Member) error {
	if mb.Name == "" {
		return &InvalidGeometryError{Subject: "member", Reason: "empty name"}
	}
	if _, ok := m.memberIdx[mb.Name]; ok {
		return &DuplicateNameError{Kind: "member", Name: mb.Name}
	}
	ji, ok := m.Joint(mb.I)
	if !ok {
		return &DanglingReferenceError{Owner: "member " + mb.Name, Joint: mb.I}
	}
	jj, ok := m.Joint(mb.J)
	if !ok {
		return &DanglingReferenceError{Owner: "member " + mb.Name, Joint: mb.J}
	}
	if mb.I == mb.J {
		return &InvalidGeometryError{Subject: "member " + mb.Name, Reason: "both ends on joint " + mb.I}
	}
	if jj.Pos().Sub(ji.Pos()).Norm() == 0 {
		return &InvalidGeometryError{
			Subject: "member " + mb.Name,
			Reason:  fmt.Sprintf("zero length: joints %s and %s coincide", mb.I, mb.J),
		}
	}
	if err := mb.Stiffness.check(); err != nil {
		return fmt.Errorf("member %s: %w", mb.Name, err)
	}
	if mb.Tube == "" {
		mb.Tube = mb.Name
	}
	m.memberIdx[mb.Name] = len(m.members)
	m.members = append(m.members, mb)
	return nil
}

func (m *Model) Member(name string) (Member, bool) {
	i, ok := m.memberIdx[name]
	if !ok {
		return Member{}, false
	}
	return m.members[i], true
}

func (m *Model) Members() []Member {
	out := make([]Member, len(m.members))
	copy(out, m.members)
	return out
}

// Length of a member of this model.
func (m *Model) Length(mb Member) float64 {
	ji, _ := m.Joint(mb.I)
	jj, _ := m.Joint(mb.J)
	return jj.Pos().Sub(ji.Pos()).Norm()
}

func (m *Model) AddSupport(s Support) error {
	if _, ok := m.jointIdx[s.Joint]; !ok {
		return &DanglingReferenceError{Owner: "support", Joint: s.Joint}
	}
	if _, ok := m.supportIdx[s.Joint]; ok {
		return &DuplicateNameError{Kind: "support", Name: s.Joint}
	}
	m.supportIdx[s.Joint] = len(m.supports)
	m.supports = append(m.supports, s)
	return nil
}

func (m *Model) Support(joint string) (Support, bool) {
	i, ok := m.supportIdx[joint]
	if !ok {
		return Support{}, false
	}
	return m.supports[i], true
}

func (m *Model) Supports() []Support {
	out := make([]Support, len(m.supports))
	copy(out, m.supports)
	return out
}

func (m *Model) AddLoad(l Load) error {
	if _, ok := m.jointIdx[l.Joint]; !ok {
		return &DanglingReferenceError{Owner: "load case " + l.Case, Joint: l.Joint}
	}
	if l.Direction < FX || l.Direction > MZ {
		return fmt.Errorf("load on %s: unknown direction %v", l.Joint, l.Direction)
	}
	if l.Case == "" {
		return fmt.Errorf("load on %s: empty load case", l.Joint)
	}
	if math.IsNaN(l.Magnitude) || math.IsInf(l.Magnitude, 0) {
		return fmt.Errorf("load on %s: non-finite magnitude", l.Joint)
	}
	m.cases[l.Case] = true
	m.loads = append(m.loads, l)
	return nil
}

func (m *Model) Loads() []Load {
	out := make([]Load, len(m.loads))
	copy(out, m.loads)
	return out
}

// AddCombination registers a combination; every case it names must already
// carry at least one load.
func (m *Model) AddCombination(c LoadCombination) error {
	if c.Name == "" {
		return fmt.Errorf("load combination: empty name")
	}
	if _, ok := m.comboIdx[c.Name]; ok {
		return &DuplicateNameError{Kind: "load combination", Name: c.Name}
	}
	factors := make(map[string]float64, len(c.Factors))
	for name, f := range c.Factors {
		if !m.cases[name] {
			return fmt.Errorf("load combination %q: unknown load case %q", c.Name, name)
		}
		factors[name] = f
	}
	m.comboIdx[c.Name] = len(m.combos)
	m.combos = append(m.combos, LoadCombination{Name: c.Name, Factors: factors})
	return nil
}

func (m *Model) Combination(name string) (LoadCombination, bool) {
	i, ok := m.comboIdx[name]
	if !ok {
		return LoadCombination{}, false
	}
	return m.combos[i], true
}

func (m *Model) Combinations() []LoadCombination {
	out := make([]LoadCombination, len(m.combos))
	copy(out, m.combos)
	return out
}
