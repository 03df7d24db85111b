// Package scad writes a frame model as an OpenSCAD document of round pipe
// segments.
package scad

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	"Jibcrane/internal/frame"
)

// Segment is one member as a cylinder: translate to From, rotate Angle
// degrees about Axis, extrude Height along +Z.
type Segment struct {
	Name   string
	From   frame.Vec3
	To     frame.Vec3
	Axis   frame.Vec3
	Angle  float64
	Height float64
	Radius float64
}

// NewSegment orients a cylinder of diameter od from p1 to p2.
func NewSegment(name string, p1, p2 frame.Vec3, od float64) (Segment, error) {
	v := p2.Sub(p1)
	l := v.Norm()
	if l == 0 || math.IsNaN(l) {
		return Segment{}, &frame.InvalidGeometryError{Subject: "segment " + name, Reason: "zero length"}
	}
	axis := frame.Vec3{X: -v.Y, Y: v.X}
	angle := math.Acos(math.Max(-1, math.Min(1, v.Z/l))) * 180 / math.Pi
	if axis.Norm() == 0 && v.Z < 0 {
		// straight down; v × Z vanishes so any horizontal axis works
		axis = frame.Vec3{X: 1}
	}
	return Segment{Name: name, From: p1, To: p2, Axis: axis, Angle: angle, Height: l, Radius: od / 2}, nil
}

// Segments converts every member of m.
func Segments(m *frame.Model, od float64) ([]Segment, error) {
	var out []Segment
	for _, mb := range m.Members() {
		i, _ := m.Joint(mb.I)
		j, _ := m.Joint(mb.J)
		s, err := NewSegment(mb.Name, i.Pos(), j.Pos(), od)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

const prelude = `function vsub(a,b) = [a[0]-b[0], a[1]-b[1], a[2]-b[2]];
function vlen(v)   = sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]);

module pipe_segment(p1, p2, od=pipe_od) {
    v   = vsub(p2, p1);
    len = vlen(v);
    if (len > 0) {
        axis  = (v[0] == 0 && v[1] == 0) ? [1, 0, 0] : [-v[1], v[0], 0];
        angle = acos(v[2]/len);
        translate(p1)
            rotate(a = angle, v = axis)
                cylinder(h = len, r = od/2);
    }
}
`

// Write emits the document for m with tubes of diameter od.
func Write(w io.Writer, m *frame.Model, od float64) error {
	if !(od > 0) {
		return fmt.Errorf("invalid pipe diameter %g", od)
	}
	segs, err := Segments(m, od)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "pipe_od = %s;\n$fn = 32;\n\n", num(od))
	bw.WriteString(prelude)
	bw.WriteString("\nunion() {\n")
	for _, s := range segs {
		fmt.Fprintf(bw, "    // %s\n    pipe_segment(%s, %s);\n", s.Name, point(s.From), point(s.To))
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

func point(v frame.Vec3) string {
	return "[" + num(v.X) + ", " + num(v.Y) + ", " + num(v.Z) + "]"
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
