// Package section derives cross-section properties of circular hollow
// section (CHS) tubes.
package section

import (
	"fmt"
	"math"
	"strconv"
)

// Section holds the properties the frame solver needs. For a CHS tube
// Iy == Iz and J = Iy + Iz.
type Section struct {
	Name          string  `json:"name"`
	OuterDiameter float64 `json:"outer_diameter_mm"`
	WallThickness float64 `json:"wall_thickness_mm"`
	Area          float64 `json:"area_mm2"`
	Iy            float64 `json:"iy_mm4"`
	Iz            float64 `json:"iz_mm4"`
	J             float64 `json:"j_mm4"`
}

// OuterRadius is the extreme fibre distance used for bending stress.
func (s Section) OuterRadius() float64 { return s.OuterDiameter / 2.0 }

// ElasticModulus is I/R, the elastic section modulus.
func (s Section) ElasticModulus() float64 { return s.Iy / s.OuterRadius() }

type InvalidSectionError struct {
	OuterDiameter float64
	WallThickness float64
	Reason        string
}

func (e *InvalidSectionError) Error() string {
	return fmt.Sprintf("invalid section od=%g t=%g: %s", e.OuterDiameter, e.WallThickness, e.Reason)
}

// CHS computes the section of a tube with outer diameter od and wall t.
// The inner radius must stay positive: 0 < t < od/2.
func CHS(od, t float64) (Section, error) {
	switch {
	case !(od > 0) || math.IsInf(od, 0):
		return Section{}, &InvalidSectionError{od, t, "outer diameter must be positive"}
	case !(t > 0) || math.IsInf(t, 0):
		return Section{}, &InvalidSectionError{od, t, "wall thickness must be positive"}
	case t >= od/2.0:
		return Section{}, &InvalidSectionError{od, t, "wall thickness must be less than half the outer diameter"}
	}

	R := od / 2.0
	r := R - t
	R2, r2 := R*R, r*r
	I := (math.Pi / 4.0) * (R2*R2 - r2*r2)

	return Section{
		Name:          "Pipe" + trim(od) + "x" + trim(t),
		OuterDiameter: od,
		WallThickness: t,
		Area:          math.Pi * (R2 - r2),
		Iy:            I,
		Iz:            I,
		J:             I + I,
	}, nil
}

func trim(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
