// Package material describes isotropic linear-elastic materials and the
// steel grades used for the yield check.
package material

import (
	"fmt"
	"math"
)

// Material is isotropic and linear-elastic. G is always derived from E and
// Nu; build values with New.
type Material struct {
	Name string  `json:"name"`
	E    float64 `json:"e_mpa"`
	G    float64 `json:"g_mpa"`
	Nu   float64 `json:"nu"`
	Rho  float64 `json:"rho"`
}

// Structural steel, N/mm² and t/mm³.
const (
	SteelE   = 2.05e5
	SteelNu  = 0.3
	SteelRho = 7.85e-6
)

func New(name string, e, nu, rho float64) (Material, error) {
	if !(e > 0) || math.IsInf(e, 0) {
		return Material{}, fmt.Errorf("material %s: elastic modulus must be positive, got %g", name, e)
	}
	if !(nu > -1 && nu < 0.5) {
		return Material{}, fmt.Errorf("material %s: poisson ratio must be in (-1, 0.5), got %g", name, nu)
	}
	if rho < 0 {
		return Material{}, fmt.Errorf("material %s: density must not be negative, got %g", name, rho)
	}
	return Material{
		Name: name,
		E:    e,
		G:    e / (2.0 * (1.0 + nu)),
		Nu:   nu,
		Rho:  rho,
	}, nil
}

// Steel is the structural steel every tube of the crane is made of.
func Steel() Material {
	m, _ := New("Steel", SteelE, SteelNu, SteelRho)
	return m
}
