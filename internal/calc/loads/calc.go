package loads

import (
	"fmt"

	"Jibcrane/internal/frame"
)

// Gravity in m/s². A mass in kg times Gravity is a force in N.
const Gravity = 9.81

// CaseLifted is the load case of the suspended mass.
const CaseLifted = "DL"

type Method string

const (
	MethodService Method = "service"
	MethodULS     Method = "uls"
)

// TipLoad is the vertical force of a suspended mass, negative (downward)
// in the global Z-up convention.
func TipLoad(massKG float64) (float64, error) {
	if massKG < 0 {
		return 0, fmt.Errorf("invalid tip mass %g kg", massKG)
	}
	return -massKG * Gravity, nil
}

// Combination returns the load combination of a method. An empty method
// is the service combination.
func Combination(method Method) (frame.LoadCombination, error) {
	gQ, name, err := factors(method)
	if err != nil {
		return frame.LoadCombination{}, err
	}
	return frame.LoadCombination{
		Name:    name,
		Factors: map[string]float64{CaseLifted: gQ},
	}, nil
}

func factors(method Method) (gQ float64, name string, err error) {
	switch method {
	case "", MethodService:
		return 1.0, "Combo 1", nil
	case MethodULS:
		return 1.5, "ULS 1.5Q", nil
	default:
		return 0, "", fmt.Errorf("unknown load combination method %q", method)
	}
}
