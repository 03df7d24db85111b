package crane

import (
	"Jibcrane/internal/calc/loads"
	"Jibcrane/internal/frame"
)

// ApplySupports pins the four base corners: translations fixed, rotations
// free.
func ApplySupports(m *frame.Model) error {
	for _, c := range Corners {
		if err := m.AddSupport(frame.Support{Joint: c, DX: true, DY: true, DZ: true}); err != nil {
			return err
		}
	}
	return nil
}

// ApplyLoads hangs the tip mass at A_tip and adds the combination for
// method. It returns the combination name.
func ApplyLoads(m *frame.Model, massKG float64, method loads.Method) (string, error) {
	fz, err := loads.TipLoad(massKG)
	if err != nil {
		return "", err
	}
	combo, err := loads.Combination(method)
	if err != nil {
		return "", err
	}
	if err := m.AddLoad(frame.Load{Joint: ATip, Direction: frame.FZ, Magnitude: fz, Case: loads.CaseLifted}); err != nil {
		return "", err
	}
	if err := m.AddCombination(combo); err != nil {
		return "", err
	}
	return combo.Name, nil
}
