package crane

import (
	"fmt"

	"Jibcrane/internal/calc/material"
	"Jibcrane/internal/calc/section"
	"Jibcrane/internal/frame"
)

type edge struct {
	name, i, j, tube string
}

// Tubes run through the joints they pass, so a tube crossed by another
// member is split into consecutive elements.
var edges = []edge{
	{"M_base_FL_Fmid", FL, Fmid, "M_base_FL_FR"},
	{"M_base_Fmid_FR", Fmid, FR, "M_base_FL_FR"},
	{"M_base_FR_RmidX0", FR, RmidX0, "M_base_FR_RR"},
	{"M_base_RmidX0_RR", RmidX0, RR, "M_base_FR_RR"},
	{"M_base_RR_Rmid", RR, Rmid, "M_base_RR_RL"},
	{"M_base_Rmid_RL", Rmid, RL, "M_base_RR_RL"},
	{"M_base_RL_Lmid", RL, Lmid, "M_base_RL_FL"},
	{"M_base_Lmid_FL", Lmid, FL, "M_base_RL_FL"},
	{"M_base_Fmid_Rmid", Fmid, Rmid, "M_base_Fmid_Rmid"},
	{"M_base_Lmid_RmidX0", Lmid, RmidX0, "M_base_Lmid_RmidX0"},
	{"M_mast_1", Lmid, MBrace, "M_mast_1"},
	{"M_mast_2", MBrace, MAttach, "M_mast_2"},
	{"M_mast_3", MAttach, MTop, "M_mast_3"},
	{"M_tripod_FL", MAttach, FL, "M_tripod_FL"},
	{"M_tripod_RL", MAttach, RL, "M_tripod_RL"},
	{"M_arm_1", MTop, ABrace, "M_arm"},
	{"M_arm_2", ABrace, ATip, "M_arm"},
	{"M_brace", MBrace, ABrace, "M_brace"},
}

// ElementNames lists the elements in model order.
func ElementNames() []string {
	out := make([]string, len(edges))
	for i, e := range edges {
		out[i] = e.name
	}
	return out
}

// MemberNames lists the physical tubes in the order they first appear in
// the model.
func MemberNames() []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range edges {
		if !seen[e.tube] {
			seen[e.tube] = true
			out = append(out, e.tube)
		}
	}
	return out
}

// AssembleTopology adds every element with the one section and material
// the crane is built from. The joints must already be in m.
func AssembleTopology(m *frame.Model, sec section.Section, mat material.Material) error {
	st := Stiffness(sec, mat)
	for _, e := range edges {
		err := m.AddMember(frame.Member{
			Name:      e.name,
			I:         e.i,
			J:         e.j,
			Tube:      e.tube,
			Stiffness: st,
		})
		if err != nil {
			return fmt.Errorf("assemble %s: %w", e.name, err)
		}
	}
	return nil
}

// Stiffness combines a tube section and its material into the constants the
// frame solver works with.
func Stiffness(sec section.Section, mat material.Material) frame.Stiffness {
	return frame.Stiffness{
		E:  mat.E,
		G:  mat.G,
		A:  sec.Area,
		Iy: sec.Iy,
		Iz: sec.Iz,
		J:  sec.J,
	}
}
