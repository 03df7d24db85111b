package crane

import (
	"errors"
	"testing"

	"Jibcrane/internal/calc/material"
	"Jibcrane/internal/calc/section"
	"Jibcrane/internal/frame"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGeometry_Reference(t *testing.T) {
	joints, err := BuildGeometry(Defaults())
	require.NoError(t, err)
	require.Len(t, joints, 13)

	pos := map[string]frame.Vec3{}
	for _, j := range joints {
		pos[j.Name] = j.Pos()
	}
	assert.Equal(t, frame.Vec3{X: -450, Y: -300, Z: 24.3}, pos[FL])
	assert.Equal(t, frame.Vec3{X: 450, Y: 300, Z: 24.3}, pos[RR])
	assert.Equal(t, frame.Vec3{X: -450, Z: 24.3}, pos[Lmid])
	assert.InDelta(t, 824.3, pos[MBrace].Z, 1e-9)
	assert.InDelta(t, 1824.3, pos[MTop].Z, 1e-9)

	// arm at 180° points along -X
	assert.InDelta(t, -1450, pos[ATip].X, 1e-9)
	assert.InDelta(t, 0, pos[ATip].Y, 1e-9)
	assert.InDelta(t, -950, pos[ABrace].X, 1e-9)
	assert.Equal(t, pos[MTop].Z, pos[ATip].Z)
}

func TestTopologyIntegrity(t *testing.T) {
	for _, od := range []float64{27.2, 48.6, 60.5} {
		for _, angle := range []float64{0, 45, 90, 180, 270, -30} {
			for _, armLen := range []float64{300, 1000, 2500} {
				p := Defaults()
				p.PipeOD, p.TWall, p.ArmAngle, p.ArmLen = od, 2.0, angle, armLen
				m, err := BuildModel(p)
				require.NoError(t, err)

				members := m.Frame.Members()
				require.Len(t, members, len(ElementNames()))
				for _, mb := range members {
					_, okI := m.Frame.Joint(mb.I)
					_, okJ := m.Frame.Joint(mb.J)
					assert.True(t, okI && okJ, "member %s", mb.Name)
					assert.NotEmpty(t, mb.Tube)
				}
			}
		}
	}
}

func TestEveryJointIsUsed(t *testing.T) {
	used := map[string]bool{}
	for _, e := range edges {
		used[e.i], used[e.j] = true, true
	}
	joints, err := BuildGeometry(Defaults())
	require.NoError(t, err)
	for _, j := range joints {
		assert.True(t, used[j.Name], "joint %s has no member", j.Name)
	}
}

func TestAssembleTopology_MissingJoint(t *testing.T) {
	sec, err := section.CHS(48.6, 2.4)
	require.NoError(t, err)
	m := frame.NewModel()
	require.NoError(t, m.AddJoint(FL, 0, 0, 0))

	err = AssembleTopology(m, sec, material.Steel())
	var de *frame.DanglingReferenceError
	assert.True(t, errors.As(err, &de), "got %v", err)
}

func TestStiffnessFromSectionAndMaterial(t *testing.T) {
	sec, err := section.CHS(48.6, 2.4)
	require.NoError(t, err)
	mat := material.Steel()

	st := Stiffness(sec, mat)
	assert.Equal(t, frame.Stiffness{E: mat.E, G: mat.G, A: sec.Area, Iy: sec.Iy, Iz: sec.Iz, J: sec.J}, st)

	m, err := BuildModel(Defaults())
	require.NoError(t, err)
	for _, mb := range m.Frame.Members() {
		assert.Equal(t, st, mb.Stiffness, mb.Name)
	}
}
