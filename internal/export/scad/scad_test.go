package scad

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"Jibcrane/internal/frame"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSegment(t *testing.T) {
	s, err := NewSegment("h", frame.Vec3{}, frame.Vec3{X: 100}, 48.6)
	require.NoError(t, err)
	assert.Equal(t, frame.Vec3{Y: 100}, s.Axis)
	assert.InDelta(t, 90, s.Angle, 1e-12)
	assert.Equal(t, 100.0, s.Height)
	assert.Equal(t, 24.3, s.Radius)

	s, err = NewSegment("up", frame.Vec3{}, frame.Vec3{Z: 800}, 48.6)
	require.NoError(t, err)
	assert.Zero(t, s.Angle)

	s, err = NewSegment("down", frame.Vec3{Z: 800}, frame.Vec3{}, 48.6)
	require.NoError(t, err)
	assert.InDelta(t, 180, s.Angle, 1e-12)
	assert.Equal(t, frame.Vec3{X: 1}, s.Axis)

	s, err = NewSegment("diag", frame.Vec3{}, frame.Vec3{X: 3, Y: 4, Z: 5}, 10)
	require.NoError(t, err)
	assert.Equal(t, frame.Vec3{X: -4, Y: 3}, s.Axis)
	assert.InDelta(t, 45, s.Angle, 1e-9)
}

func TestNewSegment_ZeroLength(t *testing.T) {
	p := frame.Vec3{X: 1, Y: 2, Z: 3}
	_, err := NewSegment("z", p, p, 48.6)
	var ge *frame.InvalidGeometryError
	assert.True(t, errors.As(err, &ge))
}

func TestWrite(t *testing.T) {
	st := frame.Stiffness{E: 2.05e5, G: 7.9e4, A: 348, Iy: 9.3e4, Iz: 9.3e4, J: 1.86e5}
	m := frame.NewModel()
	require.NoError(t, m.AddJoint("a", 0, 0, 24.3))
	require.NoError(t, m.AddJoint("b", 0, 0, 824.3))
	require.NoError(t, m.AddMember(frame.Member{Name: "M_mast_1", I: "a", J: "b", Stiffness: st}))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m, 48.6))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "pipe_od = 48.6;\n$fn = 32;\n"))
	assert.Contains(t, out, "module pipe_segment(p1, p2, od=pipe_od)")
	assert.Contains(t, out, "    // M_mast_1\n    pipe_segment([0, 0, 24.3], [0, 0, 824.3]);\n")
	assert.True(t, strings.HasSuffix(out, "}\n"))

	assert.Error(t, Write(&buf, m, 0))
}
