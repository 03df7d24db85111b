package crane

import (
	"errors"
	"math"
	"testing"

	"Jibcrane/internal/calc/loads"
	"Jibcrane/internal/frame"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestResolve_Defaults(t *testing.T) {
	p, err := Resolve(Input{})
	require.NoError(t, err)
	assert.Equal(t, Defaults(), p)
	assert.Equal(t, 48.6, p.PipeOD)
	assert.Equal(t, 50.0, p.MassTip)
	assert.Equal(t, loads.MethodService, p.Combination)
}

func TestResolve_Overrides(t *testing.T) {
	p, err := Resolve(Input{MassTip: f(0), ArmAngle: f(0), TWall: f(1.8), Combination: "uls", Grade: "STK500"})
	require.NoError(t, err)
	assert.Zero(t, p.MassTip)
	assert.Zero(t, p.ArmAngle)
	assert.Equal(t, 1.8, p.TWall)
	assert.Equal(t, loads.MethodULS, p.Combination)
	assert.Equal(t, "STK500", p.Grade)

	back, err := Resolve(p.Input())
	require.NoError(t, err)
	assert.Equal(t, p, back)
}

func TestResolve_RejectsFields(t *testing.T) {
	_, err := Resolve(Input{PipeOD: f(-1), MassTip: f(-5), Combination: "wind"})
	var ie *InputError
	require.True(t, errors.As(err, &ie), "got %v", err)
	assert.Len(t, ie.Problems, 3)
	assert.Contains(t, err.Error(), "pipe_od")
	assert.Contains(t, err.Error(), "mass_tip")
	assert.Contains(t, err.Error(), "combination")
	assert.True(t, IsInputError(err))
}

func TestResolve_NonFinite(t *testing.T) {
	_, err := Resolve(Input{ArmLen: f(math.Inf(1)), ArmAngle: f(math.NaN())})
	var ie *InputError
	require.True(t, errors.As(err, &ie), "got %v", err)
	require.Len(t, ie.Problems, 2)
	assert.Contains(t, ie.Problems[0], "arm_len")
	assert.Contains(t, ie.Problems[0], "finite")
	assert.Contains(t, ie.Problems[1], "arm_angle")
}

func TestResolve_MastHeightOrder(t *testing.T) {
	cases := []Input{
		{BraceMastHeight: f(1200)},
		{TripodAttachHeight: f(1900)},
		{BraceMastHeight: f(1000)},
	}
	for _, in := range cases {
		_, err := Resolve(in)
		var ge *frame.InvalidGeometryError
		assert.True(t, errors.As(err, &ge), "got %v", err)
	}
}
