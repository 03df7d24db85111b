package linear

import (
	"context"
	"errors"
	"math"
	"testing"

	"Jibcrane/internal/frame"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const combo = "Combo 1"

// tube is a 48.6 x 2.4 steel pipe.
func tube() frame.Stiffness {
	const E, nu = 2.05e5, 0.3
	I := 92781.0
	return frame.Stiffness{E: E, G: E / (2 * (1 + nu)), A: 348.3, Iy: I, Iz: I, J: 2 * I}
}

func fixedAll(joint string) frame.Support {
	return frame.Support{Joint: joint, DX: true, DY: true, DZ: true, RX: true, RY: true, RZ: true}
}

// cantilever builds a single member from the origin to tip with the root
// fully fixed and one load at the tip.
func cantilever(t *testing.T, tip frame.Vec3, dir frame.Direction, p float64) *frame.Model {
	t.Helper()
	st := tube()
	m := frame.NewModel()
	require.NoError(t, m.AddJoint("root", 0, 0, 0))
	require.NoError(t, m.AddJoint("tip", tip.X, tip.Y, tip.Z))
	require.NoError(t, m.AddMember(frame.Member{Name: "M1", I: "root", J: "tip", Stiffness: st}))
	require.NoError(t, m.AddSupport(fixedAll("root")))
	require.NoError(t, m.AddLoad(frame.Load{Joint: "tip", Direction: dir, Magnitude: p, Case: "DL"}))
	require.NoError(t, m.AddCombination(frame.LoadCombination{Name: combo, Factors: map[string]float64{"DL": 1}}))
	return m
}

func solve(t *testing.T, m *frame.Model) *Analysis {
	t.Helper()
	a, err := New().Solve(context.Background(), m)
	require.NoError(t, err)
	return a.(*Analysis)
}

func TestCantileverTipLoad(t *testing.T) {
	st := tube()
	const L, P = 1000.0, -490.5
	want := P * L * L * L / (3 * st.E * st.Iy)

	a := solve(t, cantilever(t, frame.Vec3{X: L}, frame.FZ, P))

	d, err := a.Displacement("tip", combo)
	require.NoError(t, err)
	assert.InEpsilon(t, want, d.DZ, 1e-9)
	assert.InDelta(t, 0, d.DX, 1e-12)
	assert.InDelta(t, 0, d.DY, 1e-12)
	// tip slope PL²/2EI, sagging tip rotates about -Y for a load along -Z
	assert.InEpsilon(t, -P*L*L/(2*st.E*st.Iy), d.RY, 1e-9)

	r, err := a.Reaction("root", combo)
	require.NoError(t, err)
	assert.InEpsilon(t, -P, r.FZ, 1e-9)
	assert.InEpsilon(t, P*L, r.MY, 1e-9)

	env, err := a.MomentEnvelope("M1", combo)
	require.NoError(t, err)
	assert.InEpsilon(t, math.Abs(P*L), env.MaxAbs(), 1e-9)
}

func TestCantileverOrientationIndependent(t *testing.T) {
	const L, P = 800.0, -1000.0
	ref := solve(t, cantilever(t, frame.Vec3{X: L}, frame.FZ, P))
	want, err := ref.Displacement("tip", combo)
	require.NoError(t, err)

	for _, deg := range []float64{30, 90, 135, 180, 260} {
		th := deg * math.Pi / 180
		a := solve(t, cantilever(t, frame.Vec3{X: L * math.Cos(th), Y: L * math.Sin(th)}, frame.FZ, P))
		d, err := a.Displacement("tip", combo)
		require.NoError(t, err)
		assert.InEpsilon(t, want.DZ, d.DZ, 1e-9, "angle %g", deg)
	}
}

func TestVerticalCantileverSway(t *testing.T) {
	st := tube()
	const L, P = 1800.0, 200.0
	a := solve(t, cantilever(t, frame.Vec3{Z: L}, frame.FX, P))

	d, err := a.Displacement("tip", combo)
	require.NoError(t, err)
	assert.InEpsilon(t, P*L*L*L/(3*st.E*st.Iy), d.DX, 1e-9)
	assert.InDelta(t, 0, d.DZ, 1e-12)
}

func TestAxialAndTorsion(t *testing.T) {
	st := tube()
	const L = 500.0

	a := solve(t, cantilever(t, frame.Vec3{X: L}, frame.FX, 1e4))
	d, err := a.Displacement("tip", combo)
	require.NoError(t, err)
	assert.InEpsilon(t, 1e4*L/(st.E*st.A), d.DX, 1e-9)

	a = solve(t, cantilever(t, frame.Vec3{X: L}, frame.MX, 5e4))
	d, err = a.Displacement("tip", combo)
	require.NoError(t, err)
	assert.InEpsilon(t, 5e4*L/(st.G*st.J), d.RX, 1e-9)
}

func TestSimplySupportedMidspanLoad(t *testing.T) {
	st := tube()
	const L, P = 2000.0, -1000.0

	m := frame.NewModel()
	require.NoError(t, m.AddJoint("A", 0, 0, 0))
	require.NoError(t, m.AddJoint("C", L/2, 0, 0))
	require.NoError(t, m.AddJoint("B", L, 0, 0))
	require.NoError(t, m.AddMember(frame.Member{Name: "AC", I: "A", J: "C", Stiffness: st}))
	require.NoError(t, m.AddMember(frame.Member{Name: "CB", I: "C", J: "B", Stiffness: st}))
	require.NoError(t, m.AddSupport(frame.Support{Joint: "A", DX: true, DY: true, DZ: true, RX: true}))
	require.NoError(t, m.AddSupport(frame.Support{Joint: "B", DY: true, DZ: true}))
	require.NoError(t, m.AddLoad(frame.Load{Joint: "C", Direction: frame.FZ, Magnitude: P, Case: "DL"}))
	require.NoError(t, m.AddCombination(frame.LoadCombination{Name: combo, Factors: map[string]float64{"DL": 1}}))

	a := solve(t, m)
	d, err := a.Displacement("C", combo)
	require.NoError(t, err)
	assert.InEpsilon(t, P*L*L*L/(48*st.E*st.Iy), d.DZ, 1e-9)

	for _, j := range []string{"A", "B"} {
		r, err := a.Reaction(j, combo)
		require.NoError(t, err)
		assert.InEpsilon(t, -P/2, r.FZ, 1e-9)
	}

	env, err := a.MomentEnvelope("AC", combo)
	require.NoError(t, err)
	assert.InEpsilon(t, math.Abs(P)*L/4, env.MaxAbs(), 1e-9)

	_, err = a.Reaction("C", combo)
	assert.ErrorContains(t, err, "not supported")
}

func TestCombinationFactor(t *testing.T) {
	m := cantilever(t, frame.Vec3{X: 1000}, frame.FZ, -100)
	require.NoError(t, m.AddCombination(frame.LoadCombination{Name: "ULS", Factors: map[string]float64{"DL": 1.5}}))
	a := solve(t, m)

	service, err := a.Displacement("tip", combo)
	require.NoError(t, err)
	uls, err := a.Displacement("tip", "ULS")
	require.NoError(t, err)
	assert.InEpsilon(t, 1.5*service.DZ, uls.DZ, 1e-12)

	_, err = a.Displacement("tip", "missing")
	assert.Error(t, err)
}

func TestZeroLoadGivesExactZeros(t *testing.T) {
	a := solve(t, cantilever(t, frame.Vec3{X: 1000}, frame.FZ, 0))
	d, err := a.Displacement("tip", combo)
	require.NoError(t, err)
	assert.Zero(t, d)
	r, err := a.Reaction("root", combo)
	require.NoError(t, err)
	assert.Zero(t, r)
	env, err := a.MomentEnvelope("M1", combo)
	require.NoError(t, err)
	assert.Zero(t, env.MaxAbs())
}

func TestSolverFailures(t *testing.T) {
	st := tube()

	t.Run("floating member", func(t *testing.T) {
		m := cantilever(t, frame.Vec3{X: 1000}, frame.FZ, -1)
		require.NoError(t, m.AddJoint("p", 0, 500, 0))
		require.NoError(t, m.AddJoint("q", 1000, 500, 0))
		require.NoError(t, m.AddMember(frame.Member{Name: "loose", I: "p", J: "q", Stiffness: st}))

		_, err := New().Solve(context.Background(), m)
		var sf *frame.SolverFailure
		require.True(t, errors.As(err, &sf), "got %v", err)
		assert.Contains(t, sf.Reason, "p, q")
	})

	t.Run("joint without rotational stiffness", func(t *testing.T) {
		m := cantilever(t, frame.Vec3{X: 1000}, frame.FZ, -1)
		require.NoError(t, m.AddJoint("post", 0, 500, 0))
		require.NoError(t, m.AddSupport(frame.Support{Joint: "post", DX: true, DY: true, DZ: true}))

		_, err := New().Solve(context.Background(), m)
		var sf *frame.SolverFailure
		require.True(t, errors.As(err, &sf), "got %v", err)
		assert.Contains(t, sf.Reason, "post")
	})

	t.Run("no combination", func(t *testing.T) {
		m := frame.NewModel()
		require.NoError(t, m.AddJoint("a", 0, 0, 0))
		require.NoError(t, m.AddJoint("b", 1, 0, 0))
		require.NoError(t, m.AddMember(frame.Member{Name: "ab", I: "a", J: "b", Stiffness: st}))
		require.NoError(t, m.AddSupport(fixedAll("a")))
		_, err := New().Solve(context.Background(), m)
		var sf *frame.SolverFailure
		assert.True(t, errors.As(err, &sf))
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New().Solve(ctx, cantilever(t, frame.Vec3{X: 1000}, frame.FZ, -1))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
