package solver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eiennohito/tinysvm/kernel"
	"github.com/eiennohito/tinysvm/solver"
)

// recomputeGradient evaluates G[k] = Σⱼ Q[k][j]·α[j] + b[k] from scratch
// (linear term b = −1), independent of the solver's incremental updates.
func recomputeGradient(t *testing.T, ts *solver.TrainingSet, kp kernel.Params, alpha []float64) []float64 {
	t.Helper()
	ev, err := kernel.NewEvaluator(kp)
	require.NoError(t, err)

	g := make([]float64, ts.Len())
	for k := range g {
		g[k] = -1
		for j, aj := range alpha {
			if aj != 0 {
				g[k] += ts.Y[k] * ts.Y[j] * ev.Eval(ts.X[k], ts.X[j]) * aj
			}
		}
	}

	return g
}

// solveNoShrink solves with shrinking disabled so that the incremental
// gradient is maintained for every example throughout.
func solveNoShrink(t *testing.T, ts *solver.TrainingSet, kp kernel.Params, c float64) solver.Result {
	t.Helper()

	opts := solver.DefaultOptions()
	opts.C = c
	opts.Eps = 1e-6
	opts.ShrinkSize = 1 << 30 // never evict

	res, err := solver.Solve(ts, kp, opts)
	require.NoError(t, err)

	return res
}

// TestInvariant_BoxAndEqualityConstraint checks 0 <= alpha <= C and the
// conservation of Σ α·y (zero for a cold start).
func TestInvariant_BoxAndEqualityConstraint(t *testing.T) {
	ts := clusterSet(80, 11)

	kp := kernel.DefaultParams()
	kp.Type = kernel.RBF
	kp.Gamma = 0.7

	const c = 2.5
	res := solveNoShrink(t, ts, kp, c)

	sum := 0.0
	for i, a := range res.Alpha {
		assert.GreaterOrEqual(t, a, 0.0, "alpha[%d] below the box", i)
		assert.LessOrEqual(t, a, c+1e-12, "alpha[%d] above the box", i)
		sum += a * ts.Y[i]
	}
	assert.InDelta(t, 0.0, sum, 1e-9, "Σ α·y must be conserved across all analytic steps")
}

// TestInvariant_GradientMatchesRecomputation verifies that the
// incrementally maintained gradient agrees with a full recomputation.
func TestInvariant_GradientMatchesRecomputation(t *testing.T) {
	ts := clusterSet(60, 23)

	kp := kernel.DefaultParams()
	kp.Type = kernel.RBF
	kp.Gamma = 0.7

	res := solveNoShrink(t, ts, kp, 2.5)

	want := recomputeGradient(t, ts, kp, res.Alpha)
	for k := range want {
		assert.InDelta(t, want[k], res.Gradient[k], 1e-6, "G[%d] drifted from the true gradient", k)
	}
}

// TestInvariant_KKTAtTermination checks the optimality conditions the
// solver claims on exit: with λ = rho, every movable multiplier satisfies
// its side of −(G[k] + y[k]·λ) within the tolerance.
func TestInvariant_KKTAtTermination(t *testing.T) {
	ts := clusterSet(60, 31)
	kp := kernel.DefaultParams()

	const c, eps = 1.0, 1e-6
	res := solveNoShrink(t, ts, kp, c)

	g := recomputeGradient(t, ts, kp, res.Alpha)
	for k, a := range res.Alpha {
		lambdaUp := -(g[k] + ts.Y[k]*res.Rho)
		if a > 1e-12 { // movable downward
			assert.GreaterOrEqual(t, lambdaUp, -10*eps, "example %d violates the lower KKT side", k)
		}
		if a < c-1e-12 { // movable upward
			assert.LessOrEqual(t, lambdaUp, 10*eps, "example %d violates the upper KKT side", k)
		}
	}
}

// TestInvariant_ObjectiveMatchesRecomputation verifies the reported
// objective against the quadratic form evaluated from scratch.
func TestInvariant_ObjectiveMatchesRecomputation(t *testing.T) {
	ts := clusterSet(60, 47)
	kp := kernel.DefaultParams()

	res := solveNoShrink(t, ts, kp, 1.0)
	assert.InDelta(t, trueObjective(t, ts, kp, res.Alpha), res.Obj, 1e-6)
}

// TestInvariant_ShrinkingPreservesIdentity solves with aggressive
// shrinking and verifies that multipliers still come back attached to the
// right original examples: the solution must match a shrink-free solve.
func TestInvariant_ShrinkingPreservesIdentity(t *testing.T) {
	ts := clusterSet(200, 5)
	kp := kernel.DefaultParams()

	free := solveNoShrink(t, ts, kp, 1.0)

	shrunk := solver.DefaultOptions()
	shrunk.C = 1.0
	shrunk.Eps = 1e-6
	shrunk.ShrinkSize = 3 // evict eagerly; the final check repairs mistakes
	res, err := solver.Solve(ts, kp, shrunk)
	require.NoError(t, err)

	// The linear-kernel dual can be degenerate, so compare the primal
	// quantities the multipliers induce rather than the multipliers
	// themselves: the weight vector, the bias, and the objective.
	var wFree, wShrunk [2]float64
	for i := range free.Alpha {
		wFree[0] += free.Alpha[i] * ts.Y[i] * ts.X[i][0]
		wFree[1] += free.Alpha[i] * ts.Y[i] * ts.X[i][1]
		wShrunk[0] += res.Alpha[i] * ts.Y[i] * ts.X[i][0]
		wShrunk[1] += res.Alpha[i] * ts.Y[i] * ts.X[i][1]
	}
	assert.InDelta(t, wFree[0], wShrunk[0], 1e-3, "weight vector must survive the active-set permutations")
	assert.InDelta(t, wFree[1], wShrunk[1], 1e-3)
	assert.InDelta(t, free.Rho, res.Rho, 1e-3)
	assert.InDelta(t, trueObjective(t, ts, kp, free.Alpha), trueObjective(t, ts, kp, res.Alpha), 1e-3)
}

// TestInvariant_KKTWithoutFinalCheck solves with aggressive shrinking and
// the reactivation safety net disabled, then verifies the KKT conditions
// from a recomputed gradient. Shrinking is heuristic, so small drift on
// shrunk examples is admissible without the final check — but a shrink
// predicate that evicted still-moving examples would leave order-one
// violations behind, which this test rejects.
func TestInvariant_KKTWithoutFinalCheck(t *testing.T) {
	ts := clusterSet(300, 13)
	kp := kernel.DefaultParams()

	const c = 1.0
	opts := solver.DefaultOptions()
	opts.C = c
	opts.Eps = 1e-3
	opts.ShrinkSize = 3 // evict eagerly; no final check to repair mistakes
	opts.FinalCheck = false

	res, err := solver.Solve(ts, kp, opts)
	require.NoError(t, err)

	const drift = 1e-2
	g := recomputeGradient(t, ts, kp, res.Alpha)
	for k, a := range res.Alpha {
		assert.GreaterOrEqual(t, a, 0.0, "alpha[%d] below the box", k)
		assert.LessOrEqual(t, a, c+1e-12, "alpha[%d] above the box", k)

		lambdaUp := -(g[k] + ts.Y[k]*res.Rho)
		if a > 1e-12 { // movable downward
			assert.GreaterOrEqual(t, lambdaUp, -drift,
				"example %d violates the lower KKT side without final check", k)
		}
		if a < c-1e-12 { // movable upward
			assert.LessOrEqual(t, lambdaUp, drift,
				"example %d violates the upper KKT side without final check", k)
		}
	}
}

// TestInvariant_DeterministicResolve runs the same problem twice and
// expects bit-identical results: the solver has no hidden randomness.
func TestInvariant_DeterministicResolve(t *testing.T) {
	ts := clusterSet(40, 77)

	kp := kernel.DefaultParams()
	kp.Type = kernel.RBF
	kp.Gamma = 0.3

	opts := solver.DefaultOptions()
	opts.C = 5

	a, err := solver.Solve(ts, kp, opts)
	require.NoError(t, err)
	b, err := solver.Solve(ts, kp, opts)
	require.NoError(t, err)

	assert.Equal(t, a.Alpha, b.Alpha)
	assert.Equal(t, a.Rho, b.Rho)
	assert.Equal(t, a.Obj, b.Obj)
	assert.Equal(t, a.Iterations, b.Iterations)
}
