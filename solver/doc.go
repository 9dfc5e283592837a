// Package solver trains soft-margin Support Vector Machines by solving the
// dual quadratic program with an SMO-style decomposition method.
//
// 🚀 What does it solve?
//
//	minimize   W(α) = ½·Σᵢⱼ αᵢαⱼ·yᵢyⱼ·K(xᵢ,xⱼ) + Σᵢ bᵢαᵢ
//	subject to 0 ≤ αᵢ ≤ C,  Σᵢ αᵢyᵢ = 0
//
//	With the default linear term b = −1 this is the classification dual;
//	the returned multipliers, bias and objective fully describe the
//	trained machine.
//
// ✨ How it works:
//
//   - Working-set selection — per iteration, the maximal-violating pair
//     (i, j) under the current gradient, sign-aware on the labels.
//   - Analytic step — the two-variable subproblem is solved exactly and
//     clamped to the feasible box; the equality constraint is conserved
//     by construction.
//   - Incremental gradient — two cached Q columns update G over the
//     active window in O(activeSize).
//   - Shrinking — examples whose multiplier is pushed into its bound for
//     ShrinkSize consecutive iterations leave the active window, with
//     every parallel array and the kernel cache permuted in one place.
//   - Final check — after convergence the shrunk examples are re-scored
//     by the actual decision function; violators are reactivated and the
//     optimization resumes on a rebuilt cache until none remain.
//
// ⚙️ Usage:
//
//	ts := &solver.TrainingSet{X: xs, Y: ys}
//
//	kp := kernel.DefaultParams()
//	kp.Type = kernel.RBF
//	kp.Gamma = 0.5
//
//	opts := solver.DefaultOptions()
//	opts.C = 10
//
//	res, err := solver.Solve(ts, kp, opts)
//	if err != nil { ... }
//	// res.Alpha, res.Rho, res.Obj, res.Iterations
//
// Concurrency: a solve is single-threaded and fully synchronous; no state
// is shared with the caller while Solve runs. Long solves honor
// Options.Ctx between iterations.
//
// Complexity: O(activeSize) kernel-column work per iteration, amortized by
// the LRU column cache; memory is O(l) state plus the configured cache
// budget, all released when Solve returns.
package solver
