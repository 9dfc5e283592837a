// Package tinysvm is a small, focused training engine for soft-margin
// Support Vector Machines in Go.
//
// 🚀 What is tinysvm?
//
//	A decomposition (SMO-style) solver for the dual SVM quadratic program,
//	with SVMlight-style shrinking and a bounded LRU kernel-column cache:
//
//	  • solver/     — working-set selection, analytic two-variable steps,
//	                  gradient maintenance, shrinking & reactivation
//	  • qcache/     — the Q-matrix column cache with swap-aware LRU eviction
//	  • kernel/     — linear, polynomial, RBF and sigmoid kernels
//	  • classifier/ — the kernel-expansion decision function
//
// ✨ Why choose tinysvm?
//
//   - Deterministic          — no hidden randomness, reproducible solves
//   - Memory-bounded         — kernel evaluations amortized under a fixed budget
//   - Cancellable            — long solves honor context.Context
//   - Pure Go                — no cgo, no CGO-bound BLAS
//
// Quick sketch of a solve:
//
//	ts := &solver.TrainingSet{
//	    X: []kernel.Vector{{1, 0}, {-1, 0}},
//	    Y: []float64{+1, -1},
//	}
//	res, err := solver.Solve(ts, kernel.DefaultParams(), solver.DefaultOptions())
//	// res.Alpha, res.Rho, res.Obj ...
//
// Dive into the per-package documentation for the optimization details,
// invariants, and complexity notes.
package tinysvm
