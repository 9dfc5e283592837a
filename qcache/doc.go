// Package qcache caches columns of the SVM kernel matrix
// Q[i][j] = y[i]·y[j]·K(x[i], x[j]) under a fixed memory budget.
//
// 🚀 Why a column cache?
//
//	The decomposition solver touches two Q columns per iteration, and the
//	same columns tend to recur while the working set circles a small group
//	of hard examples. Recomputing a column costs O(active·dim) kernel
//	evaluations; caching whole columns under an LRU policy amortizes that
//	across iterations.
//
// ✨ Key features:
//
//   - whole-column LRU eviction under a byte budget fixed at construction
//   - prefix extension: a cached column grows to the requested active size
//     by evaluating only the missing tail
//   - swap-aware: SwapIndex relabels two positions in O(resident columns),
//     keeping cached values consistent with the solver's shrink swaps
//   - observable Hit/Miss counters (logging only, no semantics)
//
// ⚙️ Usage:
//
//	q, err := qcache.NewQMatrix(x, y, evaluator, 40<<20)
//	if err != nil { ... }
//	col := q.Column(i, activeSize) // Q[i][0..activeSize)
//
// Invariant: Q[i][j] == Q[j][i] across successive queries — both entries
// are computed from the same symmetric kernel evaluator.
//
// The package is not safe for concurrent use; the solver drives it from a
// single goroutine (see the solver package's concurrency notes).
package qcache
