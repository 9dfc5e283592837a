package qcache

import (
	"github.com/eiennohito/tinysvm/kernel"
)

// QMatrix supplies columns of the symmetric matrix
//
//	Q[i][j] = y[i]·y[j]·K(x[i], x[j])
//
// restricted to the solver's current active window, amortizing kernel
// evaluations through an LRU column cache.
//
// QMatrix holds the same x and y slice headers as the solver, so the
// solver's in-place element swaps are visible here without notification;
// SwapIndex only has to permute the cached columns.
type QMatrix struct {
	x     []kernel.Vector
	y     []float64
	ev    *kernel.Evaluator
	cache *Cache
}

// NewQMatrix builds a QMatrix over the given active-indexed views.
// x and y must be the solver's own slices (shared, not copied) so that
// element swaps performed by the solver are observed by kernel evaluation.
//
// Errors: ErrNilEvaluator, ErrShapeMismatch, ErrInvalidLength.
//
// Complexity: O(len(x)) memory; kernel work is deferred to Column.
func NewQMatrix(x []kernel.Vector, y []float64, ev *kernel.Evaluator, budgetBytes int64) (*QMatrix, error) {
	// 1) Validate collaborators.
	if ev == nil {
		return nil, ErrNilEvaluator
	}
	if len(x) != len(y) {
		return nil, ErrShapeMismatch
	}

	// 2) The cache validates the column length itself.
	c, err := NewCache(len(x), budgetBytes)
	if err != nil {
		return nil, err
	}

	return &QMatrix{x: x, y: y, ev: ev, cache: c}, nil
}

// Column returns Q[i][0..active). A cached prefix is extended by evaluating
// only the missing tail; successive queries therefore observe consistent,
// symmetric values. The returned slice is owned by the cache and stable
// only until the next cache-mutating call.
//
// Complexity: O(active − cachedPrefix) kernel evaluations.
func (q *QMatrix) Column(i, active int) []float64 {
	col, start := q.cache.Fetch(i, active)
	for t := start; t < active; t++ {
		col[t] = q.y[i] * q.y[t] * q.ev.Eval(q.x[i], q.x[t])
	}

	return col
}

// SwapIndex exchanges positions i and j in the cached columns. The solver
// swaps x[i]/x[j] and y[i]/y[j] in place (visible here through the shared
// slices); this call keeps already-cached values consistent with that swap.
func (q *QMatrix) SwapIndex(i, j int) {
	q.cache.SwapIndex(i, j)
}

// Update tells the cache that positions >= newActive left the active window.
func (q *QMatrix) Update(newActive int) {
	q.cache.Update(newActive)
}

// Rebuild discards all cached columns; used after the active window grows
// back during reactivation.
func (q *QMatrix) Rebuild() {
	q.cache.Rebuild()
}

// Stats reports the cache hit/miss counters (logging only).
func (q *QMatrix) Stats() (hit, miss int64) {
	return q.cache.Hit, q.cache.Miss
}

// Slots reports the cache's resident-column budget (logging only).
func (q *QMatrix) Slots() int { return q.cache.Slots() }
