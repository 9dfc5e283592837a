// Package solver defines the training-set container, configuration options,
// result type, and sentinel errors of the QP solver.
//
// The solver minimizes the dual soft-margin SVM objective
//
//	W(α) = ½·Σᵢⱼ αᵢαⱼ·Q[i][j] + Σᵢ bᵢαᵢ,   0 ≤ αᵢ ≤ C,  Σᵢ αᵢyᵢ = 0
//
// by SMO-style decomposition: per iteration it picks the maximal-violating
// pair of variables, solves the two-variable subproblem analytically, and
// maintains the gradient incrementally. SVMlight-style shrinking removes
// examples that sit firmly at a bound; an optional final check reactivates
// any that were shrunk wrongly.
//
// Errors (sentinel):
//
//	– ErrNilTrainingSet   if the provided training set is nil.
//	– ErrEmptyTrainingSet if it holds no examples.
//	– ErrShapeMismatch    if len(X) != len(Y).
//	– ErrBadLabel         if any label is not exactly −1 or +1.
//	– ErrBadC             if C <= 0.
//	– ErrBadEps           if Eps <= 0.
//	– ErrBadShrinkSize    if ShrinkSize < 0.
//	– ErrBadShrinkEps     if ShrinkEps <= 0.
//	– ErrBadWarmStart     if warm-start slices are inconsistent.
package solver

import (
	"context"
	"errors"
	"math"

	"github.com/eiennohito/tinysvm/kernel"
)

// Sentinel errors for training-set and option validation.
var (
	// ErrNilTrainingSet indicates a nil *TrainingSet was passed to Solve.
	ErrNilTrainingSet = errors.New("solver: training set is nil")

	// ErrEmptyTrainingSet indicates a training set with no examples.
	ErrEmptyTrainingSet = errors.New("solver: training set is empty")

	// ErrShapeMismatch indicates len(X) != len(Y).
	ErrShapeMismatch = errors.New("solver: feature and label counts differ")

	// ErrBadLabel indicates a label outside {−1, +1}.
	ErrBadLabel = errors.New("solver: labels must be -1 or +1")

	// ErrBadC indicates a non-positive box constraint.
	ErrBadC = errors.New("solver: C must be positive")

	// ErrBadEps indicates a non-positive KKT tolerance.
	ErrBadEps = errors.New("solver: Eps must be positive")

	// ErrBadShrinkSize indicates a negative shrink patience.
	ErrBadShrinkSize = errors.New("solver: ShrinkSize must be non-negative")

	// ErrBadShrinkEps indicates a non-positive initial shrink threshold.
	ErrBadShrinkEps = errors.New("solver: ShrinkEps must be positive")

	// ErrBadWarmStart indicates warm-start slices of the wrong length, or an
	// initial alpha supplied without its matching gradient.
	ErrBadWarmStart = errors.New("solver: inconsistent warm-start vectors")
)

// TrainingSet is the example source: parallel feature and label slices.
// Labels must be exactly −1 or +1; all feature vectors must share one
// dimension.
type TrainingSet struct {
	// X holds one dense feature vector per example.
	X []kernel.Vector

	// Y holds the matching ±1 labels.
	Y []float64
}

// Len returns the number of training examples.
func (ts *TrainingSet) Len() int { return len(ts.Y) }

// Validate checks shape and label constraints.
// Errors: ErrEmptyTrainingSet, ErrShapeMismatch, ErrBadLabel, and
// kernel.ErrDimensionMismatch for ragged feature vectors.
//
// Complexity: O(l).
func (ts *TrainingSet) Validate() error {
	if len(ts.X) != len(ts.Y) {
		return ErrShapeMismatch
	}
	if ts.Len() == 0 {
		return ErrEmptyTrainingSet
	}
	for _, y := range ts.Y {
		if y != -1 && y != 1 {
			return ErrBadLabel
		}
	}

	return kernel.CheckDims(ts.X)
}

// Default knobs for Options.
const (
	// DefaultC is the default box constraint on the multipliers.
	DefaultC = 1.0

	// DefaultEps is the default KKT termination tolerance.
	DefaultEps = 1e-3

	// DefaultShrinkSize is the default number of consecutive iterations the
	// shrink predicate must hold before a variable is eliminated.
	DefaultShrinkSize = 100

	// DefaultShrinkEps is the default initial threshold of the shrink
	// predicate; it is re-tuned adaptively while the solver runs.
	DefaultShrinkEps = 2.0

	// DefaultCacheMB is the default kernel-cache budget in megabytes.
	DefaultCacheMB = 40
)

// Options configures a solve.
// Zero value is not meaningful; use DefaultOptions() and override fields.
type Options struct {
	// C is the upper bound on every multiplier (box constraint). Must be > 0.
	C float64

	// Eps is the KKT tolerance: the inner loop terminates when the largest
	// KKT violation falls below Eps. Must be > 0.
	Eps float64

	// ShrinkSize is the number of consecutive iterations the shrink
	// predicate must hold before an example is removed from the active set.
	// Must be >= 0.
	ShrinkSize int

	// ShrinkEps is the initial shrink-predicate threshold; every 1000
	// iterations it is blended toward the current KKT violation
	// (0.7·old + 0.3·viol, the SVMlight rule). Must be > 0.
	ShrinkEps float64

	// FinalCheck re-verifies all shrunk examples against the converged
	// decision function and reactivates KKT violators, repeating the
	// optimization until none remain. Guarantees global optimality at the
	// cost of one classifier pass per round.
	FinalCheck bool

	// CacheMB is the kernel-column cache budget in megabytes; fractional
	// budgets are honored down to the cache's two-column minimum.
	// Non-positive selects DefaultCacheMB.
	CacheMB float64

	// Verbose prints iteration progress to stdout.
	Verbose bool

	// Ctx cancels a long-running solve between inner iterations.
	// Nil means context.Background().
	Ctx context.Context

	// LinearTerm is the per-example linear coefficient b of the dual
	// objective. Nil selects −1 for every example (the classification dual).
	LinearTerm []float64

	// InitialAlpha warm-starts the multipliers. Nil selects all zeros.
	// When set, InitialGradient must be set too: the solver maintains the
	// gradient incrementally and cannot cheaply derive it from alpha alone.
	InitialAlpha []float64

	// InitialGradient warm-starts the gradient G[k] = Σⱼ Q[k][j]·α[j] + b[k].
	// Nil selects a copy of the linear term (matching InitialAlpha == 0).
	InitialGradient []float64
}

// DefaultOptions returns Options pre-populated with safe defaults:
//
//	C:          1.0
//	Eps:        1e-3
//	ShrinkSize: 100
//	ShrinkEps:  2.0
//	FinalCheck: true
//	CacheMB:    40
func DefaultOptions() Options {
	return Options{
		C:          DefaultC,
		Eps:        DefaultEps,
		ShrinkSize: DefaultShrinkSize,
		ShrinkEps:  DefaultShrinkEps,
		FinalCheck: true,
		CacheMB:    DefaultCacheMB,
	}
}

// Validate checks that Options holds a valid combination; warm-start slice
// lengths are checked against the training set inside Solve.
func (o *Options) Validate() error {
	if o.C <= 0 || math.IsNaN(o.C) {
		return ErrBadC
	}
	if o.Eps <= 0 || math.IsNaN(o.Eps) {
		return ErrBadEps
	}
	if o.ShrinkSize < 0 {
		return ErrBadShrinkSize
	}
	if o.ShrinkEps <= 0 || math.IsNaN(o.ShrinkEps) {
		return ErrBadShrinkEps
	}

	return nil
}

// normalize fills runtime defaults that Validate does not police.
func (o *Options) normalize() {
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
	if o.CacheMB <= 0 {
		o.CacheMB = DefaultCacheMB
	}
}

// Result is the outcome of a solve. Alpha and Gradient are reported in
// original example order, regardless of how shrinking permuted the
// internal arrays.
type Result struct {
	// Alpha holds the final Lagrange multipliers, each in [0, C].
	Alpha []float64

	// Gradient holds the final per-example gradient values. With FinalCheck
	// off, the entries of examples still shrunk at the end keep the value
	// they had when they left the active window.
	Gradient []float64

	// Rho is the bias term: a downstream classifier decides
	// sign(Σ αᵢyᵢ·K(xᵢ,·) − Rho).
	Rho float64

	// Obj is the final dual objective ½·Σ α[k]·(G[k]+b[k]).
	Obj float64

	// Iterations counts inner optimization iterations across all rounds.
	Iterations int

	// Reactivated counts examples the final check returned to the active
	// set because shrinking had removed them prematurely.
	Reactivated int
}

// Bound status of a multiplier, encoded as the sign table used by the
// shrink predicate lambdaUp·status > shrinkEps:
//
//	LOWER_BOUND (α ≤ 0) → −1
//	UPPER_BOUND (α ≥ C) → +1
//	FREE    (0 < α < C) →  0
//
// λup = −(G[k] + y[k]·λeq) is non-positive at an optimum that keeps α at
// its lower bound and non-negative at one that keeps α at its upper bound,
// so a positive product means the multiplier is pushed further into the
// bound it already sits at and the example is likely inactive at the
// optimum.
const (
	statusUpper = +1
	statusFree  = 0
	statusLower = -1
)

// alphaStatus derives the bound status of a multiplier value.
func alphaStatus(alpha, c float64) int {
	switch {
	case alpha <= 0:
		return statusLower
	case alpha >= c:
		return statusUpper
	default:
		return statusFree
	}
}
