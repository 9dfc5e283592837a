package solver

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/eiennohito/tinysvm/kernel"
	"github.com/eiennohito/tinysvm/qcache"
)

// state carries everything one solve mutates. Every per-example slice is
// indexed by the CURRENT ACTIVE POSITION, not the original example index;
// active2index maps positions back to original identities. Positions
// [0, activeSize) are active, [activeSize, l) are shrunk.
type state struct {
	l          int
	activeSize int
	iter       int

	c          float64
	eps        float64
	shrinkSize int
	shrinkEps  float64
	finalCheck bool
	verbose    bool
	ctx        context.Context

	// Parallel per-example arrays. swapIndex is the ONLY place that may
	// reorder them, so no component can drift out of step.
	x            []kernel.Vector
	y            []float64
	alpha        []float64
	b            []float64 // linear term of the dual objective
	g            []float64 // gradient, maintained incrementally
	status       []int
	shrinkIter   []int
	active2index []int

	lambdaEq    float64 // running estimate of the equality-constraint dual
	reactivated int
	hitOld      int64

	ev *kernel.Evaluator
	q  *qcache.QMatrix
}

// Solve finds the optimal multipliers of the dual soft-margin SVM for the
// given training set, kernel, and options.
//
// Steps:
//  1. Validate training set, kernel params, options, and warm-start shapes.
//  2. Copy inputs into active-indexed state; derive statuses; build the
//     kernel-column cache over the state's own x/y views.
//  3. Run the inner optimization until the largest KKT violation drops
//     below Eps (working-set selection + analytic two-variable steps +
//     incremental gradient + shrinking).
//  4. With FinalCheck, re-verify every shrunk example against the converged
//     decision function; reactivate violators, rebuild the cache, and
//     repeat step 3 until no example reactivates.
//  5. Permute alpha and the gradient back to original order, compute the
//     objective and the bias, and return them.
//
// Errors: validation sentinels from types.go, kernel parameter sentinels,
// or the context's error when Options.Ctx is canceled mid-solve.
//
// Complexity: one inner iteration costs O(activeSize) kernel-column work
// (amortized by the cache) plus an O(activeSize) sweep; total iteration
// count is data-dependent.
func Solve(ts *TrainingSet, kp kernel.Params, opts Options) (Result, error) {
	// 1) Validate every input before allocating state.
	if ts == nil {
		return Result{}, ErrNilTrainingSet
	}
	if err := ts.Validate(); err != nil {
		return Result{}, err
	}
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	ev, err := kernel.NewEvaluator(kp)
	if err != nil {
		return Result{}, err
	}
	l := ts.Len()
	if err = checkWarmStart(&opts, l); err != nil {
		return Result{}, err
	}
	opts.normalize()

	// 2) Build the active-indexed solver state.
	s, err := newState(ts, ev, &opts)
	if err != nil {
		return Result{}, err
	}

	// 3) + 4) Outer loop: inner optimization, then the optional final check.
	for {
		if err = s.learnSub(); err != nil {
			return Result{}, err
		}
		if !s.finalCheck || s.checkInactive() == 0 {
			break
		}
		// Wrongly-shrunk examples are back in the window: every cached
		// column prefix is stale, and the shrink threshold restarts.
		s.q.Rebuild()
		s.shrinkEps = opts.ShrinkEps
	}

	if s.verbose {
		fmt.Printf("\nDone! %d iterations\n\n", s.iter)
	}

	// 5) Permute results back to original example order and finalize.
	return s.result(), nil
}

// checkWarmStart validates the optional warm-start vectors against l.
func checkWarmStart(opts *Options, l int) error {
	if opts.LinearTerm != nil && len(opts.LinearTerm) != l {
		return ErrBadWarmStart
	}
	if opts.InitialAlpha != nil && len(opts.InitialAlpha) != l {
		return ErrBadWarmStart
	}
	if opts.InitialGradient != nil && len(opts.InitialGradient) != l {
		return ErrBadWarmStart
	}
	// Alpha without its gradient would silently optimize the wrong problem.
	if opts.InitialAlpha != nil && opts.InitialGradient == nil {
		return ErrBadWarmStart
	}

	return nil
}

// newState copies the inputs into freshly owned active-indexed arrays and
// attaches the kernel-column cache to them.
func newState(ts *TrainingSet, ev *kernel.Evaluator, opts *Options) (*state, error) {
	l := ts.Len()
	s := &state{
		l:          l,
		activeSize: l,
		c:          opts.C,
		eps:        opts.Eps,
		shrinkSize: opts.ShrinkSize,
		shrinkEps:  opts.ShrinkEps,
		finalCheck: opts.FinalCheck,
		verbose:    opts.Verbose,
		ctx:        opts.Ctx,

		x:            make([]kernel.Vector, l),
		y:            make([]float64, l),
		alpha:        make([]float64, l),
		b:            make([]float64, l),
		g:            make([]float64, l),
		status:       make([]int, l),
		shrinkIter:   make([]int, l),
		active2index: make([]int, l),

		ev: ev,
	}

	copy(s.x, ts.X)
	copy(s.y, ts.Y)

	// Linear term: caller's, or the classification dual's −1 per example.
	if opts.LinearTerm != nil {
		copy(s.b, opts.LinearTerm)
	} else {
		for i := range s.b {
			s.b[i] = -1
		}
	}

	// Multipliers and gradient: warm start, or the cold start α=0, G=b.
	if opts.InitialAlpha != nil {
		copy(s.alpha, opts.InitialAlpha)
		copy(s.g, opts.InitialGradient)
	} else if opts.InitialGradient != nil {
		copy(s.g, opts.InitialGradient)
	} else {
		copy(s.g, s.b)
	}

	for i := 0; i < l; i++ {
		s.status[i] = alphaStatus(s.alpha[i], s.c)
		s.active2index[i] = i
	}

	// The cache shares s.x and s.y, so swapIndex's element swaps are
	// visible to kernel evaluation without further notification.
	q, err := qcache.NewQMatrix(s.x, s.y, ev, int64(opts.CacheMB*(1<<20)))
	if err != nil {
		return nil, err
	}
	s.q = q

	return s, nil
}

// swapIndex exchanges positions i and j in EVERY active-indexed array.
// The kernel cache is swapped by the caller (qcache.SwapIndex) because not
// every caller needs it: reactivation swaps are followed by a full rebuild.
func (s *state) swapIndex(i, j int) {
	s.y[i], s.y[j] = s.y[j], s.y[i]
	s.x[i], s.x[j] = s.x[j], s.x[i]
	s.alpha[i], s.alpha[j] = s.alpha[j], s.alpha[i]
	s.status[i], s.status[j] = s.status[j], s.status[i]
	s.g[i], s.g[j] = s.g[j], s.g[i]
	s.b[i], s.b[j] = s.b[j], s.b[i]
	s.shrinkIter[i], s.shrinkIter[j] = s.shrinkIter[j], s.shrinkIter[i]
	s.active2index[i], s.active2index[j] = s.active2index[j], s.active2index[i]
}

// result permutes alpha and the gradient back to original example order and
// computes the objective ½·Σ α[k]·(G[k]+b[k]) and the bias rho = λeq.
func (s *state) result() Result {
	alpha := make([]float64, s.l)
	grad := make([]float64, s.l)
	for i := 0; i < s.l; i++ {
		alpha[s.active2index[i]] = s.alpha[i]
		grad[s.active2index[i]] = s.g[i]
	}

	// obj = ½·α·(G+b), accumulated over every example.
	gb := make([]float64, s.l)
	floats.AddTo(gb, s.g, s.b)

	return Result{
		Alpha:       alpha,
		Gradient:    grad,
		Rho:         s.lambdaEq,
		Obj:         floats.Dot(s.alpha, gb) / 2,
		Iterations:  s.iter,
		Reactivated: s.reactivated,
	}
}
