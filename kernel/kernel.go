package kernel

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Evaluator computes kernel values for one fixed Params.
// It is stateless after construction and safe for concurrent readers.
type Evaluator struct {
	params Params
}

// NewEvaluator validates p and returns an Evaluator for it.
//
// Errors: ErrUnknownType, ErrBadGamma, ErrBadDegree (see Params.Validate).
//
// Complexity: O(1).
func NewEvaluator(p Params) (*Evaluator, error) {
	// 1) Validate the parameter combination up front.
	if err := p.Validate(); err != nil {
		return nil, err
	}

	// 2) The evaluator only needs the validated parameter copy.
	return &Evaluator{params: p}, nil
}

// Params returns the parameter set this Evaluator was built from.
func (e *Evaluator) Params() Params { return e.params }

// Eval computes K(a, b) for the configured kernel type.
//
// Symmetry: Eval(a, b) == Eval(b, a) for every supported kernel, which
// callers building symmetric kernel matrices rely on.
//
// Eval panics on vectors of different dimensions (programmer error);
// use CheckDims to validate a dataset once instead of per evaluation.
//
// Complexity: O(dim) per call.
func (e *Evaluator) Eval(a, b Vector) float64 {
	switch e.params.Type {
	case Linear:
		return floats.Dot(a, b)
	case Polynomial:
		// (γ·a·b + c₀)^d with an integer power.
		return ipow(e.params.Gamma*floats.Dot(a, b)+e.params.Coef0, e.params.Degree)
	case RBF:
		// exp(−γ·‖a−b‖²); Distance returns the L2 norm of a−b.
		d := floats.Distance(a, b, 2)

		return math.Exp(-e.params.Gamma * d * d)
	case Sigmoid:
		return math.Tanh(e.params.Gamma*floats.Dot(a, b) + e.params.Coef0)
	}

	// Unreachable: NewEvaluator rejects unknown types.
	return 0
}

// CheckDims verifies that every vector in xs has the same dimension.
// It returns ErrDimensionMismatch on the first offending vector.
//
// Complexity: O(len(xs)).
func CheckDims(xs []Vector) error {
	if len(xs) == 0 {
		return nil
	}
	dim := len(xs[0])
	for _, x := range xs {
		if len(x) != dim {
			return ErrDimensionMismatch
		}
	}

	return nil
}

// ipow computes base^exp for small non-negative integer exponents by
// binary exponentiation, avoiding math.Pow's log/exp round trip.
func ipow(base float64, exp int) float64 {
	result := 1.0
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}

	return result
}
