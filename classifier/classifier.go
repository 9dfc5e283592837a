// Package classifier evaluates the kernel-expansion decision function of a
// trained SVM:
//
//	f(x) = Σᵢ coefᵢ·K(xᵢ, x) + bias
//
// The solver builds a temporary Classifier (coef = α·y over the support
// vectors, bias = λeq) to re-check shrunk examples after convergence; the
// same type serves downstream prediction, where the decision for a trained
// model is sign(f(x)) with bias = −rho.
package classifier

import (
	"errors"

	"github.com/eiennohito/tinysvm/kernel"
)

// ErrNilEvaluator indicates a Classifier was requested without a kernel.
var ErrNilEvaluator = errors.New("classifier: kernel evaluator is nil")

// term is one weighted support vector of the expansion.
type term struct {
	coef float64
	x    kernel.Vector
}

// Classifier is a weighted kernel expansion with an additive bias.
// Add terms while building; Classify evaluates the raw decision value.
type Classifier struct {
	ev    *kernel.Evaluator
	bias  float64
	terms []term
}

// New returns an empty Classifier over the given kernel with the given bias.
// It panics on a nil evaluator (programmer error): a Classifier without a
// kernel cannot evaluate anything.
func New(ev *kernel.Evaluator, bias float64) *Classifier {
	if ev == nil {
		panic(ErrNilEvaluator)
	}

	return &Classifier{ev: ev, bias: bias}
}

// Add appends one expansion term coef·K(x, ·).
// Complexity: O(1) amortized.
func (c *Classifier) Add(coef float64, x kernel.Vector) {
	c.terms = append(c.terms, term{coef: coef, x: x})
}

// Bias returns the additive bias of the expansion.
func (c *Classifier) Bias() float64 { return c.bias }

// Len returns the number of expansion terms.
func (c *Classifier) Len() int { return len(c.terms) }

// Classify evaluates the raw decision value f(x) = Σ coefᵢ·K(xᵢ,x) + bias.
// The caller interprets the sign; no thresholding happens here.
//
// Complexity: O(terms·dim).
func (c *Classifier) Classify(x kernel.Vector) float64 {
	f := c.bias
	for i := range c.terms {
		f += c.terms[i].coef * c.ev.Eval(c.terms[i].x, x)
	}

	return f
}
