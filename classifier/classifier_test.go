package classifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eiennohito/tinysvm/classifier"
	"github.com/eiennohito/tinysvm/kernel"
)

// TestNew_PanicsOnNilEvaluator verifies the programmer-error guard.
func TestNew_PanicsOnNilEvaluator(t *testing.T) {
	assert.Panics(t, func() { classifier.New(nil, 0) }, "nil evaluator must panic")
}

// TestClassify_EmptyExpansionIsBias verifies f(x) == bias with no terms.
func TestClassify_EmptyExpansionIsBias(t *testing.T) {
	ev, err := kernel.NewEvaluator(kernel.DefaultParams())
	require.NoError(t, err)

	m := classifier.New(ev, 0.75)
	assert.Equal(t, 0, m.Len())
	assert.InDelta(t, 0.75, m.Classify(kernel.Vector{1, 2, 3}), 1e-12)
}

// TestClassify_LinearExpansion checks Σ coef·(xᵢ·x) + bias by hand.
func TestClassify_LinearExpansion(t *testing.T) {
	ev, err := kernel.NewEvaluator(kernel.DefaultParams())
	require.NoError(t, err)

	m := classifier.New(ev, -1)
	m.Add(0.5, kernel.Vector{1, 0})
	m.Add(-0.5, kernel.Vector{-1, 0})

	// f((2,0)) = 0.5*2 + (-0.5)*(-2) - 1 = 1
	assert.InDelta(t, 1.0, m.Classify(kernel.Vector{2, 0}), 1e-12)
	assert.Equal(t, 2, m.Len())
	assert.InDelta(t, -1.0, m.Bias(), 1e-12)
}

// TestClassify_SignSeparates checks that a margin classifier built from a
// hand solution separates the training points by sign.
func TestClassify_SignSeparates(t *testing.T) {
	ev, err := kernel.NewEvaluator(kernel.DefaultParams())
	require.NoError(t, err)

	// The optimal expansion of the canonical two-point problem:
	// alpha = (0.5, 0.5), rho = 0.
	m := classifier.New(ev, 0)
	m.Add(0.5*+1, kernel.Vector{1, 0})
	m.Add(0.5*-1, kernel.Vector{-1, 0})

	assert.Positive(t, m.Classify(kernel.Vector{3, 1}), "positive side")
	assert.Negative(t, m.Classify(kernel.Vector{-2, 5}), "negative side")
}
