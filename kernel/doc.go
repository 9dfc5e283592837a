// Package kernel provides the kernel functions of the SVM training engine:
// linear, polynomial, Gaussian RBF, and sigmoid.
//
// 🚀 What is a kernel?
//
//	A kernel K(a,b) is an inner product in an implicit feature space.
//	The solver never touches features directly; it only ever asks an
//	Evaluator for K(x[i], x[j]), which keeps the optimization engine
//	independent of the feature representation.
//
// ✨ Supported kernels:
//
//   - Linear      — K(a,b) = a·b
//   - Polynomial  — K(a,b) = (γ·a·b + c₀)^d
//   - RBF         — K(a,b) = exp(−γ·‖a−b‖²)
//   - Sigmoid     — K(a,b) = tanh(γ·a·b + c₀)
//
// ⚙️ Usage:
//
//	p := kernel.DefaultParams()
//	p.Type = kernel.RBF
//	p.Gamma = 0.5
//
//	ev, err := kernel.NewEvaluator(p)
//	if err != nil { ... }
//	k := ev.Eval(a, b)
//
// All four kernels are symmetric: Eval(a,b) == Eval(b,a). Evaluators are
// immutable after construction and safe for concurrent readers.
//
// Complexity: O(dim) per evaluation, no allocations.
package kernel
