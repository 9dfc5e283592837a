package kernel_test

import (
	"fmt"

	"github.com/eiennohito/tinysvm/kernel"
)

// ExampleEvaluator_Eval demonstrates the RBF kernel: the value decays with
// distance and reaches exactly 1 on identical vectors.
func ExampleEvaluator_Eval() {
	p := kernel.DefaultParams()
	p.Type = kernel.RBF
	p.Gamma = 1

	ev, err := kernel.NewEvaluator(p)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	a := kernel.Vector{0, 0}
	fmt.Printf("K(a,a) = %.4f\n", ev.Eval(a, a))
	fmt.Printf("K(a,b) = %.4f\n", ev.Eval(a, kernel.Vector{1, 0}))
	fmt.Printf("K(a,c) = %.4f\n", ev.Eval(a, kernel.Vector{2, 0}))
	// Output:
	// K(a,a) = 1.0000
	// K(a,b) = 0.3679
	// K(a,c) = 0.0183
}
