package solver

import (
	"fmt"

	"github.com/eiennohito/tinysvm/classifier"
)

// checkInactive re-verifies every shrunk example against the converged
// decision function and returns how many were reactivated.
//
// Shrinking is a heuristic: an example evicted from the active window may
// still end up violating its KKT condition once the remaining variables
// move. After the inner loop converges, a temporary classifier is built
// from the current support vectors with bias λeq, and each shrunk example
// is scored:
//
//	u = 1 − y[k]·f(x[k])
//
// which equals λup = −(G[k] + y[k]·λeq) evaluated with a fresh gradient;
// the fresh G[k] is written back, so no shrunk gradient stays stale.
//
// A violator (movable multiplier with |u| beyond eps on the wrong side) is
// swapped back into the active window and the window grows over it. Zero
// reactivations confirm global optimality; otherwise the caller rebuilds
// the kernel cache and re-enters the inner loop.
//
// Complexity: O(shrunk · supportVectors · dim).
func (s *state) checkInactive() int {
	if s.verbose {
		fmt.Printf("\nChecking optimality of inactive variables ")
	}

	// 1) Temporary classifier over the support vectors (α > 0).
	m := classifier.New(s.ev, s.lambdaEq)
	for i := 0; i < s.l; i++ {
		if s.status[i] != statusLower {
			m.Add(s.alpha[i]*s.y[i], s.x[i])
		}
	}

	// 2) Descending scan of the shrunk region. A reactivated example swaps
	//    with the window boundary, the window grows, and the same position
	//    is examined again (it now holds the old boundary example).
	reactivated := 0
	for k := s.l - 1; k >= s.activeSize; k-- {
		f := m.Classify(s.x[k])
		s.g[k] = s.y[k]*(f-s.lambdaEq) + s.b[k] // refresh the stale gradient
		u := 1 - s.y[k]*f

		if (s.status[k] != statusLower && u < -s.eps) ||
			(s.status[k] != statusUpper && u > s.eps) {
			s.swapIndex(k, s.activeSize)
			s.activeSize++
			reactivated++
			k++
		}
	}

	if s.verbose {
		fmt.Printf(" re-activated: %d\n", reactivated)
	}
	s.reactivated += reactivated

	return reactivated
}
