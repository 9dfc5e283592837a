package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Tuning constants of the inner loop.
const (
	// etaFloor replaces a non-positive subproblem curvature η. Under a
	// Mercer kernel η > 0 holds exactly, but coincident examples can drive
	// it to 0 in floating point; flooring turns the step into a clamp to
	// the feasible box instead of a NaN.
	etaFloor = 1e-12

	// dotEvery and reportEvery set the Verbose progress cadence.
	dotEvery    = 50
	reportEvery = 1000

	// shrinkEpsKeep/shrinkEpsBlend implement the SVMlight threshold rule
	// shrinkEps ← 0.7·shrinkEps + 0.3·viol, applied every reportEvery
	// iterations.
	shrinkEpsKeep  = 0.7
	shrinkEpsBlend = 0.3
)

// learnSub runs inner iterations until the largest KKT violation drops
// below eps or no feasible working pair remains. It returns early only on
// context cancellation.
func (s *state) learnSub() error {
	if s.verbose {
		fmt.Printf("%6d examples, cache slots: %d\n", s.activeSize, s.q.Slots())
	}

	// An already-optimal start (a warm start) is confirmed without a step.
	s.updateLambdaEq()
	if s.shrinkSweep() < s.eps {
		return nil
	}

	for {
		s.iter++

		// 1) Cancellation check between iterations (the only yield point).
		if err := s.ctx.Err(); err != nil {
			return err
		}

		// 2) Working-set selection: the maximal-violating pair.
		i, j := s.selectWorkingSet()
		if i < 0 || j < 0 {
			// No feasible pair: every example is pinned at a bound in the
			// only direction it could move. That is convergence.
			return nil
		}

		oldAi, oldAj := s.alpha[i], s.alpha[j]

		qi := s.q.Column(i, s.activeSize)
		qj := s.q.Column(j, s.activeSize)

		// 3) Analytic two-variable subproblem. The equality constraint
		//    ties Δαi to Δαj; the sign pattern depends on the label pair.
		if s.y[i]*s.y[j] < 0 {
			eta := qi[i] + qj[j] + 2*qi[j]
			if eta <= 0 {
				eta = etaFloor
			}
			lo := math.Max(0, s.alpha[j]-s.alpha[i])
			hi := math.Min(s.c, s.c+s.alpha[j]-s.alpha[i])
			s.alpha[j] += (-s.g[i] - s.g[j]) / eta
			s.alpha[j] = clamp(s.alpha[j], lo, hi)
			s.alpha[i] = clamp(s.alpha[i]+s.alpha[j]-oldAj, 0, s.c)
			if lo > 0 && s.alpha[j] == lo {
				s.alpha[i] = 0 // the bound came from α_i reaching 0
			} else if hi < s.c && s.alpha[j] == hi {
				s.alpha[i] = s.c // the bound came from α_i reaching C
			}
		} else {
			eta := qi[i] + qj[j] - 2*qi[j]
			if eta <= 0 {
				eta = etaFloor
			}
			lo := math.Max(0, s.alpha[i]+s.alpha[j]-s.c)
			hi := math.Min(s.c, s.alpha[i]+s.alpha[j])
			s.alpha[j] += (s.g[i] - s.g[j]) / eta
			s.alpha[j] = clamp(s.alpha[j], lo, hi)
			s.alpha[i] = clamp(s.alpha[i]-(s.alpha[j]-oldAj), 0, s.c)
			if lo > 0 && s.alpha[j] == lo {
				s.alpha[i] = s.c // the bound came from α_i reaching C
			} else if hi < s.c && s.alpha[j] == hi {
				s.alpha[i] = 0 // the bound came from α_i reaching 0
			}
		}

		dAi := s.alpha[i] - oldAi
		dAj := s.alpha[j] - oldAj

		s.status[i] = alphaStatus(s.alpha[i], s.c)
		s.status[j] = alphaStatus(s.alpha[j], s.c)

		// 4) Incremental gradient update over the active window:
		//    G[k] += Q[i][k]·Δαi + Q[j][k]·Δαj.
		floats.AddScaled(s.g[:s.activeSize], dAi, qi[:s.activeSize])
		floats.AddScaled(s.g[:s.activeSize], dAj, qj[:s.activeSize])

		// 5) Re-estimate the equality-constraint dual from the FREE set.
		s.updateLambdaEq()

		// 6) Shrink sweep; also yields the largest KKT violation.
		viol := s.shrinkSweep()

		// 7) Termination: every KKT condition satisfied to within eps.
		if viol < s.eps {
			return nil
		}

		s.report(viol)
	}
}

// selectWorkingSet scans the active window for the maximal-violating pair:
// i is the best candidate to grow its α·y contribution, j the best to
// shrink it, with the roles sign-aware on the label. Either index is −1
// when no candidate on that side can move. Ties keep the first index
// (strict > in the running maxima).
//
// Complexity: O(activeSize).
func (s *state) selectWorkingSet() (i, j int) {
	gmax1 := math.Inf(-1)
	gmax2 := math.Inf(-1)
	i, j = -1, -1

	for k := 0; k < s.activeSize; k++ {
		if s.y[k] > 0 {
			if s.status[k] != statusUpper && -s.g[k] > gmax1 {
				gmax1 = -s.g[k]
				i = k
			}
			if s.status[k] != statusLower && s.g[k] > gmax2 {
				gmax2 = s.g[k]
				j = k
			}
		} else {
			if s.status[k] != statusUpper && -s.g[k] > gmax2 {
				gmax2 = -s.g[k]
				j = k
			}
			if s.status[k] != statusLower && s.g[k] > gmax1 {
				gmax1 = s.g[k]
				i = k
			}
		}
	}

	return i, j
}

// updateLambdaEq averages −G[k]·y[k] over the FREE examples of the active
// window; with no FREE example the estimate collapses to 0. λeq feeds both
// the shrink predicate and, at termination, the bias.
//
// Complexity: O(activeSize).
func (s *state) updateLambdaEq() {
	sum := 0.0
	free := 0
	for k := 0; k < s.activeSize; k++ {
		if s.status[k] == statusFree {
			sum -= s.g[k] * s.y[k]
			free++
		}
	}
	if free > 0 {
		s.lambdaEq = sum / float64(free)
	} else {
		s.lambdaEq = 0
	}
}

// shrinkSweep walks the active window once, accumulating the largest KKT
// violation and evicting examples whose shrink predicate
// λup·status > shrinkEps has now held for more than shrinkSize consecutive
// iterations. Eviction swaps the example behind the active window — in
// every parallel array and in the kernel cache — and re-examines the
// swapped-in position.
//
// Complexity: O(activeSize) plus O(resident columns) per eviction.
func (s *state) shrinkSweep() float64 {
	viol := 0.0
	for k := 0; k < s.activeSize; k++ {
		// λup is the upward KKT multiplier estimate; λlow = −λup.
		lambdaUp := -(s.g[k] + s.y[k]*s.lambdaEq)

		if s.status[k] != statusLower && lambdaUp < -viol {
			viol = -lambdaUp
		}
		if s.status[k] != statusUpper && lambdaUp > viol {
			viol = lambdaUp
		}

		if lambdaUp*float64(s.status[k]) > s.shrinkEps {
			s.shrinkIter[k]++
			if s.shrinkIter[k] > s.shrinkSize {
				s.activeSize--
				s.swapIndex(k, s.activeSize)
				s.q.SwapIndex(k, s.activeSize)
				s.q.Update(s.activeSize)
				k-- // the swapped-in example takes this slot; re-examine it
			}
		} else {
			s.shrinkIter[k] = 0
		}
	}

	return viol
}

// report prints Verbose progress and applies the periodic shrink-threshold
// adaptation. The hit-rate window is the two column fetches of each of the
// last reportEvery iterations.
func (s *state) report(viol float64) {
	if s.verbose && s.iter%dotEvery == 0 {
		fmt.Print(".")
	}
	if s.iter%reportEvery != 0 {
		return
	}
	if s.verbose {
		hit, miss := s.q.Stats()
		recent := float64(hit-s.hitOld) / float64(2*reportEvery)
		total := 0.0
		if hit+miss > 0 {
			total = float64(hit) / float64(hit+miss)
		}
		fmt.Printf(" %6d %6d %5d %1.4f %5.1f%% %5.1f%%\n",
			s.iter, s.activeSize, s.q.Slots(), viol, 100*recent, 100*total)
		s.hitOld = hit
	}
	s.shrinkEps = s.shrinkEps*shrinkEpsKeep + viol*shrinkEpsBlend
}

// clamp limits v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v >= hi {
		return hi
	}
	if v <= lo {
		return lo
	}

	return v
}
