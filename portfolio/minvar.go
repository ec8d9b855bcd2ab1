// Copyright 2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package portfolio

import (
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

const (
	// solveTol is the convergence tolerance on the sum constraint and on
	// bound/multiplier checks
	solveTol = 1e-9

	// maxSolverIter caps the active-set iteration; the working set changes
	// by one variable per iteration so n instruments never need more than a
	// few multiples of n steps
	maxSolverIter = 100
)

type boundState int

const (
	boundFree boundState = iota
	boundLower
	boundUpper
)

// MinimumVariance solves the box-constrained minimum-variance portfolio:
//
//	minimize   w' * Sigma * w
//	subject to sum(w) = 1
//	           minWeight <= w_i <= maxWeight for all i
//
// No expected-return term appears in the objective; this is the minimum
// variance portfolio, not a return-targeted one.
//
// The solver is a primal active-set iteration: variables pinned at a bound
// are held there while the equality-constrained subproblem over the free
// variables is solved through its KKT system; free variables that step
// outside their box are pinned, and pinned variables whose Lagrange
// multiplier turns negative are released. Active-set steps are exact linear
// solves, so the result is deterministic for a fixed input.
//
// Returns ErrInfeasible when n*minWeight > 1 or n*maxWeight < 1 (the
// constraint set is empty) rather than any clamped result.
func MinimumVariance(cov *mat.SymDense, minWeight, maxWeight float64) ([]float64, error) {
	n := cov.SymmetricDim()
	if n == 0 {
		return nil, ErrDimensionMismatch
	}

	// feasibility: there must exist weights in the box summing to 1
	if minWeight > maxWeight || float64(n)*minWeight > 1+solveTol || float64(n)*maxWeight < 1-solveTol {
		log.Error().Stack().Float64("MinWeight", minWeight).Float64("MaxWeight", maxWeight).Int("N", n).
			Msg("constraint set is infeasible")
		return nil, ErrInfeasible
	}

	// when the bounds exhaust the budget exactly the constraint set is a
	// single vertex; the active set iteration cycles at such a point so
	// return it directly
	if math.Abs(float64(n)*minWeight-1) <= solveTol {
		return uniformWeights(n, minWeight), nil
	}
	if math.Abs(float64(n)*maxWeight-1) <= solveTol {
		return uniformWeights(n, maxWeight), nil
	}

	state := make([]boundState, n)
	w := make([]float64, n)

	for iter := 0; iter < maxSolverIter; iter++ {
		free := make([]int, 0, n)
		budget := 1.0
		for ii, st := range state {
			switch st {
			case boundFree:
				free = append(free, ii)
			case boundLower:
				w[ii] = minWeight
				budget -= minWeight
			case boundUpper:
				w[ii] = maxWeight
				budget -= maxWeight
			}
		}

		var nu float64
		if len(free) == 0 {
			// every weight pinned; feasible only if the pinned values
			// exhaust the budget exactly
			if math.Abs(budget) > solveTol {
				return nil, ErrDidNotConverge
			}
		} else {
			var err error
			nu, err = solveFreeSubproblem(cov, w, free, budget)
			if err != nil {
				return nil, err
			}
		}

		// pin the free variable that violates its box the most
		pinIdx := -1
		pinTo := boundFree
		worst := solveTol
		for _, ii := range free {
			if viol := minWeight - w[ii]; viol > worst {
				worst = viol
				pinIdx = ii
				pinTo = boundLower
			}
			if viol := w[ii] - maxWeight; viol > worst {
				worst = viol
				pinIdx = ii
				pinTo = boundUpper
			}
		}
		if pinIdx != -1 {
			state[pinIdx] = pinTo
			continue
		}

		// all free weights respect their box; release the pinned variable
		// with the most negative multiplier, if any
		grad := gradient(cov, w)
		releaseIdx := -1
		worst = -solveTol
		for ii, st := range state {
			var mu float64
			switch st {
			case boundLower:
				mu = grad[ii] + nu
			case boundUpper:
				mu = -(grad[ii] + nu)
			default:
				continue
			}
			if mu < worst {
				worst = mu
				releaseIdx = ii
			}
		}
		if releaseIdx != -1 {
			state[releaseIdx] = boundFree
			continue
		}

		// KKT conditions hold
		return w, nil
	}

	log.Error().Stack().Int("MaxIter", maxSolverIter).Msg("active set iteration did not converge")
	return nil, ErrDidNotConverge
}

// solveFreeSubproblem solves the equality-constrained quadratic subproblem
// over the free variables with the pinned variables held at their bounds:
//
//	[ 2*Sigma_FF  1 ] [ w_F ]   [ -2*Sigma_FC * w_C ]
//	[ 1'          0 ] [ nu  ] = [ budget            ]
//
// writing the solution into w and returning the equality multiplier nu.
func solveFreeSubproblem(cov *mat.SymDense, w []float64, free []int, budget float64) (float64, error) {
	f := len(free)
	freeSet := make(map[int]bool, f)
	for _, ii := range free {
		freeSet[ii] = true
	}

	kkt := mat.NewDense(f+1, f+1, nil)
	rhs := mat.NewVecDense(f+1, nil)

	for rr, ii := range free {
		for cc, jj := range free {
			kkt.Set(rr, cc, 2*cov.At(ii, jj))
		}
		kkt.Set(rr, f, 1)
		kkt.Set(f, rr, 1)

		// move the pinned columns to the right-hand side
		cross := 0.0
		for jj := 0; jj < cov.SymmetricDim(); jj++ {
			if !freeSet[jj] {
				cross += cov.At(ii, jj) * w[jj]
			}
		}
		rhs.SetVec(rr, -2*cross)
	}
	rhs.SetVec(f, budget)

	var sol mat.VecDense
	if err := sol.SolveVec(kkt, rhs); err != nil {
		log.Error().Stack().Err(err).Msg("could not solve KKT system")
		return 0, ErrDidNotConverge
	}

	for rr, ii := range free {
		w[ii] = sol.AtVec(rr)
	}

	return sol.AtVec(f), nil
}

func uniformWeights(n int, v float64) []float64 {
	w := make([]float64, n)
	for ii := range w {
		w[ii] = v
	}
	return w
}

func gradient(cov *mat.SymDense, w []float64) []float64 {
	n := len(w)
	grad := make([]float64, n)
	for ii := 0; ii < n; ii++ {
		for jj := 0; jj < n; jj++ {
			grad[ii] += 2 * cov.At(ii, jj) * w[jj]
		}
	}
	return grad
}
