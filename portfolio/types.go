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
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInfeasible indicates the constraint set admits no weight vector;
	// the solver never returns a best-effort or clamped result instead.
	ErrInfeasible = errors.New("infeasible constraint set")

	// ErrNotPositiveSemiDefinite indicates a covariance matrix produced a
	// negative quadratic form. The caller must validate or regularize the
	// matrix before use; risk is never silently clamped to zero.
	ErrNotPositiveSemiDefinite = errors.New("covariance matrix is not positive semi-definite")

	ErrDimensionMismatch = errors.New("mean vector and covariance matrix dimensions do not match")

	ErrDidNotConverge = errors.New("solver did not converge")
)

// Sample is a single randomly drawn portfolio paired with its derived
// statistics
type Sample struct {
	Weights []float64 `json:"weights"`
	Return  float64   `json:"return"`
	Risk    float64   `json:"risk"`
	Sharpe  float64   `json:"sharpe"`
}

// Optimal is the weight vector produced by the constrained solver
type Optimal struct {
	Tickers []string  `json:"tickers"`
	Weights []float64 `json:"weights"`
	Return  float64   `json:"return"`
	Risk    float64   `json:"risk"`
}

// Percentages returns the optimal weights as a map from ticker to weight
// percentage, rounded to 2 decimal places for display
func (o *Optimal) Percentages() map[string]float64 {
	res := make(map[string]float64, len(o.Tickers))
	for idx, ticker := range o.Tickers {
		res[ticker] = math.Round(o.Weights[idx]*10_000) / 100
	}
	return res
}

// Table prints the optimal portfolio as an ASCII formatted table
func (o *Optimal) Table() string {
	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader([]string{"Ticker", "Weight %"})
	table.SetBorder(false)

	pct := o.Percentages()
	for _, ticker := range o.Tickers {
		table.Append([]string{ticker, fmt.Sprintf("%.2f", pct[ticker])})
	}

	table.SetFooter([]string{"Risk", fmt.Sprintf("%.4f", o.Risk)})
	table.Render()
	return s.String()
}

// Stats computes the expected return, risk, and sharpe ratio of the weight
// vector w against the annualized mean vector and covariance matrix.
//
// risk is sqrt(w' * Sigma * w). The quadratic form is non-negative for any
// positive semi-definite Sigma; a negative value means the matrix violates
// that precondition and ErrNotPositiveSemiDefinite is returned rather than
// clamping. sharpe is return/risk and NaN for a degenerate zero-risk
// portfolio.
func Stats(w, means []float64, cov *mat.SymDense) (expectedReturn, risk, sharpe float64, err error) {
	n := len(means)
	if len(w) != n || cov.SymmetricDim() != n {
		return 0, 0, 0, ErrDimensionMismatch
	}

	wVec := mat.NewVecDense(n, w)
	expectedReturn = mat.Dot(wVec, mat.NewVecDense(n, means))

	variance := mat.Inner(wVec, cov, wVec)
	if variance < 0 {
		return 0, 0, 0, ErrNotPositiveSemiDefinite
	}

	risk = math.Sqrt(variance)
	if risk == 0 {
		sharpe = math.NaN()
	} else {
		sharpe = expectedReturn / risk
	}

	return expectedReturn, risk, sharpe, nil
}
