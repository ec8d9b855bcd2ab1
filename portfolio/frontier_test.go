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

package portfolio_test

import (
	"context"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/quantfolio/qf-api/portfolio"
)

var _ = Describe("Frontier", func() {
	var (
		means []float64
		cov   *mat.SymDense
	)

	BeforeEach(func() {
		means = []float64{0.08, 0.12, 0.10}
		cov = mat.NewSymDense(3, []float64{
			0.04, 0.01, 0.00,
			0.01, 0.09, 0.02,
			0.00, 0.02, 0.06,
		})
	})

	Describe("drawing random weights", func() {
		It("sums to 1 and keeps every weight non-negative", func() {
			rng := rand.New(rand.NewSource(42))
			for ii := 0; ii < 100; ii++ {
				w := portfolio.RandomWeights(rng, 5)
				Expect(w).To(HaveLen(5))
				sum := 0.0
				for _, v := range w {
					Expect(v).To(BeNumerically(">=", 0))
					sum += v
				}
				Expect(sum).To(BeNumerically("~", 1.0, 1e-9))
			}
		})
	})

	Describe("computing portfolio stats", func() {
		It("computes expected return as the weighted mean", func() {
			ret, _, _, err := portfolio.Stats([]float64{0.5, 0.25, 0.25}, means, cov)
			Expect(err).To(BeNil())
			Expect(ret).To(BeNumerically("~", 0.095, 1e-9))
		})

		It("computes risk of an equal-weight portfolio on an uncorrelated identity covariance as sigma over sqrt(n)", func() {
			sigma := 0.2
			n := 4
			data := make([]float64, n*n)
			for ii := 0; ii < n; ii++ {
				data[ii*n+ii] = sigma * sigma
			}
			idCov := mat.NewSymDense(n, data)
			w := []float64{0.25, 0.25, 0.25, 0.25}
			_, risk, _, err := portfolio.Stats(w, make([]float64, n), idCov)
			Expect(err).To(BeNil())
			Expect(risk).To(BeNumerically("~", sigma/math.Sqrt(float64(n)), 1e-9))
		})

		It("errors when the quadratic form goes negative", func() {
			bad := mat.NewSymDense(1, []float64{-1})
			_, _, _, err := portfolio.Stats([]float64{1}, []float64{0.1}, bad)
			Expect(err).To(Equal(portfolio.ErrNotPositiveSemiDefinite))
		})

		It("errors on mismatched dimensions", func() {
			_, _, _, err := portfolio.Stats([]float64{0.5, 0.5}, means, cov)
			Expect(err).To(Equal(portfolio.ErrDimensionMismatch))
		})

		It("returns NaN sharpe for a zero-risk portfolio", func() {
			zero := mat.NewSymDense(2, []float64{0, 0, 0, 0})
			_, risk, sharpe, err := portfolio.Stats([]float64{0.5, 0.5}, []float64{0.1, 0.1}, zero)
			Expect(err).To(BeNil())
			Expect(risk).To(Equal(0.0))
			Expect(math.IsNaN(sharpe)).To(BeTrue())
		})
	})

	Describe("sequential monte carlo", func() {
		It("produces the requested number of samples with valid weights", func() {
			rng := rand.New(rand.NewSource(7))
			samples, err := portfolio.Frontier(rng, means, cov, 500)
			Expect(err).To(BeNil())
			Expect(samples).To(HaveLen(500))
			for _, s := range samples {
				sum := 0.0
				for _, v := range s.Weights {
					Expect(v).To(BeNumerically(">=", 0))
					sum += v
				}
				Expect(sum).To(BeNumerically("~", 1.0, 1e-9))
				Expect(s.Risk).To(BeNumerically(">", 0))
			}
		})

		It("reproduces the identical sample sequence for the same seed", func() {
			a, err := portfolio.Frontier(rand.New(rand.NewSource(99)), means, cov, 100)
			Expect(err).To(BeNil())
			b, err := portfolio.Frontier(rand.New(rand.NewSource(99)), means, cov, 100)
			Expect(err).To(BeNil())
			for ii := range a {
				Expect(a[ii].Weights).To(Equal(b[ii].Weights))
				Expect(a[ii].Return).To(Equal(b[ii].Return))
				Expect(a[ii].Risk).To(Equal(b[ii].Risk))
			}
		})

		It("errors on mismatched dimensions", func() {
			_, err := portfolio.Frontier(rand.New(rand.NewSource(1)), []float64{0.1}, cov, 10)
			Expect(err).To(Equal(portfolio.ErrDimensionMismatch))
		})
	})

	Describe("parallel monte carlo", func() {
		It("is deterministic for a fixed seed and worker count", func() {
			ctx := context.Background()
			a, err := portfolio.FrontierParallel(ctx, 42, 4, means, cov, 1000)
			Expect(err).To(BeNil())
			Expect(a).To(HaveLen(1000))
			b, err := portfolio.FrontierParallel(ctx, 42, 4, means, cov, 1000)
			Expect(err).To(BeNil())
			for ii := range a {
				Expect(a[ii].Weights).To(Equal(b[ii].Weights))
			}
		})

		It("matches the sequential search when run with a single worker", func() {
			seq, err := portfolio.Frontier(rand.New(rand.NewSource(11)), means, cov, 250)
			Expect(err).To(BeNil())
			par, err := portfolio.FrontierParallel(context.Background(), 11, 1, means, cov, 250)
			Expect(err).To(BeNil())
			for ii := range seq {
				Expect(par[ii].Weights).To(Equal(seq[ii].Weights))
			}
		})
	})
})
