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
	"context"
	"math/rand"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// RandomWeights draws n values uniformly from (0, 1) and normalizes them to
// sum to 1. The result covers the simplex's barycentric projection; it is
// NOT uniform over the simplex itself (a Dirichlet draw would be), which is
// acceptable for exploratory frontier coverage but not for unbiased simplex
// sampling.
func RandomWeights(rng *rand.Rand, n int) []float64 {
	w := make([]float64, n)
	sum := 0.0
	for sum == 0 {
		sum = 0.0
		for idx := range w {
			w[idx] = rng.Float64()
			sum += w[idx]
		}
	}
	for idx := range w {
		w[idx] /= sum
	}
	return w
}

// Frontier runs a Monte Carlo search over random weight vectors and returns
// k portfolio samples tracing an empirical risk/return frontier. The
// generator is passed in explicitly and seeded once by the caller for the
// whole batch; the same generator state reproduces the identical sample
// sequence.
func Frontier(rng *rand.Rand, means []float64, cov *mat.SymDense, k int) ([]*Sample, error) {
	n := len(means)
	if cov.SymmetricDim() != n {
		return nil, ErrDimensionMismatch
	}

	samples := make([]*Sample, k)
	for ii := 0; ii < k; ii++ {
		w := RandomWeights(rng, n)
		expectedReturn, risk, sharpe, err := Stats(w, means, cov)
		if err != nil {
			log.Error().Stack().Err(err).Int("Draw", ii).Msg("could not compute portfolio stats")
			return nil, err
		}
		samples[ii] = &Sample{
			Weights: w,
			Return:  expectedReturn,
			Risk:    risk,
			Sharpe:  sharpe,
		}
	}

	return samples, nil
}

// FrontierParallel computes the same search as Frontier split across the
// requested number of workers. Each draw is independent so the only shared
// state is the read-only mean vector and covariance matrix; every worker
// uses its own generator derived from the batch seed, keeping the result
// deterministic for a fixed (seed, workers) pair.
func FrontierParallel(ctx context.Context, seed int64, workers int, means []float64, cov *mat.SymDense, k int) ([]*Sample, error) {
	n := len(means)
	if cov.SymmetricDim() != n {
		return nil, ErrDimensionMismatch
	}
	if workers < 1 {
		workers = 1
	}

	samples := make([]*Sample, k)
	g, _ := errgroup.WithContext(ctx)

	for worker := 0; worker < workers; worker++ {
		worker := worker
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed + int64(worker)))
			begin := worker * k / workers
			end := (worker + 1) * k / workers
			for ii := begin; ii < end; ii++ {
				w := RandomWeights(rng, n)
				expectedReturn, risk, sharpe, err := Stats(w, means, cov)
				if err != nil {
					return err
				}
				samples[ii] = &Sample{
					Weights: w,
					Return:  expectedReturn,
					Risk:    risk,
					Sharpe:  sharpe,
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return samples, nil
}
