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

package risk

import (
	"math"
	"sort"

	"github.com/quantfolio/qf-api/common"
	"github.com/quantfolio/qf-api/dataframe"
	"gonum.org/v1/gonum/stat"
)

// Metric functions operate on slices of daily returns. Undefined inputs
// (NaN values) are excluded observation-by-observation; when too few
// observations remain the metric itself is NaN. Callers must check for NaN
// before doing further arithmetic.

// SharpeRatio is the average return earned in excess of the risk-free rate
// per unit of volatility, computed over the full available history of daily
// returns.
//
// Sharpe = (mean(r) - rf/252) / stdev(r)
//
// riskFreeRate is an annual rate; pass 0 to ignore it. The ratio is NaN
// when fewer than 2 defined observations exist or the standard deviation is
// zero.
func SharpeRatio(rets []float64, riskFreeRate float64) float64 {
	defined := dropUndefined(rets)
	if len(defined) < 2 {
		return math.NaN()
	}

	stdev := stat.StdDev(defined, nil)
	if stdev == 0 {
		return math.NaN()
	}

	dailyRiskFree := riskFreeRate / common.TradingDays
	return (stat.Mean(defined, nil) - dailyRiskFree) / stdev
}

// ValueAtRisk estimates the one-day loss threshold not expected to be
// exceeded with the given confidence level, e.g. confidence 0.95 returns
// the 5th percentile of the daily return distribution. The quantile is
// taken from the empirical distribution with linear interpolation between
// the bracketing order statistics. NaN when no defined observations exist
// or confidence is outside (0, 1).
func ValueAtRisk(rets []float64, confidence float64) float64 {
	if confidence <= 0 || confidence >= 1 {
		return math.NaN()
	}

	defined := dropUndefined(rets)
	if len(defined) == 0 {
		return math.NaN()
	}

	sort.Float64s(defined)
	return stat.Quantile(1-confidence, stat.LinInterp, defined, nil)
}

// Beta measures the sensitivity of an instrument's returns to a benchmark's
// returns:
//
// beta = cov(r, r_benchmark) / var(r_benchmark)
//
// Only dates where both series are defined contribute. NaN when fewer than
// 2 such dates exist or the benchmark variance is zero. Beta of a series
// against itself is exactly 1.
func Beta(rets, benchmark []float64) float64 {
	n := len(rets)
	if len(benchmark) < n {
		n = len(benchmark)
	}

	a := make([]float64, 0, n)
	b := make([]float64, 0, n)
	for ii := 0; ii < n; ii++ {
		if math.IsNaN(rets[ii]) || math.IsNaN(benchmark[ii]) {
			continue
		}
		a = append(a, rets[ii])
		b = append(b, benchmark[ii])
	}

	if len(a) < 2 {
		return math.NaN()
	}

	variance := stat.Variance(b, nil)
	if variance == 0 {
		return math.NaN()
	}

	return stat.Covariance(a, b, nil) / variance
}

// AnnualizedReturn is the mean daily return scaled to an annual figure.
// NaN when no defined observations exist.
func AnnualizedReturn(rets []float64) float64 {
	defined := dropUndefined(rets)
	if len(defined) == 0 {
		return math.NaN()
	}
	return stat.Mean(defined, nil) * common.TradingDays
}

// AnnualizedVolatility is the annualized standard deviation of daily
// returns. NaN when fewer than 2 defined observations exist.
func AnnualizedVolatility(rets []float64) float64 {
	defined := dropUndefined(rets)
	if len(defined) < 2 {
		return math.NaN()
	}
	return stat.StdDev(defined, nil) * math.Sqrt(common.TradingDays)
}

// RollingVolatility computes the trailing standard deviation of each column
// over a fixed window of observations. The first window-1 values of each
// column are undefined.
func RollingVolatility(df *dataframe.DataFrame, window int) *dataframe.DataFrame {
	return df.RollingStdDev(window)
}

func dropUndefined(vals []float64) []float64 {
	defined := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			defined = append(defined, v)
		}
	}
	return defined
}
