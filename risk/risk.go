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
	"errors"

	"github.com/quantfolio/qf-api/common"
	"github.com/quantfolio/qf-api/dataframe"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrInsufficientData = errors.New("not enough observations")
)

// ReturnMatrix converts a frame of daily adjusted close prices into a frame
// of simple daily returns, price[t]/price[t-1] - 1. Prices are forward
// filled first (leading gaps stay undefined) and any row where one or more
// instruments has an undefined return is dropped, so the result is
// rectangular over the trading dates common to all instruments.
func ReturnMatrix(prices *dataframe.DataFrame) *dataframe.DataFrame {
	return Returns(prices).DropNA()
}

// Returns computes the per-instrument simple daily returns of a price
// frame. Interior price gaps are carried forward first; the first row and
// any rows in a leading gap are undefined.
func Returns(prices *dataframe.DataFrame) *dataframe.DataFrame {
	return prices.ForwardFill().PercentChange()
}

// AnnualizedMeans returns the annualized expected return of each column of
// the return matrix: arithmetic mean of the daily returns multiplied by the
// number of trading days per year.
func AnnualizedMeans(rets *dataframe.DataFrame) []float64 {
	means := make([]float64, rets.ColCount())
	for colIdx := range rets.Vals {
		means[colIdx] = stat.Mean(rets.Vals[colIdx], nil) * common.TradingDays
	}
	return means
}

// AnnualizedCovariance returns the annualized covariance matrix of the
// return matrix: daily pairwise covariance multiplied by the number of
// trading days per year. Column ordering matches AnnualizedMeans. The
// result is symmetric and, given real return data, positive semi-definite
// by construction.
func AnnualizedCovariance(rets *dataframe.DataFrame) (*mat.SymDense, error) {
	rows := rets.Len()
	cols := rets.ColCount()
	if rows < 2 || cols == 0 {
		return nil, ErrInsufficientData
	}

	// gonum expects observations in rows
	x := mat.NewDense(rows, cols, nil)
	for colIdx, col := range rets.Vals {
		for rowIdx, v := range col {
			x.Set(rowIdx, colIdx, v)
		}
	}

	cov := mat.NewSymDense(cols, nil)
	stat.CovarianceMatrix(cov, x, nil)
	cov.ScaleSym(common.TradingDays, cov)

	return cov, nil
}
