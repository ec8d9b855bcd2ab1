// Copyright 2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataframe

import (
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// AddScalar adds the scalar value to all columns in dataframe df and returns
// a new dataframe
func (df *DataFrame) AddScalar(scalar float64) *DataFrame {
	df = df.Copy()

	for colIdx := range df.ColNames {
		for rowIdx := range df.Vals[colIdx] {
			df.Vals[colIdx][rowIdx] += scalar
		}
	}
	return df
}

// AddVec adds the vector to all columns in dataframe and returns a new
// dataframe. panics if rows are not equal.
func (df *DataFrame) AddVec(vec []float64) *DataFrame {
	df = df.Copy()
	for idx := range df.ColNames {
		floats.Add(df.Vals[idx], vec)
	}
	return df
}

// Div divides all columns in `df` by the corresponding column in `other` and
// returns a new dataframe. Panics if rows are not equal.
func (df *DataFrame) Div(other *DataFrame) *DataFrame {
	df = df.Copy()

	otherMap := make(map[string]int, len(other.ColNames))
	for idx, val := range other.ColNames {
		otherMap[val] = idx
	}

	for idx, colName := range df.ColNames {
		if otherIdx, ok := otherMap[colName]; ok {
			floats.Div(df.Vals[idx], other.Vals[otherIdx])
		}
	}
	return df
}

// ForwardFill carries the last defined value forward over undefined cells
// and returns a new dataframe. Leading undefined values remain undefined --
// there is nothing to carry forward into them. Price series are cleaned
// this way before returns are computed.
func (df *DataFrame) ForwardFill() *DataFrame {
	df = df.Copy()

	for colIdx := range df.Vals {
		last := math.NaN()
		for rowIdx, v := range df.Vals[colIdx] {
			if math.IsNaN(v) {
				df.Vals[colIdx][rowIdx] = last
			} else {
				last = v
			}
		}
	}
	return df
}

// Mul multiplies all columns in dataframe df by the corresponding column in
// dataframe other and returns a new dataframe. panics if rows are not equal.
func (df *DataFrame) Mul(other *DataFrame) *DataFrame {
	df = df.Copy()

	otherMap := make(map[string]int, len(other.ColNames))
	for idx, val := range other.ColNames {
		otherMap[val] = idx
	}

	for idx, colName := range df.ColNames {
		if otherIdx, ok := otherMap[colName]; ok {
			floats.Mul(df.Vals[idx], other.Vals[otherIdx])
		}
	}
	return df
}

// MulScalar multiplies all columns in dataframe df by the scalar and returns
// a new dataframe
func (df *DataFrame) MulScalar(scalar float64) *DataFrame {
	df = df.Copy()

	for colIdx := range df.ColNames {
		for rowIdx := range df.Vals[colIdx] {
			df.Vals[colIdx][rowIdx] *= scalar
		}
	}
	return df
}

// PercentChange computes the simple return of each column,
// v[t]/v[t-1] - 1, and returns a new dataframe. The first row is undefined;
// a row following an undefined value is also undefined.
func (df *DataFrame) PercentChange() *DataFrame {
	df2 := df.Copy()

	for colIdx := range df.Vals {
		col := df.Vals[colIdx]
		for rowIdx := len(col) - 1; rowIdx > 0; rowIdx-- {
			df2.Vals[colIdx][rowIdx] = col[rowIdx]/col[rowIdx-1] - 1.0
		}
		if len(col) > 0 {
			df2.Vals[colIdx][0] = math.NaN()
		}
	}

	return df2
}

// RollingStdDev computes the sample standard deviation over a trailing
// window of the specified number of observations and returns a new
// dataframe. The first window-1 values are undefined. The window uses only
// past and current observations, never future ones. Invalid windows result
// in a dataframe of all NaN.
func (df *DataFrame) RollingStdDev(window int) *DataFrame {
	if (window > df.Len()) || (window < 2) {
		log.Error().Stack().Int("Window", window).Int("NRows", df.Len()).Msg("window must be: 2 <= window <= NRows")
		return df.nanFrame()
	}

	stdVals := make([][]float64, df.ColCount())
	for idx := range stdVals {
		stdVals[idx] = make([]float64, df.Len())
	}

	for colIdx := range df.Vals {
		col := df.Vals[colIdx]
		for rowIdx := range col {
			if rowIdx < window-1 {
				stdVals[colIdx][rowIdx] = math.NaN()
				continue
			}
			stdVals[colIdx][rowIdx] = stat.StdDev(col[rowIdx-window+1:rowIdx+1], nil)
		}
	}

	return &DataFrame{
		Dates:    df.Dates,
		Vals:     stdVals,
		ColNames: df.ColNames,
	}
}

// SMA computes the simple moving average of all the columns in df for the
// specified lookback period. The length of the resulting dataframe equals
// that of the input with NaNs during the warm-up period. Invalid lookback
// periods result in a dataframe of all NaN.
func (df *DataFrame) SMA(lookback int) *DataFrame {
	if (lookback > df.Len()) || (lookback <= 0) {
		log.Error().Stack().Int("Lookback", lookback).Int("NRows", df.Len()).Msg("lookback must be: 0 < lookback <= NRows")
		return df.nanFrame()
	}

	filterBank := make([][]float64, df.ColCount())
	for idx := range filterBank {
		filterBank[idx] = make([]float64, lookback)
	}

	smaVals := make([][]float64, df.ColCount())
	for idx := range smaVals {
		smaVals[idx] = make([]float64, df.Len())
	}

	warmup := true

	for rowIdx := range df.Dates {
		// if we have seen at least lookback rows then we are out of the warmup period
		// NOTE: row is 0 based, lookback is 1 based; hence the test applied below
		if rowIdx == (lookback - 1) {
			warmup = false
		}

		filterBankIdx := rowIdx % lookback

		for colIdx := range df.Vals {
			filterBank[colIdx][filterBankIdx] = df.Vals[colIdx][rowIdx]
			if warmup {
				smaVals[colIdx][rowIdx] = math.NaN()
			} else {
				smaVals[colIdx][rowIdx] = stat.Mean(filterBank[colIdx], nil)
			}
		}
	}

	return &DataFrame{
		Dates:    df.Dates,
		Vals:     smaVals,
		ColNames: df.ColNames,
	}
}

// nanFrame returns a dataframe with the same shape as df filled with NaN
func (df *DataFrame) nanFrame() *DataFrame {
	nullDf := &DataFrame{
		Dates:    df.Dates,
		Vals:     make([][]float64, df.ColCount()),
		ColNames: df.ColNames,
	}
	for colIdx := range nullDf.Vals {
		nullDf.Vals[colIdx] = make([]float64, df.Len())
		for rowIdx := range nullDf.Vals[colIdx] {
			nullDf.Vals[colIdx][rowIdx] = math.NaN()
		}
	}
	return nullDf
}
