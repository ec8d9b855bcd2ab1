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

package data

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/quantfolio/qf-api/dataframe"
)

// Provider loads daily adjusted closing prices for a set of securities.
//
// Prices returns a frame with one column per security (named by ticker, in
// request order) indexed by ascending unique trading dates covering
// [begin, end]. Cells with no observation are NaN; providers never fill
// gaps, cleaning policy belongs to the Manager.
type Provider interface {
	Prices(ctx context.Context, securities []*Security, begin, end time.Time) (*dataframe.DataFrame, error)
}

// mergePriceSeries aligns per-security (date, price) series on the union of
// their dates. Missing observations become NaN.
func mergePriceSeries(securities []*Security, series map[string]map[time.Time]float64) (*dataframe.DataFrame, error) {
	dateSet := make(map[time.Time]bool)
	for _, obs := range series {
		for dt := range obs {
			dateSet[dt] = true
		}
	}
	if len(dateSet) == 0 {
		return nil, ErrNoData
	}

	dates := make([]time.Time, 0, len(dateSet))
	for dt := range dateSet {
		dates = append(dates, dt)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})

	colNames := make([]string, len(securities))
	for colIdx, security := range securities {
		colNames[colIdx] = security.Ticker
	}

	df := &dataframe.DataFrame{
		ColNames: colNames,
		Vals:     make([][]float64, len(securities)),
	}
	row := make([]float64, len(securities))
	for _, dt := range dates {
		for colIdx, security := range securities {
			if v, ok := series[security.Ticker][dt]; ok {
				row[colIdx] = v
			} else {
				row[colIdx] = math.NaN()
			}
		}
		df.InsertRow(dt, row...)
	}

	return df, nil
}
