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

package dataframe

import (
	"math"
	"time"

	"github.com/goccy/go-json"
)

// jsonFrame is the wire form of a DataFrame. JSON has no representation for
// NaN so undefined cells travel as null.
type jsonFrame struct {
	Dates    []time.Time  `json:"dates"`
	ColNames []string     `json:"colNames"`
	Vals     [][]*float64 `json:"vals"`
}

func (df *DataFrame) MarshalJSON() ([]byte, error) {
	frame := jsonFrame{
		Dates:    df.Dates,
		ColNames: df.ColNames,
		Vals:     make([][]*float64, len(df.Vals)),
	}

	for colIdx, col := range df.Vals {
		vals := make([]*float64, len(col))
		for rowIdx := range col {
			if !math.IsNaN(col[rowIdx]) {
				vals[rowIdx] = &col[rowIdx]
			}
		}
		frame.Vals[colIdx] = vals
	}

	return json.Marshal(frame)
}

func (df *DataFrame) UnmarshalJSON(data []byte) error {
	frame := jsonFrame{}
	if err := json.Unmarshal(data, &frame); err != nil {
		return err
	}

	df.Dates = frame.Dates
	df.ColNames = frame.ColNames
	df.Vals = make([][]float64, len(frame.Vals))

	for colIdx, col := range frame.Vals {
		vals := make([]float64, len(col))
		for rowIdx, v := range col {
			if v == nil {
				vals[rowIdx] = math.NaN()
			} else {
				vals[rowIdx] = *v
			}
		}
		df.Vals[colIdx] = vals
	}

	return nil
}
