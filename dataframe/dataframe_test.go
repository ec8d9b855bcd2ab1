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

package dataframe_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/quantfolio/qf-api/common"
	"github.com/quantfolio/qf-api/dataframe"
)

var _ = Describe("DataFrame", func() {
	Context("with no values", func() {
		var df *dataframe.DataFrame

		BeforeEach(func() {
			df = &dataframe.DataFrame{}
		})

		It("has zero length", func() {
			Expect(df.Len()).To(Equal(0))
		})

		It("has a zero start date", func() {
			Expect(df.Start()).To(Equal(time.Time{}))
		})

		It("has a zero end date", func() {
			Expect(df.End()).To(Equal(time.Time{}))
		})
	})

	Context("with 2 columns and 3 values", func() {
		var (
			df *dataframe.DataFrame
			tz *time.Location
		)

		BeforeEach(func() {
			tz = common.GetTimezone()
			df = &dataframe.DataFrame{
				Dates: []time.Time{
					time.Date(2021, time.January, 1, 0, 0, 0, 0, tz),
					time.Date(2021, time.February, 1, 0, 0, 0, 0, tz),
					time.Date(2021, time.March, 1, 0, 0, 0, 0, tz),
				},
				Vals:     [][]float64{{1.0, 2.0, 3.0}, {4.0, 5.0, 6.0}},
				ColNames: []string{"one", "two"},
			}
		})

		It("returns the index of a known column", func() {
			Expect(df.ColIndex("two")).To(Equal(1))
		})

		It("returns -1 for an unknown column", func() {
			Expect(df.ColIndex("unknown")).To(Equal(-1))
		})

		It("returns the values of a named column", func() {
			Expect(df.Col("two")).To(Equal([]float64{4.0, 5.0, 6.0}))
		})

		It("copies without sharing memory", func() {
			df2 := df.Copy()
			df2.Vals[0][0] = 100.0
			Expect(df.Vals[0][0]).To(Equal(1.0))
		})

		It("lags values by 1 row", func() {
			lagged := df.Lag(1)
			Expect(math.IsNaN(lagged.Vals[0][0])).To(BeTrue())
			Expect(lagged.Vals[0][1]).To(Equal(1.0))
			Expect(lagged.Vals[0][2]).To(Equal(2.0))
		})

		It("trims to a date range", func() {
			trimmed := df.Trim(
				time.Date(2021, time.February, 1, 0, 0, 0, 0, tz),
				time.Date(2021, time.March, 1, 0, 0, 0, 0, tz))
			Expect(trimmed.Len()).To(Equal(2))
			Expect(trimmed.Vals[0]).To(Equal([]float64{2.0, 3.0}))
		})

		It("trims to an empty frame when the range is before the start", func() {
			trimmed := df.Trim(
				time.Date(2020, time.January, 1, 0, 0, 0, 0, tz),
				time.Date(2020, time.June, 1, 0, 0, 0, 0, tz))
			Expect(trimmed.Len()).To(Equal(0))
		})

		It("splits requested columns into a separate frame", func() {
			one, two := df.Split("one")
			Expect(one.ColNames).To(Equal([]string{"one"}))
			Expect(two.ColNames).To(Equal([]string{"two"}))
			Expect(one.Vals[0]).To(Equal([]float64{1.0, 2.0, 3.0}))
		})

		It("breaks out into single column frames", func() {
			dfMap := df.Breakout()
			Expect(dfMap).To(HaveLen(2))
			Expect(dfMap["one"].ColNames).To(Equal([]string{"one"}))
			Expect(dfMap["one"].Vals[0]).To(Equal([]float64{1.0, 2.0, 3.0}))
		})

		It("returns the last row", func() {
			last := df.Last()
			Expect(last.Len()).To(Equal(1))
			Expect(last.Vals[0][0]).To(Equal(3.0))
			Expect(last.Vals[1][0]).To(Equal(6.0))
		})

		It("inserts a new row after the last date", func() {
			df.InsertRow(time.Date(2021, time.April, 1, 0, 0, 0, 0, tz), 10.0, 20.0)
			Expect(df.Len()).To(Equal(4))
			Expect(df.Vals[0]).To(Equal([]float64{1.0, 2.0, 3.0, 10.0}))
			Expect(df.Vals[1][3]).To(Equal(20.0))
		})

		It("appends a later frame, filling missing columns with NaN", func() {
			other := &dataframe.DataFrame{
				Dates: []time.Time{
					time.Date(2021, time.April, 1, 0, 0, 0, 0, tz),
					time.Date(2021, time.May, 1, 0, 0, 0, 0, tz),
				},
				Vals:     [][]float64{{4.0, 5.0}},
				ColNames: []string{"one"},
			}
			df.Append(other)
			Expect(df.Len()).To(Equal(5))
			Expect(df.Vals[0]).To(Equal([]float64{1.0, 2.0, 3.0, 4.0, 5.0}))
			Expect(math.IsNaN(df.Vals[1][3])).To(BeTrue())
			Expect(math.IsNaN(df.Vals[1][4])).To(BeTrue())
		})

		It("ignores an append of overlapping dates", func() {
			other := &dataframe.DataFrame{
				Dates:    []time.Time{time.Date(2021, time.March, 1, 0, 0, 0, 0, tz)},
				Vals:     [][]float64{{99.0}},
				ColNames: []string{"one"},
			}
			df.Append(other)
			Expect(df.Len()).To(Equal(3))
			Expect(df.Vals[0][2]).To(Equal(3.0))
		})

		It("selects the row-wise max", func() {
			maxDf := df.Max()
			Expect(maxDf.ColNames).To(Equal([]string{"max"}))
			Expect(maxDf.Vals[0]).To(Equal([]float64{4.0, 5.0, 6.0}))
		})

		It("selects the row-wise min", func() {
			minDf := df.Min()
			Expect(minDf.ColNames).To(Equal([]string{"min"}))
			Expect(minDf.Vals[0]).To(Equal([]float64{1.0, 2.0, 3.0}))
		})

		It("updates rows through ForEach", func() {
			df.ForEach(func(_ int, _ time.Time, vals map[string]float64) map[string]float64 {
				return map[string]float64{"one": vals["one"] + vals["two"]}
			})
			Expect(df.Vals[0]).To(Equal([]float64{5.0, 7.0, 9.0}))
			Expect(df.Vals[1]).To(Equal([]float64{4.0, 5.0, 6.0}))
		})

		It("renders an ascii table", func() {
			rendered := df.Table()
			Expect(rendered).To(ContainSubstring("2021-02-01"))
			Expect(rendered).To(ContainSubstring("5.0000"))
		})

		It("renders a placeholder for an empty frame", func() {
			empty := &dataframe.DataFrame{}
			Expect(empty.Table()).To(Equal("<NO DATA>"))
		})
	})
})
