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

package dataframe_test

import (
	"math"
	"time"

	"github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quantfolio/qf-api/dataframe"
)

var _ = Describe("JSON encoding", func() {
	It("round trips a frame with undefined cells", func() {
		tz, err := time.LoadLocation("America/New_York")
		Expect(err).To(BeNil())

		df := &dataframe.DataFrame{
			Dates: []time.Time{
				time.Date(2021, time.January, 4, 0, 0, 0, 0, tz),
				time.Date(2021, time.January, 5, 0, 0, 0, 0, tz),
			},
			ColNames: []string{"one"},
			Vals:     [][]float64{{math.NaN(), 2.5}},
		}

		raw, err := json.Marshal(df)
		Expect(err).To(BeNil())
		Expect(string(raw)).To(ContainSubstring("null"))

		decoded := &dataframe.DataFrame{}
		Expect(json.Unmarshal(raw, decoded)).To(Succeed())
		Expect(decoded.ColNames).To(Equal(df.ColNames))
		Expect(decoded.Len()).To(Equal(2))
		Expect(math.IsNaN(decoded.Vals[0][0])).To(BeTrue())
		Expect(decoded.Vals[0][1]).To(Equal(2.5))
		Expect(decoded.Dates[0].Equal(df.Dates[0])).To(BeTrue())
	})
})
