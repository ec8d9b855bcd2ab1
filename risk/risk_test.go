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

package risk_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/quantfolio/qf-api/common"
	"github.com/quantfolio/qf-api/dataframe"
	"github.com/quantfolio/qf-api/risk"
)

func priceFrame(cols map[string][]float64) *dataframe.DataFrame {
	tz := common.GetTimezone()
	df := &dataframe.DataFrame{}
	n := 0
	for _, vals := range cols {
		n = len(vals)
		break
	}
	for ii := 0; ii < n; ii++ {
		df.Dates = append(df.Dates, time.Date(2022, time.January, 3+ii, 16, 0, 0, 0, tz))
	}
	// fixed ordering for reproducible columns
	for _, name := range []string{"AAA", "BBB", "CCC"} {
		if vals, ok := cols[name]; ok {
			df.Insert(name, vals)
		}
	}
	return df
}

var _ = Describe("When building the return matrix", func() {
	Context("with two instruments and a gap in one", func() {
		var rets *dataframe.DataFrame

		BeforeEach(func() {
			prices := priceFrame(map[string][]float64{
				"AAA": {100.0, 110.0, math.NaN(), 121.0},
				"BBB": {50.0, 50.0, 55.0, 55.0},
			})
			rets = risk.ReturnMatrix(prices)
		})

		It("drops the first row of undefined returns", func() {
			Expect(rets.Len()).To(Equal(3))
		})

		It("forward fills the gap before computing returns", func() {
			// AAA held at 110 through the gap: 0.10, 0.00, 0.10
			Expect(rets.Vals[0][0]).To(BeNumerically("~", 0.10, 1e-9))
			Expect(rets.Vals[0][1]).To(BeNumerically("~", 0.0, 1e-9))
			Expect(rets.Vals[0][2]).To(BeNumerically("~", 0.10, 1e-9))
		})
	})

	Context("with a leading gap", func() {
		It("drops rows until every instrument has a defined return", func() {
			prices := priceFrame(map[string][]float64{
				"AAA": {math.NaN(), math.NaN(), 100.0, 110.0},
				"BBB": {50.0, 51.0, 52.0, 53.0},
			})
			rets := risk.ReturnMatrix(prices)
			Expect(rets.Len()).To(Equal(1))
			Expect(rets.Vals[0][0]).To(BeNumerically("~", 0.10, 1e-9))
		})
	})
})

var _ = Describe("When annualizing returns", func() {
	Context("with a constant daily return", func() {
		It("multiplies the daily mean by 252", func() {
			rets := priceFrame(map[string][]float64{
				"AAA": {0.001, 0.001, 0.001, 0.001},
			})
			means := risk.AnnualizedMeans(rets)
			Expect(means).To(HaveLen(1))
			Expect(means[0]).To(BeNumerically("~", 0.252, 1e-9))
		})
	})

	Context("with two perfectly negatively correlated instruments", func() {
		var (
			cov *dataframe.DataFrame
		)

		It("produces a symmetric covariance matrix with negated off diagonal", func() {
			cov = priceFrame(map[string][]float64{
				"AAA": {0.01, -0.01, 0.01, -0.01},
				"BBB": {-0.01, 0.01, -0.01, 0.01},
			})
			sigma, err := risk.AnnualizedCovariance(cov)
			Expect(err).To(BeNil())
			Expect(sigma.SymmetricDim()).To(Equal(2))

			// daily variance of +-0.01 around 0 is (4 * 1e-4) / 3
			expected := 4.0 * 1e-4 / 3.0 * 252.0
			Expect(sigma.At(0, 0)).To(BeNumerically("~", expected, 1e-12))
			Expect(sigma.At(1, 1)).To(BeNumerically("~", expected, 1e-12))
			Expect(sigma.At(0, 1)).To(BeNumerically("~", -expected, 1e-12))
			Expect(sigma.At(1, 0)).To(Equal(sigma.At(0, 1)))
		})
	})

	Context("with a single observation", func() {
		It("reports insufficient data", func() {
			rets := priceFrame(map[string][]float64{
				"AAA": {0.01},
			})
			_, err := risk.AnnualizedCovariance(rets)
			Expect(err).To(MatchError(risk.ErrInsufficientData))
		})
	})
})

var _ = Describe("When computing the Sharpe ratio", func() {
	It("divides mean daily return by its standard deviation", func() {
		rets := []float64{0.02, 0.0, 0.02, 0.0}
		// mean = 0.01, sample stdev = sqrt(4e-4/3)
		expected := 0.01 / math.Sqrt(4.0e-4/3.0)
		Expect(risk.SharpeRatio(rets, 0)).To(BeNumerically("~", expected, 1e-9))
	})

	It("subtracts the daily risk-free rate", func() {
		rets := []float64{0.02, 0.0, 0.02, 0.0}
		expected := (0.01 - 0.0252/common.TradingDays) / math.Sqrt(4.0e-4/3.0)
		Expect(risk.SharpeRatio(rets, 0.0252)).To(BeNumerically("~", expected, 1e-9))
	})

	It("is NaN when the standard deviation is zero", func() {
		Expect(math.IsNaN(risk.SharpeRatio([]float64{0.01, 0.01, 0.01}, 0))).To(BeTrue())
	})

	It("is NaN with fewer than 2 defined observations", func() {
		Expect(math.IsNaN(risk.SharpeRatio([]float64{0.01, math.NaN()}, 0))).To(BeTrue())
	})
})

var _ = Describe("When computing value at risk", func() {
	Context("with 100 evenly spaced daily returns", func() {
		var rets []float64

		BeforeEach(func() {
			rets = make([]float64, 100)
			for ii := range rets {
				rets[ii] = -0.50 + 0.01*float64(ii)
			}
			// shuffle deterministically to prove the input need not be sorted
			for ii := range rets {
				jj := (ii * 37) % 100
				rets[ii], rets[jj] = rets[jj], rets[ii]
			}
		})

		It("returns the 5th percentile at 95% confidence", func() {
			Expect(risk.ValueAtRisk(rets, 0.95)).To(BeNumerically("~", -0.46, 1e-9))
		})

		It("returns the 1st percentile at 99% confidence", func() {
			Expect(risk.ValueAtRisk(rets, 0.99)).To(BeNumerically("~", -0.50, 1e-9))
		})
	})

	It("interpolates between bracketing order statistics", func() {
		rets := []float64{-0.04, -0.02, 0.01, 0.03}
		v := risk.ValueAtRisk(rets, 0.625) // p = 0.375, between the 1st and 2nd order statistic
		Expect(v).To(BeNumerically(">=", -0.04))
		Expect(v).To(BeNumerically("<=", -0.02))
	})

	It("is NaN with no defined observations", func() {
		Expect(math.IsNaN(risk.ValueAtRisk([]float64{math.NaN()}, 0.95))).To(BeTrue())
	})

	It("is NaN for a confidence outside (0, 1)", func() {
		Expect(math.IsNaN(risk.ValueAtRisk([]float64{0.01, 0.02}, 1.0))).To(BeTrue())
	})
})

var _ = Describe("When computing beta", func() {
	It("is exactly 1 against itself", func() {
		rets := []float64{0.01, -0.02, 0.005, 0.03, -0.01}
		Expect(risk.Beta(rets, rets)).To(Equal(1.0))
	})

	It("doubles when the instrument moves twice the benchmark", func() {
		benchmark := []float64{0.01, -0.02, 0.005, 0.03, -0.01}
		rets := make([]float64, len(benchmark))
		for ii := range benchmark {
			rets[ii] = 2 * benchmark[ii]
		}
		Expect(risk.Beta(rets, benchmark)).To(BeNumerically("~", 2.0, 1e-9))
	})

	It("skips dates where either series is undefined", func() {
		rets := []float64{0.02, math.NaN(), 0.01, -0.02, 0.04}
		benchmark := []float64{0.01, 0.02, math.NaN(), -0.01, 0.02}
		Expect(math.IsNaN(risk.Beta(rets, benchmark))).To(BeFalse())
	})

	It("is NaN when the benchmark has zero variance", func() {
		rets := []float64{0.01, -0.02, 0.005}
		benchmark := []float64{0.01, 0.01, 0.01}
		Expect(math.IsNaN(risk.Beta(rets, benchmark))).To(BeTrue())
	})

	It("is NaN with fewer than 2 valid observations", func() {
		rets := []float64{0.01, math.NaN()}
		benchmark := []float64{0.01, 0.02}
		Expect(math.IsNaN(risk.Beta(rets, benchmark))).To(BeTrue())
	})
})

var _ = Describe("When computing rolling volatility", func() {
	It("has exactly window-1 undefined leading values", func() {
		prices := priceFrame(map[string][]float64{
			"AAA": {100, 101, 99, 102, 104, 103, 105, 107},
		})
		vol := risk.RollingVolatility(prices, 3)
		col := vol.Vals[0]
		Expect(math.IsNaN(col[0])).To(BeTrue())
		Expect(math.IsNaN(col[1])).To(BeTrue())
		for ii := 2; ii < len(col); ii++ {
			Expect(math.IsNaN(col[ii])).To(BeFalse())
		}
	})
})
