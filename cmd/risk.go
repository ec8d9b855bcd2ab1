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

package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quantfolio/qf-api/common"
	"github.com/quantfolio/qf-api/data"
	"github.com/quantfolio/qf-api/risk"
)

var (
	riskVarConfidence float64
	riskRollingWindow int
)

func init() {
	rootCmd.AddCommand(riskCmd)

	riskCmd.Flags().Float64Var(&riskVarConfidence, "var-confidence", 0.95, "Confidence level for value-at-risk")
	riskCmd.Flags().IntVar(&riskRollingWindow, "rolling-window", 30, "Trailing window (days) for current volatility")
}

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Report per-instrument risk statistics",
	Long:  `Compute annualized return, volatility, sharpe ratio, value-at-risk, and beta against the benchmark for each instrument.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		securities := analysisSecurities()
		benchmark := strings.ToUpper(viper.GetString("analysis.benchmark"))

		fetchList := securities
		if benchmark != "" && !containsTicker(securities, benchmark) {
			fetchList = append(append([]*data.Security{}, securities...), &data.Security{Ticker: benchmark})
		}

		prices := loadPrices(ctx, fetchList)
		returns := risk.Returns(prices)

		var benchmarkRets []float64
		if benchmark != "" {
			benchmarkRets = returns.Col(benchmark)
		}

		riskFree := viper.GetFloat64("analysis.risk_free_rate")
		rolling := risk.RollingVolatility(returns, riskRollingWindow)

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Ticker", "Annual Return", "Annual Vol", fmt.Sprintf("Vol(%dd)", riskRollingWindow), "Sharpe", fmt.Sprintf("VaR(%.0f%%)", riskVarConfidence*100), "Beta"})
		table.SetBorder(false)

		for _, security := range securities {
			rets := returns.Col(security.Ticker)
			beta := "n/a"
			if benchmarkRets != nil {
				beta = fmt.Sprintf("%.2f", risk.Beta(rets, benchmarkRets))
			}
			table.Append([]string{
				security.Ticker,
				fmt.Sprintf("%.2f%%", risk.AnnualizedReturn(rets)*100),
				fmt.Sprintf("%.2f%%", risk.AnnualizedVolatility(rets)*100),
				fmt.Sprintf("%.2f%%", currentVolatility(rolling.Col(security.Ticker))*100),
				fmt.Sprintf("%.2f", risk.SharpeRatio(rets, riskFree)),
				fmt.Sprintf("%.2f%%", risk.ValueAtRisk(rets, riskVarConfidence)*100),
				beta,
			})
		}

		table.Render()
	},
}

// currentVolatility annualizes the most recent defined trailing-window
// standard deviation
func currentVolatility(rollingVol []float64) float64 {
	for ii := len(rollingVol) - 1; ii >= 0; ii-- {
		if !math.IsNaN(rollingVol[ii]) {
			return rollingVol[ii] * math.Sqrt(common.TradingDays)
		}
	}
	return math.NaN()
}

func containsTicker(securities []*data.Security, ticker string) bool {
	for _, security := range securities {
		if security.Ticker == ticker {
			return true
		}
	}
	return false
}
