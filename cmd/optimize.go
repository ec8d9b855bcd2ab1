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
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/quantfolio/qf-api/portfolio"
	"github.com/quantfolio/qf-api/risk"
)

var (
	optimizeMinWeight float64
	optimizeMaxWeight float64
)

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().Float64Var(&optimizeMinWeight, "min-weight", 0, "Lower bound on each instrument's weight")
	optimizeCmd.Flags().Float64Var(&optimizeMaxWeight, "max-weight", 1, "Upper bound on each instrument's weight")
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Find the minimum variance portfolio",
	Long:  `Solve for the weights minimizing portfolio variance subject to full investment and per-instrument weight bounds.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		securities := analysisSecurities()
		prices := loadPrices(ctx, securities)
		rets := risk.ReturnMatrix(prices)

		means := risk.AnnualizedMeans(rets)
		cov, err := risk.AnnualizedCovariance(rets)
		if err != nil {
			log.Fatal().Err(err).Msg("could not compute annualized covariance")
		}

		weights, err := portfolio.MinimumVariance(cov, optimizeMinWeight, optimizeMaxWeight)
		if err != nil {
			if errors.Is(err, portfolio.ErrInfeasible) {
				fmt.Fprintf(os.Stderr, "no portfolio satisfies the bounds [%.2f, %.2f] for %d instruments\n",
					optimizeMinWeight, optimizeMaxWeight, len(rets.ColNames))
				os.Exit(1)
			}
			log.Fatal().Err(err).Msg("could not solve for minimum variance weights")
		}

		expectedReturn, riskVal, _, err := portfolio.Stats(weights, means, cov)
		if err != nil {
			log.Fatal().Err(err).Msg("could not compute portfolio stats")
		}

		optimal := &portfolio.Optimal{
			Tickers: rets.ColNames,
			Weights: weights,
			Return:  expectedReturn,
			Risk:    riskVal,
		}

		fmt.Println(optimal.Table())
		fmt.Printf("Expected Return: %.2f%%\n", optimal.Return*100)
		fmt.Printf("Risk: %.2f%%\n", optimal.Risk*100)
	},
}
