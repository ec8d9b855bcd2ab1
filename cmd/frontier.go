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
	"math/rand"
	"runtime"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/quantfolio/qf-api/database"
	"github.com/quantfolio/qf-api/portfolio"
	"github.com/quantfolio/qf-api/risk"
)

var (
	frontierSamples  int
	frontierSeed     int64
	frontierParallel bool
	frontierSave     bool
)

func init() {
	rootCmd.AddCommand(frontierCmd)

	frontierCmd.Flags().IntVar(&frontierSamples, "samples", 10_000, "Number of monte carlo samples to draw")
	frontierCmd.Flags().Int64Var(&frontierSeed, "seed", 0, "Random seed; 0 seeds from the clock")
	frontierCmd.Flags().BoolVar(&frontierParallel, "parallel", false, "Draw samples on all CPUs")
	frontierCmd.Flags().BoolVar(&frontierSave, "save", false, "Save the run to the database")
}

var frontierCmd = &cobra.Command{
	Use:   "frontier",
	Short: "Trace an efficient frontier via monte carlo sampling",
	Long:  `Draw random long-only portfolios over the configured instruments and emit each sample's weights, expected return, risk, and sharpe ratio as JSON.`,
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

		seed := frontierSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		var samples []*portfolio.Sample
		if frontierParallel {
			samples, err = portfolio.FrontierParallel(ctx, seed, runtime.NumCPU(), means, cov, frontierSamples)
		} else {
			samples, err = portfolio.Frontier(rand.New(rand.NewSource(seed)), means, cov, frontierSamples)
		}
		if err != nil {
			log.Fatal().Err(err).Msg("could not sample frontier")
		}

		if frontierSave {
			if err := database.Connect(ctx); err != nil {
				log.Fatal().Err(err).Msg("could not connect to database")
			}
			begin, end := analysisPeriod()
			run := &database.Run{
				Tickers: rets.ColNames,
				Begin:   begin,
				End:     end,
				Samples: samples,
			}
			if err := database.SaveRun(ctx, run); err != nil {
				log.Fatal().Err(err).Msg("could not save run")
			}
			log.Info().Str("RunID", run.ID.String()).Msg("saved run")
		}

		out, err := json.MarshalIndent(samples, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("could not encode samples")
		}
		fmt.Println(string(out))
	},
}
