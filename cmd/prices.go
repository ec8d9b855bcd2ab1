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
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantfolio/qf-api/dataframe"
	"github.com/quantfolio/qf-api/risk"
)

var (
	pricesShowReturns bool
	pricesShowSpread  bool
	pricesCsvOutput   bool
)

func init() {
	rootCmd.AddCommand(pricesCmd)

	pricesCmd.Flags().BoolVar(&pricesShowReturns, "returns", false, "Show daily percent returns instead of prices")
	pricesCmd.Flags().BoolVar(&pricesShowSpread, "spread", false, "Show the daily cross-sectional high and low instead of individual instruments")
	pricesCmd.Flags().BoolVar(&pricesCsvOutput, "csv", false, "Emit comma separated values instead of a table")
}

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Show the cleaned price history for the configured instruments",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		frame := loadPrices(ctx, analysisSecurities())
		if pricesShowReturns {
			frame = risk.Returns(frame).MulScalar(100)
		}
		if pricesShowSpread {
			frame = frame.Max().Insert("min", frame.Min().Col("min"))
		}

		if pricesCsvOutput {
			printCsv(frame)
			return
		}
		fmt.Println(frame.Table())
	},
}

func printCsv(frame *dataframe.DataFrame) {
	fmt.Printf("date,%s\n", strings.Join(frame.ColNames, ","))
	frame.ForEach(func(_ int, date time.Time, vals map[string]float64) map[string]float64 {
		row := make([]string, 0, len(frame.ColNames)+1)
		row = append(row, date.Format("2006-01-02"))
		for _, colName := range frame.ColNames {
			row = append(row, fmt.Sprintf("%.4f", vals[colName]))
		}
		fmt.Println(strings.Join(row, ","))
		return nil
	})
}
