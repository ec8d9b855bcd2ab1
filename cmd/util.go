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
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/quantfolio/qf-api/common"
	"github.com/quantfolio/qf-api/data"
	"github.com/quantfolio/qf-api/dataframe"
)

// analysisSecurities reads the configured ticker list; at least one ticker
// is required
func analysisSecurities() []*data.Security {
	tickers := viper.GetStringSlice("analysis.tickers")
	if len(tickers) == 0 {
		log.Fatal().Msg("no tickers specified; use --tickers")
	}
	return data.NewSecurities(tickers)
}

// analysisPeriod parses the configured date range. End defaults to today
// and begin to five years before end.
func analysisPeriod() (time.Time, time.Time) {
	tz := common.GetTimezone()

	end := time.Now().In(tz)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, tz)
	if endStr := viper.GetString("analysis.end"); endStr != "" {
		var err error
		end, err = time.ParseInLocation("2006-01-02", endStr, tz)
		if err != nil {
			log.Fatal().Err(err).Str("End", endStr).Msg("could not parse end date")
		}
	}

	begin := end.AddDate(-5, 0, 0)
	if beginStr := viper.GetString("analysis.begin"); beginStr != "" {
		var err error
		begin, err = time.ParseInLocation("2006-01-02", beginStr, tz)
		if err != nil {
			log.Fatal().Err(err).Str("Begin", beginStr).Msg("could not parse begin date")
		}
	}

	if begin.After(end) {
		log.Fatal().Time("Begin", begin).Time("End", end).Msg("begin date is after end date")
	}

	return begin, end
}

// newManager builds the price data front door; a configured CSV file takes
// precedence over the eod price service
func newManager() *data.Manager {
	if fn := viper.GetString("provider.csv_file"); fn != "" {
		return data.NewManager(data.NewCsv(fn))
	}
	return data.NewManager(data.NewEodApi(""))
}

// loadPrices fetches the cleaned adjusted close frame for the configured
// tickers and period
func loadPrices(ctx context.Context, securities []*data.Security) *dataframe.DataFrame {
	begin, end := analysisPeriod()
	manager := newManager()

	prices, err := manager.Prices(ctx, securities, begin, end)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load prices")
	}
	return prices
}
