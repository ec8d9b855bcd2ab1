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
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/quantfolio/qf-api/common"
	"github.com/quantfolio/qf-api/dataframe"
)

var eodAPI = "https://api.quantfolio.app"

type eodapi struct {
	apikey string
}

type eodQuote struct {
	Date     string  `json:"date"`
	Close    float64 `json:"close"`
	AdjClose float64 `json:"adjClose"`
	Volume   int64   `json:"volume"`
}

type quoteResult struct {
	Ticker string
	Prices map[time.Time]float64
	Err    error
}

// NewEodApi creates an end-of-day price provider backed by the HTTP quote
// service. The API token is read from the `provider.token` configuration
// key when key is empty.
func NewEodApi(key string) Provider {
	if key == "" {
		key = viper.GetString("provider.token")
	}
	return &eodapi{
		apikey: key,
	}
}

func (api *eodapi) Prices(ctx context.Context, securities []*Security, begin, end time.Time) (*dataframe.DataFrame, error) {
	if begin.After(end) {
		return nil, ErrInvalidTimeRange
	}

	subLog := log.With().Strs("Tickers", Tickers(securities)).Time("Begin", begin).Time("End", end).Logger()

	ch := make(chan quoteResult)
	for _, security := range securities {
		go eodDownloadWorker(ctx, ch, security.Ticker, begin, end, api)
	}

	series := make(map[string]map[time.Time]float64, len(securities))
	var firstErr error
	for range securities {
		res := <-ch
		if res.Err != nil {
			subLog.Warn().Err(res.Err).Str("Ticker", res.Ticker).Msg("cannot download ticker data")
			if firstErr == nil {
				firstErr = res.Err
			}
			continue
		}
		series[res.Ticker] = res.Prices
	}
	if firstErr != nil {
		return nil, firstErr
	}

	return mergePriceSeries(securities, series)
}

func eodDownloadWorker(ctx context.Context, result chan<- quoteResult, ticker string, begin, end time.Time, api *eodapi) {
	prices, err := api.loadTicker(ctx, ticker, begin, end)
	result <- quoteResult{
		Ticker: ticker,
		Prices: prices,
		Err:    err,
	}
}

func (api *eodapi) loadTicker(ctx context.Context, ticker string, begin, end time.Time) (map[time.Time]float64, error) {
	subLog := log.With().Str("Ticker", ticker).Time("Begin", begin).Time("End", end).Logger()

	url := fmt.Sprintf("%s/eod/%s/prices?startDate=%s&endDate=%s&token=%s", eodAPI, ticker,
		begin.Format("2006-01-02"), end.Format("2006-01-02"), api.apikey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not build eod price request")
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		subLog.Warn().Err(err).Msg("failed to load eod prices")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		subLog.Error().Int("HTTPResponseStatusCode", resp.StatusCode).Msg("eod service returned invalid response code")
		return nil, fmt.Errorf("%w: status code %d", ErrProviderFailure, resp.StatusCode)
	}

	quotes := make([]eodQuote, 0)
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		subLog.Error().Stack().Err(err).Msg("could not decode JSON")
		return nil, err
	}

	if len(quotes) == 0 {
		subLog.Warn().Msg("no results returned")
		return nil, ErrNoData
	}

	prices := make(map[time.Time]float64, len(quotes))
	for _, quote := range quotes {
		if len(quote.Date) < 10 {
			subLog.Error().Str("Date", quote.Date).Msg("malformed quote date")
			return nil, ErrProviderFailure
		}
		dt, err := time.ParseInLocation("2006-01-02", quote.Date[:10], common.GetTimezone())
		if err != nil {
			subLog.Error().Stack().Err(err).Str("Date", quote.Date).Msg("could not parse quote date")
			return nil, err
		}
		prices[dt] = quote.AdjClose
	}

	return prices, nil
}
