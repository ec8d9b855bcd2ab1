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
	"io"
	"math"
	"os"
	"strconv"
	"time"

	rldf "github.com/rocketlaunchr/dataframe-go"
	imports "github.com/rocketlaunchr/dataframe-go/imports"
	"github.com/rs/zerolog/log"

	"github.com/quantfolio/qf-api/common"
	"github.com/quantfolio/qf-api/dataframe"
)

type csvProvider struct {
	fn string
}

// NewCsv creates a provider that reads adjusted closing prices from a local
// CSV file for offline runs. The file carries a `date` column formatted as
// 2006-01-02 followed by one column per ticker; unparseable price cells
// load as NaN.
func NewCsv(fn string) Provider {
	return &csvProvider{
		fn: fn,
	}
}

func (c *csvProvider) Prices(ctx context.Context, securities []*Security, begin, end time.Time) (*dataframe.DataFrame, error) {
	if begin.After(end) {
		return nil, ErrInvalidTimeRange
	}

	subLog := log.With().Str("FileName", c.fn).Strs("Tickers", Tickers(securities)).Logger()

	fh, err := os.Open(c.fn)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not open csv file")
		return nil, err
	}
	defer fh.Close()

	df, err := loadPricesCSV(ctx, fh, Tickers(securities))
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not parse csv file")
		return nil, err
	}

	series := make(map[string]map[time.Time]float64, len(securities))

	dontLock := rldf.Options{DontLock: true}
	dateIdx, err := df.NameToColumn("date", dontLock)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("csv file has no date column")
		return nil, err
	}

	for _, security := range securities {
		colIdx, err := df.NameToColumn(security.Ticker, dontLock)
		if err != nil {
			subLog.Error().Stack().Err(err).Str("Ticker", security.Ticker).Msg("ticker not present in csv file")
			return nil, err
		}

		obs := make(map[time.Time]float64)
		nRows := df.Series[dateIdx].NRows(dontLock)
		for row := 0; row < nRows; row++ {
			dt, ok := df.Series[dateIdx].Value(row, dontLock).(time.Time)
			if !ok {
				continue
			}
			if dt.Before(begin) || dt.After(end) {
				continue
			}
			if v, ok := df.Series[colIdx].Value(row, dontLock).(float64); ok {
				obs[dt] = v
			}
		}
		series[security.Ticker] = obs
	}

	return mergePriceSeries(securities, series)
}

func loadPricesCSV(ctx context.Context, r io.ReadSeeker, tickers []string) (*rldf.DataFrame, error) {
	floatConverter := imports.Converter{
		ConcreteType: float64(0),
		ConverterFunc: func(in interface{}) (interface{}, error) {
			v, err := strconv.ParseFloat(in.(string), 64)
			if err != nil {
				return math.NaN(), nil
			}
			return v, nil
		},
	}

	dictated := map[string]interface{}{
		"date": imports.Converter{
			ConcreteType: time.Time{},
			ConverterFunc: func(in interface{}) (interface{}, error) {
				return time.ParseInLocation("2006-01-02", in.(string), common.GetTimezone())
			},
		},
	}
	for _, ticker := range tickers {
		dictated[ticker] = floatConverter
	}

	return imports.LoadFromCSV(ctx, r, imports.CSVLoadOptions{
		DictateDataType: dictated,
	})
}
