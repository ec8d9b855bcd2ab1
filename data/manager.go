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
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/blake3"

	"github.com/quantfolio/qf-api/common"
	"github.com/quantfolio/qf-api/dataframe"
)

// Manager is the front door for price data. It delegates fetching to a
// Provider, forward-fills interior gaps (leading gaps stay undefined), and
// caches cleaned frames keyed by the request signature.
type Manager struct {
	provider Provider
}

func NewManager(provider Provider) *Manager {
	return &Manager{
		provider: provider,
	}
}

// Prices returns the cleaned adjusted close frame for the requested
// securities over [begin, end]. Results are served from cache when an
// identical request was already fetched.
func (manager *Manager) Prices(ctx context.Context, securities []*Security, begin, end time.Time) (*dataframe.DataFrame, error) {
	subLog := log.With().Strs("Tickers", Tickers(securities)).Time("Begin", begin).Time("End", end).Logger()

	key := requestKey(securities, begin, end)
	if common.CacheEnabled() {
		if raw, err := common.CacheGet(key); err == nil {
			prices := &dataframe.DataFrame{}
			if err := json.Unmarshal(raw, prices); err == nil {
				subLog.Debug().Str("Key", key).Msg("serving prices from cache")
				return prices, nil
			}
			subLog.Warn().Err(err).Str("Key", key).Msg("could not decode cached frame")
		}
	}

	prices, err := manager.provider.Prices(ctx, securities, begin, end)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not fetch prices")
		return nil, err
	}

	prices = prices.ForwardFill()

	if common.CacheEnabled() {
		if raw, err := json.Marshal(prices); err == nil {
			if err := common.CacheSet(key, raw); err != nil {
				subLog.Warn().Err(err).Str("Key", key).Msg("could not cache price frame")
			}
		}
	}

	return prices, nil
}

// requestKey derives a stable cache key from the request signature
func requestKey(securities []*Security, begin, end time.Time) string {
	h := blake3.New()
	fmt.Fprintf(h, "%s|%d|%d", strings.Join(Tickers(securities), ","), begin.Unix(), end.Unix())
	return fmt.Sprintf("prices:%x", h.Sum(nil))
}
