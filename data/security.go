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

import "strings"

// Security is a tradeable instrument. Ticker is the exchange symbol the
// providers are queried with; CompositeFigi is the exchange-independent
// identifier and may be empty when only a ticker is known.
type Security struct {
	Ticker        string `json:"ticker"`
	CompositeFigi string `json:"compositeFigi"`
}

// NewSecurities builds a security list from bare ticker symbols,
// upper-casing each symbol
func NewSecurities(tickers []string) []*Security {
	securities := make([]*Security, len(tickers))
	for idx, ticker := range tickers {
		securities[idx] = &Security{
			Ticker: strings.ToUpper(ticker),
		}
	}
	return securities
}

// Tickers returns the ticker symbols of the security list in order
func Tickers(securities []*Security) []string {
	tickers := make([]string, len(securities))
	for idx, security := range securities {
		tickers[idx] = security.Ticker
	}
	return tickers
}
