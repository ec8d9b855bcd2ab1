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

import "errors"

var (
	// ErrNoData indicates the provider returned no observations for the
	// requested securities and period
	ErrNoData = errors.New("no data available for period")

	// ErrInvalidTimeRange indicates begin is after end
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrProviderFailure indicates the upstream data source returned an
	// invalid response
	ErrProviderFailure = errors.New("provider request failed")
)
