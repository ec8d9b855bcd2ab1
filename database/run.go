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

package database

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/quantfolio/qf-api/common"
	"github.com/quantfolio/qf-api/portfolio"
)

// Run is a persisted analysis: the instruments and period it covered, the
// optimal weights it produced, and the monte carlo samples backing the
// frontier chart. Samples are stored as an lz4-compressed JSON blob.
type Run struct {
	ID      uuid.UUID           `json:"id"`
	Tickers []string            `json:"tickers"`
	Begin   time.Time           `json:"begin"`
	End     time.Time           `json:"end"`
	Weights []float64           `json:"weights"`
	Samples []*portfolio.Sample `json:"samples"`
	Created time.Time           `json:"created"`
}

// SaveRun writes the run to the database, assigning an id when the run does
// not have one yet. Saving the same id twice replaces the stored run.
func SaveRun(ctx context.Context, run *Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.Created.IsZero() {
		run.Created = time.Now()
	}

	subLog := log.With().Str("RunID", run.ID.String()).Strs("Tickers", run.Tickers).Logger()

	rawSamples, err := json.Marshal(run.Samples)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not encode frontier samples")
		return err
	}
	compressed, err := common.Compress(rawSamples)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not compress frontier samples")
		return err
	}

	trx, err := pool.Begin(ctx)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not create new transaction")
		return err
	}

	sql := `INSERT INTO runs (
		"id",
		"tickers",
		"begin_date",
		"end_date",
		"weights",
		"samples",
		"created"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7
	) ON CONFLICT ON CONSTRAINT runs_pkey
	DO UPDATE SET
		tickers=$2,
		begin_date=$3,
		end_date=$4,
		weights=$5,
		samples=$6,
		created=$7`

	if _, err := trx.Exec(ctx, sql, run.ID, run.Tickers, run.Begin, run.End, run.Weights, compressed, run.Created); err != nil {
		subLog.Error().Stack().Err(err).Msg("could not save run")
		if err := trx.Rollback(ctx); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return err
	}

	if err := trx.Commit(ctx); err != nil {
		subLog.Error().Stack().Err(err).Msg("failed to commit run transaction")
		if err := trx.Rollback(ctx); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return err
	}

	return nil
}

// LoadRun reads a previously saved run by id
func LoadRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	subLog := log.With().Str("RunID", id.String()).Logger()

	trx, err := pool.Begin(ctx)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not create new transaction")
		return nil, err
	}

	run := &Run{
		ID: id,
	}
	var compressed []byte

	sql := `SELECT tickers, begin_date, end_date, weights, samples, created FROM runs WHERE id=$1`
	err = trx.QueryRow(ctx, sql, id).Scan(&run.Tickers, &run.Begin, &run.End, &run.Weights, &compressed, &run.Created)
	if err != nil {
		subLog.Warn().Err(err).Msg("could not load run")
		if err := trx.Rollback(ctx); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, ErrRunNotFound
	}

	if err := trx.Commit(ctx); err != nil {
		subLog.Error().Stack().Err(err).Msg("failed to commit run transaction")
		return nil, err
	}

	rawSamples, err := common.Decompress(compressed)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not decompress frontier samples")
		return nil, err
	}
	if err := json.Unmarshal(rawSamples, &run.Samples); err != nil {
		subLog.Error().Stack().Err(err).Msg("could not decode frontier samples")
		return nil, err
	}

	return run, nil
}
