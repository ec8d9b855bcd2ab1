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

package database_test

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pashagolub/pgxmock"

	"github.com/quantfolio/qf-api/common"
	"github.com/quantfolio/qf-api/database"
	"github.com/quantfolio/qf-api/portfolio"
)

var _ = Describe("Run", func() {
	var (
		ctx    context.Context
		dbPool pgxmock.PgxConnIface
		run    *database.Run
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()

		dbPool, err = pgxmock.NewConn()
		Expect(err).To(BeNil())
		database.SetPool(dbPool)

		run = &database.Run{
			ID:      uuid.MustParse("01234567-89ab-cdef-0123-456789abcdef"),
			Tickers: []string{"AAA", "BBB"},
			Begin:   time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
			End:     time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC),
			Weights: []float64{0.6, 0.4},
			Samples: []*portfolio.Sample{
				{
					Weights: []float64{0.5, 0.5},
					Return:  0.08,
					Risk:    0.12,
					Sharpe:  0.667,
				},
			},
			Created: time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC),
		}
	})

	AfterEach(func() {
		dbPool.Close(ctx)
	})

	Describe("saving a run", func() {
		It("inserts the run inside a transaction", func() {
			dbPool.ExpectBegin()
			dbPool.ExpectExec("INSERT INTO runs").
				WithArgs(run.ID, run.Tickers, run.Begin, run.End, run.Weights, pgxmock.AnyArg(), run.Created).
				WillReturnResult(pgconn.CommandTag("INSERT 0 1"))
			dbPool.ExpectCommit()

			Expect(database.SaveRun(ctx, run)).To(Succeed())
			Expect(dbPool.ExpectationsWereMet()).To(Succeed())
		})

		It("assigns an id when the run does not have one", func() {
			run.ID = uuid.Nil

			dbPool.ExpectBegin()
			dbPool.ExpectExec("INSERT INTO runs").
				WithArgs(pgxmock.AnyArg(), run.Tickers, run.Begin, run.End, run.Weights, pgxmock.AnyArg(), run.Created).
				WillReturnResult(pgconn.CommandTag("INSERT 0 1"))
			dbPool.ExpectCommit()

			Expect(database.SaveRun(ctx, run)).To(Succeed())
			Expect(run.ID).ToNot(Equal(uuid.Nil))
		})

		It("rolls back when the insert fails", func() {
			dbPool.ExpectBegin()
			dbPool.ExpectExec("INSERT INTO runs").
				WithArgs(run.ID, run.Tickers, run.Begin, run.End, run.Weights, pgxmock.AnyArg(), run.Created).
				WillReturnError(context.DeadlineExceeded)
			dbPool.ExpectRollback()

			Expect(database.SaveRun(ctx, run)).ToNot(Succeed())
			Expect(dbPool.ExpectationsWereMet()).To(Succeed())
		})
	})

	Describe("loading a run", func() {
		It("decompresses and decodes the stored samples", func() {
			rawSamples, err := json.Marshal(run.Samples)
			Expect(err).To(BeNil())
			compressed, err := common.Compress(rawSamples)
			Expect(err).To(BeNil())

			dbPool.ExpectBegin()
			dbPool.ExpectQuery("SELECT").
				WithArgs(run.ID).
				WillReturnRows(pgxmock.NewRows([]string{"tickers", "begin_date", "end_date", "weights", "samples", "created"}).
					AddRow(run.Tickers, run.Begin, run.End, run.Weights, compressed, run.Created))
			dbPool.ExpectCommit()

			loaded, err := database.LoadRun(ctx, run.ID)
			Expect(err).To(BeNil())
			Expect(loaded.Tickers).To(Equal(run.Tickers))
			Expect(loaded.Weights).To(Equal(run.Weights))
			Expect(loaded.Samples).To(HaveLen(1))
			Expect(loaded.Samples[0].Risk).To(Equal(0.12))
		})

		It("reports a missing run", func() {
			dbPool.ExpectBegin()
			dbPool.ExpectQuery("SELECT").
				WithArgs(run.ID).
				WillReturnError(context.Canceled)
			dbPool.ExpectRollback()

			_, err := database.LoadRun(ctx, run.ID)
			Expect(err).To(MatchError(database.ErrRunNotFound))
		})
	})
})
