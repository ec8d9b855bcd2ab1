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
	"fmt"
	"os"

	"github.com/quantfolio/qf-api/common"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// instruments and analysis period
	rootCmd.PersistentFlags().StringSlice("tickers", []string{}, "Instruments to analyze")
	viper.BindPFlag("analysis.tickers", rootCmd.PersistentFlags().Lookup("tickers"))

	rootCmd.PersistentFlags().String("begin", "", "Start of the analysis period (2006-01-02)")
	viper.BindPFlag("analysis.begin", rootCmd.PersistentFlags().Lookup("begin"))

	rootCmd.PersistentFlags().String("end", "", "End of the analysis period (2006-01-02); defaults to today")
	viper.BindPFlag("analysis.end", rootCmd.PersistentFlags().Lookup("end"))

	rootCmd.PersistentFlags().String("benchmark", "SPY", "Benchmark ticker used for beta")
	viper.BindPFlag("analysis.benchmark", rootCmd.PersistentFlags().Lookup("benchmark"))

	rootCmd.PersistentFlags().Float64("risk-free-rate", 0, "Annual risk free rate used in sharpe ratios")
	viper.BindPFlag("analysis.risk_free_rate", rootCmd.PersistentFlags().Lookup("risk-free-rate"))

	// data provider
	viper.BindEnv("provider.token", "QF_PROVIDER_TOKEN")
	rootCmd.PersistentFlags().String("provider-token", "", "API token for the eod price service")
	viper.BindPFlag("provider.token", rootCmd.PersistentFlags().Lookup("provider-token"))

	rootCmd.PersistentFlags().String("csv-file", "", "Load prices from a local CSV file instead of the eod price service")
	viper.BindPFlag("provider.csv_file", rootCmd.PersistentFlags().Lookup("csv-file"))

	// database
	viper.BindEnv("database.url", "DATABASE_URL")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection string")
	viper.BindPFlag("database.url", rootCmd.PersistentFlags().Lookup("database-url"))

	// cache
	rootCmd.PersistentFlags().Int("cache-local-size", 64, "Number of price frames kept in the in-process cache")
	viper.BindPFlag("cache.local_size", rootCmd.PersistentFlags().Lookup("cache-local-size"))

	viper.BindEnv("cache.redis_url", "QF_REDIS_URL")
	rootCmd.PersistentFlags().Bool("cache-redis", false, "Also cache price frames in redis")
	viper.BindPFlag("cache.redis", rootCmd.PersistentFlags().Lookup("cache-redis"))

	rootCmd.PersistentFlags().String("cache-redis-url", "redis://localhost:6379", "Redis connection string")
	viper.BindPFlag("cache.redis_url", rootCmd.PersistentFlags().Lookup("cache-redis-url"))

	rootCmd.PersistentFlags().Int("cache-ttl", 86400, "Seconds redis cache entries live")
	viper.BindPFlag("cache.ttl", rootCmd.PersistentFlags().Lookup("cache-ttl"))

	// logging configuration
	viper.BindEnv("log.level", "QF_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "QF_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "QF_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stdout", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	rootCmd.PersistentFlags().Bool("log-pretty", false, "Print logs in human readable form")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))
}

var rootCmd = &cobra.Command{
	Use:     "qfapi",
	Version: common.CurrentVersion.String(),
	Short:   "Quantfolio is a portfolio risk analytics package",
	Long:    `Analyze the risk characteristics of a portfolio of instruments and search for efficient weightings via monte carlo simulation and constrained optimization.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		common.SetupCache()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
