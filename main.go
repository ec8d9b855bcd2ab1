package main

import (
	"errors"
	"fmt"

	"github.com/quantfolio/qf-api/cmd"

	"github.com/spf13/viper"
)

func configureViper() {
	// read config file
	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	viper.AddConfigPath("/etc/quantfolio/")
	viper.AddConfigPath("$HOME/.config/quantfolio")
	viper.AddConfigPath(".")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
		// running without a config file is fine; flags and env cover it
	}
}

func main() {
	configureViper()
	cmd.Execute()
}
