// Package cmd holds the airports-backend command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/richardsabow/airports-backend/config"
	"github.com/richardsabow/airports-backend/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flagConfig = viper.New()

var rootCmd = &cobra.Command{
	Use:   "airports-backend",
	Short: "Airport geo-radius search service",
	Long: `Finds the airports within a radius of a point, nearest first, over a
Cloudant search index, a Redis sorted set, a Postgres table or an in-memory R-tree.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("backend", "b", "", "Search backend: cloudant, redis, postgres or memory")
	rootCmd.PersistentFlags().String("fixture", "", "Airports JSON file for the memory backend and seeding")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: json or text")

	bindFlag("airports_backend", "backend")
	bindFlag("airports_fixture", "fixture")
	bindFlag("log_level", "log-level")
	bindFlag("log_format", "log-format")

	rootCmd.AddCommand(serveCmd, searchCmd, seedCmd)
}

func bindFlag(key, flag string) {
	if err := flagConfig.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// loadConfig reads the environment, applies flag overrides and sets up logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWith(flagConfig)
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
