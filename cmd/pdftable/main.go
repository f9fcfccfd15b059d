// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdftable CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built once the configuration has been read.
var logger = zap.NewNop()

// configErr holds a config file that exists but could not be read.
var configErr error

// rootCmd is the base command for the pdftable CLI.
var rootCmd = &cobra.Command{
	Use:   "pdftable",
	Short: "Turn a folder of PDF reports into one CSV dataset",
	Long: `pdftable extracts the text of every PDF under a folder, parses each text
file into rows with a configurable line policy, and merges the resulting CSV
files into a single aggregate.

Every step writes through a temporary file and skips outputs that already
exist, so an interrupted run can simply be started again. Delete an output
to have it regenerated.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		l, err := newLogger(viper.GetString(keyLogLevel))
		if err != nil {
			return err
		}
		logger = l
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", zap.String("path", f))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./pdftable.yaml or ~/.config/pdftable/pdftable.yaml)")
	flags.String("aggregate", defaultAggregate, "merged output file")
	flags.String("rules", "", "YAML file with the line parsing rules")
	flags.String("backend", defaultBackend, "PDF text backend: native or pdftotext")
	flags.String("pdftotext", defaultPdftotext, "pdftotext binary used by the pdftotext backend")
	flags.String("ledger", "", "SQLite file recording stage history (disabled when empty)")
	flags.String("log-level", defaultLogLevel, "log level: debug, info, warn, or error")

	bindFlags()
}

// bindFlags links the persistent flags to their configuration keys.
func bindFlags() {
	bindFlag(keyAggregate, "aggregate")
	bindFlag(keyRules, "rules")
	bindFlag(keyBackend, "backend")
	bindFlag(keyPdftotext, "pdftotext")
	bindFlag(keyLedger, "ledger")
	bindFlag(keyLogLevel, "log-level")
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", flag, err))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdftable")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdftable"))
		}
	}

	viper.SetDefault(keyRoot, ".")
	viper.SetEnvPrefix("PDFTABLE")
	viper.AutomaticEnv()

	// The file in use is logged once the logger exists.
	configErr = nil
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configErr = fmt.Errorf("reading config file: %w", err)
		}
	}
}

// newLogger builds a console logger on stderr at the given level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

func main() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
