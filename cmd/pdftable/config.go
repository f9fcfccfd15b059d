// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/pdftable/internal/extract"
	"github.com/pdiddy/pdftable/internal/ledger"
	"github.com/pdiddy/pdftable/internal/parse"
	"github.com/pdiddy/pdftable/internal/pipeline"
	"github.com/pdiddy/pdftable/internal/stage"
	"github.com/pdiddy/pdftable/pkg/types"
)

// Configuration keys. Each can be set in the config file, as PDFTABLE_<KEY>
// in the environment, or (except root) as a flag.
const (
	keyRoot      = "root"
	keyAggregate = "aggregate"
	keyRules     = "rules"
	keyBackend   = "backend"
	keyPdftotext = "pdftotext"
	keyLedger    = "ledger"
	keyLogLevel  = "log_level"
)

const (
	defaultAggregate = "data.csv"
	defaultBackend   = string(types.BackendNative)
	defaultPdftotext = "pdftotext"
	defaultLogLevel  = "info"
)

// loadConfig resolves the pipeline configuration. A positional root
// argument takes precedence over the configured root.
func loadConfig(args []string) (types.PipelineConfig, error) {
	root := viper.GetString(keyRoot)
	if len(args) > 0 {
		root = args[0]
	}
	if root == "" {
		return types.PipelineConfig{}, fmt.Errorf("no root folder: pass one as an argument or set %s", keyRoot)
	}

	backend := types.ExtractionBackend(viper.GetString(keyBackend))
	if !backend.Valid() {
		return types.PipelineConfig{}, fmt.Errorf("unknown backend %q (want %s or %s)",
			backend, types.BackendNative, types.BackendPdftotext)
	}

	return types.PipelineConfig{
		RootDir:       root,
		AggregatePath: viper.GetString(keyAggregate),
		RulesFile:     viper.GetString(keyRules),
		LedgerPath:    viper.GetString(keyLedger),
		Extraction: types.ExtractionConfig{
			Backend:      backend,
			PdftotextBin: viper.GetString(keyPdftotext),
		},
	}, nil
}

// loadPolicy compiles the configured rules file, or returns the default
// policy that rejects every non-blank line.
func loadPolicy(cfg types.PipelineConfig) (parse.Policy, error) {
	if cfg.RulesFile == "" {
		logger.Warn("no rules file configured; every non-blank line will be rejected")
		return parse.Default(), nil
	}
	return parse.LoadRules(cfg.RulesFile)
}

// openRecorder opens the ledger when one is configured. The returned close
// function is always safe to call.
func openRecorder(cfg types.PipelineConfig) (stage.Recorder, func(), error) {
	if cfg.LedgerPath == "" {
		return nil, func() {}, nil
	}
	store, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

// stageNeeds selects which collaborators a command builds.
type stageNeeds struct {
	extractor bool
	policy    bool
}

// buildPipeline assembles a Pipeline for the given command arguments.
func buildPipeline(args []string, needs stageNeeds) (*pipeline.Pipeline, func(), error) {
	cfg, err := loadConfig(args)
	if err != nil {
		return nil, nil, err
	}

	p := &pipeline.Pipeline{
		Config: cfg,
		Logger: logger,
		Out:    stdout,
	}
	if needs.extractor {
		if p.Extractor, err = extract.New(cfg.Extraction); err != nil {
			return nil, nil, err
		}
	}
	if needs.policy {
		if p.Policy, err = loadPolicy(cfg); err != nil {
			return nil, nil, err
		}
	}

	rec, closeFn, err := openRecorder(cfg)
	if err != nil {
		return nil, nil, err
	}
	p.Recorder = rec
	return p, closeFn, nil
}
