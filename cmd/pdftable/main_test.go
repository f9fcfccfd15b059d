// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdftable/internal/parse"
	"github.com/pdiddy/pdftable/pkg/types"
)

const testRules = `
trim: true
records:
  - pattern: '^(\w+) (\d+)$'
    fields: [string, int]
`

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

func resetViper() {
	viper.Reset()
	bindFlags()
}

func TestLoadConfig(t *testing.T) {
	t.Cleanup(resetViper)
	viper.Reset()
	viper.Set(keyRoot, "/from/config")
	viper.Set(keyBackend, "native")
	viper.Set(keyAggregate, "out.csv")

	cfg, err := loadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "/from/config", cfg.RootDir)
	assert.Equal(t, "out.csv", cfg.AggregatePath)
	assert.Equal(t, types.BackendNative, cfg.Extraction.Backend)

	cfg, err = loadConfig([]string{"/from/arg"})
	require.NoError(t, err)
	assert.Equal(t, "/from/arg", cfg.RootDir)

	viper.Set(keyBackend, "ocr")
	_, err = loadConfig(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown backend "ocr"`)
}

func TestCheckFiles(t *testing.T) {
	out := captureStdout(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "good.txt")
	require.NoError(t, os.WriteFile(good, []byte("alpha 1\n\nbeta 2\n"), 0o644))
	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("alpha 1\nnot a record\n"), 0o644))

	policy, err := parse.ParseRules([]byte(testRules))
	require.NoError(t, err)

	require.NoError(t, checkFiles(policy, []string{good}))
	assert.Contains(t, out.String(), "(2 rows)")

	err = checkFiles(policy, []string{good, bad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, parse.ErrIrregularLine))
	assert.Contains(t, err.Error(), "not a record")
}

func TestRunCommand(t *testing.T) {
	t.Cleanup(resetViper)
	out := captureStdout(t)

	base := t.TempDir()
	root := filepath.Join(base, "reports")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "2024"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("alpha 1\n\nbeta 2"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "2024", "b.txt"), []byte("gamma 3\n"), 0o644))

	rules := filepath.Join(base, "rules.yaml")
	require.NoError(t, os.WriteFile(rules, []byte(testRules), 0o644))
	aggregate := filepath.Join(base, "data.csv")

	rootCmd.SetArgs([]string{"run", root, "--rules", rules, "--aggregate", aggregate, "--log-level", "error"})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(aggregate)
	require.NoError(t, err)
	assert.Equal(t, "alpha,1\nbeta,2\ngamma,3", string(data))
	assert.Contains(t, out.String(), "Mapped 2 TXT files to CSV")
}

func TestInitConfig(t *testing.T) {
	t.Cleanup(func() {
		_ = rootCmd.PersistentFlags().Set("config", "")
		configErr = nil
		resetViper()
	})

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "pdftable.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("root: /from/file\n"), 0o644))
	require.NoError(t, rootCmd.PersistentFlags().Set("config", cfgPath))

	r, w, err := os.Pipe()
	require.NoError(t, err)
	oldStderr := os.Stderr
	os.Stderr = w
	initConfig()
	os.Stderr = oldStderr
	require.NoError(t, w.Close())
	written, err := io.ReadAll(r)
	require.NoError(t, err)

	assert.Empty(t, string(written), "the config file is reported through the logger only")
	assert.NoError(t, configErr)
	assert.Equal(t, cfgPath, viper.ConfigFileUsed())
	assert.Equal(t, "/from/file", viper.GetString(keyRoot))

	require.NoError(t, os.WriteFile(cfgPath, []byte("root: [unclosed\n"), 0o644))
	initConfig()
	require.Error(t, configErr)
	assert.Contains(t, configErr.Error(), "reading config file")
}
