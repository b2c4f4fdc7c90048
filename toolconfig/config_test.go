package toolconfig_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chipforge/ecfasm/toolconfig"
)

func TestDefaultConfig(t *testing.T) {
	cfg := toolconfig.DefaultConfig()
	assert.Equal(t, "write_addresses.tsv", cfg.Tables.WriteFile)
	assert.True(t, cfg.Debug.EmitParsed)
	assert.False(t, cfg.Debug.EmitSummary)
}

func TestLoadFrom_MissingFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := toolconfig.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "instructions.tsv", cfg.Tables.InstructionsFile)
}

func TestSaveTo_ThenLoadFromRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := toolconfig.DefaultConfig()
	cfg.Display.NumberFormat = "hex"
	cfg.Tables.WriteFile = "custom_write.tsv"

	require.NoError(t, cfg.SaveTo(path))

	loaded, err := toolconfig.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "hex", loaded.Display.NumberFormat)
	assert.Equal(t, "custom_write.tsv", loaded.Tables.WriteFile)
}
