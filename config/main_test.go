package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"quantifiers": {"incremental": true, "inst_max_level": 3, "strategies": ["enum"]},
		"log": {"level": "debug"}
	}`), 0o644))

	c, err := ParseConfig(path)
	require.NoError(t, err)

	assert.True(t, c.Quantifiers.Incremental)
	assert.Equal(t, 3, c.Quantifiers.InstMaxLevel)
	assert.Equal(t, []string{"enum"}, c.Quantifiers.Strategies)
	// untouched keys keep their default values
	assert.True(t, c.Quantifiers.InstNoEntail)
	assert.Equal(t, 100, c.Ground.MaxRounds)
	assert.Equal(t, "debug", c.LogConfig.Level)
	assert.Equal(t, "json", c.LogConfig.Format)
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = ParseConfig(path)
	assert.Error(t, err)
}
