package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data_dir: /var/lib/esglex
corpus:
  path: corpus.csv
tokenize:
  chunk_size: 2000
phrases:
  threshold: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/esglex", cfg.DataDir)
	assert.Equal(t, "corpus.csv", cfg.Corpus.Path)
	assert.Equal(t, 2000, cfg.Tokenize.ChunkSize, "explicit value kept")
	assert.Equal(t, 500, cfg.Tokenize.BatchSize, "default filled")
	assert.Equal(t, 16, cfg.Tokenize.Workers)
	assert.Equal(t, []string{"scope", "scope_1", "scope_2", "scope_3"}, cfg.Tokenize.KeepEntities)
	assert.Equal(t, 0.5, cfg.Phrases.Threshold)
	assert.Equal(t, 5, cfg.Phrases.MinCount)
	assert.Equal(t, 300, cfg.Embedding.Dim)
	assert.Equal(t, 20, cfg.Embedding.Epochs)
	assert.Equal(t, 50, cfg.Expand.TopN)
	assert.Contains(t, cfg.Expand.ForcedBigrams, "scope_3")
	assert.Contains(t, cfg.Expand.ForcedTrigrams, "supply_chain_sustainability")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestConfig_InitIsIdempotent(t *testing.T) {
	cfg := &Config{}
	cfg.Init()
	cfg.Tokenize.ChunkSize = 42
	cfg.Init()
	assert.Equal(t, 42, cfg.Tokenize.ChunkSize)
	assert.Equal(t, "data", cfg.DataDir)
}
