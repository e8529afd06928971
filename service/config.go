package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/esglex/esglex/corpus"
)

// Config drives the whole pipeline. Every stage reads its knobs from here;
// command-line flags override individual fields after loading.
type Config struct {
	DataDir   string          `yaml:"data_dir"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Tokenize  TokenizeConfig  `yaml:"tokenize"`
	Phrases   PhrasesConfig   `yaml:"phrases"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Expand    ExpandConfig    `yaml:"expand"`
}

// CorpusConfig locates the document source: a CSV file with id,content
// columns, or a SQL table when a driver is set.
type CorpusConfig struct {
	Path      string `yaml:"path"`
	Driver    string `yaml:"driver"`
	DSN       string `yaml:"dsn"`
	DSNSecret string `yaml:"dsn_secret,omitempty"`
	Query     string `yaml:"query,omitempty"`
}

// TokenizeConfig controls stage 1.
type TokenizeConfig struct {
	ChunkSize    int      `yaml:"chunk_size"`
	BatchSize    int      `yaml:"batch_size"`
	Workers      int      `yaml:"workers"`
	MinChars     int      `yaml:"min_chars"`
	KeepEntities []string `yaml:"keep_entities"`
}

// PhrasesConfig controls stage 3.
type PhrasesConfig struct {
	MinCount  int     `yaml:"min_count"`
	Threshold float64 `yaml:"threshold"`
	Delimiter string  `yaml:"delimiter"`
}

// EmbeddingConfig controls stage 4.
type EmbeddingConfig struct {
	Dim      int `yaml:"dim"`
	Window   int `yaml:"window"`
	MinCount int `yaml:"min_count"`
	Epochs   int `yaml:"epochs"`
	Workers  int `yaml:"workers"`
}

// ExpandConfig controls stage 5. ForcedBigrams/ForcedTrigrams are compounds
// always merged during the phrase transform, whatever their corpus counts.
type ExpandConfig struct {
	TopN           int      `yaml:"top_n"`
	Seeds          string   `yaml:"seeds"`
	ForcedBigrams  []string `yaml:"forced_bigrams"`
	ForcedTrigrams []string `yaml:"forced_trigrams"`
}

// DefaultForcedBigrams are domain compounds merged regardless of frequency.
var DefaultForcedBigrams = []string{
	"scope_1", "scope_2", "scope_3", "ecological_impact",
	"employee_engagement", "customer_welfare", "product_safety",
	"responsible_marketing", "product_quality",
	"community_development", "community_relation",
	"social_capital", "social_impact",
}

// DefaultForcedTrigrams extend DefaultForcedBigrams one level up.
var DefaultForcedTrigrams = []string{"supply_chain_sustainability"}

// Init fills unset fields with defaults.
func (c *Config) Init() {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.Tokenize.ChunkSize <= 0 {
		c.Tokenize.ChunkSize = 10000
	}
	if c.Tokenize.BatchSize <= 0 {
		c.Tokenize.BatchSize = 500
	}
	if c.Tokenize.Workers <= 0 {
		c.Tokenize.Workers = 16
	}
	if c.Tokenize.MinChars <= 0 {
		c.Tokenize.MinChars = 10
	}
	if c.Tokenize.KeepEntities == nil {
		c.Tokenize.KeepEntities = []string{"scope", "scope_1", "scope_2", "scope_3"}
	}
	if c.Phrases.MinCount <= 0 {
		c.Phrases.MinCount = 5
	}
	if c.Phrases.Threshold <= 0 {
		c.Phrases.Threshold = 1
	}
	if c.Phrases.Delimiter == "" {
		c.Phrases.Delimiter = "_"
	}
	if c.Embedding.Dim <= 0 {
		c.Embedding.Dim = 300
	}
	if c.Embedding.Window <= 0 {
		c.Embedding.Window = 5
	}
	if c.Embedding.MinCount <= 0 {
		c.Embedding.MinCount = 5
	}
	if c.Embedding.Epochs <= 0 {
		c.Embedding.Epochs = 20
	}
	if c.Embedding.Workers <= 0 {
		c.Embedding.Workers = 20
	}
	if c.Expand.TopN <= 0 {
		c.Expand.TopN = 50
	}
	if c.Expand.ForcedBigrams == nil {
		c.Expand.ForcedBigrams = DefaultForcedBigrams
	}
	if c.Expand.ForcedTrigrams == nil {
		c.Expand.ForcedTrigrams = DefaultForcedTrigrams
	}
}

// LoadConfig reads and initializes a YAML config, resolving the corpus DSN
// secret when configured.
func LoadConfig(ctx context.Context, path string) (*Config, error) {
	path, err := expandUserPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %v: %w", path, err)
	}
	cfg.Init()
	if cfg.Corpus.DSNSecret != "" {
		expanded, err := corpus.ExpandDSNWithSecret(ctx, cfg.Corpus.DSN, cfg.Corpus.DSNSecret)
		if err != nil {
			return nil, fmt.Errorf("config %v: expand dsn secret: %w", path, err)
		}
		cfg.Corpus.DSN = expanded
	}
	return cfg, nil
}

func expandUserPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
