// Package service orchestrates the dictionary pipeline stages over the
// artifact layout rooted at the configured data directory. Each stage is a
// Request/Response operation; completed stage artifacts short-circuit
// re-runs.
package service

import (
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

// Option configures the Service.
type Option func(*Service)

// WithFS sets the file service used for all artifact I/O.
func WithFS(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// Service exposes the five pipeline stages plus the end-to-end Run.
type Service struct {
	config *Config
	fs     afs.Service
	logger *slog.Logger
}

// New creates a Service over config.
func New(config *Config, opts ...Option) (*Service, error) {
	config.Init()
	s := &Service{
		config: config,
		fs:     afs.New(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the effective configuration.
func (s *Service) Config() *Config { return s.config }

func (s *Service) chunksURL() string {
	return url.Join(s.config.DataDir, "chunks")
}

func (s *Service) corpusURL() string {
	return url.Join(s.config.DataDir, "all.txt")
}

func (s *Service) transformedURL() string {
	return url.Join(s.config.DataDir, "all_phrased.txt")
}

func (s *Service) phrasesURL() string {
	return url.Join(s.config.DataDir, "phrases.bin")
}

func (s *Service) modelURL() string {
	return url.Join(s.config.DataDir, "model.bin")
}

func (s *Service) outputURL() string {
	return url.Join(s.config.DataDir, "dictionary")
}
