package service

import (
	"context"
	"fmt"

	"github.com/esglex/esglex/dictionary"
	"github.com/esglex/esglex/embedding"
)

// ExpandRequest defines inputs for stage 5. Zero fields fall back to the
// configured values.
type ExpandRequest struct {
	SeedsURL string
	TopN     int
}

// ExpandResponse reports the finished dictionaries.
type ExpandResponse struct {
	Categories int
	Words      int
	OutputURL  string
}

// Expand loads the trained model and the seed categories, expands every
// category to its nearest vocabulary terms, resolves cross-category
// duplicates and writes per-category word lists plus consolidated CSV and
// XLSX tables. Outputs are regenerated on every run.
func (s *Service) Expand(ctx context.Context, req ExpandRequest) (*ExpandResponse, error) {
	cfg := s.config.Expand
	if req.SeedsURL != "" {
		cfg.Seeds = req.SeedsURL
	}
	if req.TopN > 0 {
		cfg.TopN = req.TopN
	}
	if cfg.Seeds == "" {
		return nil, fmt.Errorf("expand: seeds location required")
	}

	model, err := embedding.Load(ctx, s.fs, s.modelURL())
	if err != nil {
		return nil, fmt.Errorf("expand: load model %v: %w", s.modelURL(), err)
	}
	seeds, err := dictionary.LoadSeeds(ctx, s.fs, cfg.Seeds)
	if err != nil {
		return nil, fmt.Errorf("expand: %w", err)
	}

	expander := dictionary.NewExpander(model, cfg.TopN)
	expansions := dictionary.Dedupe(expander.ExpandAll(seeds))

	writer := dictionary.NewWriter(s.fs, s.outputURL())
	if err := writer.WriteCategoryFiles(ctx, expansions); err != nil {
		return nil, err
	}
	if err := writer.WriteCSV(ctx, expansions, "dictionary.csv"); err != nil {
		return nil, err
	}
	if err := writer.WriteXLSX(ctx, expansions, "dictionary.xlsx"); err != nil {
		return nil, err
	}

	response := &ExpandResponse{Categories: len(expansions), OutputURL: s.outputURL()}
	for _, expansion := range expansions {
		response.Words += len(expansion.Candidates)
	}
	s.logger.Info("dictionaries written",
		"categories", response.Categories, "words", response.Words, "url", response.OutputURL)
	return response, nil
}
