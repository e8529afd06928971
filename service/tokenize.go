package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/esglex/esglex/chunkstore"
	"github.com/esglex/esglex/corpus"
	"github.com/esglex/esglex/tokenizer"
)

// TokenizeRequest defines inputs for stage 1. Zero fields fall back to the
// configured values.
type TokenizeRequest struct {
	ChunkSize int
	BatchSize int
	Workers   int
}

// TokenizeResponse reports stage 1 progress.
type TokenizeResponse struct {
	Documents int
	Chunks    int
	Skipped   int
}

// Tokenize streams the corpus in fixed-size chunks, runs sentence
// segmentation, tokenization and lemmatization over each chunk with a
// bounded worker pool, and persists one artifact per chunk. Chunks whose
// artifact already exists are skipped without reprocessing.
func (s *Service) Tokenize(ctx context.Context, req TokenizeRequest) (*TokenizeResponse, error) {
	cfg := s.config.Tokenize
	if req.ChunkSize > 0 {
		cfg.ChunkSize = req.ChunkSize
	}
	if req.BatchSize > 0 {
		cfg.BatchSize = req.BatchSize
	}
	if req.Workers > 0 {
		cfg.Workers = req.Workers
	}

	sentencizer, err := tokenizer.New(tokenizer.Config{
		MinChars:  cfg.MinChars,
		KeepTerms: cfg.KeepEntities,
	})
	if err != nil {
		return nil, err
	}
	source, err := s.openCorpusSource(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = source.Close() }()

	store := chunkstore.New(s.fs, s.chunksURL())
	response := &TokenizeResponse{}
	chunk := 0
	for {
		docs, err := nextChunk(ctx, source, cfg.ChunkSize)
		if err != nil {
			return nil, fmt.Errorf("tokenize: read chunk %d: %w", chunk, err)
		}
		if len(docs) == 0 {
			break
		}
		response.Documents += len(docs)
		exists, err := store.Exists(ctx, chunk)
		if err != nil {
			return nil, err
		}
		if exists {
			s.logger.Info("chunk artifact present, skipping", "chunk", chunk, "documents", len(docs))
			response.Skipped++
			chunk++
			continue
		}
		processed := sentencizer.ProcessAll(ctx, docs, cfg.Workers, cfg.BatchSize)
		if err := store.Write(ctx, chunk, processed); err != nil {
			return nil, fmt.Errorf("tokenize: write chunk %d: %w", chunk, err)
		}
		s.logger.Info("chunk tokenized", "chunk", chunk, "documents", len(docs))
		response.Chunks++
		chunk++
	}
	s.logger.Info("tokenize complete",
		"documents", response.Documents, "chunks", response.Chunks, "skipped", response.Skipped)
	return response, nil
}

// nextChunk pulls up to size documents from the source.
func nextChunk(ctx context.Context, source corpus.Source, size int) ([]corpus.Document, error) {
	var docs []corpus.Document
	for len(docs) < size {
		doc, err := source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *Service) openCorpusSource(ctx context.Context) (corpus.Source, error) {
	if s.config.Corpus.Driver != "" {
		return corpus.NewSQLSource(ctx, s.config.Corpus.Driver, s.config.Corpus.DSN, s.config.Corpus.Query)
	}
	if s.config.Corpus.Path == "" {
		return nil, fmt.Errorf("corpus path or driver required")
	}
	return corpus.NewCSVSource(ctx, s.fs, s.config.Corpus.Path)
}
