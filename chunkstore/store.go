// Package chunkstore persists per-chunk tokenizer output as write-once
// artifacts. A present artifact short-circuits reprocessing of its chunk:
// the store is a cache keyed by chunk index, not a mutable table.
package chunkstore

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/esglex/esglex/tokenizer"
)

const chunkExt = ".chunk"

// Store reads and writes chunk artifacts under a base URL.
type Store struct {
	fs      afs.Service
	baseURL string
}

// New creates a store rooted at baseURL.
func New(fs afs.Service, baseURL string) *Store {
	return &Store{fs: fs, baseURL: baseURL}
}

// URL returns the artifact location for a chunk index.
func (s *Store) URL(chunk int) string {
	return url.Join(s.baseURL, strconv.Itoa(chunk)+chunkExt)
}

// Exists reports whether the chunk artifact is already present.
func (s *Store) Exists(ctx context.Context, chunk int) (bool, error) {
	return s.fs.Exists(ctx, s.URL(chunk))
}

// Write persists one chunk. The payload carries a checksum header so a
// truncated or corrupted artifact fails loudly on read instead of silently
// skipping documents.
func (s *Store) Write(ctx context.Context, chunk int, docs []tokenizer.Processed) error {
	payload, err := encodeChunk(docs)
	if err != nil {
		return fmt.Errorf("chunkstore: encode chunk %d: %w", chunk, err)
	}
	data, err := seal(payload)
	if err != nil {
		return err
	}
	if err := s.fs.Upload(ctx, s.URL(chunk), file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("chunkstore: upload chunk %d: %w", chunk, err)
	}
	return nil
}

// Read loads and verifies one chunk.
func (s *Store) Read(ctx context.Context, chunk int) ([]tokenizer.Processed, error) {
	data, err := s.fs.DownloadWithURL(ctx, s.URL(chunk))
	if err != nil {
		return nil, fmt.Errorf("chunkstore: download chunk %d: %w", chunk, err)
	}
	payload, err := unseal(data)
	if err != nil {
		return nil, fmt.Errorf("chunkstore: chunk %d: %w", chunk, err)
	}
	docs, err := decodeChunk(payload)
	if err != nil {
		return nil, fmt.Errorf("chunkstore: decode chunk %d: %w", chunk, err)
	}
	return docs, nil
}

// List returns the indices of all present chunks in ascending order, so
// downstream consumers see a deterministic traversal.
func (s *Store) List(ctx context.Context) ([]int, error) {
	objects, err := s.fs.List(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("chunkstore: list %v: %w", s.baseURL, err)
	}
	var chunks []int
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), chunkExt) {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimSuffix(object.Name(), chunkExt))
		if err != nil {
			continue
		}
		chunks = append(chunks, idx)
	}
	sort.Ints(chunks)
	return chunks, nil
}
