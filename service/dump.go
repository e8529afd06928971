package service

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/esglex/esglex/chunkstore"
)

// DumpRequest defines inputs for stage 2.
type DumpRequest struct{}

// DumpResponse reports stage 2 output counts.
type DumpResponse struct {
	Chunks    int
	Sentences int
	URL       string
}

// Dump flattens all chunk artifacts into one corpus file, one sentence per
// line with space-separated tokens. Chunks are visited in index order, so
// the output is byte-deterministic for a given set of artifacts; lines are
// streamed through the upload rather than buffered whole.
func (s *Service) Dump(ctx context.Context, req DumpRequest) (*DumpResponse, error) {
	store := chunkstore.New(s.fs, s.chunksURL())
	chunks, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("dump: list chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("dump: no chunk artifacts under %v", s.chunksURL())
	}
	response := &DumpResponse{Chunks: len(chunks), URL: s.corpusURL()}
	err = s.uploadStream(ctx, response.URL, func(writer *bufio.Writer) error {
		for _, chunk := range chunks {
			docs, err := store.Read(ctx, chunk)
			if err != nil {
				return fmt.Errorf("read chunk %d: %w", chunk, err)
			}
			for _, doc := range docs {
				for _, sentence := range doc.Sentences {
					if len(sentence) == 0 {
						continue
					}
					if _, err := writer.WriteString(strings.Join(sentence, " ")); err != nil {
						return err
					}
					if err := writer.WriteByte('\n'); err != nil {
						return err
					}
					response.Sentences++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dump: %w", err)
	}
	s.logger.Info("corpus dumped", "chunks", response.Chunks, "sentences", response.Sentences, "url", response.URL)
	return response, nil
}
