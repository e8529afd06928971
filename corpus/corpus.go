package corpus

import (
	"context"
	"errors"
)

// Document is one raw input record: an identifier plus unprocessed text.
type Document struct {
	ID      string
	Content string
}

// ErrMissingColumn indicates the tabular input lacks a required column.
var ErrMissingColumn = errors.New("corpus: missing required column")

// Source yields documents in stable order. Next returns io.EOF once the
// source is exhausted.
type Source interface {
	Next(ctx context.Context) (Document, error)
	Close() error
}

// ReadAll drains a source into memory. Intended for tests and small corpora;
// the pipeline itself streams.
func ReadAll(ctx context.Context, src Source) ([]Document, error) {
	var docs []Document
	for {
		doc, err := src.Next(ctx)
		if err != nil {
			if isEOF(err) {
				return docs, nil
			}
			return nil, err
		}
		docs = append(docs, doc)
	}
}
