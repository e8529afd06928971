package corpus

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/viant/afs"
)

// CSVSource streams documents from a tabular file with "id" and "content"
// columns. Header detection is case-insensitive; a missing column aborts the
// run.
type CSVSource struct {
	reader     *csv.Reader
	closer     io.Closer
	idIdx      int
	contentIdx int
}

// NewCSVSource opens the file at URL and validates its header.
func NewCSVSource(ctx context.Context, fs afs.Service, URL string) (*CSVSource, error) {
	rc, err := fs.OpenURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("corpus: open %v: %w", URL, err)
	}
	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("corpus: read header %v: %w", URL, err)
	}
	src := &CSVSource{reader: reader, closer: rc, idIdx: -1, contentIdx: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "id":
			src.idIdx = i
		case "content":
			src.contentIdx = i
		}
	}
	if src.idIdx < 0 || src.contentIdx < 0 {
		_ = rc.Close()
		return nil, fmt.Errorf("%w: %v needs id and content, header was %v", ErrMissingColumn, URL, header)
	}
	return src, nil
}

// Next returns the next document; rows too short to carry both columns yield
// an empty content, recovered downstream as zero sentences.
func (s *CSVSource) Next(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	record, err := s.reader.Read()
	if err != nil {
		return Document{}, err
	}
	doc := Document{}
	if s.idIdx < len(record) {
		doc.ID = record[s.idIdx]
	}
	if s.contentIdx < len(record) {
		doc.Content = record[s.contentIdx]
	}
	return doc, nil
}

// Close releases the underlying reader.
func (s *CSVSource) Close() error {
	return s.closer.Close()
}

func isEOF(err error) bool {
	return err == io.EOF
}
