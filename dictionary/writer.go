package dictionary

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/xuri/excelize/v2"
)

// Writer persists the finished dictionaries: one text file per category
// plus consolidated CSV and XLSX joins with a category column. Outputs are
// regenerated wholesale each run.
type Writer struct {
	fs      afs.Service
	baseURL string
}

// NewWriter creates a Writer rooted at baseURL.
func NewWriter(fs afs.Service, baseURL string) *Writer {
	return &Writer{fs: fs, baseURL: baseURL}
}

// WriteCategoryFiles writes <Category>.txt with one word per line.
func (w *Writer) WriteCategoryFiles(ctx context.Context, expansions []Expansion) error {
	for _, expansion := range expansions {
		buffer := new(bytes.Buffer)
		for _, candidate := range expansion.Candidates {
			buffer.WriteString(candidate.Word)
			buffer.WriteByte('\n')
		}
		URL := url.Join(w.baseURL, expansion.Category+".txt")
		if err := w.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(buffer.Bytes())); err != nil {
			return fmt.Errorf("dictionary: upload %v: %w", URL, err)
		}
	}
	return nil
}

// WriteCSV writes the consolidated word,category table.
func (w *Writer) WriteCSV(ctx context.Context, expansions []Expansion, name string) error {
	buffer := new(bytes.Buffer)
	writer := csv.NewWriter(buffer)
	if err := writer.Write([]string{"word", "category"}); err != nil {
		return err
	}
	for _, expansion := range expansions {
		for _, candidate := range expansion.Candidates {
			if err := writer.Write([]string{candidate.Word, expansion.Category}); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	URL := url.Join(w.baseURL, name)
	if err := w.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(buffer.Bytes())); err != nil {
		return fmt.Errorf("dictionary: upload %v: %w", URL, err)
	}
	return nil
}

// WriteXLSX writes the consolidated spreadsheet with word, category and
// similarity columns.
func (w *Writer) WriteXLSX(ctx context.Context, expansions []Expansion, name string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"word", "category", "similarity"}); err != nil {
		return err
	}
	row := 2
	for _, expansion := range expansions {
		for _, candidate := range expansion.Candidates {
			cell := fmt.Sprintf("A%d", row)
			values := []interface{}{candidate.Word, expansion.Category, candidate.Score}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return err
			}
			row++
		}
	}
	buffer, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("dictionary: render xlsx: %w", err)
	}
	URL := url.Join(w.baseURL, name)
	if err := w.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(buffer.Bytes())); err != nil {
		return fmt.Errorf("dictionary: upload %v: %w", URL, err)
	}
	return nil
}
