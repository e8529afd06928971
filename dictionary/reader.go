package dictionary

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/afs"
	"github.com/xuri/excelize/v2"
)

// ReadXLSX loads a consolidated dictionary spreadsheet written by
// Writer.WriteXLSX back into per-category expansions, preserving row order.
func ReadXLSX(ctx context.Context, fs afs.Service, URL string) ([]Expansion, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("dictionary: download %v: %w", URL, err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("dictionary: open %v: %w", URL, err)
	}
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("dictionary: read %v: %w", URL, err)
	}
	var expansions []Expansion
	at := map[string]int{}
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		word, category := strings.TrimSpace(row[0]), strings.TrimSpace(row[1])
		if word == "" || category == "" {
			continue
		}
		score := 0.0
		if len(row) > 2 {
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64); err == nil {
				score = parsed
			}
		}
		idx, ok := at[category]
		if !ok {
			idx = len(expansions)
			at[category] = idx
			expansions = append(expansions, Expansion{Category: category})
		}
		expansions[idx].Candidates = append(expansions[idx].Candidates, Candidate{Word: word, Score: score})
	}
	return expansions, nil
}
