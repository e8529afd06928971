// Package dictionary expands hand-curated seed terms into per-category
// word lists using embedding similarity, and resolves cross-category
// duplicates.
package dictionary

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/viant/afs"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Category is a named bucket of semantically related terms.
type Category struct {
	Name  string
	Terms []string
}

// Seeds holds the ordered category list driving the expansion.
type Seeds struct {
	Categories []Category
}

// LoadSeeds reads seed terms from URL, dispatched by extension: .yaml/.yml
// mapping of category to term list, or a spreadsheet (.xlsx, legacy .xls)
// with one column per category and the category name in the header row.
// Terms are lower-cased and trimmed; category order follows the source.
func LoadSeeds(ctx context.Context, fs afs.Service, URL string) (*Seeds, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("dictionary: download seeds %v: %w", URL, err)
	}
	switch strings.ToLower(path.Ext(URL)) {
	case ".yaml", ".yml":
		return parseYAMLSeeds(data)
	case ".xlsx":
		return parseXLSXSeeds(data)
	case ".xls":
		return parseXLSSeeds(data)
	}
	return nil, fmt.Errorf("dictionary: unsupported seeds format %v", URL)
}

// parseYAMLSeeds decodes a category→terms mapping, preserving document
// order (a plain map would lose it).
func parseYAMLSeeds(data []byte) (*Seeds, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("dictionary: parse seeds: %w", err)
	}
	if len(root.Content) == 0 {
		return &Seeds{}, nil
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("dictionary: seeds must be a mapping of category to term list")
	}
	seeds := &Seeds{}
	at := map[string]int{}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode, valueNode := mapping.Content[i], mapping.Content[i+1]
		var terms []string
		if err := valueNode.Decode(&terms); err != nil {
			return nil, fmt.Errorf("dictionary: category %q: %w", keyNode.Value, err)
		}
		name := strings.TrimSpace(keyNode.Value)
		// A repeated category name merges into its first occurrence, so one
		// name never yields two categories.
		if idx, ok := at[name]; ok {
			seeds.Categories[idx].Terms = append(seeds.Categories[idx].Terms, normalizeTerms(terms)...)
			continue
		}
		at[name] = len(seeds.Categories)
		seeds.Categories = append(seeds.Categories, Category{
			Name:  name,
			Terms: normalizeTerms(terms),
		})
	}
	return seeds, nil
}

func parseXLSXSeeds(data []byte) (*Seeds, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("dictionary: open xlsx seeds: %w", err)
	}
	defer func() { _ = f.Close() }()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Seeds{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("dictionary: read xlsx seeds: %w", err)
	}
	return seedsFromColumns(rows), nil
}

func parseXLSSeeds(data []byte) (*Seeds, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("dictionary: open xls seeds: %w", err)
	}
	if wb.GetNumberSheets() == 0 {
		return &Seeds{}, nil
	}
	sheet, err := wb.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, fmt.Errorf("dictionary: read xls seeds: %w", err)
	}
	var rows [][]string
	for _, row := range sheet.GetRows() {
		var values []string
		for _, cell := range row.GetCols() {
			values = append(values, cell.GetString())
		}
		rows = append(rows, values)
	}
	return seedsFromColumns(rows), nil
}

// seedsFromColumns builds categories from a header row of names with term
// columns underneath.
func seedsFromColumns(rows [][]string) *Seeds {
	seeds := &Seeds{}
	if len(rows) == 0 {
		return seeds
	}
	header := rows[0]
	at := map[string]int{}
	for col, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var terms []string
		for _, row := range rows[1:] {
			if col < len(row) {
				terms = append(terms, row[col])
			}
		}
		// Duplicate header names merge into the first column's category.
		if idx, ok := at[name]; ok {
			seeds.Categories[idx].Terms = append(seeds.Categories[idx].Terms, normalizeTerms(terms)...)
			continue
		}
		at[name] = len(seeds.Categories)
		seeds.Categories = append(seeds.Categories, Category{
			Name:  name,
			Terms: normalizeTerms(terms),
		})
	}
	return seeds
}

func normalizeTerms(terms []string) []string {
	var out []string
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			out = append(out, term)
		}
	}
	return out
}
