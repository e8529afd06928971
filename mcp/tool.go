package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/viant/jsonrpc"
	"github.com/viant/mcp-protocol/schema"
	protoserver "github.com/viant/mcp-protocol/server"
)

//go:embed tools/similar.md
var descSimilar string

//go:embed tools/lookup.md
var descLookup string

//go:embed tools/categories.md
var descCategories string

func registerTools(registry *protoserver.Registry, h *Handler) error {
	if err := protoserver.RegisterTool[*SimilarInput, *SimilarOutput](registry, "similar", descSimilar, func(ctx context.Context, in *SimilarInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.similar(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*LookupInput, *LookupOutput](registry, "lookup", descLookup, func(ctx context.Context, in *LookupInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.lookup(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*CategoriesInput, *CategoriesOutput](registry, "categories", descCategories, func(ctx context.Context, in *CategoriesInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.categories(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	return nil
}

func buildErrorResult(message string) (*schema.CallToolResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewError(jsonrpc.InvalidParams, message, nil)
}

func buildSuccessResult(payload any) (*schema.CallToolResult, *jsonrpc.Error) {
	b, _ := json.Marshal(payload)
	return &schema.CallToolResult{
		Content: []schema.CallToolResultContentElem{
			schema.TextContent{Type: "text", Text: string(b)},
		},
		StructuredContent: map[string]any{"result": payload},
	}, nil
}

func (h *Handler) similar(_ context.Context, in *SimilarInput) (*SimilarOutput, error) {
	if h == nil || h.model == nil {
		return nil, fmt.Errorf("mcp: model unavailable")
	}
	if in == nil || strings.TrimSpace(in.Term) == "" {
		return nil, fmt.Errorf("mcp: missing term")
	}
	term := strings.ToLower(strings.TrimSpace(in.Term))
	limit := in.Limit
	if limit <= 0 {
		limit = 10
	}
	neighbors, ok := h.model.Nearest(term, limit)
	if !ok {
		return nil, fmt.Errorf("mcp: term %q not in vocabulary", term)
	}
	out := &SimilarOutput{Term: term, Results: make([]SimilarTerm, 0, len(neighbors))}
	for _, neighbor := range neighbors {
		result := SimilarTerm{Word: neighbor.Word, Score: float64(neighbor.Score)}
		if entry, ok := h.byWord[neighbor.Word]; ok {
			result.Category = entry.category
		}
		out.Results = append(out.Results, result)
	}
	return out, nil
}

func (h *Handler) lookup(_ context.Context, in *LookupInput) (*LookupOutput, error) {
	if h == nil {
		return nil, fmt.Errorf("mcp: handler unavailable")
	}
	if in == nil || strings.TrimSpace(in.Word) == "" {
		return nil, fmt.Errorf("mcp: missing word")
	}
	word := strings.ToLower(strings.TrimSpace(in.Word))
	out := &LookupOutput{Word: word}
	if entry, ok := h.byWord[word]; ok {
		out.Found = true
		out.Category = entry.category
		out.Score = entry.score
	}
	return out, nil
}

func (h *Handler) categories(_ context.Context, in *CategoriesInput) (*CategoriesOutput, error) {
	if h == nil {
		return nil, fmt.Errorf("mcp: handler unavailable")
	}
	topWords := 0
	if in != nil {
		topWords = in.TopWords
	}
	out := &CategoriesOutput{}
	for _, expansion := range h.expansions {
		summary := CategorySummary{Name: expansion.Category, Words: len(expansion.Candidates)}
		for i, candidate := range expansion.Candidates {
			if topWords <= 0 || i >= topWords {
				break
			}
			summary.TopWords = append(summary.TopWords, candidate.Word)
		}
		out.Categories = append(out.Categories, summary)
	}
	return out, nil
}
