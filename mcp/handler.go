// Package mcp serves the finished dictionary and embedding model over the
// Model Context Protocol as streamable-HTTP tools.
package mcp

import (
	"context"

	"github.com/viant/jsonrpc/transport"
	protoclient "github.com/viant/mcp-protocol/client"
	"github.com/viant/mcp-protocol/logger"
	protoserver "github.com/viant/mcp-protocol/server"

	"github.com/esglex/esglex/dictionary"
	"github.com/esglex/esglex/embedding"
)

type Handler struct {
	*protoserver.DefaultHandler
	model      *embedding.Model
	expansions []dictionary.Expansion
	byWord     map[string]wordEntry
	ops        protoclient.Operations
}

type wordEntry struct {
	category string
	score    float64
}

// NewHandler builds a per-connection handler factory over the trained model
// and the deduplicated dictionary.
func NewHandler(model *embedding.Model, expansions []dictionary.Expansion) protoserver.NewHandler {
	byWord := map[string]wordEntry{}
	for _, expansion := range expansions {
		for _, candidate := range expansion.Candidates {
			byWord[candidate.Word] = wordEntry{category: expansion.Category, score: candidate.Score}
		}
	}
	return func(_ context.Context, notifier transport.Notifier, logger logger.Logger, clientOperation protoclient.Operations) (protoserver.Handler, error) {
		base := protoserver.NewDefaultHandler(notifier, logger, clientOperation)
		h := &Handler{
			DefaultHandler: base,
			model:          model,
			expansions:     expansions,
			byWord:         byWord,
			ops:            clientOperation,
		}
		if err := registerTools(base.Registry, h); err != nil {
			return nil, err
		}
		return h, nil
	}
}
