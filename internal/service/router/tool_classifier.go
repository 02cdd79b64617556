package router

import (
	"context"
	"encoding/json"

	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/sandevgo/tuskswarm/pkg/log"
)

const (
	FuncTransferToSQL = "transfer_to_sql_agent"
	FuncTransferToRAG = "transfer_to_rag_agent"
)

var emptyParams = json.RawMessage(`{"type":"object","properties":{}}`)

var transferTools = []core.Tool{
	{
		Type: "function",
		Function: core.Function{
			Name:        FuncTransferToSQL,
			Description: "Hand the question to the SQL agent. Use for anything about the music store database: artists, albums, tracks, customers, invoices, sales.",
			Parameters:  emptyParams,
		},
	},
	{
		Type: "function",
		Function: core.Function{
			Name:        FuncTransferToRAG,
			Description: "Hand the question to the RAG agent. Use for questions about research papers, transformers, attention, language models.",
			Parameters:  emptyParams,
		},
	},
}

// ToolClassifier lets the model pick a transfer function. Any failure, or a
// reply without a tool call, defers to the fallback classifier.
type ToolClassifier struct {
	llm      core.AIProvider
	fallback core.Classifier
}

func NewToolClassifier(llm core.AIProvider, fallback core.Classifier) *ToolClassifier {
	return &ToolClassifier{llm: llm, fallback: fallback}
}

func (c *ToolClassifier) Classify(ctx context.Context, question string) (core.Domain, error) {
	logger := log.FromCtx(ctx)

	history := []core.Message{
		{Role: core.RoleSystem, Content: coordinatorInstructions},
		core.UserMessage(question),
	}

	msg, err := c.llm.Chat(ctx, history, transferTools)
	if err != nil {
		logger.Warn().Err(err).Msg("tool classification failed, using keywords")
		return c.fallback.Classify(ctx, question)
	}

	for _, tc := range msg.ToolCalls {
		switch tc.Function.Name {
		case FuncTransferToSQL:
			return core.DomainSQL, nil
		case FuncTransferToRAG:
			return core.DomainDocuments, nil
		}
	}

	logger.Debug().Str("reply", msg.Content).Msg("model chose no transfer, using keywords")
	return c.fallback.Classify(ctx, question)
}
