package router

import (
	"context"

	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/sandevgo/tuskswarm/pkg/log"
)

const (
	coordinatorInstructions = "You are a coordinator agent. Route each question to the right specialist. " +
		"Questions about the music store database (artists, albums, tracks, customers, invoices, sales) go to the SQL agent. " +
		"Questions about research papers, transformers, attention or language models go to the RAG agent."

	ragInstructions = "You answer questions about the research paper corpus using retrieved passages. " +
		"Database questions are handed to the SQL agent."

	sqlInstructions = "You answer questions about the music store database by writing and running SQLite queries. " +
		"Anything else goes back to the coordinator."
)

// Descriptor is the static configuration of an agent.
type Descriptor struct {
	Name         string
	Instructions string
	Functions    []string
}

type Agent interface {
	Descriptor() Descriptor
	Handle(ctx context.Context, question string) core.Result
}

// Answerer produces a final, user-visible answer. It never fails.
type Answerer interface {
	Answer(ctx context.Context, question string) string
}

func classify(ctx context.Context, c core.Classifier, question string) core.Domain {
	d, err := c.Classify(ctx, question)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("classification failed")
		return core.DomainUnknown
	}
	return d
}

// Coordinator holds no business logic: it only transfers.
type Coordinator struct {
	classifier core.Classifier
}

func NewCoordinator(c core.Classifier) *Coordinator {
	return &Coordinator{classifier: c}
}

func (a *Coordinator) Descriptor() Descriptor {
	return Descriptor{
		Name:         core.AgentCoordinator,
		Instructions: coordinatorInstructions,
		Functions:    []string{FuncTransferToSQL, FuncTransferToRAG},
	}
}

func (a *Coordinator) Handle(ctx context.Context, question string) core.Result {
	if classify(ctx, a.classifier, question) == core.DomainSQL {
		return core.Transfer(core.AgentSQL)
	}
	return core.Transfer(core.AgentRAG)
}

// RAGAgent answers from the document corpus unless the question is about the database.
type RAGAgent struct {
	classifier core.Classifier
	responder  Answerer
}

func NewRAGAgent(c core.Classifier, r Answerer) *RAGAgent {
	return &RAGAgent{classifier: c, responder: r}
}

func (a *RAGAgent) Descriptor() Descriptor {
	return Descriptor{
		Name:         core.AgentRAG,
		Instructions: ragInstructions,
		Functions:    []string{"retrieve_and_generate", "handle_non_rag_query"},
	}
}

func (a *RAGAgent) Handle(ctx context.Context, question string) core.Result {
	if classify(ctx, a.classifier, question) == core.DomainSQL {
		return core.Transfer(core.AgentSQL)
	}
	return core.Answer(a.responder.Answer(ctx, question))
}

// SQLAgent answers database questions and returns everything else to the coordinator.
type SQLAgent struct {
	classifier core.Classifier
	responder  Answerer
}

func NewSQLAgent(c core.Classifier, r Answerer) *SQLAgent {
	return &SQLAgent{classifier: c, responder: r}
}

func (a *SQLAgent) Descriptor() Descriptor {
	return Descriptor{
		Name:         core.AgentSQL,
		Instructions: sqlInstructions,
		Functions:    []string{"generate_response", "handle_non_sql_query"},
	}
}

func (a *SQLAgent) Handle(ctx context.Context, question string) core.Result {
	if classify(ctx, a.classifier, question) != core.DomainSQL {
		return core.Transfer(core.AgentCoordinator)
	}
	return core.Answer(a.responder.Answer(ctx, question))
}
