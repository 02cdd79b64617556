package responder

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/sandevgo/tuskswarm/pkg/log"
)

const (
	ragSystemPrompt = "You answer questions about research papers. Use only the supplied context. " +
		"If the context does not contain the answer, say that you don't know."

	ragPromptTemplate = "Answer the question based only on the following context:\n%s\nQuestion: %s\nAnswer: "

	previewLength = 200
)

// RAG answers questions from the indexed document corpus.
type RAG struct {
	retriever Source[Retriever]
	llm       Completer
	k         int
}

func NewRAG(retriever Source[Retriever], llm Completer, k int) *RAG {
	return &RAG{retriever: retriever, llm: llm, k: k}
}

// Answer never fails: problems come back as a readable error string.
func (r *RAG) Answer(ctx context.Context, question string) string {
	answer, passages, err := r.Generate(ctx, question)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("question", question).Msg("retrieve and generate failed")
		return fmt.Sprintf("Error in retrieve and generate: %v", err)
	}
	return FormatWithSources(answer, passages)
}

func (r *RAG) Generate(ctx context.Context, question string) (string, []core.Passage, error) {
	passages, err := r.Retrieve(ctx, question)
	if err != nil {
		return "", nil, err
	}

	prompt := fmt.Sprintf(ragPromptTemplate, joinContext(passages), question)
	answer, err := r.llm.Complete(ctx, ragSystemPrompt, prompt)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate answer: %w", err)
	}
	return strings.TrimSpace(answer), passages, nil
}

func (r *RAG) Retrieve(ctx context.Context, question string) ([]core.Passage, error) {
	retriever, err := r.retriever(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vector store: %w", err)
	}

	passages, err := retriever.Query(ctx, question, r.k)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve passages: %w", err)
	}

	log.FromCtx(ctx).Debug().Int("passages", len(passages)).Msg("retrieved context")
	return passages, nil
}

func joinContext(passages []core.Passage) string {
	texts := make([]string, 0, len(passages))
	for _, p := range passages {
		texts = append(texts, p.Content)
	}
	return strings.Join(texts, "\n\n")
}

// FormatWithSources appends a numbered list of the passages behind an answer.
func FormatWithSources(answer string, passages []core.Passage) string {
	if len(passages) == 0 {
		return answer
	}

	var sb strings.Builder
	sb.WriteString(answer)
	sb.WriteString("\n\n**Sources**\n\n")
	for i, p := range passages {
		fmt.Fprintf(&sb, "%d. *%s* (chunk %d): %s\n", i+1, p.Source, p.Index, Preview(p.Content, previewLength))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Preview collapses whitespace and truncates to n runes.
func Preview(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
