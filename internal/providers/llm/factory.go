package llm

import (
	"context"
	"errors"

	"github.com/sandevgo/tuskswarm/internal/config"
	"github.com/sandevgo/tuskswarm/pkg/log"
	"github.com/sandevgo/tuskswarm/pkg/retry"
)

var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// NewProvider creates the OpenAI-compatible provider from settings.
// A key is only mandatory against the public endpoint; self-hosted base URLs may run without one.
func NewProvider(ctx context.Context, s *config.Settings) (*OpenAI, error) {
	if s.LLM.APIKey == "" && s.LLM.BaseURL == "" {
		return nil, ErrMissingAPIKey
	}

	log.FromCtx(ctx).Info().
		Str("model", s.LLM.Model).
		Str("embedding_model", s.RAG.EmbeddingModel).
		Str("base_url", s.LLM.BaseURL).
		Msg("starting llm provider")

	return NewOpenAI(Config{
		APIKey:         s.LLM.APIKey,
		BaseURL:        s.LLM.BaseURL,
		Model:          s.LLM.Model,
		EmbeddingModel: s.RAG.EmbeddingModel,
		Timeout:        s.LLM.RequestTimeout,
		Retry:          retry.WithMaxRetries(s.LLM.MaxRetries),
	}), nil
}
