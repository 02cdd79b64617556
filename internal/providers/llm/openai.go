package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/sandevgo/tuskswarm/pkg/log"
	"github.com/sandevgo/tuskswarm/pkg/retry"
	"github.com/sashabaranov/go-openai"
)

type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	EmbeddingModel string
	Timeout        time.Duration
	Retry          *retry.Config
}

// OpenAI talks to any OpenAI-compatible endpoint for chat and embeddings.
type OpenAI struct {
	client         *openai.Client
	model          string
	embeddingModel string
	retrier        *retry.Retrier
}

func NewOpenAI(cfg Config) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	retryCfg := cfg.Retry
	if retryCfg == nil {
		retryCfg = retry.NewDefaultConfig()
	}

	return &OpenAI{
		client:         openai.NewClientWithConfig(clientCfg),
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		retrier:        retry.NewRetrier(retryCfg),
	}
}

func (o *OpenAI) Model() string {
	return o.model
}

func (o *OpenAI) Chat(ctx context.Context, history []core.Message, tools []core.Tool) (core.Message, error) {
	req := openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: toOpenAIMessages(history),
		Tools:    toOpenAITools(tools),
	}

	var resp openai.ChatCompletionResponse
	err := o.do(ctx, "chat", func() error {
		var err error
		resp, err = o.client.CreateChatCompletion(ctx, req)
		return err
	})
	if err != nil {
		return core.Message{}, err
	}

	if len(resp.Choices) == 0 {
		return core.Message{}, fmt.Errorf("%w: empty choices", ErrPermanent)
	}

	log.FromCtx(ctx).Debug().
		Str("model", resp.Model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("chat completion")

	return fromOpenAIMessage(resp.Choices[0].Message), nil
}

// Complete sends a single system + user exchange and returns the reply text.
func (o *OpenAI) Complete(ctx context.Context, system, prompt string) (string, error) {
	history := make([]core.Message, 0, 2)
	if system != "" {
		history = append(history, core.Message{Role: core.RoleSystem, Content: system})
	}
	history = append(history, core.UserMessage(prompt))

	msg, err := o.Chat(ctx, history, nil)
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

func (o *OpenAI) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(o.embeddingModel),
	}

	var resp openai.EmbeddingResponse
	err := o.do(ctx, "embed", func() error {
		var err error
		resp, err = o.client.CreateEmbeddings(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", ErrPermanent, len(resp.Data), len(texts))
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", ErrPermanent, d.Index)
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}

// ListModels returns the model IDs offered by the backend, sorted.
func (o *OpenAI) ListModels(ctx context.Context) ([]string, error) {
	var resp openai.ModelsList
	err := o.do(ctx, "list models", func() error {
		var err error
		resp, err = o.client.ListModels(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		ids = append(ids, m.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

func (o *OpenAI) do(ctx context.Context, op string, fn func() error) error {
	logger := log.FromCtx(ctx)
	attempt := 0

	err := o.retrier.Do(ctx, func() error {
		attempt++
		err := classify(fn())
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrPermanent) {
			return retry.Permanent(err)
		}
		logger.Warn().Err(err).Str("op", op).Int("attempt", attempt).Msg("llm request failed")
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	return nil
}

func toOpenAIMessages(history []core.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		msg := openai.ChatCompletionMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}
		out = append(out, msg)
	}
	return out
}

func toOpenAITools(tools []core.Tool) []openai.Tool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Function.Name,
				Description: t.Function.Description,
				Parameters:  t.Function.Parameters,
			},
		})
	}
	return out
}

func fromOpenAIMessage(m openai.ChatCompletionMessage) core.Message {
	msg := core.Message{
		Role:    m.Role,
		Content: m.Content,
	}
	for _, tc := range m.ToolCalls {
		msg.ToolCalls = append(msg.ToolCalls, core.ToolCall{
			ID:   tc.ID,
			Type: string(tc.Type),
			Function: core.FunctionCall{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	return msg
}
