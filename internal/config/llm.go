package config

import "time"

// LLMConfig describes the OpenAI-compatible backend used for completions and embeddings.
type LLMConfig struct {
	APIKey         string        `env:"OPENAI_API_KEY"`
	BaseURL        string        `env:"OPENAI_BASE_URL" validate:"omitempty,url"`
	Model          string        `env:"MODEL_NAME" envDefault:"gpt-4o-mini" validate:"required"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"120s" validate:"gt=0"`
	MaxRetries     int           `env:"LLM_MAX_RETRIES" envDefault:"2" validate:"gte=0,lte=10"`
}
