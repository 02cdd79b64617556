package installer

import (
	"context"
	"time"

	"github.com/sandevgo/tuskswarm/internal/providers/llm"
)

// Answers is what the wizard writes to the runtime .env file.
type Answers struct {
	BaseURL       string `env:"OPENAI_BASE_URL"`
	APIKey        string `env:"OPENAI_API_KEY"`
	Model         string `env:"MODEL_NAME"`
	DocumentsPath string `env:"DOCUMENTS_PATH"`
	DatabasePath  string `env:"DATABASE_PATH"`
	Classifier    string `env:"CLASSIFIER"`
	TelegramToken string `env:"TELEGRAM_TOKEN"`
	TelegramOwner string `env:"TELEGRAM_OWNER_ID"`
}

// Values of CLASSIFIER, mirrored from the config package to keep the wizard free of it.
const (
	classifierKeyword = "keyword"
	classifierLLM     = "llm"
)

// ModelLister fetches the model IDs available for the given credentials.
type ModelLister func(ctx context.Context, apiKey, baseURL string) ([]string, error)

type InstallState struct {
	Answers     Answers
	Telegram    bool
	RuntimePath string
	Overwrite   bool
	ListModels  ModelLister
}

func NewInstallState(runtimePath string) *InstallState {
	return &InstallState{
		RuntimePath: runtimePath,
		ListModels:  listOpenAIModels,
	}
}

func listOpenAIModels(ctx context.Context, apiKey, baseURL string) ([]string, error) {
	p := llm.NewOpenAI(llm.Config{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Timeout: 30 * time.Second,
	})
	return p.ListModels(ctx)
}
