package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

const (
	ClassifierKeyword = "keyword"
	ClassifierLLM     = "llm"
)

type LogConfig struct {
	Format    string `env:"LOG_FORMAT" envDefault:"console" validate:"oneof=console json"`
	Level     string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error"`
	ToConsole bool   `env:"LOG_TO_CONSOLE" envDefault:"false"`
}

type RouterConfig struct {
	Classifier  string `env:"CLASSIFIER" envDefault:"keyword" validate:"oneof=keyword llm"`
	RoutingFile string `env:"ROUTING_FILE"`
	MaxHandoffs int    `env:"MAX_HANDOFFS" envDefault:"4" validate:"gt=0"`
}

// Settings is loaded once at startup and treated as read-only afterwards.
type Settings struct {
	LLM      LLMConfig
	RAG      RAGConfig
	Database DatabaseConfig
	Log      LogConfig
	Router   RouterConfig

	RuntimePath    string `env:"SWARM_RUNTIME_PATH" envDefault:".tuskswarm"`
	JournalEnabled bool   `env:"JOURNAL_ENABLED" envDefault:"true"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load parses the process environment into Settings and validates the result.
func Load() (*Settings, error) {
	s := &Settings{}
	if err := env.Parse(s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", describeParse(err, s))
	}

	s.Log.Level = strings.ToLower(strings.TrimSpace(s.Log.Level))
	s.Log.Format = strings.ToLower(strings.TrimSpace(s.Log.Format))
	s.Router.Classifier = strings.ToLower(strings.TrimSpace(s.Router.Classifier))
	s.RuntimePath = GetRuntimePath()

	if err := validate.Struct(s); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", describe(err))
	}
	return s, nil
}

func (s *Settings) JournalPath() string {
	return filepath.Join(s.RuntimePath, "history.db")
}

func (s *Settings) LogPath() string {
	return filepath.Join(s.RuntimePath, "swarm.log")
}

func (s *Settings) EnvPath() string {
	return filepath.Join(s.RuntimePath, ".env")
}

// Masked returns a copy safe for printing.
func (s *Settings) Masked() *Settings {
	c := *s
	c.LLM.APIKey = mask(c.LLM.APIKey)
	return &c
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****" + secret[len(secret)-4:]
}

// describe flattens validator errors into one line naming the offending env keys.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s (%v) violates %s", fe.Namespace(), fe.Value(), rule))
	}
	return errors.New(strings.Join(parts, "; "))
}

// describeParse rewrites env parse errors to name the variable instead of the struct field.
func describeParse(err error, target any) error {
	var agg env.AggregateError
	if !errors.As(err, &agg) {
		return err
	}

	parts := make([]string, 0, len(agg.Errors))
	for _, e := range agg.Errors {
		var pe env.ParseError
		if !errors.As(e, &pe) {
			parts = append(parts, e.Error())
			continue
		}
		key, ok := envKey(reflect.TypeOf(target), pe.Name)
		if !ok {
			parts = append(parts, pe.Error())
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: invalid %s value: %v", key, pe.Type, pe.Err))
	}
	return errors.New(strings.Join(parts, "; "))
}

// envKey finds the env variable bound to the named field, descending into nested structs.
func envKey(t reflect.Type, field string) (string, bool) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return "", false
	}
	for i := range t.NumField() {
		f := t.Field(i)
		if tag, ok := f.Tag.Lookup("env"); ok && f.Name == field {
			return strings.Split(tag, ",")[0], true
		}
		if f.Type.Kind() == reflect.Struct {
			if key, ok := envKey(f.Type, field); ok {
				return key, true
			}
		}
	}
	return "", false
}
