package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SWARM_RUNTIME_PATH", t.TempDir())

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", s.LLM.Model)
	assert.Equal(t, 120*time.Second, s.LLM.RequestTimeout)
	assert.Equal(t, "./data/documents", s.RAG.DocumentsPath)
	assert.Equal(t, "./data/vector_stores/chroma_db", s.RAG.VectorStorePath)
	assert.Equal(t, "./data/databases/Chinook.db", s.Database.Path)
	assert.Equal(t, 4000, s.RAG.ChunkSize)
	assert.Equal(t, 500, s.RAG.ChunkOverlap)
	assert.Equal(t, 4, s.RAG.RetrieverK)
	assert.Equal(t, 5, s.Database.TopK)
	assert.True(t, s.Database.ReadOnly)
	assert.Equal(t, "info", s.Log.Level)
	assert.Equal(t, "console", s.Log.Format)
	assert.False(t, s.Log.ToConsole)
	assert.Equal(t, ClassifierKeyword, s.Router.Classifier)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SWARM_RUNTIME_PATH", t.TempDir())
	t.Setenv("MODEL_NAME", "gpt-4o")
	t.Setenv("CHUNK_SIZE", "1000")
	t.Setenv("CHUNK_OVERLAP", "100")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("CLASSIFIER", "llm")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", s.LLM.Model)
	assert.Equal(t, 1000, s.RAG.ChunkSize)
	assert.Equal(t, 100, s.RAG.ChunkOverlap)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "json", s.Log.Format)
	assert.Equal(t, ClassifierLLM, s.Router.Classifier)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "overlap not smaller than chunk size",
			env:  map[string]string{"CHUNK_SIZE": "100", "CHUNK_OVERLAP": "100"},
			want: "ChunkOverlap",
		},
		{
			name: "zero retriever depth",
			env:  map[string]string{"RETRIEVER_K": "0"},
			want: "RetrieverK",
		},
		{
			name: "negative sql row cap",
			env:  map[string]string{"SQL_TOP_K": "-1"},
			want: "TopK",
		},
		{
			name: "unknown log format",
			env:  map[string]string{"LOG_FORMAT": "xml"},
			want: "Format",
		},
		{
			name: "unknown classifier",
			env:  map[string]string{"CLASSIFIER": "magic"},
			want: "Classifier",
		},
		{
			name: "malformed integer",
			env:  map[string]string{"CHUNK_SIZE": "big"},
			want: "CHUNK_SIZE: invalid int value",
		},
		{
			name: "malformed bool",
			env:  map[string]string{"JOURNAL_ENABLED": "maybe"},
			want: "JOURNAL_ENABLED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SWARM_RUNTIME_PATH", t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		field  string
		want   string
		wantOK bool
	}{
		{field: "ChunkSize", want: "CHUNK_SIZE", wantOK: true},
		{field: "MaxHandoffs", want: "MAX_HANDOFFS", wantOK: true},
		{field: "RuntimePath", want: "SWARM_RUNTIME_PATH", wantOK: true},
		{field: "Missing"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			key, ok := envKey(reflect.TypeOf(&Settings{}), tt.field)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, key)
		})
	}
}

func TestSettings_Masked(t *testing.T) {
	s := &Settings{LLM: LLMConfig{APIKey: "sk-1234567890abcdef"}}

	m := s.Masked()

	assert.Equal(t, "sk-1****cdef", m.LLM.APIKey)
	assert.Equal(t, "sk-1234567890abcdef", s.LLM.APIKey)
}

func TestLoadTelegram(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name: "valid",
			env:  map[string]string{"TELEGRAM_TOKEN": "123:abc", "TELEGRAM_OWNER_ID": "42"},
		},
		{
			name:    "missing token",
			env:     map[string]string{"TELEGRAM_TOKEN": "", "TELEGRAM_OWNER_ID": "42"},
			wantErr: "TELEGRAM_TOKEN",
		},
		{
			name:    "non-positive owner",
			env:     map[string]string{"TELEGRAM_TOKEN": "123:abc", "TELEGRAM_OWNER_ID": "-5"},
			wantErr: "OwnerID",
		},
		{
			name:    "malformed owner",
			env:     map[string]string{"TELEGRAM_TOKEN": "123:abc", "TELEGRAM_OWNER_ID": "me"},
			wantErr: "TELEGRAM_OWNER_ID: invalid int64 value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			c, err := LoadTelegram()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(42), c.OwnerID)
		})
	}
}

func TestIsDebug(t *testing.T) {
	t.Setenv("SWARM_DEBUG", "true")
	assert.True(t, IsDebug())
	t.Setenv("SWARM_DEBUG", "0")
	assert.False(t, IsDebug())
}

func TestGetRuntimePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		env  string
		want string
	}{
		{env: "", want: filepath.Join(home, ".tuskswarm")},
		{env: "/srv/swarm", want: "/srv/swarm"},
		{env: "~/swarm", want: filepath.Join(home, "swarm")},
		{env: "data/swarm", want: filepath.Join(home, "data/swarm")},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("SWARM_RUNTIME_PATH", tt.env)
			assert.Equal(t, tt.want, GetRuntimePath())
		})
	}
}
