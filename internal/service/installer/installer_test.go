package installer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(t *testing.T, s Step, state *InstallState, text string) Step {
	t.Helper()
	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}, state, 80, 24)
	require.NotNil(t, next)
	return next
}

func enter(s Step, state *InstallState) Step {
	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyEnter}, state, 80, 24)
	return next
}

func TestInputStep(t *testing.T) {
	state := NewInstallState(t.TempDir())
	s := NewInputStep("value", func(v string, st *InstallState) { st.Answers.Model = v })

	s = typeText(t, s, state, "  gpt-4o  ")
	assert.Nil(t, enter(s, state))
	assert.Equal(t, "gpt-4o", state.Answers.Model)
}

func TestInputStep_Default(t *testing.T) {
	state := NewInstallState(t.TempDir())
	s := NewInputStep("documents", func(v string, st *InstallState) { st.Answers.DocumentsPath = v },
		withDefault(defaultDocumentsPath))

	assert.Nil(t, enter(s, state))
	assert.Equal(t, defaultDocumentsPath, state.Answers.DocumentsPath)
}

func TestInputStep_CheckBlocks(t *testing.T) {
	state := NewInstallState(t.TempDir())
	s := NewInputStep("owner", func(v string, st *InstallState) { st.Answers.TelegramOwner = v },
		withCheck(checkOwnerID))

	s = typeText(t, s, state, "not-a-number")
	next := enter(s, state)
	require.NotNil(t, next)
	assert.Contains(t, next.View(state), "owner ID is a number")
	assert.Empty(t, state.Answers.TelegramOwner)
}

func TestInputStep_Skip(t *testing.T) {
	state := NewInstallState(t.TempDir())
	s := NewInputStep("token", func(v string, st *InstallState) { st.Answers.TelegramToken = v },
		skipWhen(noTelegram))

	next, _ := s.Update(nextMsg{}, state, 80, 24)
	assert.Nil(t, next)
}

func TestChecks(t *testing.T) {
	withURL := &InstallState{Answers: Answers{BaseURL: "http://localhost:11434/v1"}}
	noURL := &InstallState{}

	assert.NoError(t, checkURL("", noURL))
	assert.NoError(t, checkURL("http://localhost:11434/v1", noURL))
	assert.Error(t, checkURL("localhost", noURL))

	assert.NoError(t, checkAPIKey("", withURL))
	assert.Error(t, checkAPIKey("", noURL))
	assert.NoError(t, checkAPIKey("sk-test", noURL))

	assert.NoError(t, checkOwnerID("12345", noURL))
	assert.Error(t, checkOwnerID("abc", noURL))
	assert.Error(t, required("", noURL))
}

func TestChoiceSteps(t *testing.T) {
	tests := []struct {
		name  string
		step  func() Step
		downs int
		check func(t *testing.T, st *InstallState)
	}{
		{
			name: "channel default is cli only",
			step: NewChannelStep,
			check: func(t *testing.T, st *InstallState) {
				assert.False(t, st.Telegram)
			},
		},
		{
			name:  "channel telegram",
			step:  NewChannelStep,
			downs: 1,
			check: func(t *testing.T, st *InstallState) {
				assert.True(t, st.Telegram)
			},
		},
		{
			name:  "cursor stops at the last choice",
			step:  NewChannelStep,
			downs: 5,
			check: func(t *testing.T, st *InstallState) {
				assert.True(t, st.Telegram)
			},
		},
		{
			name: "keyword classifier",
			step: NewClassifierStep,
			check: func(t *testing.T, st *InstallState) {
				assert.Equal(t, "keyword", st.Answers.Classifier)
			},
		},
		{
			name:  "llm classifier",
			step:  NewClassifierStep,
			downs: 1,
			check: func(t *testing.T, st *InstallState) {
				assert.Equal(t, "llm", st.Answers.Classifier)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewInstallState(t.TempDir())
			s := tt.step()
			for i := 0; i < tt.downs; i++ {
				s, _ = s.Update(tea.KeyMsg{Type: tea.KeyDown}, state, 80, 24)
				require.NotNil(t, s)
			}
			assert.Contains(t, s.View(state), "❯")
			assert.Nil(t, enter(s, state))
			tt.check(t, state)
		})
	}
}

func TestModelStep(t *testing.T) {
	state := NewInstallState(t.TempDir())
	state.ListModels = func(ctx context.Context, apiKey, baseURL string) ([]string, error) {
		return []string{"gpt-4o-mini", "gpt-4o"}, nil
	}

	s := NewModelStep()
	s, cmd := s.Update(nextMsg{}, state, 80, 24)
	require.NotNil(t, cmd)

	s, _ = s.Update(cmd(), state, 80, 24)
	require.NotNil(t, s)
	assert.Nil(t, enter(s, state))
	assert.Equal(t, "gpt-4o-mini", state.Answers.Model)
}

func TestModelStep_FallbackOnError(t *testing.T) {
	state := NewInstallState(t.TempDir())
	state.ListModels = func(ctx context.Context, apiKey, baseURL string) ([]string, error) {
		return nil, errors.New("404 not found")
	}

	s := NewModelStep()
	s, cmd := s.Update(nextMsg{}, state, 80, 24)
	s, _ = s.Update(cmd(), state, 80, 24)
	assert.Contains(t, s.View(state), "Could not fetch models")

	assert.Nil(t, enter(s, state))
	assert.Equal(t, suggestedModels[0], state.Answers.Model)
}

func TestSaveEnv(t *testing.T) {
	dir := t.TempDir()
	state := NewInstallState(dir)
	state.Answers = Answers{
		APIKey:        "sk-test",
		Model:         "gpt-4o-mini",
		TelegramToken: "dropped",
	}

	require.NoError(t, saveEnv(state))
	data, err := os.ReadFile(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "OPENAI_API_KEY=sk-test\nMODEL_NAME=gpt-4o-mini\n", string(data))

	assert.ErrorContains(t, saveEnv(state), "already exists")

	state.Overwrite = true
	state.Telegram = true
	require.NoError(t, saveEnv(state))
	data, err = os.ReadFile(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "TELEGRAM_TOKEN=dropped")
}

func TestPrepareDirs(t *testing.T) {
	dir := t.TempDir()
	state := NewInstallState(dir)
	state.Answers.DocumentsPath = filepath.Join(dir, "docs")
	state.Answers.DatabasePath = filepath.Join(dir, "db", "Chinook.db")

	require.NoError(t, prepareDirs(state))
	assert.DirExists(t, state.Answers.DocumentsPath)
	assert.DirExists(t, filepath.Join(dir, "db"))
}
