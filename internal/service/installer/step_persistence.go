package installer

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/tuskswarm/pkg/env"
)

// SaveEnvStep writes the collected configuration to .env file
type SaveEnvStep struct {
	err   error
	saved bool
}

func NewSaveEnvStep() Step {
	return &SaveEnvStep{}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}
	if err := saveEnv(state); err != nil {
		s.err = err
		return s, nil
	}

	s.saved = true
	return nil, nil // Signal completion
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return "Configuration saved successfully!\n"
	}
	return "Saving configuration...\n"
}

func saveEnv(state *InstallState) error {
	if err := os.MkdirAll(state.RuntimePath, 0755); err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}

	envPath := filepath.Join(state.RuntimePath, ".env")
	if _, err := os.Stat(envPath); err == nil && !state.Overwrite {
		return fmt.Errorf(".env file already exists at %s", envPath)
	}

	answers := state.Answers
	if !state.Telegram {
		answers.TelegramToken, answers.TelegramOwner = "", ""
	}

	content, err := env.MarshalEnv(&answers)
	if err != nil {
		return err
	}
	return os.WriteFile(envPath, []byte(content), 0600)
}

// PrepareDirsStep creates the directories the swarm reads from
type PrepareDirsStep struct {
	err  error
	done bool
}

func NewPrepareDirsStep() Step {
	return &PrepareDirsStep{}
}

func (s *PrepareDirsStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *PrepareDirsStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.done {
		return nil, nil
	}
	if err := prepareDirs(state); err != nil {
		s.err = err
		return s, nil
	}

	s.done = true
	return nil, nil
}

func (s *PrepareDirsStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.done {
		return "Data directories ready!\n"
	}
	return "Preparing data directories...\n"
}

func prepareDirs(state *InstallState) error {
	dirs := []string{state.Answers.DocumentsPath}
	if state.Answers.DatabasePath != "" {
		dirs = append(dirs, filepath.Dir(state.Answers.DatabasePath))
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}
