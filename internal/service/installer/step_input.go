package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputStep collects one free-text answer.
type InputStep struct {
	input    textinput.Model
	title    string
	hint     string
	fallback string
	skip     func(state *InstallState) bool
	check    func(value string, state *InstallState) error
	set      func(value string, state *InstallState)
	err      error
}

type inputOption func(*InputStep)

func secret() inputOption {
	return func(s *InputStep) {
		s.input.EchoMode = textinput.EchoPassword
		s.input.EchoCharacter = '•'
	}
}

// withDefault is used when the user submits an empty line.
func withDefault(v string) inputOption {
	return func(s *InputStep) {
		s.fallback = v
		s.input.Placeholder = v
	}
}

func withHint(h string) inputOption {
	return func(s *InputStep) { s.hint = h }
}

func skipWhen(fn func(state *InstallState) bool) inputOption {
	return func(s *InputStep) { s.skip = fn }
}

func withCheck(fn func(value string, state *InstallState) error) inputOption {
	return func(s *InputStep) { s.check = fn }
}

func NewInputStep(title string, set func(value string, state *InstallState), opts ...inputOption) Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 50

	s := &InputStep{input: ti, title: title, set: set}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InputStep) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg { return nextMsg{} })
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.skip != nil && s.skip(state) {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		val := strings.TrimSpace(s.input.Value())
		if val == "" {
			val = s.fallback
		}
		if s.check != nil {
			if err := s.check(val, state); err != nil {
				s.err = err
				return s, nil
			}
		}
		s.set(val, state)
		return nil, nil
	}
	return s, cmd
}

func (s *InputStep) View(state *InstallState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Enter %s", s.title)
	if s.hint != "" {
		fmt.Fprintf(&b, " (%s)", s.hint)
	}
	b.WriteString(":\n\n" + s.input.View() + "\n\n")
	if s.err != nil {
		b.WriteString(errorStyle.Render(s.err.Error()) + "\n\n")
	}
	b.WriteString("(press enter to confirm)\n")
	return b.String()
}
