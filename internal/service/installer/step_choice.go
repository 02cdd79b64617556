package installer

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type choice struct {
	label string
	hint  string
}

// ChoiceStep asks a question with a fixed set of answers.
type ChoiceStep struct {
	question string
	choices  []choice
	apply    func(index int, state *InstallState)
	cursor   int
}

func NewChoiceStep(question string, choices []choice, apply func(index int, state *InstallState)) Step {
	return &ChoiceStep{question: question, choices: choices, apply: apply}
}

// NewChannelStep decides whether the Telegram transport is configured.
func NewChannelStep() Step {
	return NewChoiceStep("Where will you talk to the swarm?",
		[]choice{
			{label: "CLI only", hint: "swarm chat, swarm ask"},
			{label: "CLI + Telegram", hint: "also swarm telegram, asks for a bot token"},
		},
		func(i int, st *InstallState) { st.Telegram = i == 1 })
}

// NewClassifierStep picks how the coordinator routes questions.
func NewClassifierStep() Step {
	return NewChoiceStep("How should questions be routed?",
		[]choice{
			{label: "Keywords", hint: "instant, no model call"},
			{label: "Model tool call", hint: "one extra completion per hop, keywords as fallback"},
		},
		func(i int, st *InstallState) {
			st.Answers.Classifier = classifierKeyword
			if i == 1 {
				st.Answers.Classifier = classifierLLM
			}
		})
}

func (s *ChoiceStep) Init() tea.Cmd {
	return nil
}

func (s *ChoiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch key.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.choices)-1 {
			s.cursor++
		}
	case "enter":
		s.apply(s.cursor, state)
		return nil, nil
	}
	return s, nil
}

func (s *ChoiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.question + "\n\n")
	for i, c := range s.choices {
		line := "  " + c.label
		if i == s.cursor {
			b.WriteString(selStyle.Render("❯ "+c.label) + " " + hintStyle.Render(c.hint) + "\n")
			continue
		}
		b.WriteString(itemStyle.Render(line) + "\n")
	}
	b.WriteString("\n(↑/↓ to choose, enter to confirm, ctrl+c to quit)\n")
	return b.String()
}
