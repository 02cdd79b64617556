package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

const promptLabel = "Enter your question:"

var (
	welcomeColor  = lipgloss.Color("5")
	farewellColor = lipgloss.Color("3")

	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
)

func lipglossRenderer(w io.Writer) *lipgloss.Renderer {
	return lipgloss.NewRenderer(w)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewPrompter picks an interactive prompt for terminals and a line reader otherwise.
func NewPrompter(in *os.File, out io.Writer) Prompter {
	if IsTerminal(in) {
		return &TeaPrompter{in: in, out: out}
	}
	return NewLinePrompter(in)
}

// NewWaiter shows a spinner on terminals and nothing otherwise.
func NewWaiter(in *os.File, out io.Writer) Waiter {
	if IsTerminal(in) {
		return &SpinnerWaiter{in: in, out: out}
	}
	return silentWaiter
}

type termScreen struct {
	out *termenv.Output
}

func NewScreen(w io.Writer) Screen {
	return termScreen{out: termenv.NewOutput(w)}
}

func (t termScreen) Clear() {
	t.out.ClearScreen()
}

// --- line prompter ---

// LinePrompter reads newline-terminated questions, for piped input.
type LinePrompter struct {
	scanner *bufio.Scanner
}

func NewLinePrompter(r io.Reader) *LinePrompter {
	return &LinePrompter{scanner: bufio.NewScanner(r)}
}

func (p *LinePrompter) Prompt(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

// --- bubbletea prompter ---

type TeaPrompter struct {
	in  io.Reader
	out io.Writer
}

type promptModel struct {
	input textinput.Model
	value string
	err   error
	done  bool
}

func newPromptModel() promptModel {
	ti := textinput.New()
	ti.Prompt = "❯ "
	ti.CharLimit = 4096
	ti.Width = DividerWidth - 4
	ti.Focus()
	return promptModel{input: ti}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.value = m.input.Value()
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.err = ErrInterrupted
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlD:
			if m.input.Value() == "" {
				m.err = io.EOF
				m.done = true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done {
		return ""
	}
	return "\n" + labelStyle.Render(promptLabel) + "\n" + m.input.View()
}

func (p *TeaPrompter) Prompt(ctx context.Context) (string, error) {
	prog := tea.NewProgram(newPromptModel(),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)

	final, err := prog.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}

	m, ok := final.(promptModel)
	if !ok {
		return "", errors.New("unexpected prompt model")
	}
	if m.err != nil {
		return "", m.err
	}
	return m.value, nil
}

// --- spinner ---

type SpinnerWaiter struct {
	in  io.Reader
	out io.Writer
}

type doneMsg struct{}

type spinnerModel struct {
	spinner     spinner.Model
	label       string
	done        bool
	interrupted bool
}

func newSpinnerModel(label string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return spinnerModel{spinner: s, label: label}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.interrupted = true
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + spinnerStyle.Render(m.label)
}

// Wait runs fn in the background while the spinner is drawn. Ctrl-C cancels fn.
func (w *SpinnerWaiter) Wait(ctx context.Context, label string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prog := tea.NewProgram(newSpinnerModel(label),
		tea.WithContext(ctx),
		tea.WithInput(w.in),
		tea.WithOutput(w.out),
	)

	errCh := make(chan error, 1)
	go func() {
		err := fn(ctx)
		errCh <- err
		prog.Send(doneMsg{})
	}()

	final, runErr := prog.Run()
	if m, ok := final.(spinnerModel); ok && m.interrupted {
		cancel()
		<-errCh
		return ErrInterrupted
	}
	if runErr != nil {
		cancel()
	}

	return <-errCh
}
