package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/sandevgo/tuskswarm/internal/service/router"
	"github.com/sandevgo/tuskswarm/pkg/log"
)

const (
	transportName = "cli"

	cmdQuit  = "quit"
	cmdClear = "clear"

	thinkingLabel = "🤔 Processing your query..."
)

var (
	ErrQuit        = errors.New("session closed by user")
	ErrInterrupted = errors.New("interrupted")
)

type State int

const (
	StateAwaitingInput State = iota
	StateDispatching
	StateRendering
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateAwaitingInput:
		return "awaiting-input"
	case StateDispatching:
		return "dispatching"
	case StateRendering:
		return "rendering"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Prompter interface {
	// Prompt blocks until a line is entered. io.EOF and ErrInterrupted end the session.
	Prompt(ctx context.Context) (string, error)
}

type Dispatcher interface {
	Run(ctx context.Context, current string, transcript []core.Message) (router.Response, error)
}

// Waiter runs fn while showing progress to the user.
type Waiter interface {
	Wait(ctx context.Context, label string, fn func(ctx context.Context) error) error
}

type Screen interface {
	Clear()
}

type WaiterFunc func(ctx context.Context, label string, fn func(ctx context.Context) error) error

func (f WaiterFunc) Wait(ctx context.Context, label string, fn func(ctx context.Context) error) error {
	return f(ctx, label, fn)
}

var silentWaiter = WaiterFunc(func(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
})

type Option func(*Session)

func WithJournal(j core.JournalRepository) Option {
	return func(s *Session) { s.journal = j }
}

func WithWaiter(w Waiter) Option {
	return func(s *Session) { s.waiter = w }
}

func WithScreen(sc Screen) Option {
	return func(s *Session) { s.screen = sc }
}

// Session is the interactive question loop. It owns the transcript and the
// agent currently holding the conversation.
type Session struct {
	out        io.Writer
	prompter   Prompter
	dispatcher Dispatcher
	renderer   *Renderer
	waiter     Waiter
	screen     Screen
	journal    core.JournalRepository

	id         string
	started    bool
	agent      string
	transcript []core.Message
	state      State
}

func NewSession(out io.Writer, p Prompter, d Dispatcher, opts ...Option) *Session {
	s := &Session{
		out:        out,
		prompter:   p,
		dispatcher: d,
		renderer:   NewRenderer(),
		waiter:     silentWaiter,
		screen:     NewScreen(out),
		id:         uuid.NewString(),
		agent:      core.AgentCoordinator,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() string    { return s.id }
func (s *Session) Agent() string { return s.agent }
func (s *Session) State() State  { return s.state }

func (s *Session) Transcript() []core.Message {
	out := make([]core.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Start runs the loop until quit, EOF, interrupt or context cancellation.
func (s *Session) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	s.welcome()

	for {
		s.state = StateAwaitingInput

		line, err := s.prompter.Prompt(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, ErrInterrupted) || ctx.Err() != nil {
				s.close()
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		err = s.Handle(ctx, line)
		switch {
		case err == nil:
		case errors.Is(err, ErrQuit):
			s.close()
			return nil
		case errors.Is(err, ErrInterrupted):
			fmt.Fprintln(s.out, "Query cancelled.")
		default:
			logger.Error().Err(err).Str("session", s.id).Msg("Error processing query")
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

// Handle processes one line of input.
func (s *Session) Handle(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	switch strings.ToLower(line) {
	case cmdQuit:
		s.state = StateClosed
		return ErrQuit
	case cmdClear:
		s.Reset()
		s.screen.Clear()
		s.welcome()
		return nil
	}

	return s.ask(ctx, line)
}

// Reset drops the transcript, returns the turn to the coordinator and starts a new journal session.
func (s *Session) Reset() {
	s.transcript = nil
	s.agent = core.AgentCoordinator
	s.id = uuid.NewString()
	s.started = false
	s.state = StateAwaitingInput
}

func (s *Session) ask(ctx context.Context, question string) error {
	s.state = StateDispatching
	s.transcript = append(s.transcript, core.UserMessage(question))
	turnStart := len(s.transcript) - 1

	var resp router.Response
	err := s.waiter.Wait(ctx, thinkingLabel, func(ctx context.Context) error {
		var runErr error
		resp, runErr = s.dispatcher.Run(ctx, s.agent, s.transcript)
		return runErr
	})
	if len(resp.Messages) > turnStart {
		s.transcript = resp.Messages
	}
	if resp.Agent != "" {
		s.agent = resp.Agent
	}

	s.state = StateRendering
	turn := s.transcript[turnStart:]
	s.record(ctx, turn)
	if renderErr := s.renderer.Render(s.out, turn); renderErr != nil {
		log.FromCtx(ctx).Warn().Err(renderErr).Msg("failed to render turn")
	}
	s.state = StateAwaitingInput

	if err != nil {
		return fmt.Errorf("failed to dispatch: %w", err)
	}
	return nil
}

func (s *Session) record(ctx context.Context, msgs []core.Message) {
	if s.journal == nil {
		return
	}
	logger := log.FromCtx(ctx)

	if !s.started {
		if err := s.journal.StartSession(ctx, s.id, transportName); err != nil {
			logger.Warn().Err(err).Msg("failed to start journal session")
			return
		}
		s.started = true
	}
	for _, msg := range msgs {
		if err := s.journal.AddMessage(ctx, s.id, msg); err != nil {
			logger.Warn().Err(err).Msg("failed to journal message")
			return
		}
	}
}

func (s *Session) welcome() {
	lr := lipglossRenderer(s.out)
	fmt.Fprintln(s.out, lr.NewStyle().Bold(true).Foreground(welcomeColor).Render("Welcome to the Swarm CLI!"))
	fmt.Fprintln(s.out, lr.NewStyle().Bold(true).Render("Type 'quit' to exit, 'clear' to start over"))
}

func (s *Session) close() {
	s.state = StateClosed
	lr := lipglossRenderer(s.out)
	fmt.Fprintln(s.out, "\n"+lr.NewStyle().Bold(true).Foreground(farewellColor).Render("Gracefully shutting down..."))
}
