package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/sandevgo/tuskswarm/internal/service/router"
	"github.com/sandevgo/tuskswarm/pkg/log"
)

type Dispatcher interface {
	Run(ctx context.Context, current string, transcript []core.Message) (router.Response, error)
}

// Conversation is the routing state of one chat.
type Conversation struct {
	ID         string
	Agent      string
	Transcript []core.Message
}

type entry struct {
	mu      sync.Mutex
	conv    Conversation
	started bool
}

// Conversations keeps one transcript per chat key. Turns within a chat are
// serialized, different chats run concurrently.
type Conversations struct {
	dispatcher Dispatcher
	journal    core.JournalRepository
	transport  string

	mu    sync.Mutex
	items map[string]*entry
}

// NewConversations creates the store. journal may be nil.
func NewConversations(d Dispatcher, journal core.JournalRepository, transport string) *Conversations {
	return &Conversations{
		dispatcher: d,
		journal:    journal,
		transport:  transport,
		items:      make(map[string]*entry),
	}
}

func newConversation() Conversation {
	return Conversation{ID: uuid.NewString(), Agent: core.AgentCoordinator}
}

func (c *Conversations) entry(key string) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		e = &entry{conv: newConversation()}
		c.items[key] = e
	}
	return e
}

// Ask runs one turn for the chat and returns the messages it produced,
// starting with the question itself.
func (c *Conversations) Ask(ctx context.Context, key, question string) ([]core.Message, error) {
	e := c.entry(key)
	e.mu.Lock()
	defer e.mu.Unlock()

	transcript := append(e.conv.Transcript, core.UserMessage(question))
	turnStart := len(transcript) - 1

	resp, err := c.dispatcher.Run(ctx, e.conv.Agent, transcript)
	if len(resp.Messages) > turnStart {
		transcript = resp.Messages
	}
	e.conv.Transcript = transcript
	if resp.Agent != "" {
		e.conv.Agent = resp.Agent
	}

	turn := make([]core.Message, len(transcript)-turnStart)
	copy(turn, transcript[turnStart:])
	c.record(ctx, e, turn)

	if err != nil {
		return turn, fmt.Errorf("failed to dispatch: %w", err)
	}
	return turn, nil
}

// Reset starts a fresh conversation for the chat and returns its new ID.
func (c *Conversations) Reset(key string) string {
	e := c.entry(key)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.conv = newConversation()
	e.started = false
	return e.conv.ID
}

// Get returns a copy of the chat state.
func (c *Conversations) Get(key string) Conversation {
	e := c.entry(key)
	e.mu.Lock()
	defer e.mu.Unlock()

	conv := e.conv
	conv.Transcript = append([]core.Message(nil), e.conv.Transcript...)
	return conv
}

func (c *Conversations) record(ctx context.Context, e *entry, msgs []core.Message) {
	if c.journal == nil {
		return
	}
	logger := log.FromCtx(ctx)

	if !e.started {
		if err := c.journal.StartSession(ctx, e.conv.ID, c.transport); err != nil {
			logger.Warn().Err(err).Msg("failed to start journal session")
			return
		}
		e.started = true
	}
	for _, msg := range msgs {
		if err := c.journal.AddMessage(ctx, e.conv.ID, msg); err != nil {
			logger.Warn().Err(err).Str("session", e.conv.ID).Msg("failed to journal message")
			return
		}
	}
}
