package command

import (
	"github.com/sandevgo/tuskswarm/internal/service/router"
	"github.com/sandevgo/tuskswarm/internal/service/state"
)

type Conversations interface {
	Reset(key string) string
	Get(key string) state.Conversation
}

type AgentLister interface {
	Agents() []router.Descriptor
}

// NewRouter builds the chat command set: /clear, /agent and /help, with /start as /help.
func NewRouter(conv Conversations, agents AgentLister) *Router {
	r := New(
		NewClearCommand(conv),
		NewAgentCommand(conv, agents),
	)
	r.Register(NewHelpCommand(r))
	r.Alias("start", "help")
	return r
}
