package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/sandevgo/tuskswarm/pkg/log"
)

const DefaultMaxHandoffs = 4

var (
	ErrTooManyHandoffs = errors.New("too many hand-offs between agents")
	ErrNoQuestion      = errors.New("transcript has no user message")
)

type Response struct {
	// Messages is the full transcript including this turn.
	Messages []core.Message
	// Agent answered the turn and holds the conversation for the next one.
	Agent string
}

// Dispatcher runs agents in a loop, following transfers until one answers.
type Dispatcher struct {
	agents  map[string]Agent
	maxHops int
}

func NewDispatcher(maxHops int, agents ...Agent) *Dispatcher {
	if maxHops <= 0 {
		maxHops = DefaultMaxHandoffs
	}
	d := &Dispatcher{agents: make(map[string]Agent, len(agents)), maxHops: maxHops}
	for _, a := range agents {
		d.agents[a.Descriptor().Name] = a
	}
	return d
}

// Resolve maps an agent name to an agent. Unknown names fall back to the coordinator.
func (d *Dispatcher) Resolve(name string) Agent {
	if a, ok := d.agents[name]; ok {
		return a
	}
	return d.agents[core.AgentCoordinator]
}

func (d *Dispatcher) Agents() []Descriptor {
	out := make([]Descriptor, 0, len(d.agents))
	for _, name := range []string{core.AgentCoordinator, core.AgentRAG, core.AgentSQL} {
		if a, ok := d.agents[name]; ok {
			out = append(out, a.Descriptor())
		}
	}
	return out
}

func (d *Dispatcher) Run(ctx context.Context, current string, transcript []core.Message) (Response, error) {
	logger := log.FromCtx(ctx)

	question, ok := core.LastUserContent(transcript)
	if !ok {
		return Response{Messages: transcript, Agent: current}, ErrNoQuestion
	}

	msgs := make([]core.Message, len(transcript), len(transcript)+d.maxHops+1)
	copy(msgs, transcript)

	agent := d.Resolve(current)
	if agent == nil {
		return Response{Messages: msgs, Agent: current}, fmt.Errorf("no agent registered for %q", current)
	}

	for hop := 0; ; hop++ {
		if err := ctx.Err(); err != nil {
			return Response{Messages: msgs, Agent: agent.Descriptor().Name}, err
		}

		name := agent.Descriptor().Name
		res := agent.Handle(ctx, question)

		if res.Kind == core.ResultAnswer {
			msgs = append(msgs, core.AgentMessage(name, res.Answer))
			logger.Debug().Str("agent", name).Int("hops", hop).Msg("turn answered")
			return Response{Messages: msgs, Agent: name}, nil
		}

		if hop >= d.maxHops {
			return Response{Messages: msgs, Agent: name}, fmt.Errorf("%w: gave up after %d", ErrTooManyHandoffs, hop)
		}

		next := d.Resolve(res.Next)
		nextName := next.Descriptor().Name
		logger.Info().Str("from", name).Str("to", nextName).Msgf("Transferring to %s", nextName)
		msgs = append(msgs, core.AgentMessage(name, fmt.Sprintf("Transferring to **%s**.", nextName)))
		agent = next
	}
}

// NewSwarm wires the coordinator and both specialists behind one dispatcher.
func NewSwarm(c core.Classifier, rag, sql Answerer, maxHops int) *Dispatcher {
	c = Memo(c)
	return NewDispatcher(maxHops,
		NewCoordinator(c),
		NewRAGAgent(c, rag),
		NewSQLAgent(c, sql),
	)
}
