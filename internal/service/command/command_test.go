package command

import (
	"context"
	"errors"
	"testing"

	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/sandevgo/tuskswarm/internal/service/router"
	"github.com/sandevgo/tuskswarm/internal/service/state"
	"github.com/stretchr/testify/assert"
)

type fakeConversations struct {
	resets map[string]int
	conv   state.Conversation
}

func (f *fakeConversations) Reset(key string) string {
	if f.resets == nil {
		f.resets = map[string]int{}
	}
	f.resets[key]++
	return "new-session-id"
}

func (f *fakeConversations) Get(key string) state.Conversation {
	return f.conv
}

type fakeAgents struct{}

func (fakeAgents) Agents() []router.Descriptor {
	return []router.Descriptor{
		{Name: core.AgentCoordinator, Instructions: "You route questions. Nothing else."},
		{Name: core.AgentSQL, Instructions: "You query the database."},
	}
}

type failingCommand struct{}

func (failingCommand) Name() string        { return "fail" }
func (failingCommand) Description() string { return "always fails" }
func (failingCommand) Execute(ctx context.Context, chatKey string, args []string) (string, error) {
	return "", errors.New("nope")
}

func TestRouter_Execute(t *testing.T) {
	conv := &fakeConversations{conv: state.Conversation{
		ID:         "abc",
		Agent:      core.AgentSQL,
		Transcript: []core.Message{core.UserMessage("q"), core.AgentMessage(core.AgentSQL, "a")},
	}}
	r := NewRouter(conv, fakeAgents{})
	r.Register(failingCommand{})
	ctx := context.Background()

	tests := []struct {
		name     string
		input    string
		handled  bool
		contains []string
	}{
		{name: "plain text passes through", input: "how many albums?", handled: false},
		{name: "unknown command", input: "/nope", handled: true, contains: []string{"Unknown command: /nope", "/help"}},
		{name: "bare slash is text", input: "/", handled: false},
		{name: "clear", input: "/clear", handled: true, contains: []string{"Conversation cleared", "new-session-id"}},
		{name: "bot suffix and case", input: "/CLEAR@tuskswarm_bot", handled: true, contains: []string{"Conversation cleared"}},
		{name: "agent", input: "/agent", handled: true, contains: []string{"SQL Agent", "`2`", "You route questions.", "◂"}},
		{name: "help", input: "/help", handled: true, contains: []string{"/agent", "/clear", "/help"}},
		{name: "start is help", input: "/start", handled: true, contains: []string{"Commands", "/clear"}},
		{name: "command error", input: "/fail", handled: true, contains: []string{"/fail failed", "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, handled := r.Execute(ctx, "chat-1", tt.input)
			assert.Equal(t, tt.handled, handled)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}

	assert.Equal(t, 2, conv.resets["chat-1"])
}

func TestRouter_ListCommandsSorted(t *testing.T) {
	r := NewRouter(&fakeConversations{}, fakeAgents{})

	var names []string
	for _, cmd := range r.ListCommands() {
		names = append(names, cmd.Name())
	}
	assert.Equal(t, []string{"agent", "clear", "help"}, names)
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		name  string
		args  []string
		ok    bool
	}{
		{input: "/clear", name: "clear", args: []string{}, ok: true},
		{input: "  /Agent@swarm_bot now  ", name: "agent", args: []string{"now"}, ok: true},
		{input: "/@bot", ok: false},
		{input: "hello /clear", ok: false},
		{input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			name, args, ok := parse(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.name, name)
				assert.Equal(t, tt.args, args)
			}
		})
	}
}

func TestFirstSentence(t *testing.T) {
	assert.Equal(t, "One.", firstSentence("One. Two."))
	assert.Equal(t, "No stop", firstSentence("No stop"))
}
