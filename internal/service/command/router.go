package command

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Command is a slash command answered without involving the agents.
type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, chatKey string, args []string) (string, error)
}

// Router dispatches slash commands. Anything else is left for the agents.
type Router struct {
	commands map[string]Command
	aliases  map[string]string
}

func New(commands ...Command) *Router {
	r := &Router{
		commands: make(map[string]Command, len(commands)),
		aliases:  make(map[string]string),
	}
	for _, cmd := range commands {
		r.Register(cmd)
	}
	return r
}

func (r *Router) Register(cmd Command) {
	r.commands[cmd.Name()] = cmd
}

// Alias makes /from behave like /to. Aliases are not listed.
func (r *Router) Alias(from, to string) {
	r.aliases[from] = to
}

// Execute runs input as a command. It reports false when input is not a command.
func (r *Router) Execute(ctx context.Context, chatKey, input string) (string, bool) {
	name, args, ok := parse(input)
	if !ok {
		return "", false
	}
	if target, ok := r.aliases[name]; ok {
		name = target
	}

	cmd, ok := r.commands[name]
	if !ok {
		return fmt.Sprintf("Unknown command: /%s. Try /help.", name), true
	}

	out, err := cmd.Execute(ctx, chatKey, args)
	if err != nil {
		return failure(name, err), true
	}
	return out, true
}

// parse splits "/name@bot arg..." into a lowercased name and its arguments.
func parse(input string) (string, []string, bool) {
	fields := strings.Fields(input)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, false
	}
	// Telegram appends the bot name in groups: /clear@tuskswarm_bot
	name, _, _ := strings.Cut(strings.TrimPrefix(fields[0], "/"), "@")
	if name == "" {
		return "", nil, false
	}
	return strings.ToLower(name), fields[1:], true
}

// ListCommands returns the registered commands sorted by name.
func (r *Router) ListCommands() []Command {
	out := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
