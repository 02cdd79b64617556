package command

import (
	"context"
	"fmt"
)

type lister interface {
	ListCommands() []Command
}

type HelpCommand struct {
	commands lister
}

func NewHelpCommand(commands lister) *HelpCommand {
	return &HelpCommand{commands: commands}
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "List available commands" }

func (c *HelpCommand) Execute(ctx context.Context, chatKey string, args []string) (string, error) {
	cmds := c.commands.ListCommands()
	items := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		items = append(items, fmt.Sprintf("`/%s` %s", cmd.Name(), cmd.Description()))
	}

	return join(
		heading("Commands"),
		bullets(items),
		tip("anything that is not a command is answered by the agents"),
	), nil
}
