package command

import "context"

type ClearCommand struct {
	conv Conversations
}

func NewClearCommand(conv Conversations) *ClearCommand {
	return &ClearCommand{conv: conv}
}

func (c *ClearCommand) Name() string        { return "clear" }
func (c *ClearCommand) Description() string { return "Forget the conversation and start over" }

// Execute starts a fresh session; the next question goes to the coordinator.
func (c *ClearCommand) Execute(ctx context.Context, chatKey string, args []string) (string, error) {
	id := c.conv.Reset(chatKey)
	return join(
		success("Conversation cleared"),
		label("Session", id),
	), nil
}
