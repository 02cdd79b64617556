package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

type AgentCommand struct {
	conv   Conversations
	agents AgentLister
}

func NewAgentCommand(conv Conversations, agents AgentLister) *AgentCommand {
	return &AgentCommand{conv: conv, agents: agents}
}

func (c *AgentCommand) Name() string        { return "agent" }
func (c *AgentCommand) Description() string { return "Show which agent holds the conversation" }

func (c *AgentCommand) Execute(ctx context.Context, chatKey string, args []string) (string, error) {
	conv := c.conv.Get(chatKey)

	descriptors := c.agents.Agents()
	items := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		marker := ""
		if d.Name == conv.Agent {
			marker = " ◂"
		}
		items = append(items, fmt.Sprintf("**%s**%s: %s", d.Name, marker, firstSentence(d.Instructions)))
	}

	return join(
		heading("Current Agent"),
		label("Agent", conv.Agent),
		label("Messages", strconv.Itoa(len(conv.Transcript))),
		"🧭 **Agents**\n"+bullets(items),
		tip("questions about the music store go to the SQL Agent, research questions to the RAG Agent"),
	), nil
}

func firstSentence(s string) string {
	if i := strings.Index(s, ". "); i >= 0 {
		return s[:i+1]
	}
	return s
}
