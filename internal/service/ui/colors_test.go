package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestBadgeFor(t *testing.T) {
	tests := []struct {
		name  string
		msg   core.Message
		title string
		color lipgloss.Color
	}{
		{"user", core.UserMessage("q"), "📝 User", "4"},
		{"coordinator", core.AgentMessage(core.AgentCoordinator, "a"), "🎯 Coordinator", "3"},
		{"sql", core.AgentMessage(core.AgentSQL, "a"), "💾 SQL Agent", "2"},
		{"rag", core.AgentMessage(core.AgentRAG, "a"), "📚 RAG Agent", "5"},
		{"unknown sender", core.AgentMessage("Critic", "a"), "Critic", "7"},
		{"no sender", core.Message{Role: core.RoleAssistant, Content: "a"}, core.RoleAssistant, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := BadgeFor(tt.msg)
			assert.Equal(t, tt.title, b.Title)
			assert.Equal(t, tt.color, b.Color)
		})
	}
}
