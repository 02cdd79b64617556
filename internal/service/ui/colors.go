package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/tuskswarm/internal/core"
)

var (
	// TitleStyle ANSI 6 (Cyan) reads well on light and dark themes
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	// UsageStyle ANSI 2 (Green) for arguments and usage lines
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle ANSI 8 (Bright Black / Gray) keeps descriptions quiet
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// FlagStyle ANSI 3 (Yellow) for flags
	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Badge is how a transcript sender is presented.
type Badge struct {
	Title string
	Color lipgloss.Color
}

var (
	UserBadge = Badge{Title: "📝 User", Color: lipgloss.Color("4")}

	agentBadges = map[string]Badge{
		core.AgentCoordinator: {Title: "🎯 Coordinator", Color: lipgloss.Color("3")},
		core.AgentSQL:         {Title: "💾 SQL Agent", Color: lipgloss.Color("2")},
		core.AgentRAG:         {Title: "📚 RAG Agent", Color: lipgloss.Color("5")},
	}
)

// BadgeFor picks the badge of a transcript message. Unknown senders are white.
func BadgeFor(msg core.Message) Badge {
	if msg.Role == core.RoleUser {
		return UserBadge
	}
	if b, ok := agentBadges[msg.Sender]; ok {
		return b
	}
	title := msg.Sender
	if title == "" {
		title = msg.Role
	}
	return Badge{Title: title, Color: lipgloss.Color("7")}
}
