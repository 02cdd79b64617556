package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/sandevgo/tuskswarm/internal/service/ui"
	"github.com/sandevgo/tuskswarm/pkg/conv"
)

const DividerWidth = 80

var Divider = strings.Repeat("─", DividerWidth)

// GroupTurns splits a transcript into turns. A user message opens a turn and
// the agent messages after it join that turn. Empty messages are dropped.
func GroupTurns(msgs []core.Message) [][]core.Message {
	var groups [][]core.Message
	for _, m := range msgs {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		if m.Role == core.RoleUser || len(groups) == 0 {
			groups = append(groups, []core.Message{m})
			continue
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], m)
	}
	return groups
}

// Renderer prints transcripts as titled panels, one divider per turn.
type Renderer struct {
	Width int
}

func NewRenderer() *Renderer {
	return &Renderer{Width: DividerWidth}
}

func (r *Renderer) Render(w io.Writer, msgs []core.Message) error {
	lr := lipgloss.NewRenderer(w)
	dim := lr.NewStyle().Faint(true)

	for _, group := range GroupTurns(msgs) {
		if _, err := fmt.Fprintln(w, dim.Render(Divider)); err != nil {
			return err
		}
		for _, msg := range group {
			if _, err := fmt.Fprintln(w, r.panel(lr, msg)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) panel(lr *lipgloss.Renderer, msg core.Message) string {
	badge := ui.BadgeFor(msg)

	body := msg.Content
	if msg.Role != core.RoleUser {
		body = conv.MarkdownToTerminal(msg.Content)
	}

	title := lr.NewStyle().Bold(true).Foreground(badge.Color).Render(badge.Title)
	box := lr.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(badge.Color).
		Padding(0, 2).
		Width(r.Width - 4).
		Render(body)

	return title + "\n" + box
}
