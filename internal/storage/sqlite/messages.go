package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/sandevgo/tuskswarm/pkg/log"
)

// MessagesRepo is the session journal: every transcript message, grouped by session.
type MessagesRepo struct {
	db *sql.DB
}

func NewMessagesRepo(db *sql.DB) *MessagesRepo {
	return &MessagesRepo{db: db}
}

func (h *MessagesRepo) StartSession(ctx context.Context, sessionID, transport string) error {
	_, err := h.db.ExecContext(ctx,
		`INSERT INTO sessions (id, transport) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`,
		sessionID, transport)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	return nil
}

func (h *MessagesRepo) AddMessage(ctx context.Context, sessionID string, msg core.Message) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Keep the session row current
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id) VALUES (?) ON CONFLICT(id) DO UPDATE SET updated_at = CURRENT_TIMESTAMP`,
		sessionID)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	if msg.Sender != "" {
		if _, err = tx.ExecContext(ctx, `UPDATE sessions SET agent = ? WHERE id = ?`, msg.Sender, sessionID); err != nil {
			return fmt.Errorf("failed to record session agent: %w", err)
		}
	}

	// 2. Append the message
	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, sender, content) VALUES (?, ?, ?, ?)`,
		sessionID, msg.Role, msg.Sender, msg.Content)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	return tx.Commit()
}

func (h *MessagesRepo) GetMessages(ctx context.Context, sessionID string, limit int) ([]core.Message, error) {
	// Fetch the LAST 'limit' messages by ordering DESC
	query := `SELECT role, sender, content FROM messages WHERE session_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := h.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []core.Message
	for rows.Next() {
		var msg core.Message
		if err := rows.Scan(&msg.Role, &msg.Sender, &msg.Content); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Back to chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	log.FromCtx(ctx).Debug().Int("count", len(messages)).Msg("loaded journal messages")
	return messages, nil
}

// LastAgent returns the agent that last held the session, or the coordinator.
func (h *MessagesRepo) LastAgent(ctx context.Context, sessionID string) (string, error) {
	var agent string
	err := h.db.QueryRowContext(ctx, `SELECT agent FROM sessions WHERE id = ?`, sessionID).Scan(&agent)
	if errors.Is(err, sql.ErrNoRows) {
		return core.AgentCoordinator, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session agent: %w", err)
	}
	if agent == "" {
		return core.AgentCoordinator, nil
	}
	return agent, nil
}

func (h *MessagesRepo) ListSessions(ctx context.Context, limit int) ([]core.SessionSummary, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT s.id, s.started_at, s.updated_at,
			(SELECT COUNT(*) FROM messages m WHERE m.session_id = s.id),
			COALESCE((SELECT content FROM messages m WHERE m.session_id = s.id AND m.role = 'user' ORDER BY m.id LIMIT 1), '')
		FROM sessions s
		ORDER BY s.updated_at DESC, s.rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []core.SessionSummary
	for rows.Next() {
		var s core.SessionSummary
		if err := rows.Scan(&s.ID, &s.StartedAt, &s.UpdatedAt, &s.Messages, &s.FirstAsk); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
