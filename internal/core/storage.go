package core

import (
	"context"
	"time"
)

type JournalRepository interface {
	StartSession(ctx context.Context, sessionID, transport string) error
	AddMessage(ctx context.Context, sessionID string, msg Message) error
	GetMessages(ctx context.Context, sessionID string, limit int) ([]Message, error)
	ListSessions(ctx context.Context, limit int) ([]SessionSummary, error)
}

type SessionSummary struct {
	ID        string    `json:"id"`
	Messages  int       `json:"messages"`
	FirstAsk  string    `json:"first_ask"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
