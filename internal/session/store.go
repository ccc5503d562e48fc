package session

import (
	"context"
	"time"
)

// Store defines the interface for session persistence operations
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes sessions last updated before cutoff and
	// returns how many were removed
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)
}
