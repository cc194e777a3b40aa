package ports

import (
	"context"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/domain"
)

// SessionStore persists gateway sessions for the lifetime of a browser visit.
// Implementations: in-memory (dev, tests) and Redis.
//
// Write access is deliberately narrow: only the auth service is handed the
// full store; everything else sees sessions read-only through the request
// context.
type SessionStore interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Put(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
}
