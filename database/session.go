package database

import (
	"context"

	"gorm.io/gorm"
)

// SessionProvider hands out request-scoped database sessions.
type SessionProvider interface {
	// WithSession runs fn on a dedicated connection bound to ctx. The
	// connection is released when fn returns or panics.
	WithSession(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// GormSessions is the SessionProvider backed by a gorm connection pool.
type GormSessions struct {
	DB *gorm.DB
}

func NewSessionProvider(db *gorm.DB) *GormSessions {
	return &GormSessions{DB: db}
}

func (s *GormSessions) WithSession(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.DB.WithContext(ctx).Connection(fn)
}
