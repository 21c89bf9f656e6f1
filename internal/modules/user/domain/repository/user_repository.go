package repository

import (
	"context"

	"midorisky/internal/modules/user/domain/entity"
)

// UserRepository doubles as the identity directory for the notification
// pipeline: ResolveEmails skips usernames without a resolvable address
// instead of failing.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	ResolveEmails(ctx context.Context, usernames []string) ([]string, error)
}
