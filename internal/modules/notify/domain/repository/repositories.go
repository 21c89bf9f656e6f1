package repository

import (
	"context"

	"midorisky/internal/modules/notify/domain/entity"
)

type NotificationRepository interface {
	// Create persists the row and fills in the store-assigned ID.
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, username string, limit int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, username string, id int64) error
	MarkAllRead(ctx context.Context, username string) error
	CountUnread(ctx context.Context, username string) (int64, error)
}

// ConnectionRegistry maps live transport connections to usernames. All
// three mutators are idempotent; the registry is touched by the connect
// hook, the disconnect hook and stale-push pruning with no coordination
// beyond single-row atomicity.
type ConnectionRegistry interface {
	Associate(ctx context.Context, connectionID, username string) error
	Dissociate(ctx context.Context, connectionID string) error
	LookupConnections(ctx context.Context, username string) ([]string, error)
}
