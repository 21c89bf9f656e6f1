package persistence

import (
	"context"
	"strconv"
	"time"

	"midorisky/internal/modules/notify/domain/entity"
	"midorisky/internal/modules/notify/domain/repository"
	"midorisky/pkg/redis"

	"gorm.io/gorm"
)

const unreadCounterTTL = 24 * time.Hour

type notificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepositoryImpl{db: db}
}

func (r *notificationRepositoryImpl) Create(ctx context.Context, n *entity.Notification) error {
	// gorm fills n.ID from the insert; no recency read-back needed.
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return err
	}
	r.bumpUnread(ctx, n.Username)
	return nil
}

func (r *notificationRepositoryImpl) ListByUser(ctx context.Context, username string, limit int) ([]*entity.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var notifs []*entity.Notification
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifs).Error
	return notifs, err
}

func (r *notificationRepositoryImpl) MarkRead(ctx context.Context, username string, id int64) error {
	err := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("id = ? AND username = ?", id, username).
		Update("is_read", true).Error
	if err != nil {
		return err
	}
	r.invalidateUnread(ctx, username)
	return nil
}

func (r *notificationRepositoryImpl) MarkAllRead(ctx context.Context, username string) error {
	err := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("username = ? AND is_read = ?", username, false).
		Update("is_read", true).Error
	if err != nil {
		return err
	}
	r.invalidateUnread(ctx, username)
	return nil
}

func (r *notificationRepositoryImpl) CountUnread(ctx context.Context, username string) (int64, error) {
	if redis.IsConnected() {
		if v, err := redis.Get(ctx, unreadKey(username)); err == nil {
			if count, perr := strconv.ParseInt(v, 10, 64); perr == nil {
				return count, nil
			}
		}
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("username = ? AND is_read = ?", username, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	if redis.IsConnected() {
		_ = redis.Set(ctx, unreadKey(username), count, unreadCounterTTL)
	}
	return count, nil
}

// bumpUnread keeps the cached counter warm; a cache failure is never a
// write failure.
func (r *notificationRepositoryImpl) bumpUnread(ctx context.Context, username string) {
	if !redis.IsConnected() {
		return
	}
	_, _ = redis.Incr(ctx, unreadKey(username))
}

func (r *notificationRepositoryImpl) invalidateUnread(ctx context.Context, username string) {
	if !redis.IsConnected() {
		return
	}
	_, _ = redis.Del(ctx, unreadKey(username))
}

func unreadKey(username string) string {
	return "notify:unread:" + username
}
