package persistence

import (
	"context"

	"midorisky/internal/modules/notify/domain/entity"
	"midorisky/internal/modules/notify/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type connectionRegistryImpl struct {
	db *gorm.DB
}

func NewConnectionRegistry(db *gorm.DB) repository.ConnectionRegistry {
	return &connectionRegistryImpl{db: db}
}

// Associate upserts the mapping; a re-announce from the same connection
// wins last-write.
func (r *connectionRegistryImpl) Associate(ctx context.Context, connectionID, username string) error {
	row := &entity.WsConnection{
		ConnectionID: connectionID,
		Username:     username,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "connection_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username"}),
		}).
		Create(row).Error
}

func (r *connectionRegistryImpl) Dissociate(ctx context.Context, connectionID string) error {
	return r.db.WithContext(ctx).
		Where("connection_id = ?", connectionID).
		Delete(&entity.WsConnection{}).Error
}

func (r *connectionRegistryImpl) LookupConnections(ctx context.Context, username string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&entity.WsConnection{}).
		Where("username = ?", username).
		Pluck("connection_id", &ids).Error
	return ids, err
}
