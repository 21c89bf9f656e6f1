package persistence

import (
	"context"
	"errors"

	"midorisky/internal/modules/user/domain/entity"
	"midorisky/internal/modules/user/domain/repository"

	"gorm.io/gorm"
)

type userRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepositoryImpl{db: db}
}

func (r *userRepositoryImpl) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepositoryImpl) ResolveEmails(ctx context.Context, usernames []string) ([]string, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	var emails []string
	err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("username IN ? AND email <> ''", usernames).
		Pluck("email", &emails).Error
	return emails, err
}
