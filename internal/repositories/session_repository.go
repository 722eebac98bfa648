package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"lucidly/internal/models/db_models"
)

type SessionRepository interface {
	Insert(ctx context.Context, session *db_models.Session) error
	// FindByToken returns (nil, nil) when no session matches.
	FindByToken(ctx context.Context, token string) (*db_models.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (s *sessionRepository) Insert(ctx context.Context, session *db_models.Session) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s *sessionRepository) FindByToken(ctx context.Context, token string) (*db_models.Session, error) {
	var session db_models.Session
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (s *sessionRepository) DeleteByToken(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Where("token = ?", token).Delete(&db_models.Session{}).Error
}

func (s *sessionRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&db_models.Session{}).Error
}
