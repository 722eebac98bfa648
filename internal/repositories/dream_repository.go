package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"lucidly/internal/models/db_models"
)

// Dream columns a user may edit directly.
const (
	ColTitle   = "title"
	ColContent = "content"
	ColMood    = "mood"
	ColTags    = "tags"
)

var editableDreamColumns = map[string]bool{
	ColTitle: true, ColContent: true, ColMood: true, ColTags: true,
}

type DreamRepository interface {
	Insert(ctx context.Context, dream *db_models.Dream) error
	// FindByIdAndOwner returns (nil, nil) for unknown ids and for dreams owned
	// by someone else.
	FindByIdAndOwner(ctx context.Context, id, owner uuid.UUID) (*db_models.Dream, error)
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]db_models.Dream, error)
	Update(ctx context.Context, id, owner uuid.UUID, fields map[string]interface{}) (bool, error)
	ApplyEnrichment(ctx context.Context, id, owner uuid.UUID, kind db_models.EnrichmentKind, value string) (bool, error)
	Delete(ctx context.Context, id, owner uuid.UUID) (bool, error)
	DeleteByOwner(ctx context.Context, owner uuid.UUID) error
	ListPublicEnriched(ctx context.Context, limit int) ([]db_models.Dream, error)
}

type dreamRepository struct {
	db *gorm.DB
}

func NewDreamRepository(db *gorm.DB) DreamRepository {
	return &dreamRepository{db: db}
}

func (r *dreamRepository) Insert(ctx context.Context, dream *db_models.Dream) error {
	return r.db.WithContext(ctx).Create(dream).Error
}

func (r *dreamRepository) FindByIdAndOwner(ctx context.Context, id, owner uuid.UUID) (*db_models.Dream, error) {
	var dream db_models.Dream
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, owner).
		First(&dream).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dream, nil
}

func (r *dreamRepository) ListByOwner(ctx context.Context, owner uuid.UUID) ([]db_models.Dream, error) {
	var dreams []db_models.Dream
	err := r.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("created_at DESC").
		Find(&dreams).Error
	if err != nil {
		return nil, err
	}
	return dreams, nil
}

func (r *dreamRepository) Update(ctx context.Context, id, owner uuid.UUID, fields map[string]interface{}) (bool, error) {
	updates := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		if editableDreamColumns[k] {
			updates[k] = v
		}
	}
	updates["updated_at"] = time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&db_models.Dream{}).
		Where("id = ? AND user_id = ?", id, owner).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *dreamRepository) ApplyEnrichment(ctx context.Context, id, owner uuid.UUID, kind db_models.EnrichmentKind, value string) (bool, error) {
	if !kind.Valid() {
		return false, errors.New("unknown enrichment kind: " + string(kind))
	}
	res := r.db.WithContext(ctx).
		Model(&db_models.Dream{}).
		Where("id = ? AND user_id = ?", id, owner).
		Updates(map[string]interface{}{
			kind.SlotColumn(): value,
			"is_public":       true,
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *dreamRepository) Delete(ctx context.Context, id, owner uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, owner).
		Delete(&db_models.Dream{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *dreamRepository) DeleteByOwner(ctx context.Context, owner uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", owner).Delete(&db_models.Dream{}).Error
}

func (r *dreamRepository) ListPublicEnriched(ctx context.Context, limit int) ([]db_models.Dream, error) {
	var dreams []db_models.Dream
	err := r.db.WithContext(ctx).
		Where("is_public = ? AND (image IS NOT NULL OR video IS NOT NULL OR interpretation IS NOT NULL)", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&dreams).Error
	if err != nil {
		return nil, err
	}
	return dreams, nil
}
