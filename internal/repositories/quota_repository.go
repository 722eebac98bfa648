package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"lucidly/internal/models/db_models"
)

type QuotaRepository interface {
	// Usage returns (nil, nil) when the account does not exist.
	Usage(ctx context.Context, userID uuid.UUID, kind db_models.EnrichmentKind) (*db_models.QuotaUsage, error)
	IsCommitted(ctx context.Context, reservationID uuid.UUID) (bool, error)
	// ConditionalIncrement bumps the used counter by one only if it still
	// equals observed and stays within the limit, then records the debit.
	// It reports false when the condition no longer holds.
	ConditionalIncrement(ctx context.Context, userID uuid.UUID, kind db_models.EnrichmentKind, observed int, reservationID uuid.UUID) (bool, error)
	Reset(ctx context.Context, userID uuid.UUID) error
	DeleteDebits(ctx context.Context, userID uuid.UUID) error
}

type quotaRepository struct {
	db *gorm.DB
}

func NewQuotaRepository(db *gorm.DB) QuotaRepository {
	return &quotaRepository{db: db}
}

func (q *quotaRepository) Usage(ctx context.Context, userID uuid.UUID, kind db_models.EnrichmentKind) (*db_models.QuotaUsage, error) {
	if !kind.Valid() {
		return nil, errors.New("unknown enrichment kind: " + string(kind))
	}
	var account db_models.Account
	err := q.db.WithContext(ctx).First(&account, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	usage := account.Usage(kind)
	return &usage, nil
}

func (q *quotaRepository) IsCommitted(ctx context.Context, reservationID uuid.UUID) (bool, error) {
	var count int64
	err := q.db.WithContext(ctx).
		Model(&db_models.QuotaDebit{}).
		Where("reservation_id = ?", reservationID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (q *quotaRepository) ConditionalIncrement(ctx context.Context, userID uuid.UUID, kind db_models.EnrichmentKind, observed int, reservationID uuid.UUID) (bool, error) {
	if !kind.Valid() {
		return false, errors.New("unknown enrichment kind: " + string(kind))
	}
	used, limit := kind.UsedColumn(), kind.LimitColumn()

	res := q.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("id = ? AND "+used+" = ? AND "+used+" < "+limit, userID, observed).
		UpdateColumn(used, gorm.Expr(used+" + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	debit := &db_models.QuotaDebit{ReservationID: reservationID, UserID: userID, Kind: kind}
	if err := q.db.WithContext(ctx).Create(debit).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (q *quotaRepository) Reset(ctx context.Context, userID uuid.UUID) error {
	return q.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("id = ?", userID).
		UpdateColumns(map[string]interface{}{
			db_models.KindImage.UsedColumn():          0,
			db_models.KindVideo.UsedColumn():          0,
			db_models.KindInterpretation.UsedColumn(): 0,
		}).Error
}

func (q *quotaRepository) DeleteDebits(ctx context.Context, userID uuid.UUID) error {
	return q.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&db_models.QuotaDebit{}).Error
}
