package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"lucidly/internal/models/db_models"
)

// Profile columns writable through UpdateProfile. Anything else is ignored.
const (
	ColName            = "name"
	ColBio             = "bio"
	ColAvatar          = "avatar"
	ColIsProfilePublic = "is_profile_public"
)

var profileColumns = map[string]bool{
	ColName: true, ColBio: true, ColAvatar: true, ColIsProfilePublic: true,
}

type AccountRepository interface {
	Insert(ctx context.Context, account *db_models.Account) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Account, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ErrDuplicateEmail is returned by Insert when the unique email index rejects the row.
var ErrDuplicateEmail = errors.New("duplicate email")

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (a *accountRepository) Insert(ctx context.Context, account *db_models.Account) error {
	err := a.db.WithContext(ctx).Create(account).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

func (a *accountRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	updates := filterProfileColumns(fields)
	if len(updates) == 0 {
		return nil
	}
	return a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (a *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return a.db.WithContext(ctx).Where("id = ?", id).Delete(&db_models.Account{}).Error
}

func filterProfileColumns(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if profileColumns[k] {
			out[k] = v
		}
	}
	return out
}
