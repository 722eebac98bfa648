package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lucidly/internal/models/db_models"
)

func TestAccountRepository_Insert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectExec(`INSERT INTO "accounts"`).WillReturnResult(sqlmock.NewResult(0, 1))

	account := &db_models.Account{Email: "alice@example.com", Role: db_models.RoleDreamer}
	require.NoError(t, repo.Insert(context.Background(), account))
	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.False(t, account.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Insert_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectExec(`INSERT INTO "accounts"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Insert(context.Background(), &db_models.Account{Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestAccountRepository_FindByEmail_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	account, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, account)
}

func TestAccountRepository_UpdateProfile_IgnoresProtectedColumns(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	// Only whitelisted columns reach SQL; is_premium must never be written.
	err := repo.UpdateProfile(context.Background(), uuid.New(), map[string]interface{}{
		"is_premium":  true,
		"image_limit": 1000,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
