package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lucidly/internal/models/db_models"
)

func TestQuotaRepository_ConditionalIncrement_Wins(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuotaRepository(db)

	mock.ExpectExec(`UPDATE "accounts" SET "image_used"=image_used \+ 1 WHERE id = \$1 AND image_used = \$2 AND image_used < image_limit`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "quota_debits"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.ConditionalIncrement(context.Background(), uuid.New(), db_models.KindImage, 2, uuid.New())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotaRepository_ConditionalIncrement_LosesRace(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuotaRepository(db)

	mock.ExpectExec(`UPDATE "accounts" SET "video_used"=video_used \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.ConditionalIncrement(context.Background(), uuid.New(), db_models.KindVideo, 2, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotaRepository_ConditionalIncrement_RejectsUnknownKind(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuotaRepository(db)

	_, err := repo.ConditionalIncrement(context.Background(), uuid.New(), db_models.EnrichmentKind("id; DROP TABLE accounts"), 0, uuid.New())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotaRepository_ConditionalIncrement_StorageError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuotaRepository(db)

	mock.ExpectExec(`UPDATE "accounts"`).WillReturnError(errors.New("connection reset"))

	_, err := repo.ConditionalIncrement(context.Background(), uuid.New(), db_models.KindInterpretation, 0, uuid.New())
	assert.Error(t, err)
}

func TestQuotaRepository_IsCommitted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuotaRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "quota_debits" WHERE reservation_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	done, err := repo.IsCommitted(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, done)
}

func TestQuotaRepository_Usage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuotaRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_premium", "image_used", "image_limit"}).
			AddRow(id.String(), false, 2, 3))

	usage, err := repo.Usage(context.Background(), id, db_models.KindImage)
	require.NoError(t, err)
	require.NotNil(t, usage)
	assert.Equal(t, 2, usage.Used)
	assert.Equal(t, 3, usage.Limit)
	assert.Equal(t, 1, usage.Remaining())
}

func TestQuotaRepository_Usage_MissingAccount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuotaRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "accounts"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	usage, err := repo.Usage(context.Background(), uuid.New(), db_models.KindImage)
	require.NoError(t, err)
	assert.Nil(t, usage)
}

func TestQuotaRepository_Reset(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuotaRepository(db)

	mock.ExpectExec(`UPDATE "accounts" SET`).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Reset(context.Background(), uuid.New()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
