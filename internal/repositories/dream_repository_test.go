package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lucidly/internal/models/db_models"
)

func TestDreamRepository_ApplyEnrichment(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDreamRepository(db)

	mock.ExpectExec(`UPDATE "dreams" SET .*"image"=`).WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.ApplyEnrichment(context.Background(), uuid.New(), uuid.New(), db_models.KindImage, "https://img")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDreamRepository_ApplyEnrichment_WrongOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDreamRepository(db)

	mock.ExpectExec(`UPDATE "dreams" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.ApplyEnrichment(context.Background(), uuid.New(), uuid.New(), db_models.KindVideo, "v")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDreamRepository_FindByIdAndOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDreamRepository(db)
	id, owner := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "dreams" WHERE id = \$1 AND user_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "content", "mood", "tags", "created_at"}).
			AddRow(id.String(), owner.String(), "t", "c", "peaceful", "{night,sea}", time.Now()))

	dream, err := repo.FindByIdAndOwner(context.Background(), id, owner)
	require.NoError(t, err)
	require.NotNil(t, dream)
	assert.Equal(t, id, dream.ID)
	assert.Equal(t, []string{"night", "sea"}, []string(dream.Tags))
}

func TestDreamRepository_FindByIdAndOwner_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDreamRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "dreams"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	dream, err := repo.FindByIdAndOwner(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, dream)
}

func TestDreamRepository_ListPublicEnriched(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDreamRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "dreams" WHERE is_public = \$1 AND \(image IS NOT NULL OR video IS NOT NULL OR interpretation IS NOT NULL\) ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))

	dreams, err := repo.ListPublicEnriched(context.Background(), 20)
	require.NoError(t, err)
	assert.Len(t, dreams, 1)
}

func TestDreamRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDreamRepository(db)

	mock.ExpectExec(`DELETE FROM "dreams" WHERE id = \$1 AND user_id = \$2`).WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Delete(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}
