package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM kv_store").
			WithArgs("shop:cart").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"lines":[]}`)))

		got, err := store.Get(ctx, "shop:cart")
		assert.NoError(t, err)
		assert.Equal(t, `{"lines":[]}`, string(got))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM kv_store").
			WithArgs("shop:session").
			WillReturnError(sql.ErrNoRows)

		_, err := store.Get(ctx, "shop:session")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM kv_store").
			WithArgs("shop:cart").
			WillReturnError(errors.New("connection reset"))

		_, err := store.Get(ctx, "shop:cart")
		assert.ErrorIs(t, err, ErrFailedGet)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Set(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)
	ctx := context.Background()
	value := []byte(`{"lines":[{"quantity":2}]}`)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO kv_store").
			WithArgs("shop:cart", value).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, store.Set(ctx, "shop:cart", value))
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO kv_store").
			WillReturnError(errors.New("disk full"))

		assert.ErrorIs(t, store.Set(ctx, "shop:cart", value), ErrFailedSet)
	})

	t.Run("EmptyKey", func(t *testing.T) {
		assert.ErrorIs(t, store.Set(ctx, "", value), ErrEmptyKey)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	mock.ExpectExec("DELETE FROM kv_store").
		WithArgs("shop:cart").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, store.Delete(context.Background(), "shop:cart"))

	mock.ExpectExec("DELETE FROM kv_store").
		WithArgs("shop:cart").
		WillReturnError(errors.New("db down"))
	assert.ErrorIs(t, store.Delete(context.Background(), "shop:cart"), ErrFailedDrop)

	assert.NoError(t, mock.ExpectationsWereMet())
}
