package storage

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock
}

func TestPostgresStore_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		p, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT v FROM kv_entries WHERE k = $1`)).
			WithArgs("workorder/1").
			WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow([]byte(`{"id":"1"}`)))

		v, err := p.Get(ctx, "workorder/1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"1"}`, string(v))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		p, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT v FROM kv_entries WHERE k = $1`)).
			WithArgs("workorder/1").
			WillReturnRows(sqlmock.NewRows([]string{"v"}))

		_, err := p.Get(ctx, "workorder/1")
		assert.ErrorIs(t, err, ErrKeyNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_SetAndDelete(t *testing.T) {
	ctx := context.Background()
	p, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv_entries (k, v) VALUES ($1, $2) ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v`)).
		WithArgs("workorder/1", []byte(`{}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, p.Set(ctx, "workorder/1", []byte(`{}`)))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kv_entries WHERE k = $1`)).
		WithArgs("workorder/1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, p.Delete(ctx, "workorder/1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ScanPrefix(t *testing.T) {
	ctx := context.Background()
	scanSQL := regexp.QuoteMeta(`SELECT k, v FROM kv_entries WHERE k LIKE $1 ESCAPE '\' AND k > $2 ORDER BY k LIMIT $3`)

	t.Run("SinglePage", func(t *testing.T) {
		p, mock := newMockStore(t)
		mock.ExpectQuery(scanSQL).
			WithArgs(`workorder/%`, "", defaultScanPageSize).
			WillReturnRows(sqlmock.NewRows([]string{"k", "v"}).
				AddRow("workorder/1", []byte("a")).
				AddRow("workorder/2", []byte("b")))

		entries, err := p.ScanPrefix(ctx, "workorder/")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "workorder/1", entries[0].Key)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("KeysetPagination", func(t *testing.T) {
		p, mock := newMockStore(t)
		p.pageSize = 2

		mock.ExpectQuery(scanSQL).
			WithArgs(`workorder/%`, "", 2).
			WillReturnRows(sqlmock.NewRows([]string{"k", "v"}).
				AddRow("workorder/1", []byte("a")).
				AddRow("workorder/2", []byte("b")))
		mock.ExpectQuery(scanSQL).
			WithArgs(`workorder/%`, "workorder/2", 2).
			WillReturnRows(sqlmock.NewRows([]string{"k", "v"}).
				AddRow("workorder/3", []byte("c")))

		entries, err := p.ScanPrefix(ctx, "workorder/")
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "workorder/3", entries[2].Key)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LikeMetacharactersEscaped", func(t *testing.T) {
		p, mock := newMockStore(t)
		mock.ExpectQuery(scanSQL).
			WithArgs(`tx\_scope/%`, "", defaultScanPageSize).
			WillReturnRows(sqlmock.NewRows([]string{"k", "v"}))

		_, err := p.ScanPrefix(ctx, "tx_scope/")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
	assert.Equal(t, `plain`, escapeLike(`plain`))
}
