package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return gdb, mock
}

func TestSessionStoreGetByTokenFiltersLiveness(t *testing.T) {
	gdb, mock := newMockDB(t)
	s := NewSessionStore(gdb)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "created_at"}).
		AddRow(1, 7, "tok", now.Add(time.Minute), now)
	mock.ExpectQuery(`SELECT \* FROM "sessions" WHERE token = \$1 AND expires_at > \$2`).
		WillReturnRows(rows)

	sess, err := s.GetByToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, uint(7), sess.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStoreGetByTokenAbsent(t *testing.T) {
	gdb, mock := newMockDB(t)
	s := NewSessionStore(gdb)

	mock.ExpectQuery(`SELECT \* FROM "sessions" WHERE token = \$1 AND expires_at > \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "created_at"}))

	_, err := s.GetByToken(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStoreGetLatestByUserOrders(t *testing.T) {
	gdb, mock := newMockDB(t)
	s := NewSessionStore(gdb)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "created_at"}).
		AddRow(2, 7, "newest", now.Add(time.Minute), now)
	mock.ExpectQuery(`SELECT \* FROM "sessions" WHERE user_id = \$1 AND expires_at > \$2 ORDER BY created_at desc`).
		WillReturnRows(rows)

	sess, err := s.GetLatestByUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "newest", sess.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStoreDeleteReportsRemoval(t *testing.T) {
	gdb, mock := newMockDB(t)
	s := NewSessionStore(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "sessions" WHERE token = \$1`).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	removed, err := s.Delete(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, removed)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "sessions" WHERE token = \$1`).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	removed, err = s.Delete(context.Background(), "tok")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStoreDeleteExpiredCounts(t *testing.T) {
	gdb, mock := newMockDB(t)
	s := NewSessionStore(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "sessions" WHERE expires_at <= \$1`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	n, err := s.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStoreDeleteByUser(t *testing.T) {
	gdb, mock := newMockDB(t)
	s := NewSessionStore(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "sessions" WHERE user_id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := s.DeleteByUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
