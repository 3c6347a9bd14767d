package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paintgate/internal/models"
)

func userRows() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "roles", "is_active", "created_at", "updated_at"}).
		AddRow(1, "alice", "alice@x.com", "$2a$12$hash", []byte(`["user","admin"]`), true, now, now)
}

func TestUserStoreGetByUsername(t *testing.T) {
	gdb, mock := newMockDB(t)
	s := NewUserStore(gdb)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
		WillReturnRows(userRows())

	u, err := s.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, uint(1), u.ID)
	assert.Equal(t, models.StringList{"user", "admin"}, u.Roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreGetByIDAbsent(t *testing.T) {
	gdb, mock := newMockDB(t)
	s := NewUserStore(gdb)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreCreateTranslatesUniqueViolation(t *testing.T) {
	gdb, mock := newMockDB(t)
	s := NewUserStore(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_username"})
	mock.ExpectRollback()

	now := time.Now().UTC()
	err := s.Create(context.Background(), &models.User{
		Username: "alice", Email: "alice@x.com", PasswordHash: "h",
		Roles: models.StringList{"user"}, IsActive: true, CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreSoftDelete(t *testing.T) {
	gdb, mock := newMockDB(t)
	s := NewUserStore(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	found, err := s.SoftDelete(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, found)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	found, err = s.SoftDelete(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreListFiltersActive(t *testing.T) {
	gdb, mock := newMockDB(t)
	s := NewUserStore(gdb)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE is_active = \$1`).
		WillReturnRows(userRows())

	active := true
	users, err := s.List(context.Background(), 0, 100, &active)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreUpdateAbsent(t *testing.T) {
	gdb, mock := newMockDB(t)
	s := NewUserStore(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	now := time.Now().UTC()
	err := s.Update(context.Background(), &models.User{
		ID: 99, Username: "ghost", Email: "ghost@x.com", PasswordHash: "h",
		Roles: models.StringList{"user"}, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
