package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"motor_rental/internal/model"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

var userCols = []string{"id", "username", "password", "role", "created_at"}

func TestUserRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(insertUser)).
		WithArgs("budi", "hash", "admin").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(7, now))

	user := &model.User{Username: "budi", PasswordHash: "hash", Role: model.RoleAdmin}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, now, user.CreatedAt)
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(insertUser)).
		WithArgs("budi", "hash", "admin").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_username_key"})

	err := repo.Create(context.Background(), &model.User{Username: "budi", PasswordHash: "hash", Role: model.RoleAdmin})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestUserRepository_FindByUsername(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByUsername)).
		WithArgs("superadmin").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(1, "superadmin", "hash", "superadmin", now))

	user, err := repo.FindByUsername(context.Background(), "superadmin")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, model.RoleSuperadmin, user.Role)
	assert.True(t, user.IsSuperadmin())
}

func TestUserRepository_FindByUsername_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByUsername)).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows(userCols))

	user, err := repo.FindByUsername(context.Background(), "ghost")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_FindByID_UnknownRole(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByID)).
		WithArgs(3).
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(3, "x", "hash", "root", time.Now()))

	_, err := repo.FindByID(context.Background(), 3)
	assert.ErrorContains(t, err, "unknown role")
}

func TestUserRepository_FindAdminByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectAdminByID)).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows(userCols))

	user, err := repo.FindAdminByID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_List(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(selectUsers)).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(1, "superadmin", "h1", "superadmin", now).
			AddRow(2, "budi", "h2", "admin", now))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "budi", users[1].Username)
	assert.Equal(t, model.RoleAdmin, users[1].Role)
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(updateUserPassword)).
		WithArgs("newhash", 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(updateUserPassword)).
		WithArgs("newhash", 99).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.UpdatePassword(context.Background(), 2, "newhash")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdatePassword(context.Background(), 99, "newhash")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserRepository_Delete_ForeignKey(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(deleteUser)).
		WithArgs(2).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "motor_admin_id_fkey"})

	ok, err := repo.Delete(context.Background(), 2)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrHasDependents)
}

func TestUserRepository_CountByRole(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(countUsersByRole)).
		WillReturnRows(pgxmock.NewRows([]string{"role", "count"}).
			AddRow("admin", 3).
			AddRow("superadmin", 1))

	counts, err := repo.CountByRole(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, counts[model.RoleAdmin])
	assert.Equal(t, 1, counts[model.RoleSuperadmin])
}

func TestUserRepository_PrefersBoundQuerier(t *testing.T) {
	fallback := newMockPool(t)
	bound := newMockPool(t)
	repo := NewUserRepository(fallback)

	bound.ExpectExec(regexp.QuoteMeta(deleteUser)).
		WithArgs(5).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	ctx := WithQuerier(context.Background(), bound)
	ok, err := repo.Delete(ctx, 5)
	require.NoError(t, err)
	assert.True(t, ok)
}
