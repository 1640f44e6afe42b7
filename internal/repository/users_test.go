package repository

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func TestGetUserByUsername(t *testing.T) {
	repo, mock := newTestRepository(t)

	now := time.Now()
	lastLogin := now.Add(-time.Hour)
	rows := sqlmock.NewRows([]string{"id", "password_hash", "full_name", "email", "role", "is_active", "last_login_at", "created_at", "version"}).
		AddRow(1, "hash", "张伟", "zhangwei@example.com", "管理员", true, lastLogin, now, 2)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("zhangwei").
		WillReturnRows(rows)

	user, err := repo.GetUserByUsername("zhangwei")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	require.NotNil(t, user.LastLoginAt)
	assert.WithinDuration(t, lastLogin, *user.LastLoginAt, time.Second)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByUsernameNeverLoggedIn(t *testing.T) {
	repo, mock := newTestRepository(t)

	rows := sqlmock.NewRows([]string{"id", "password_hash", "full_name", "email", "role", "is_active", "last_login_at", "created_at", "version"}).
		AddRow(1, "hash", "张伟", "zhangwei@example.com", "查看者", true, nil, time.Now(), 1)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("zhangwei").
		WillReturnRows(rows)

	user, err := repo.GetUserByUsername("zhangwei")
	require.NoError(t, err)
	assert.Nil(t, user.LastLoginAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordUserLogin(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET last_login_at = NOW() WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RecordUserLogin(1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserPersistsFullName(t *testing.T) {
	repo, mock := newTestRepository(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("full_name = $2")).
		WithArgs("hash", "张三", "zhangsan@example.com", "资产管理员", true, int64(1), int32(1)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "version"}).AddRow(now, 2))

	user := &domain.User{
		ID:           1,
		PasswordHash: "hash",
		FullName:     "张三",
		Email:        "zhangsan@example.com",
		Role:         domain.RoleAssetManager,
		IsActive:     true,
		Version:      1,
	}
	require.NoError(t, repo.UpdateUser(user))
	assert.Equal(t, int32(2), user.Version)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserStaleVersion(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users")).
		WillReturnError(sql.ErrNoRows)

	user := &domain.User{ID: 1, Version: 1}
	assert.ErrorIs(t, repo.UpdateUser(user), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailExists(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("zhangwei@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists("zhangwei@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.NoError(t, mock.ExpectationsWereMet())
}
