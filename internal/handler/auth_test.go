package handler

import (
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

func newAuthTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 3600
	cfg.Database.QueryTimeout = 5

	h, err := NewHandler(cfg, repository.NewRepository(cfg, db), nil, nil)
	require.NoError(t, err)
	return h, mock
}

func userRow(t *testing.T, password string, isActive bool) *sqlmock.Rows {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return sqlmock.NewRows([]string{"id", "password_hash", "full_name", "email", "role", "is_active", "last_login_at", "created_at", "version"}).
		AddRow(1, string(hash), "张伟", "zhangwei@example.com", "管理员", isActive, nil, time.Now(), 1)
}

func findAuthCookie(rec *httptest.ResponseRecorder) *string {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == authCookieName {
			return &cookie.Value
		}
	}
	return nil
}

func TestLoginSuccessSetsCookieAndRecordsLogin(t *testing.T) {
	h, mock := newAuthTestHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("zhangwei").
		WillReturnRows(userRow(t, "正确密码", true))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET last_login_at = NOW() WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"username":"zhangwei","password":"正确密码"}`))
	h.Login(rec, req)

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)

	token := findAuthCookie(rec)
	require.NotNil(t, token)
	assert.NotEmpty(t, *token)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	h, mock := newAuthTestHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("zhangwei").
		WillReturnRows(userRow(t, "正确密码", true))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"username":"zhangwei","password":"错误密码"}`))
	h.Login(rec, req)

	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "用户名不存在或密码错误", resp.Message)
	assert.Nil(t, findAuthCookie(rec))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginDisabledAccount(t *testing.T) {
	h, mock := newAuthTestHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("zhangwei").
		WillReturnRows(userRow(t, "正确密码", false))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"username":"zhangwei","password":"正确密码"}`))
	h.Login(rec, req)

	// 密码正确但账户被禁用：不发 cookie，也不记录登录时间
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "账户已被禁用", resp.Message)
	assert.Nil(t, findAuthCookie(rec))

	assert.NoError(t, mock.ExpectationsWereMet())
}
