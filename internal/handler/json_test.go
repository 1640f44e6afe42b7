package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/config"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 3600

	h, err := NewHandler(cfg, nil, nil, nil)
	require.NoError(t, err)
	return h
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestReadJSONEmptyBody(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", strings.NewReader(""))

	var dst struct{}
	err := h.readJSON(rec, req, &dst)
	require.Error(t, err)
	assert.Equal(t, "请求体不能为空", err.Error())
}

func TestReadJSONInvalidJSON(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))

	var dst struct {
		Name string `json:"name"`
	}
	err := h.readJSON(rec, req, &dst)
	require.Error(t, err)
	assert.Equal(t, "请求体不是合法的 JSON", err.Error())
}

func TestReadJSONRejectsTrailingData(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"a"} {"name":"b"}`))

	var dst struct {
		Name string `json:"name"`
	}
	err := h.readJSON(rec, req, &dst)
	require.Error(t, err)
	assert.Equal(t, "请求体只允许包含一个 JSON 值", err.Error())
}

func TestReadJSONWrongFieldType(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":42}`))

	var dst struct {
		Name string `json:"name"`
	}
	err := h.readJSON(rec, req, &dst)
	require.Error(t, err)
	assert.Equal(t, "请求体中存在类型错误的字段", err.Error())
}

func TestBadRequestTranslatesValidationErrors(t *testing.T) {
	h := newTestHandler(t)

	var req struct {
		Username string `json:"username" validate:"required"`
	}
	err := h.validate.Struct(req)
	require.Error(t, err)

	rec := httptest.NewRecorder()
	h.badRequest(rec, httptest.NewRequest("POST", "/", nil), err)

	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "必填")
}

func TestEmployeeIDValidationMessage(t *testing.T) {
	h := newTestHandler(t)

	var req struct {
		EmployeeID string `json:"employeeId" validate:"required,empid"`
	}
	req.EmployeeID = "emp-1"
	err := h.validate.Struct(req)
	require.Error(t, err)

	rec := httptest.NewRecorder()
	h.badRequest(rec, httptest.NewRequest("POST", "/", nil), err)

	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "大写字母")
}
