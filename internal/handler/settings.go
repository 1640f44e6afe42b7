package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

const settingsCacheKey = "org_settings"

// GetSettings 返回组织级别的下拉选项配置，
// 优先走 redis 缓存，未命中时回源数据库并回填缓存
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	cached, err := h.redisClient.Get(ctx, settingsCacheKey).Result()
	if err == nil {
		settings := &domain.Settings{}
		if err := json.Unmarshal([]byte(cached), settings); err == nil {
			h.successResponse(w, r, "获取设置成功", settings)
			return
		}
		// 缓存内容损坏时当作未命中处理
		slog.Warn("设置缓存内容无法解析，回源数据库", "error", err)
	}

	settings, err := h.repository.GetSettings()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if data, err := json.Marshal(settings); err == nil {
		if err := h.redisClient.Set(ctx, settingsCacheKey, data, time.Duration(h.config.Redis.SettingsExpiration)*time.Second).Err(); err != nil {
			slog.Warn("写入设置缓存失败", "error", err)
		}
	}

	h.successResponse(w, r, "获取设置成功", settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Categories  []string `json:"categories" validate:"required,min=1,dive,required"`
		Statuses    []string `json:"statuses" validate:"required,min=1,dive,required"`
		Departments []string `json:"departments" validate:"required,min=1,dive,required"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	settings, err := h.repository.GetSettings()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	settings.Categories = domain.StringList(req.Categories)
	settings.Statuses = domain.StringList(req.Statuses)
	settings.Departments = domain.StringList(req.Departments)

	if err := h.repository.UpdateSettings(settings); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新设置失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 更新成功后让缓存失效，下一次读取时回填
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()
	if err := h.redisClient.Del(ctx, settingsCacheKey).Err(); err != nil {
		slog.Warn("清除设置缓存失败", "error", err)
	}

	h.successResponse(w, r, "更新设置成功", settings)
}
