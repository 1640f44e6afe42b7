package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/utils"
)

func (h *Handler) GetAllAssets(w http.ResponseWriter, r *http.Request) {
	var (
		assets []*domain.Asset
		err    error
	)

	// 分配新资产的选择列表只允许出现未分配的资产，
	// 由这里预先过滤，而不是交给前端自己筛
	if r.URL.Query().Get("unassigned") == "true" {
		assets, err = h.repository.GetUnassignedAssets()
	} else {
		assets, err = h.repository.GetAllAssets()
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取资产列表成功", assets)
}

func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AssetID  string `json:"assetId" validate:"required"`
		Name     string `json:"name" validate:"required"`
		Category string `json:"category" validate:"required"`
		Status   string `json:"status"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	asset := &domain.Asset{
		InternalID: uuid.NewString(),
		AssetID:    req.AssetID,
		Name:       req.Name,
		Category:   req.Category,
		Status:     req.Status,
		History: domain.AssetHistory{
			{
				ID:        uuid.NewString(),
				Timestamp: time.Now(),
				Action:    "创建",
				Details:   "资产登记入库",
			},
		},
	}

	if err := h.repository.CreateAsset(asset); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "assets_asset_id_key":
				h.badRequest(w, r, errors.New("资产编号已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "资产创建成功", asset)
}

func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	asset := r.Context().Value(AssetRecordCtx).(*domain.Asset)
	h.successResponse(w, r, "获取资产信息成功", asset)
}

func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AssetID  *string `json:"assetId"` // 只用于拦截对不可变字段的修改
		Name     *string `json:"name"`
		Category *string `json:"category"`
		Status   *string `json:"status"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	asset := r.Context().Value(AssetRecordCtx).(*domain.Asset)

	if req.AssetID != nil {
		if err := utils.ValidateAssetImmutable(asset, *req.AssetID); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	// 每个实际发生变化的字段都在历史中追加一条记录，
	// 历史只追加，不修改已有条目
	appendChange := func(field, oldValue, newValue string) {
		asset.History = append(asset.History, domain.AssetHistoryEntry{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Action:    "更新",
			Details:   fmt.Sprintf("修改了%s", field),
			OldValue:  oldValue,
			NewValue:  newValue,
		})
	}

	if req.Name != nil && *req.Name != asset.Name {
		appendChange("名称", asset.Name, *req.Name)
		asset.Name = *req.Name
	}
	if req.Category != nil && *req.Category != asset.Category {
		appendChange("分类", asset.Category, *req.Category)
		asset.Category = *req.Category
	}
	if req.Status != nil && *req.Status != asset.Status {
		appendChange("状态", asset.Status, *req.Status)
		asset.Status = *req.Status
	}

	if err := h.repository.UpdateAsset(asset); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新资产失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新资产成功", asset)
}

func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	asset := r.Context().Value(AssetRecordCtx).(*domain.Asset)

	if err := h.repository.DeleteAsset(asset.InternalID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除资产成功", nil)
}
