package ledger

import (
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

// Directory 是一次编辑会话开始时加载的资产目录快照。
// 同一个资产有两套标识：系统分配的 internalId（交接记录中的外键）
// 和人工分配的 assetId（界面上展示和勾选时使用的编号），
// 目录负责在两者之间做查找。
type Directory struct {
	assets       []*domain.Asset
	byInternalID map[string]*domain.Asset
	byAssetID    map[string]*domain.Asset
}

func NewDirectory(assets []*domain.Asset) *Directory {
	d := &Directory{
		assets:       assets,
		byInternalID: make(map[string]*domain.Asset, len(assets)),
		byAssetID:    make(map[string]*domain.Asset, len(assets)),
	}
	for _, asset := range assets {
		d.byInternalID[asset.InternalID] = asset
		d.byAssetID[asset.AssetID] = asset
	}
	return d
}

func (d *Directory) Assets() []*domain.Asset {
	return d.assets
}

func (d *Directory) GetByInternalID(internalID string) (*domain.Asset, bool) {
	asset, ok := d.byInternalID[internalID]
	return asset, ok
}

func (d *Directory) GetByAssetID(assetID string) (*domain.Asset, bool) {
	asset, ok := d.byAssetID[assetID]
	return asset, ok
}

// Unassigned 返回目录中所有当前未分配的资产，
// 只有这些资产可以作为新增分配的候选
func (d *Directory) Unassigned() []*domain.Asset {
	unassigned := make([]*domain.Asset, 0)
	for _, asset := range d.assets {
		if asset.Unassigned() {
			unassigned = append(unassigned, asset)
		}
	}
	return unassigned
}

// ToDisplayID 将持久化的 internalId 翻译为界面使用的 assetId。
// 目录中找不到时（资产可能在交接记录写入后被删除）原样返回输入，
// 保证这个值在不被用户改动的情况下能原样写回，绝不报错。
func ToDisplayID(internalID string, dir *Directory) string {
	if asset, ok := dir.GetByInternalID(internalID); ok {
		return asset.AssetID
	}
	return internalID
}

// ToStorageID 将界面使用的 assetId 翻译回持久化的 internalId，
// 找不到时同样原样返回输入
func ToStorageID(assetID string, dir *Directory) string {
	if asset, ok := dir.GetByAssetID(assetID); ok {
		return asset.InternalID
	}
	return assetID
}
