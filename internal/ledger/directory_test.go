package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func newTestDirectory() *Directory {
	return NewDirectory([]*domain.Asset{
		{InternalID: "uuid-1", AssetID: "AST-0001", Name: "ThinkPad X1", AssignedTo: "张伟"},
		{InternalID: "uuid-2", AssetID: "AST-0002", Name: "Dell 显示器"},
		{InternalID: "uuid-3", AssetID: "AST-0003", Name: "门禁卡", AssignedTo: "李娜"},
	})
}

func TestDirectoryLookup(t *testing.T) {
	dir := newTestDirectory()

	asset, ok := dir.GetByInternalID("uuid-2")
	require.True(t, ok)
	assert.Equal(t, "AST-0002", asset.AssetID)

	asset, ok = dir.GetByAssetID("AST-0003")
	require.True(t, ok)
	assert.Equal(t, "uuid-3", asset.InternalID)

	_, ok = dir.GetByInternalID("uuid-404")
	assert.False(t, ok)
}

func TestDirectoryUnassigned(t *testing.T) {
	dir := newTestDirectory()

	unassigned := dir.Unassigned()
	require.Len(t, unassigned, 1)
	assert.Equal(t, "AST-0002", unassigned[0].AssetID)
}

func TestTranslationRoundTrip(t *testing.T) {
	dir := newTestDirectory()

	// 目录中存在的资产：internalId 和 assetId 互相翻译可以无损往返
	assert.Equal(t, "AST-0001", ToDisplayID("uuid-1", dir))
	assert.Equal(t, "uuid-1", ToStorageID(ToDisplayID("uuid-1", dir), dir))
	assert.Equal(t, "AST-0002", ToDisplayID(ToStorageID("AST-0002", dir), dir))
}

func TestTranslationMissingReference(t *testing.T) {
	dir := newTestDirectory()

	// 目录中不存在的标识原样返回，不报错，且往返后保持不变
	assert.Equal(t, "uuid-ghost", ToDisplayID("uuid-ghost", dir))
	assert.Equal(t, "AST-9999", ToStorageID("AST-9999", dir))
	assert.Equal(t, "uuid-ghost", ToStorageID(ToDisplayID("uuid-ghost", dir), dir))
}
