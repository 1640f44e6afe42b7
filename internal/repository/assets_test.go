package repository

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func newTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 5

	return NewRepository(cfg, db), mock
}

var assetColumns = []string{"internal_id", "asset_id", "name", "category", "status", "assigned_to", "assigned_date", "history", "created_at", "version"}

func TestGetAllAssets(t *testing.T) {
	repo, mock := newTestRepository(t)

	now := time.Now()
	rows := sqlmock.NewRows(assetColumns).
		AddRow("uuid-1", "AST-0001", "ThinkPad X1", "笔记本电脑", "在用", "张伟", now, []byte(`[]`), now, 1).
		AddRow("uuid-2", "AST-0002", "Dell 显示器", "显示器", "闲置", "", nil, []byte(`[]`), now, 1)

	mock.ExpectQuery(regexp.QuoteMeta("FROM assets")).WillReturnRows(rows)

	assets, err := repo.GetAllAssets()
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "AST-0001", assets[0].AssetID)
	assert.Equal(t, "张伟", assets[0].AssignedTo)
	assert.True(t, assets[1].Unassigned())
	assert.Nil(t, assets[1].AssignedDate)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUnassignedAssets(t *testing.T) {
	repo, mock := newTestRepository(t)

	now := time.Now()
	rows := sqlmock.NewRows(assetColumns).
		AddRow("uuid-2", "AST-0002", "Dell 显示器", "显示器", "闲置", "", nil, []byte(`[]`), now, 1)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE assigned_to = ''")).WillReturnRows(rows)

	assets, err := repo.GetUnassignedAssets()
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.True(t, assets[0].Unassigned())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAssetByInternalID(t *testing.T) {
	repo, mock := newTestRepository(t)

	now := time.Now()
	history := []byte(`[{"id":"h-1","timestamp":"2026-01-01T00:00:00Z","action":"创建","details":"资产登记入库"}]`)
	rows := sqlmock.NewRows([]string{"asset_id", "name", "category", "status", "assigned_to", "assigned_date", "history", "created_at", "version"}).
		AddRow("AST-0001", "ThinkPad X1", "笔记本电脑", "在用", "张伟", now, history, now, 2)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE internal_id = $1")).
		WithArgs("uuid-1").
		WillReturnRows(rows)

	asset, err := repo.GetAssetByInternalID("uuid-1")
	require.NoError(t, err)
	assert.Equal(t, "uuid-1", asset.InternalID)
	assert.Equal(t, int32(2), asset.Version)
	require.Len(t, asset.History, 1)
	assert.Equal(t, "创建", asset.History[0].Action)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAsset(t *testing.T) {
	repo, mock := newTestRepository(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO assets")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "version"}).AddRow(now, 1))

	asset := &domain.Asset{
		InternalID: "uuid-1",
		AssetID:    "AST-0001",
		Name:       "ThinkPad X1",
		Category:   "笔记本电脑",
		Status:     "在用",
	}
	require.NoError(t, repo.CreateAsset(asset))
	assert.Equal(t, int32(1), asset.Version)
	assert.False(t, asset.CreatedAt.IsZero())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAssetBumpsVersion(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE internal_id = $7 AND version = $8")).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(3))

	asset := &domain.Asset{InternalID: "uuid-1", AssetID: "AST-0001", Version: 2}
	require.NoError(t, repo.UpdateAsset(asset))
	assert.Equal(t, int32(3), asset.Version)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAssetStaleVersion(t *testing.T) {
	repo, mock := newTestRepository(t)

	// 版本不匹配时 RETURNING 没有行，向调用方表现为 sql.ErrNoRows
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE assets")).
		WillReturnError(sql.ErrNoRows)

	asset := &domain.Asset{InternalID: "uuid-1", Version: 1}
	assert.ErrorIs(t, repo.UpdateAsset(asset), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAsset(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assets WHERE internal_id = $1")).
		WithArgs("uuid-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteAsset("uuid-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
