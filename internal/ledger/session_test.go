package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func testEmployee() *domain.Employee {
	return &domain.Employee{
		ID:         42,
		EmployeeID: "EMP-001",
		FirstName:  "伟",
		LastName:   "张",
		FullName:   "张伟",
		Email:      "zhangwei@example.com",
		Department: "技术部",
		Status:     domain.EmployeeStatusActive,
		Version:    3,
	}
}

func testAssets() []*domain.Asset {
	return []*domain.Asset{
		{InternalID: "uuid-1", AssetID: "AST-0001", Name: "ThinkPad X1", AssignedTo: "张伟"},
		{InternalID: "uuid-2", AssetID: "AST-0002", Name: "Dell 显示器", AssignedTo: "张伟"},
		{InternalID: "uuid-3", AssetID: "AST-0003", Name: "门禁卡", AssignedTo: "李娜"},
		{InternalID: "uuid-4", AssetID: "AST-0004", Name: "iPhone 15"},
	}
}

func formFromEmployee(e *domain.Employee, status domain.EmployeeStatus) EmployeeForm {
	return EmployeeForm{
		EmployeeID: e.EmployeeID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		FullName:   e.FullName,
		Email:      e.Email,
		Department: e.Department,
		Status:     status,
	}
}

func TestNewSessionLoadsAssignedAssets(t *testing.T) {
	s := NewSession(testEmployee(), NewDirectory(testAssets()))

	assigned := s.AssignedAssets()
	require.Len(t, assigned, 2)
	assert.Equal(t, "AST-0001", assigned[0].AssetID)
	assert.Equal(t, "AST-0002", assigned[1].AssetID)
}

func TestNewSessionNilEmployee(t *testing.T) {
	s := NewSession(nil, NewDirectory(testAssets()))

	assert.Empty(t, s.AssignedAssets())
	assert.Empty(t, s.SelectedHandoverAssets())
	assert.Equal(t, domain.HandoverStatusPending, s.HandoverData().HandoverStatus)
}

func TestAssignedToMatchingTrimsWhitespace(t *testing.T) {
	assets := []*domain.Asset{
		{InternalID: "uuid-1", AssetID: "AST-0001", AssignedTo: "  张伟  "},
		{InternalID: "uuid-2", AssetID: "AST-0002", AssignedTo: "张 伟"},
	}
	s := NewSession(testEmployee(), NewDirectory(assets))

	// 首尾空白被忽略，内部空白差异仍然视为不同的人
	assigned := s.AssignedAssets()
	require.Len(t, assigned, 1)
	assert.Equal(t, "AST-0001", assigned[0].AssetID)
}

func TestToggleHandoverIdempotent(t *testing.T) {
	s := NewSession(testEmployee(), NewDirectory(testAssets()))

	s.ToggleHandoverAsset("AST-0001", true)
	s.ToggleHandoverAsset("AST-0001", true)
	assert.Equal(t, []string{"AST-0001"}, s.SelectedHandoverAssets())

	s.ToggleHandoverAsset("AST-0001", false)
	s.ToggleHandoverAsset("AST-0001", false)
	assert.Empty(t, s.SelectedHandoverAssets())
}

func TestRemainingAndHandoverPartition(t *testing.T) {
	s := NewSession(testEmployee(), NewDirectory(testAssets()))
	s.ToggleHandoverAsset("AST-0002", true)

	remaining := s.RemainingAssets()
	handover := s.HandoverAssets()

	// 两个视图不重叠，合起来正好是全部已分配资产
	require.Len(t, remaining, 1)
	require.Len(t, handover, 1)
	assert.Equal(t, "AST-0001", remaining[0].AssetID)
	assert.Equal(t, "AST-0002", handover[0].AssetID)

	// 取消勾选后划分随之恢复
	s.ToggleHandoverAsset("AST-0002", false)
	assert.Len(t, s.RemainingAssets(), 2)
	assert.Empty(t, s.HandoverAssets())
}

func TestAssignNewAsset(t *testing.T) {
	dir := NewDirectory(testAssets())
	s := NewSession(testEmployee(), dir)

	free, ok := dir.GetByAssetID("AST-0004")
	require.True(t, ok)

	require.NoError(t, s.AssignNewAsset(free))
	require.NoError(t, s.AssignNewAsset(free)) // 重复加入无副作用
	assert.Len(t, s.SelectedAssets(), 1)

	held, ok := dir.GetByAssetID("AST-0003")
	require.True(t, ok)
	assert.Error(t, s.AssignNewAsset(held))

	s.UnassignNewAsset("AST-0004")
	assert.Empty(t, s.SelectedAssets())
}

func TestCommitActiveOmitsHandoverDetails(t *testing.T) {
	e := testEmployee()
	s := NewSession(e, NewDirectory(testAssets()))

	// 勾选后又把状态改回在职：残留的勾选不能进入补丁
	s.ToggleHandoverAsset("AST-0001", true)
	patch := s.Commit(formFromEmployee(e, domain.EmployeeStatusActive))

	require.NotNil(t, patch.Employee)
	assert.Nil(t, patch.Employee.HandoverDetails)
	assert.Equal(t, int64(42), patch.Employee.ID)
	assert.Equal(t, int32(3), patch.Employee.Version)
}

func TestCommitRelievedTranslatesSelection(t *testing.T) {
	e := testEmployee()
	dir := NewDirectory(testAssets())
	s := NewSession(e, dir)

	s.ToggleHandoverAsset("AST-0002", true)
	s.ToggleHandoverAsset("AST-0001", true)
	s.SetHandoverData(domain.HandoverDetails{
		HandoverDate:   "2026-02-01",
		HandoverTo:     "李娜",
		HandoverReason: "离职",
	})

	patch := s.Commit(formFromEmployee(e, domain.EmployeeStatusRelieved))

	hd := patch.Employee.HandoverDetails
	require.NotNil(t, hd)
	// assetId 按勾选顺序翻译回 internalId
	assert.Equal(t, []string{"uuid-2", "uuid-1"}, hd.AssetsToReturn)
	assert.Equal(t, "2026-02-01T00:00:00Z", hd.HandoverDate)
	assert.Equal(t, domain.HandoverStatusPending, hd.HandoverStatus)
}

func TestCommitTranslatesNewlyAssignedSelection(t *testing.T) {
	e := testEmployee()
	dir := NewDirectory(testAssets())
	s := NewSession(e, dir)

	// 本次会话新分配的资产也可以在同一次会话中被勾选归还，
	// 翻译时必须能在 assigned ∪ selected 的并集里找到它
	free, _ := dir.GetByAssetID("AST-0004")
	require.NoError(t, s.AssignNewAsset(free))
	s.ToggleHandoverAsset("AST-0004", true)
	s.SetHandoverData(domain.HandoverDetails{
		HandoverDate:   "2026-02-01",
		HandoverTo:     "李娜",
		HandoverReason: "离职",
	})

	patch := s.Commit(formFromEmployee(e, domain.EmployeeStatusTerminated))

	require.NotNil(t, patch.Employee.HandoverDetails)
	assert.Equal(t, []string{"uuid-4"}, patch.Employee.HandoverDetails.AssetsToReturn)
	require.Len(t, patch.NewlyAssigned, 1)
	assert.Equal(t, "uuid-4", patch.NewlyAssigned[0].InternalID)
}

func TestReloadRoundTrip(t *testing.T) {
	// 第一次会话：勾选一个资产归还并保存
	e := testEmployee()
	dir := NewDirectory(testAssets())
	s := NewSession(e, dir)
	s.ToggleHandoverAsset("AST-0001", true)
	s.SetHandoverData(domain.HandoverDetails{
		HandoverDate:   "2026-02-01",
		HandoverTo:     "李娜",
		HandoverReason: "离职",
	})
	patch := s.Commit(formFromEmployee(e, domain.EmployeeStatusRelieved))
	require.Equal(t, []string{"uuid-1"}, patch.Employee.HandoverDetails.AssetsToReturn)

	// 重新打开：持久化的 internalId 翻译回 assetId 展示，
	// 不做改动直接保存得到完全相同的列表
	s2 := NewSession(patch.Employee, dir)
	assert.Equal(t, []string{"AST-0001"}, s2.SelectedHandoverAssets())

	patch2 := s2.Commit(formFromEmployee(patch.Employee, domain.EmployeeStatusRelieved))
	assert.Equal(t, []string{"uuid-1"}, patch2.Employee.HandoverDetails.AssetsToReturn)
}

func TestReloadMissingReferenceRoundTrip(t *testing.T) {
	e := testEmployee()
	e.Status = domain.EmployeeStatusRelieved
	e.HandoverDetails = &domain.HandoverDetails{
		HandoverDate:   "2026-02-01T00:00:00Z",
		HandoverTo:     "李娜",
		HandoverReason: "离职",
		AssetsToReturn: []string{"uuid-deleted", "uuid-1"},
	}

	dir := NewDirectory(testAssets())
	s := NewSession(e, dir)

	// 已删除资产的 internalId 退化为原样展示，不报错
	assert.Equal(t, []string{"uuid-deleted", "AST-0001"}, s.SelectedHandoverAssets())

	// 不做改动保存：缺失引用原样写回，没有丢失也没有被翻译坏
	patch := s.Commit(formFromEmployee(e, domain.EmployeeStatusRelieved))
	assert.Equal(t, []string{"uuid-deleted", "uuid-1"}, patch.Employee.HandoverDetails.AssetsToReturn)
}

func TestSetHandoverDataIgnoresAssetsToReturn(t *testing.T) {
	s := NewSession(testEmployee(), NewDirectory(testAssets()))

	s.SetHandoverData(domain.HandoverDetails{
		HandoverReason: "转岗",
		AssetsToReturn: []string{"AST-0001"},
	})

	assert.Empty(t, s.SelectedHandoverAssets())
	assert.Nil(t, s.HandoverData().AssetsToReturn)
	assert.Equal(t, domain.HandoverStatusPending, s.HandoverData().HandoverStatus)
}

func TestCommitRepeatable(t *testing.T) {
	// 保存失败后用同一个会话重试，得到的补丁必须一致
	e := testEmployee()
	s := NewSession(e, NewDirectory(testAssets()))
	s.ToggleHandoverAsset("AST-0002", true)
	s.SetHandoverData(domain.HandoverDetails{
		HandoverDate:   "2026-03-01",
		HandoverTo:     "李娜",
		HandoverReason: "离职",
	})

	form := formFromEmployee(e, domain.EmployeeStatusRelieved)
	first := s.Commit(form)
	second := s.Commit(form)

	assert.Equal(t, first.Employee, second.Employee)
	assert.Equal(t, first.NewlyAssigned, second.NewlyAssigned)
}
