package ledger

import (
	"errors"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

// Session 是一次雇员编辑会话的交接核算状态。
// 它把该雇员历史上被分配的资产划分成三个互不重叠的视图：
// 仍持有（assignedAssets 减去已勾选归还的部分）、已勾选归还
// （selectedHandover）、本次会话新增分配（selectedAssets）。
// 会话完全在内存中运作，不做任何 I/O，保存失败后可以原样重试。
type Session struct {
	employee  *domain.Employee
	directory *Directory

	assignedAssets []*domain.Asset

	// 已勾选归还的资产集合，键是 assetId 而不是 internalId：
	// 界面上展示和勾选用的都是 assetId，而持久化的交接记录中存的是
	// internalId，两者的翻译是这个包存在的核心原因。
	// selectedOrder 记录勾选顺序，保证提交结果的顺序稳定
	selectedHandover map[string]struct{}
	selectedOrder    []string

	selectedAssets []*domain.Asset

	handoverData domain.HandoverDetails
}

// NewSession 在雇员编辑表单打开时创建会话。
// employee 为 nil 时按新建雇员处理（没有任何既有分配）。
func NewSession(employee *domain.Employee, directory *Directory) *Session {
	s := &Session{
		employee:         employee,
		directory:        directory,
		assignedAssets:   make([]*domain.Asset, 0),
		selectedHandover: make(map[string]struct{}),
		selectedOrder:    make([]string, 0),
		selectedAssets:   make([]*domain.Asset, 0),
		handoverData: domain.HandoverDetails{
			HandoverStatus: domain.HandoverStatusPending,
		},
	}

	if employee == nil {
		return s
	}

	displayName := employee.DisplayName()
	for _, asset := range directory.Assets() {
		if !asset.Unassigned() && sameAssignee(asset.AssignedTo, displayName) {
			s.assignedAssets = append(s.assignedAssets, asset)
		}
	}

	if employee.HandoverDetails != nil {
		hd := *employee.HandoverDetails
		// 把持久化的 internalId 列表翻译成会话内使用的 assetId 集合，
		// 目录中已不存在的资产退化为用原始 internalId 充当键
		for _, internalID := range hd.AssetsToReturn {
			s.addHandoverSelection(ToDisplayID(internalID, directory))
		}
		hd.AssetsToReturn = nil
		if hd.HandoverStatus == "" {
			hd.HandoverStatus = domain.HandoverStatusPending
		}
		s.handoverData = hd
	}

	return s
}

// Employee 返回会话对应的雇员记录，新建雇员时为 nil
func (s *Session) Employee() *domain.Employee {
	return s.employee
}

// AssignedAssets 返回编辑开始时该雇员持有的全部资产
func (s *Session) AssignedAssets() []*domain.Asset {
	out := make([]*domain.Asset, len(s.assignedAssets))
	copy(out, s.assignedAssets)
	return out
}

// SelectedHandoverAssets 按勾选顺序返回已勾选归还的 assetId 集合
func (s *Session) SelectedHandoverAssets() []string {
	out := make([]string, len(s.selectedOrder))
	copy(out, s.selectedOrder)
	return out
}

// ToggleHandoverAsset 勾选或取消勾选某个资产为"已归还"。
// 重复勾选是幂等的。勾选不会影响 assignedAssets 本身，
// 资产在雇员记录真正保存之前始终保持已分配状态。
func (s *Session) ToggleHandoverAsset(assetID string, selected bool) {
	if selected {
		s.addHandoverSelection(assetID)
		return
	}

	if _, ok := s.selectedHandover[assetID]; !ok {
		return
	}
	delete(s.selectedHandover, assetID)
	for i, id := range s.selectedOrder {
		if id == assetID {
			s.selectedOrder = append(s.selectedOrder[:i], s.selectedOrder[i+1:]...)
			break
		}
	}
}

func (s *Session) addHandoverSelection(assetID string) {
	if _, ok := s.selectedHandover[assetID]; ok {
		return
	}
	s.selectedHandover[assetID] = struct{}{}
	s.selectedOrder = append(s.selectedOrder, assetID)
}

// RemainingAssets 返回仍在雇员手上的资产，
// 即 assignedAssets 中去掉已勾选归还的部分。
// 每次调用都基于当前状态重新计算，不做缓存。
func (s *Session) RemainingAssets() []*domain.Asset {
	remaining := make([]*domain.Asset, 0, len(s.assignedAssets))
	for _, asset := range s.assignedAssets {
		if _, ok := s.selectedHandover[asset.AssetID]; !ok {
			remaining = append(remaining, asset)
		}
	}
	return remaining
}

// HandoverAssets 返回已勾选归还的那部分已分配资产，
// 和 RemainingAssets 一起构成 assignedAssets 的完整划分
func (s *Session) HandoverAssets() []*domain.Asset {
	handover := make([]*domain.Asset, 0, len(s.selectedOrder))
	for _, asset := range s.assignedAssets {
		if _, ok := s.selectedHandover[asset.AssetID]; ok {
			handover = append(handover, asset)
		}
	}
	return handover
}

// AssignNewAsset 把一个未分配资产加入本次会话的新增分配。
// 集合语义：重复加入同一个资产是无副作用的。
// 调用方喂给这个操作的目录视图必须预先过滤到未分配资产，
// 这里再挡一次已分配的资产。
func (s *Session) AssignNewAsset(asset *domain.Asset) error {
	if asset == nil {
		return errors.New("资产不能为空")
	}
	if !asset.Unassigned() {
		return errors.New("资产已被其他雇员持有")
	}
	for _, selected := range s.selectedAssets {
		if selected.AssetID == asset.AssetID {
			return nil
		}
	}
	s.selectedAssets = append(s.selectedAssets, asset)
	return nil
}

// UnassignNewAsset 从新增分配中移除一个资产，不存在时不做任何事
func (s *Session) UnassignNewAsset(assetID string) {
	for i, asset := range s.selectedAssets {
		if asset.AssetID == assetID {
			s.selectedAssets = append(s.selectedAssets[:i], s.selectedAssets[i+1:]...)
			return
		}
	}
}

// SelectedAssets 返回本次会话新增分配、尚未保存的资产
func (s *Session) SelectedAssets() []*domain.Asset {
	out := make([]*domain.Asset, len(s.selectedAssets))
	copy(out, s.selectedAssets)
	return out
}

// HandoverData 返回当前的交接表单数据（不含资产列表）
func (s *Session) HandoverData() domain.HandoverDetails {
	return s.handoverData
}

// SetHandoverData 更新交接表单数据，AssetsToReturn 字段被忽略，
// 归还资产只通过 ToggleHandoverAsset 维护
func (s *Session) SetHandoverData(hd domain.HandoverDetails) {
	hd.AssetsToReturn = nil
	if hd.HandoverStatus == "" {
		hd.HandoverStatus = domain.HandoverStatusPending
	}
	s.handoverData = hd
}

// EmployeeForm 是提交时雇员各字段的最终值，
// 字段级校验（必填、格式）由调用方在提交之前完成
type EmployeeForm struct {
	EmployeeID string
	FirstName  string
	LastName   string
	FullName   string
	Email      string
	Department string
	Position   string
	Phone      string
	HireDate   *time.Time
	Status     domain.EmployeeStatus
}

// Patch 是提交会话后得到的持久化补丁。
// Employee 是应当保存的雇员记录，NewlyAssigned 是需要由调用方
// 逐个更新 assignedTo / assignedDate 的新增分配资产。
type Patch struct {
	Employee      *domain.Employee
	NewlyAssigned []*domain.Asset
}

// Commit 把会话的最终决定序列化成一个一致的持久化补丁。
// 纯函数：不做任何 I/O，实际保存由调用方负责，
// 保存失败后用同一个会话重新提交得到完全相同的补丁。
func (s *Session) Commit(form EmployeeForm) *Patch {
	employee := &domain.Employee{
		EmployeeID: form.EmployeeID,
		FirstName:  form.FirstName,
		LastName:   form.LastName,
		FullName:   form.FullName,
		Email:      form.Email,
		Department: form.Department,
		Position:   form.Position,
		Phone:      form.Phone,
		HireDate:   form.HireDate,
		Status:     form.Status,
	}
	if s.employee != nil {
		employee.ID = s.employee.ID
		employee.CreatedAt = s.employee.CreatedAt
		employee.Version = s.employee.Version
	}

	if form.Status.RequiresHandover() {
		// 雇员保存后将持有的全部资产（交接缩减之前）
		finalAssigned := make([]*domain.Asset, 0, len(s.assignedAssets)+len(s.selectedAssets))
		finalAssigned = append(finalAssigned, s.assignedAssets...)
		finalAssigned = append(finalAssigned, s.selectedAssets...)
		finalDir := NewDirectory(finalAssigned)

		// 把会话内的 assetId 集合翻译回持久化的 internalId 列表，
		// 初始化时退化保留的键在这里原样写回，保证缺失引用能稳定往返
		assetsToReturn := make([]string, 0, len(s.selectedOrder))
		for _, assetID := range s.selectedOrder {
			assetsToReturn = append(assetsToReturn, ToStorageID(assetID, finalDir))
		}

		hd := s.handoverData
		hd.AssetsToReturn = assetsToReturn
		hd.HandoverDate = normalizeHandoverDate(hd.HandoverDate)
		employee.HandoverDetails = &hd
	}
	// 状态不是 Relieved / Terminated 时补丁中完全不带 handoverDetails，
	// 即使会话里还残留着之前状态下的勾选

	newlyAssigned := make([]*domain.Asset, len(s.selectedAssets))
	copy(newlyAssigned, s.selectedAssets)

	return &Patch{
		Employee:      employee,
		NewlyAssigned: newlyAssigned,
	}
}

// sameAssignee 是 assignedTo 与显示姓名的统一匹配规则：
// 两侧去掉首尾空白后做大小写敏感比较
func sameAssignee(assignedTo, displayName string) bool {
	return strings.TrimSpace(assignedTo) == strings.TrimSpace(displayName)
}

// normalizeHandoverDate 把交接日期规范化为 RFC 3339，
// 前端日期控件给的是 2006-01-02 格式，按 UTC 零点处理；
// 无法解析的值原样保留，不让提交失败
func normalizeHandoverDate(raw string) string {
	if raw == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format(time.RFC3339)
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC().Format(time.RFC3339)
	}
	return raw
}
