package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/ledger"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/utils"
)

type employeeRequest struct {
	EmployeeID string     `json:"employeeId" validate:"required,empid"`
	FirstName  string     `json:"firstName" validate:"required"`
	LastName   string     `json:"lastName" validate:"required"`
	FullName   string     `json:"fullName"`
	Email      string     `json:"email" validate:"required,email"`
	Department string     `json:"department" validate:"required"`
	Position   string     `json:"position"`
	Phone      string     `json:"phone" validate:"omitempty,len=10,numeric"`
	HireDate   *time.Time `json:"hireDate"`
	Status     string     `json:"status" validate:"required,oneof=Active Relieved 'On Leave' Terminated"`

	Handover struct {
		HandoverDate     string   `json:"handoverDate"`
		HandoverTo       string   `json:"handoverTo"`
		HandoverReason   string   `json:"handoverReason"`
		Notes            string   `json:"notes"`
		HandoverStatus   string   `json:"handoverStatus" validate:"omitempty,oneof=Pending 'In Progress' Completed Partial"`
		ReturnedAssetIDs []string `json:"returnedAssetIds"` // 界面勾选的资产编号（assetId）
	} `json:"handover"`

	// 本次保存新增分配的资产，以 internalId 指定
	NewAssetInternalIDs []string `json:"newAssetInternalIds"`
}

func (req *employeeRequest) form() ledger.EmployeeForm {
	return ledger.EmployeeForm{
		EmployeeID: req.EmployeeID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		FullName:   req.FullName,
		Email:      req.Email,
		Department: req.Department,
		Position:   req.Position,
		Phone:      req.Phone,
		HireDate:   req.HireDate,
		Status:     domain.EmployeeStatus(req.Status),
	}
}

// reconcileEmployee 根据请求在服务端重建一次编辑会话并提交。
// 纯内存操作，返回的错误都是应当以字段提示形式反馈给用户的校验错误。
func reconcileEmployee(employee *domain.Employee, dir *ledger.Directory, req *employeeRequest) (*ledger.Patch, error) {
	session := ledger.NewSession(employee, dir)

	for _, internalID := range req.NewAssetInternalIDs {
		asset, ok := dir.GetByInternalID(internalID)
		if !ok {
			return nil, fmt.Errorf("新增分配的资产 %s 不存在", internalID)
		}
		if err := session.AssignNewAsset(asset); err != nil {
			return nil, err
		}
	}

	// 先清掉持久化状态带来的勾选，再按请求重放，
	// 保证会话里的勾选和表单提交的完全一致
	for _, assetID := range session.SelectedHandoverAssets() {
		session.ToggleHandoverAsset(assetID, false)
	}
	for _, assetID := range req.Handover.ReturnedAssetIDs {
		session.ToggleHandoverAsset(assetID, true)
	}

	hd := domain.HandoverDetails{
		HandoverDate:   req.Handover.HandoverDate,
		HandoverTo:     req.Handover.HandoverTo,
		HandoverReason: req.Handover.HandoverReason,
		Notes:          req.Handover.Notes,
		HandoverStatus: domain.HandoverStatus(req.Handover.HandoverStatus),
	}
	session.SetHandoverData(hd)

	form := req.form()
	if err := utils.ValidateHandoverRequired(form.Status, session.HandoverData()); err != nil {
		return nil, err
	}

	return session.Commit(form), nil
}

func (h *Handler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.repository.GetAllEmployees()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取雇员列表成功", employees)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeRecordCtx).(*domain.Employee)
	h.successResponse(w, r, "获取雇员信息成功", employee)
}

// GetEmployeeAssets 返回雇员编辑表单需要的三个资产视图：
// 仍持有、已勾选归还、可供新增分配
func (h *Handler) GetEmployeeAssets(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeRecordCtx).(*domain.Employee)

	assets, err := h.repository.GetAllAssets()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	dir := ledger.NewDirectory(assets)
	session := ledger.NewSession(employee, dir)

	h.successResponse(w, r, "获取雇员资产成功", map[string]any{
		"assigned":        session.AssignedAssets(),
		"remaining":       session.RemainingAssets(),
		"pendingHandover": session.SelectedHandoverAssets(),
		"available":       dir.Unassigned(),
	})
}

// GetHandoverCandidates 返回交接接收人的候选列表：
// 所有在职雇员，排除正在编辑的这一个
func (h *Handler) GetHandoverCandidates(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeRecordCtx).(*domain.Employee)

	candidates, err := h.repository.GetActiveEmployeesExcept(employee.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取交接候选人成功", candidates)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	assets, err := h.repository.GetAllAssets()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	dir := ledger.NewDirectory(assets)

	patch, err := reconcileEmployee(nil, dir, &req)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 雇员记录的保存是权威操作，必须先于各个资产的更新
	if err := h.repository.CreateEmployee(patch.Employee); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "employees_employee_id_key":
				h.badRequest(w, r, errors.New("雇员编号已存在"))
			case pgErr.ConstraintName == "employees_email_key":
				h.badRequest(w, r, errors.New("邮箱已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	failed := h.applyAssetUpdates(patch, dir)
	h.notifyHandover(patch)

	if len(failed) > 0 {
		h.successResponse(w, r, "雇员创建成功，但部分资产状态更新失败，请稍后重试", map[string]any{
			"employee":     patch.Employee,
			"failedAssets": failed,
		})
		return
	}

	h.successResponse(w, r, "雇员创建成功", patch.Employee)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeRecordCtx).(*domain.Employee)

	var req employeeRequest

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	assets, err := h.repository.GetAllAssets()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	dir := ledger.NewDirectory(assets)

	patch, err := reconcileEmployee(employee, dir, &req)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 雇员记录的保存是权威操作，必须先于各个资产的更新；
	// 资产更新失败只会让 assignedTo 暂时陈旧，不会破坏雇员记录
	if err := h.repository.UpdateEmployee(patch.Employee); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "employees_employee_id_key":
				h.badRequest(w, r, errors.New("雇员编号已存在"))
			case pgErr.ConstraintName == "employees_email_key":
				h.badRequest(w, r, errors.New("邮箱已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新雇员信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	failed := h.applyAssetUpdates(patch, dir)
	h.notifyHandover(patch)

	if len(failed) > 0 {
		h.successResponse(w, r, "雇员保存成功，但部分资产状态更新失败，请稍后重试", map[string]any{
			"employee":     patch.Employee,
			"failedAssets": failed,
		})
		return
	}

	h.successResponse(w, r, "更新雇员信息成功", patch.Employee)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeRecordCtx).(*domain.Employee)

	if err := h.repository.DeleteEmployee(employee.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除雇员成功", nil)
}

// applyAssetUpdates 把补丁中的资产变化逐个写回。
// 每个资产一次独立的更新，失败的记录下来返回，不回滚雇员记录
func (h *Handler) applyAssetUpdates(patch *ledger.Patch, dir *ledger.Directory) []string {
	displayName := patch.Employee.DisplayName()
	now := time.Now()
	failed := make([]string, 0)

	for _, asset := range patch.NewlyAssigned {
		assignedDate := now
		asset.AssignedTo = displayName
		asset.AssignedDate = &assignedDate
		asset.History = append(asset.History, domain.AssetHistoryEntry{
			ID:        uuid.NewString(),
			Timestamp: now,
			Action:    "分配",
			Details:   fmt.Sprintf("分配给 %s", displayName),
			NewValue:  displayName,
		})

		if err := h.repository.UpdateAsset(asset); err != nil {
			slog.Error("更新资产分配状态失败", "assetId", asset.AssetID, "error", err)
			failed = append(failed, asset.AssetID)
		}
	}

	// 交接状态为已完成时，已勾选归还的资产立即释放；
	// 其他状态下资产保持已分配，等交接完成后再释放
	hd := patch.Employee.HandoverDetails
	if hd == nil || hd.HandoverStatus != domain.HandoverStatusCompleted {
		return failed
	}

	for _, internalID := range hd.AssetsToReturn {
		asset, ok := dir.GetByInternalID(internalID)
		if !ok {
			// 退化保留的标识，目录里已经没有对应资产，跳过
			continue
		}

		oldAssignee := asset.AssignedTo
		asset.AssignedTo = ""
		asset.AssignedDate = nil
		asset.History = append(asset.History, domain.AssetHistoryEntry{
			ID:        uuid.NewString(),
			Timestamp: now,
			Action:    "归还",
			Details:   fmt.Sprintf("%s 离职交接归还", oldAssignee),
			OldValue:  oldAssignee,
		})

		if err := h.repository.UpdateAsset(asset); err != nil {
			slog.Error("更新资产归还状态失败", "assetId", asset.AssetID, "error", err)
			failed = append(failed, asset.AssetID)
		}
	}

	return failed
}

// notifyHandover 在雇员带交接信息保存后给接收人发通知邮件，
// 尽力而为：找不到接收人或者入队失败只记日志，不影响保存结果
func (h *Handler) notifyHandover(patch *ledger.Patch) {
	hd := patch.Employee.HandoverDetails
	if hd == nil || hd.HandoverTo == "" {
		return
	}

	employees, err := h.repository.GetAllEmployees()
	if err != nil {
		slog.Error("查找交接接收人失败", "error", err)
		return
	}

	var recipient *domain.Employee
	for _, employee := range employees {
		if strings.TrimSpace(employee.DisplayName()) == strings.TrimSpace(hd.HandoverTo) {
			recipient = employee
			break
		}
	}
	if recipient == nil || recipient.Email == "" {
		slog.Warn("交接接收人不在雇员名单中，跳过通知邮件", "handoverTo", hd.HandoverTo)
		return
	}

	mailMessage := domain.MailMessage{
		Type: "handover_notice",
		To:   recipient.Email,
		Data: domain.HandoverNoticeMailData{
			FullName:     recipient.DisplayName(),
			EmployeeName: patch.Employee.DisplayName(),
			AssetCount:   len(hd.AssetsToReturn),
			HandoverDate: hd.HandoverDate,
		},
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		slog.Error("交接通知邮件序列化失败", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		slog.Error("交接通知邮件入队失败", "error", err)
	}
}
