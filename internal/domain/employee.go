package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

type EmployeeStatus string

const (
	EmployeeStatusActive     EmployeeStatus = "Active"
	EmployeeStatusRelieved   EmployeeStatus = "Relieved"
	EmployeeStatusOnLeave    EmployeeStatus = "On Leave"
	EmployeeStatusTerminated EmployeeStatus = "Terminated"
)

// RequiresHandover 表示处于这个状态的雇员保存时是否需要附带交接信息
func (s EmployeeStatus) RequiresHandover() bool {
	return s == EmployeeStatusRelieved || s == EmployeeStatusTerminated
}

type HandoverStatus string

const (
	HandoverStatusPending    HandoverStatus = "Pending"
	HandoverStatusInProgress HandoverStatus = "In Progress"
	HandoverStatusCompleted  HandoverStatus = "Completed"
	HandoverStatusPartial    HandoverStatus = "Partial"
)

// HandoverDetails 只在雇员状态为 Relieved 或 Terminated 时有意义，
// AssetsToReturn 中存储的是资产的 internalId（不是 assetId）
type HandoverDetails struct {
	HandoverDate   string         `json:"handoverDate,omitempty"`
	HandoverTo     string         `json:"handoverTo,omitempty"`
	HandoverReason string         `json:"handoverReason,omitempty"`
	AssetsToReturn []string       `json:"assetsToReturn,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	HandoverStatus HandoverStatus `json:"handoverStatus,omitempty"`
}

func (hd HandoverDetails) Value() (driver.Value, error) {
	return json.Marshal(hd)
}

func (hd *HandoverDetails) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, hd)
	case string:
		return json.Unmarshal([]byte(v), hd)
	default:
		return errors.New("无法将数据库中的值解析为交接信息")
	}
}

type Employee struct {
	ID              int64            `json:"id"`
	EmployeeID      string           `json:"employeeId"` // 用户选择的编号，仅允许大写字母、数字、连字符和下划线
	FirstName       string           `json:"firstName"`
	LastName        string           `json:"lastName"`
	FullName        string           `json:"fullName,omitempty"`
	Email           string           `json:"email"`
	Department      string           `json:"department"`
	Position        string           `json:"position,omitempty"`
	Phone           string           `json:"phone,omitempty"` // 存在时必须恰好为 10 位数字
	HireDate        *time.Time       `json:"hireDate,omitempty"`
	Status          EmployeeStatus   `json:"status"`
	HandoverDetails *HandoverDetails `json:"handoverDetails,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	Version         int32            `json:"-"`
}

// DisplayName 是资产 assignedTo 字段匹配时使用的显示姓名。
// 统一的规范化规则：两侧都去掉首尾空白，大小写敏感比较。
func (e *Employee) DisplayName() string {
	if name := strings.TrimSpace(e.FullName); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(e.FirstName) + " " + strings.TrimSpace(e.LastName))
}
