package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// AssetHistoryEntry 是资产变更历史中的一条记录。
// 历史记录只允许追加，不允许修改或者重排。
type AssetHistoryEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	OldValue  string    `json:"oldValue,omitempty"`
	NewValue  string    `json:"newValue,omitempty"`
}

// AssetHistory 以 JSONB 的形式存储在 assets 表中
type AssetHistory []AssetHistoryEntry

func (h AssetHistory) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	return json.Marshal(h)
}

func (h *AssetHistory) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*h = AssetHistory{}
		return nil
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	default:
		return errors.New("无法将数据库中的值解析为资产历史记录")
	}
}

type Asset struct {
	InternalID   string       `json:"internalId"` // 系统分配的持久标识，雇员交接记录中的外键
	AssetID      string       `json:"assetId"`    // 人工分配的资产编号，创建后不可修改
	Name         string       `json:"name"`
	Category     string       `json:"category"`
	Status       string       `json:"status"`
	AssignedTo   string       `json:"assignedTo,omitempty"` // 当前持有人的显示姓名，未分配时为空
	AssignedDate *time.Time   `json:"assignedDate,omitempty"`
	History      AssetHistory `json:"history"`
	CreatedAt    time.Time    `json:"createdAt"`
	Version      int32        `json:"-"`
}

// Unassigned 表示这个资产当前是否未被任何雇员持有
func (a *Asset) Unassigned() bool {
	return a.AssignedTo == ""
}
