package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringList 以 JSONB 的形式存储在 settings 表中
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("无法将数据库中的值解析为字符串列表")
	}
}

// Settings 是组织级别的下拉选项配置，由管理员维护，
// 前端的资产分类、资产状态和部门下拉框都从这里取值
type Settings struct {
	Categories  StringList `json:"categories"`
	Statuses    StringList `json:"statuses"`
	Departments StringList `json:"departments"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Version     int32      `json:"-"`
}

// DefaultSettings 是 settings 表初始化时写入的默认选项，
// 种子数据生成器也从这里取值，保证演示数据和默认配置一致
func DefaultSettings() *Settings {
	return &Settings{
		Categories:  StringList{"笔记本电脑", "台式机", "显示器", "手机", "门禁卡", "办公桌椅"},
		Statuses:    StringList{"在用", "闲置", "维修中"},
		Departments: StringList{"行政部", "技术部", "财务部", "人事部", "市场部"},
	}
}
