package domain

import (
	"time"
)

type Role string

const (
	RoleViewer       Role = "查看者"
	RoleAssetManager Role = "资产管理员"
	RoleAdmin        Role = "管理员"
)

// User 是资产管理系统的操作员账户，和 Employee（被管理的雇员档案）
// 是两个独立的概念：雇员不一定有账户，账户也不一定对应雇员
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"isActive"` // 被禁用的账户不允许登录
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	Version      int32      `json:"-"`
}
