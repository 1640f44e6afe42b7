package utils

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

// 雇员编号只允许大写字母、数字、连字符和下划线
var employeeIDPattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)

func IsValidEmployeeID(employeeID string) bool {
	return employeeIDPattern.MatchString(employeeID)
}

// ValidateHandoverRequired 检查离职状态下的交接信息是否完整。
// 这些是字段级校验之外的跨字段规则，在提交核算会话之前调用，
// 校验失败以字段级提示的形式返回给用户，不会中断会话。
func ValidateHandoverRequired(status domain.EmployeeStatus, hd domain.HandoverDetails) error {
	if !status.RequiresHandover() {
		return nil
	}

	if hd.HandoverDate == "" {
		return errors.New("交接日期不能为空")
	}
	if _, err := time.Parse(time.RFC3339, hd.HandoverDate); err != nil {
		if _, err := time.Parse("2006-01-02", hd.HandoverDate); err != nil {
			return fmt.Errorf("交接日期 %s 的格式错误", hd.HandoverDate)
		}
	}
	if hd.HandoverTo == "" {
		return errors.New("交接接收人不能为空")
	}
	if hd.HandoverReason == "" {
		return errors.New("交接原因不能为空")
	}

	switch hd.HandoverStatus {
	case "", domain.HandoverStatusPending, domain.HandoverStatusInProgress, domain.HandoverStatusCompleted, domain.HandoverStatusPartial:
	default:
		return fmt.Errorf("无效的交接状态 %s", hd.HandoverStatus)
	}

	return nil
}

// ValidateAssetImmutable 检查资产更新请求是否试图修改不可变字段
func ValidateAssetImmutable(old *domain.Asset, newAssetID string) error {
	if newAssetID != "" && newAssetID != old.AssetID {
		return errors.New("资产编号在创建后不允许修改")
	}
	return nil
}
