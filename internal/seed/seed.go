package seed

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/utils"
)

// SeedDemoData 生成一批演示用的雇员和资产：
// 大部分雇员在职，其中一部分持有资产，
// 再造一个已离职、带交接记录的雇员用于演示交接流程
func SeedDemoData(repo *repository.Repository, cfg *config.Config) {
	employees := make([]*domain.Employee, 0, cfg.Seed.EmployeeNumber)
	for i := 0; i < cfg.Seed.EmployeeNumber; i++ {
		employee := utils.GenerateRandomEmployee(cfg.Email.UserDomain)
		if err := repo.CreateEmployee(employee); err != nil {
			slog.Error("无法插入雇员", "error", err)
			continue
		}
		employees = append(employees, employee)
	}
	slog.Info("插入雇员成功", "count", len(employees))

	if len(employees) == 0 {
		return
	}

	assets := make([]*domain.Asset, 0, cfg.Seed.AssetNumber)
	for i := 0; i < cfg.Seed.AssetNumber; i++ {
		asset := utils.GenerateRandomAsset(i + 1)

		// 大约一半的资产分配给随机雇员
		if rand.Intn(2) == 0 {
			holder := employees[rand.Intn(len(employees))]
			assignedDate := time.Now().AddDate(0, -rand.Intn(12), 0)
			asset.AssignedTo = holder.DisplayName()
			asset.AssignedDate = &assignedDate
			asset.History = append(asset.History, domain.AssetHistoryEntry{
				ID:        uuid.NewString(),
				Timestamp: assignedDate,
				Action:    "分配",
				Details:   "分配给 " + holder.DisplayName(),
				NewValue:  holder.DisplayName(),
			})
		}

		if err := repo.CreateAsset(asset); err != nil {
			slog.Error("无法插入资产", "error", err)
			continue
		}
		assets = append(assets, asset)
	}
	slog.Info("插入资产成功", "count", len(assets))

	// 造一个已离职、带交接记录的雇员
	relieved := employees[rand.Intn(len(employees))]
	returned := make([]string, 0)
	for _, asset := range assets {
		if asset.AssignedTo == relieved.DisplayName() {
			returned = append(returned, asset.InternalID)
		}
	}

	receiver := pickReceiver(employees, relieved)
	if receiver == nil {
		slog.Warn("雇员数量不足，跳过离职交接示例")
		return
	}

	relieved.Status = domain.EmployeeStatusRelieved
	relieved.HandoverDetails = &domain.HandoverDetails{
		HandoverDate:   time.Now().UTC().Format(time.RFC3339),
		HandoverTo:     receiver.DisplayName(),
		HandoverReason: "个人原因离职",
		AssetsToReturn: returned,
		HandoverStatus: domain.HandoverStatusPending,
	}

	if err := repo.UpdateEmployee(relieved); err != nil {
		slog.Error("无法更新离职雇员", "error", err)
		return
	}
	slog.Info("已生成离职交接示例", "employeeId", relieved.EmployeeID, "assetCount", len(returned))
}

// pickReceiver 为离职雇员随机挑一个交接接收人，
// 接收人必须是另一个雇员，候选为空时返回 nil
func pickReceiver(employees []*domain.Employee, relieved *domain.Employee) *domain.Employee {
	candidates := make([]*domain.Employee, 0, len(employees))
	for _, employee := range employees {
		if employee.ID != relieved.ID {
			candidates = append(candidates, employee)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[rand.Intn(len(candidates))]
}
