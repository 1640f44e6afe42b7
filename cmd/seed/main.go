package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/seed"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机雇员, 3: 插入随机资产, 4: 随机分配资产, 5: 插入演示数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机用户", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("无法插入用户", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入用户成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的雇员数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				employee := utils.GenerateRandomEmployee(cfg.Email.UserDomain)
				if err := repo.CreateEmployee(employee); err != nil {
					slog.Error("无法插入雇员", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入雇员成功", slog.Int("count", n-cnt))
		}
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的资产数量")
		} else {
			// 资产编号按已有数量顺延，避免撞唯一约束
			existing, err := repo.GetAllAssets()
			if err != nil {
				slog.Error("无法获取已有资产", slog.String("error", err.Error()))
				return
			}

			cnt := n
			for i := 0; i < n; i++ {
				asset := utils.GenerateRandomAsset(len(existing) + i + 1)
				if err := repo.CreateAsset(asset); err != nil {
					slog.Error("无法插入资产", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入资产成功", slog.Int("count", n-cnt))
		}
	case 4:
		// 把未分配的资产随机分配给在职雇员
		assets, err := repo.GetUnassignedAssets()
		if err != nil {
			slog.Error("无法获取未分配的资产", slog.String("error", err.Error()))
			return
		}
		if len(assets) == 0 {
			slog.Info("没有未分配的资产")
			return
		}

		employees, err := repo.GetAllEmployees()
		if err != nil {
			slog.Error("无法获取雇员列表", slog.String("error", err.Error()))
			return
		}

		active := make([]*domain.Employee, 0, len(employees))
		for _, employee := range employees {
			if employee.Status == domain.EmployeeStatusActive {
				active = append(active, employee)
			}
		}
		if len(active) == 0 {
			slog.Error("没有在职雇员可供分配")
			return
		}

		if n > len(assets) {
			n = len(assets)
		}

		cnt := 0
		for i := 0; i < n; i++ {
			asset := assets[i]
			holder := active[rand.Intn(len(active))]
			now := time.Now()

			asset.AssignedTo = holder.DisplayName()
			asset.AssignedDate = &now
			asset.History = append(asset.History, domain.AssetHistoryEntry{
				ID:        uuid.NewString(),
				Timestamp: now,
				Action:    "分配",
				Details:   "分配给 " + holder.DisplayName(),
				NewValue:  holder.DisplayName(),
			})

			if err := repo.UpdateAsset(asset); err != nil {
				slog.Error("无法更新资产", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("分配资产成功", slog.Int("count", cnt))
	case 5:
		seed.SeedDemoData(repo, cfg)
	default:
		slog.Error("指定的操作非法")
	}
}
