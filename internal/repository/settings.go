package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

// settings 表只有一行，保存组织级别的下拉选项配置

// EnsureSettings 在服务启动时保证 settings 行存在，
// 已经存在时不覆盖管理员改过的值
func (r *Repository) EnsureSettings(defaults *domain.Settings) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO settings (id, categories, statuses, departments)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.dbpool.ExecContext(ctx, query, defaults.Categories, defaults.Statuses, defaults.Departments)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetSettings() (*domain.Settings, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT categories, statuses, departments, updated_at, version
		FROM settings WHERE id = 1
	`

	settings := &domain.Settings{}
	dst := []any{&settings.Categories, &settings.Statuses, &settings.Departments, &settings.UpdatedAt, &settings.Version}
	if err := r.dbpool.QueryRowContext(ctx, query).Scan(dst...); err != nil {
		return nil, err
	}

	return settings, nil
}

func (r *Repository) UpdateSettings(settings *domain.Settings) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE settings
		SET
			categories = $1,
			statuses = $2,
			departments = $3,
			updated_at = NOW(),
			version = version + 1
		WHERE id = 1 AND version = $4
		RETURNING updated_at, version
	`

	args := []any{settings.Categories, settings.Statuses, settings.Departments, settings.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&settings.UpdatedAt, &settings.Version); err != nil {
		return err
	}

	return nil
}
