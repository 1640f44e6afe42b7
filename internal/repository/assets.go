package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func (r *Repository) GetAllAssets() ([]*domain.Asset, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT internal_id, asset_id, name, category, status, assigned_to, assigned_date, history, created_at, version
		FROM assets
		ORDER BY asset_id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := make([]*domain.Asset, 0)
	for rows.Next() {
		asset := &domain.Asset{}
		dst := []any{&asset.InternalID, &asset.AssetID, &asset.Name, &asset.Category, &asset.Status, &asset.AssignedTo, &asset.AssignedDate, &asset.History, &asset.CreatedAt, &asset.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assets, nil
}

func (r *Repository) GetUnassignedAssets() ([]*domain.Asset, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT internal_id, asset_id, name, category, status, assigned_to, assigned_date, history, created_at, version
		FROM assets
		WHERE assigned_to = ''
		ORDER BY asset_id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := make([]*domain.Asset, 0)
	for rows.Next() {
		asset := &domain.Asset{}
		dst := []any{&asset.InternalID, &asset.AssetID, &asset.Name, &asset.Category, &asset.Status, &asset.AssignedTo, &asset.AssignedDate, &asset.History, &asset.CreatedAt, &asset.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assets, nil
}

func (r *Repository) GetAssetByInternalID(internalID string) (*domain.Asset, error) {
	query := `
		SELECT asset_id, name, category, status, assigned_to, assigned_date, history, created_at, version
		FROM assets WHERE internal_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	asset := &domain.Asset{
		InternalID: internalID,
	}

	dst := []any{&asset.AssetID, &asset.Name, &asset.Category, &asset.Status, &asset.AssignedTo, &asset.AssignedDate, &asset.History, &asset.CreatedAt, &asset.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, internalID).Scan(dst...); err != nil {
		return nil, err
	}

	return asset, nil
}

func (r *Repository) CreateAsset(asset *domain.Asset) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO assets (internal_id, asset_id, name, category, status, assigned_to, assigned_date, history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, version
	`

	args := []any{asset.InternalID, asset.AssetID, asset.Name, asset.Category, asset.Status, asset.AssignedTo, asset.AssignedDate, asset.History}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&asset.CreatedAt, &asset.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateAsset(asset *domain.Asset) error {
	query := `
		UPDATE assets
		SET
			name = $1,
			category = $2,
			status = $3,
			assigned_to = $4,
			assigned_date = $5,
			history = $6,
			version = version + 1
		WHERE internal_id = $7 AND version = $8
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{asset.Name, asset.Category, asset.Status, asset.AssignedTo, asset.AssignedDate, asset.History, asset.InternalID, asset.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&asset.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteAsset(internalID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM assets WHERE internal_id = $1
	`

	_, err := r.dbpool.ExecContext(ctx, query, internalID)
	if err != nil {
		return err
	}

	return nil
}
