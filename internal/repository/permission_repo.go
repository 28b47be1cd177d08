package repository

import (
	"context"
	"time"

	"shoppos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PermissionRepository interface {
	List(ctx context.Context) ([]model.RolePermission, error)
	FindByRole(ctx context.Context, role string) ([]model.RolePermission, error)
	// Upsert inserts the (role, page_path) row or updates its can_access.
	Upsert(ctx context.Context, p *model.RolePermission) error
}

type permissionRepo struct{ db *gorm.DB }

func NewPermissionRepository(db *gorm.DB) PermissionRepository { return &permissionRepo{db: db} }

func (r *permissionRepo) List(ctx context.Context) ([]model.RolePermission, error) {
	var perms []model.RolePermission
	err := r.db.WithContext(ctx).Order("role ASC, page_path ASC").Find(&perms).Error
	return perms, err
}

func (r *permissionRepo) FindByRole(ctx context.Context, role string) ([]model.RolePermission, error) {
	var perms []model.RolePermission
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("page_path ASC").Find(&perms).Error
	return perms, err
}

func (r *permissionRepo) Upsert(ctx context.Context, p *model.RolePermission) error {
	p.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role"}, {Name: "page_path"}},
		DoUpdates: clause.AssignmentColumns([]string{"can_access", "updated_at"}),
	}).Create(p).Error
}
