package repository

import (
	"context"
	"errors"

	"shoppos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	// CreateWithRole inserts the profile and its role row. The first user
	// ever created becomes admin, every later one cashier.
	CreateWithRole(ctx context.Context, p *model.Profile) (string, error)
	FindByUsername(ctx context.Context, username string) (*model.Profile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	// RoleOf returns "" when the user has no role row.
	RoleOf(ctx context.Context, userID uuid.UUID) (string, error)
	List(ctx context.Context) ([]model.UserWithRole, error)
	UpsertRole(ctx context.Context, userID uuid.UUID, role string) error
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) CreateWithRole(ctx context.Context, p *model.Profile) (string, error) {
	role := model.RoleCashier
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serializes concurrent sign-ups so only one can observe an empty table.
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext('shoppos.signup'))").Error; err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&model.Profile{}).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			role = model.RoleAdmin
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return tx.Create(&model.UserRole{UserID: p.UserID, Role: role}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", ErrDuplicateUsername
	}
	return role, err
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.Profile, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).Where("LOWER(username) = LOWER(?)", username).First(&p).Error
	return &p, err
}

func (r *userRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	return &p, err
}

func (r *userRepo) RoleOf(ctx context.Context, userID uuid.UUID) (string, error) {
	var ur model.UserRole
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&ur).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return ur.Role, err
}

func (r *userRepo) List(ctx context.Context) ([]model.UserWithRole, error) {
	var users []model.UserWithRole
	err := r.db.WithContext(ctx).Table("profiles p").
		Select("p.user_id, p.username, COALESCE(ur.role, '') AS role, p.created_at").
		Joins("LEFT JOIN user_roles ur ON ur.user_id = p.user_id").
		Order("p.created_at ASC").
		Scan(&users).Error
	return users, err
}

func (r *userRepo) UpsertRole(ctx context.Context, userID uuid.UUID, role string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role"}),
	}).Create(&model.UserRole{UserID: userID, Role: role}).Error
}
