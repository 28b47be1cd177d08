package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles. Admin bypasses every page permission.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
	RoleViewer  = "viewer"
)

// Roles lists every role in display order.
var Roles = []string{RoleAdmin, RoleManager, RoleCashier, RoleViewer}

// Profile stores a login identity.
type Profile struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Username     string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time
}

// UserRole assigns one role per user.
type UserRole struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Role   string    `gorm:"type:varchar(20);not null"`
}

// UserWithRole is the read model joining profiles and user_roles.
// Role is empty when the user has no role row.
type UserWithRole struct {
	UserID    uuid.UUID
	Username  string
	Role      string
	CreatedAt time.Time
}
