package model

import (
	"time"

	"github.com/google/uuid"
)

// Page paths gated by RolePermission.
const (
	PageDashboard       = "/dashboard"
	PagePOS             = "/pos"
	PageProducts        = "/products"
	PageSales           = "/sales"
	PageCreditCustomers = "/credit-customers"
	PageRefund          = "/refund"
	PageRefunds         = "/refunds"
	PageProfitAnalysis  = "/profit-analysis"
	PageSettings        = "/settings"
	PageDatabaseSchema  = "/database-schema"
	PageSetup           = "/setup"
)

// Pages lists every navigable page in menu order.
var Pages = []string{
	PageDashboard, PagePOS, PageProducts, PageSales, PageCreditCustomers,
	PageRefund, PageRefunds, PageProfitAnalysis, PageSettings,
	PageDatabaseSchema, PageSetup,
}

// RolePermission is unique per (role, page_path).
type RolePermission struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Role      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_role_page"`
	PagePath  string    `gorm:"not null;uniqueIndex:idx_role_page"`
	CanAccess bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
