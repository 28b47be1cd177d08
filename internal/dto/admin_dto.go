package dto

import "github.com/shopspring/decimal"

// ─── Bulk reset ──────────────────────────────────────────────────────────────

type ResetRequest struct {
	Products        bool `json:"products"`
	Sales           bool `json:"sales"`
	Refunds         bool `json:"refunds"`
	CreditCustomers bool `json:"credit_customers"`
}

// Any reports whether at least one data type is selected.
func (r ResetRequest) Any() bool {
	return r.Products || r.Sales || r.Refunds || r.CreditCustomers
}

// TableCount is the number of rows deleted from one table.
type TableCount struct {
	Table   string `json:"table"`
	Deleted int64  `json:"deleted"`
}

type ResetResponse struct {
	Tables []TableCount `json:"tables"`
}

// ─── Schema ──────────────────────────────────────────────────────────────────

type ColumnInfo struct {
	Name     string  `json:"column_name"`
	DataType string  `json:"data_type"`
	Nullable bool    `json:"is_nullable"`
	Default  *string `json:"column_default"`
}

type TableInfo struct {
	Name    string       `json:"table_name"`
	Columns []ColumnInfo `json:"columns"`
}

// ─── Setup ───────────────────────────────────────────────────────────────────

type ConnectionRequest struct {
	DatabaseURL string `json:"database_url" validate:"required,startswith=postgres"`
}

type ConnectionResponse struct {
	Source      string `json:"source"` // env | override
	DatabaseURL string `json:"database_url"`
}

// ─── Reports ─────────────────────────────────────────────────────────────────

type DashboardResponse struct {
	TodaySales          int             `json:"today_sales"`
	TodayRevenue        decimal.Decimal `json:"today_revenue"`
	TodayProfit         decimal.Decimal `json:"today_profit"`
	ProductCount        int64           `json:"product_count"`
	LowStockCount       int64           `json:"low_stock_count"`
	CustomersWithCredit int64           `json:"customers_with_credit"`
	OutstandingCredit   decimal.Decimal `json:"outstanding_credit"`
}

type ProfitFilter struct {
	From string `form:"from"` // YYYY-MM-DD, default today - 30 days
	To   string `form:"to"`   // YYYY-MM-DD, default today
}

type ProfitResponse struct {
	From            string          `json:"from"`
	To              string          `json:"to"`
	SalesCount      int             `json:"sales_count"`
	Revenue         decimal.Decimal `json:"revenue"`
	Cost            decimal.Decimal `json:"cost"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	MarginPct       decimal.Decimal `json:"margin_pct"`
	RefundedRevenue decimal.Decimal `json:"refunded_revenue"`
	RefundedCost    decimal.Decimal `json:"refunded_cost"`
	NetProfit       decimal.Decimal `json:"net_profit"`
}
