package repository

import (
	"fmt"

	"shoppos/internal/model"

	"gorm.io/gorm"
)

// Tables the bulk reset may clear, keyed by table name.
var resettable = map[string]interface{}{
	"refund_items":        &model.RefundItem{},
	"refunds":             &model.Refund{},
	"sale_items":          &model.SaleItem{},
	"sales":               &model.Sale{},
	"credit_transactions": &model.CreditTransaction{},
	"credit_customers":    &model.CreditCustomer{},
	"products":            &model.Product{},
}

type ResetRepository interface {
	// DeleteAllTx deletes every row of table and returns the count.
	DeleteAllTx(tx *gorm.DB, table string) (int64, error)
	DB() *gorm.DB
}

type resetRepo struct{ db *gorm.DB }

func NewResetRepository(db *gorm.DB) ResetRepository { return &resetRepo{db: db} }

func (r *resetRepo) DB() *gorm.DB { return r.db }

func (r *resetRepo) DeleteAllTx(tx *gorm.DB, table string) (int64, error) {
	m, ok := resettable[table]
	if !ok {
		return 0, fmt.Errorf("reset: table %q is not resettable", table)
	}
	res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m)
	return res.RowsAffected, res.Error
}
