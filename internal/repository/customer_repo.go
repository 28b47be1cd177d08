package repository

import (
	"context"

	"shoppos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerBalance pairs a customer's stored balance with the balance derived
// from its ledger entries.
type LedgerBalance struct {
	CustomerID    uuid.UUID
	Name          string
	StoredBalance decimal.Decimal
	LedgerBalance decimal.Decimal
}

type CustomerRepository interface {
	Create(ctx context.Context, c *model.CreditCustomer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CreditCustomer, error)
	List(ctx context.Context) ([]model.CreditCustomer, error)
	Update(ctx context.Context, c *model.CreditCustomer) error
	Delete(ctx context.Context, id uuid.UUID) error

	LedgerBalances(ctx context.Context) ([]LedgerBalance, error)
	CountWithCredit(ctx context.Context) (int64, error)
	SumOutstanding(ctx context.Context) (decimal.Decimal, error)

	// Used inside transactions
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.CreditCustomer, error)
	AddTransactionTx(tx *gorm.DB, t *model.CreditTransaction) error
	AdjustBalanceTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error

	DB() *gorm.DB
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) DB() *gorm.DB { return r.db }

func newestFirst(db *gorm.DB) *gorm.DB { return db.Order("date DESC") }

func (r *customerRepo) Create(ctx context.Context, c *model.CreditCustomer) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CreditCustomer, error) {
	var c model.CreditCustomer
	err := r.db.WithContext(ctx).Preload("Transactions", newestFirst).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *customerRepo) List(ctx context.Context) ([]model.CreditCustomer, error) {
	var customers []model.CreditCustomer
	err := r.db.WithContext(ctx).Preload("Transactions", newestFirst).Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.CreditCustomer) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error
}

func (r *customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.CreditCustomer{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByIDForUpdateTx locks the customer row until tx ends.
func (r *customerRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.CreditCustomer, error) {
	var c model.CreditCustomer
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *customerRepo) AddTransactionTx(tx *gorm.DB, t *model.CreditTransaction) error {
	return tx.Create(t).Error
}

func (r *customerRepo) AdjustBalanceTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.CreditCustomer{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_credit": gorm.Expr("total_credit + ?", delta),
			"updated_at":   gorm.Expr("now()"),
		}).Error
}

func (r *customerRepo) LedgerBalances(ctx context.Context) ([]LedgerBalance, error) {
	var rows []LedgerBalance
	err := r.db.WithContext(ctx).Raw(`
SELECT c.id AS customer_id, c.name, c.total_credit AS stored_balance,
       COALESCE(SUM(CASE WHEN t.type = 'payment' THEN -t.amount ELSE t.amount END), 0) AS ledger_balance
FROM credit_customers c
LEFT JOIN credit_transactions t ON t.customer_id = c.id
GROUP BY c.id, c.name, c.total_credit
ORDER BY c.name`).Scan(&rows).Error
	return rows, err
}

func (r *customerRepo) CountWithCredit(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.CreditCustomer{}).Where("total_credit > 0").Count(&n).Error
	return n, err
}

func (r *customerRepo) SumOutstanding(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.CreditCustomer{}).
		Select("COALESCE(SUM(total_credit), 0)").Scan(&sum).Error
	return sum, err
}
