package repository

import (
	"context"

	"shoppos/internal/dto"
	"shoppos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, error)
	UpdateRefunded(ctx context.Context, id uuid.UUID, refunded bool) error

	// FindByIDForUpdateTx locks the sale row and loads its items.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	UpdateRefundedTx(tx *gorm.DB, id uuid.UUID, refunded bool) error

	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

// CreateTx inserts the sale and its items in one statement batch.
func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Omit("Customer").Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").Preload("Customer").First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("sale_id = ?", id).Find(&s.Items).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, error) {
	var sales []model.Sale
	q := r.db.WithContext(ctx).Model(&model.Sale{})

	if !filter.From.IsZero() {
		q = q.Where("date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("date < ?", filter.To.AddDate(0, 0, 1))
	}
	if filter.PaymentMethod != "" {
		q = q.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}

	err := q.Preload("Items").Order("date DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) UpdateRefunded(ctx context.Context, id uuid.UUID, refunded bool) error {
	res := r.db.WithContext(ctx).Model(&model.Sale{}).Where("id = ?", id).Update("refunded", refunded)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *saleRepo) UpdateRefundedTx(tx *gorm.DB, id uuid.UUID, refunded bool) error {
	return tx.Model(&model.Sale{}).Where("id = ?", id).Update("refunded", refunded).Error
}
