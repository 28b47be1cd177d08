package repository

import (
	"context"

	"shoppos/internal/dto"
	"shoppos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RefundRepository interface {
	CreateTx(tx *gorm.DB, r *model.Refund) error
	List(ctx context.Context, filter dto.RefundFilter) ([]model.Refund, error)
	// RefundedQuantitiesTx sums refunded quantity per sale item of a sale.
	RefundedQuantitiesTx(tx *gorm.DB, saleID uuid.UUID) (map[uuid.UUID]int, error)
}

type refundRepo struct{ db *gorm.DB }

func NewRefundRepository(db *gorm.DB) RefundRepository { return &refundRepo{db: db} }

func (r *refundRepo) CreateTx(tx *gorm.DB, rf *model.Refund) error {
	return tx.Create(rf).Error
}

func (r *refundRepo) List(ctx context.Context, filter dto.RefundFilter) ([]model.Refund, error) {
	var refunds []model.Refund
	q := r.db.WithContext(ctx).Model(&model.Refund{})

	if !filter.From.IsZero() {
		q = q.Where("date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("date < ?", filter.To.AddDate(0, 0, 1))
	}
	if filter.SaleID != "" {
		q = q.Where("sale_id = ?", filter.SaleID)
	}

	err := q.Preload("Items").Order("date DESC").Find(&refunds).Error
	return refunds, err
}

func (r *refundRepo) RefundedQuantitiesTx(tx *gorm.DB, saleID uuid.UUID) (map[uuid.UUID]int, error) {
	var rows []struct {
		SaleItemID uuid.UUID
		Quantity   int
	}
	err := tx.Table("refund_items ri").
		Select("ri.sale_item_id, SUM(ri.quantity) AS quantity").
		Joins("JOIN refunds rf ON rf.id = ri.refund_id").
		Where("rf.sale_id = ? AND ri.sale_item_id IS NOT NULL", saleID).
		Group("ri.sale_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		out[row.SaleItemID] = row.Quantity
	}
	return out, nil
}
