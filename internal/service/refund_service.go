package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shoppos/internal/dto"
	"shoppos/internal/infra"
	"shoppos/internal/model"
	"shoppos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RefundService interface {
	Create(ctx context.Context, userID *uuid.UUID, req dto.CreateRefundRequest) (*dto.RefundResponse, error)
	List(ctx context.Context, filter dto.RefundFilter) ([]dto.RefundResponse, error)
}

type refundService struct {
	repo     repository.RefundRepository
	sales    repository.SaleRepository
	products repository.ProductRepository
	now      func() time.Time
}

func NewRefundService(repo repository.RefundRepository, sales repository.SaleRepository, products repository.ProductRepository) RefundService {
	return &refundService{repo: repo, sales: sales, products: products, now: time.Now}
}

// ── Create ────────────────────────────────────────────────────────────────────
// Single transaction:
//   1. Lock the sale row, load its lines and what was already refunded
//   2. Every requested quantity must fit in original − already refunded
//   3. Insert refund + items (snapshots copied from the sale lines)
//   4. Restock when asked
//   5. Flag the sale refunded once every line is fully returned

func (s *refundService) Create(ctx context.Context, userID *uuid.UUID, req dto.CreateRefundRequest) (*dto.RefundResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if len(req.Items) == 0 {
		return nil, ErrNoRefundItems
	}
	saleID, err := uuid.Parse(req.SaleID)
	if err != nil {
		return nil, fmt.Errorf("sale_id: %w", ErrNotFound)
	}

	// Merge repeated lines so the quantity check sees the full request.
	requested := make(map[uuid.UUID]int, len(req.Items))
	order := make([]uuid.UUID, 0, len(req.Items))
	for _, it := range req.Items {
		id, err := uuid.Parse(it.SaleItemID)
		if err != nil {
			return nil, fmt.Errorf("sale_item_id %q: %w", it.SaleItemID, ErrUnknownSaleItem)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("quantity must be at least 1: %w", ErrRefundQuantity)
		}
		if _, seen := requested[id]; !seen {
			order = append(order, id)
		}
		requested[id] += it.Quantity
	}

	var refund model.Refund
	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		sale, err := s.sales.FindByIDForUpdateTx(tx, saleID)
		if err != nil {
			return notFound(err, "sale")
		}
		if sale.Refunded {
			return ErrAlreadyRefunded
		}
		already, err := s.repo.RefundedQuantitiesTx(tx, saleID)
		if err != nil {
			return err
		}

		lines := make(map[uuid.UUID]model.SaleItem, len(sale.Items))
		for _, it := range sale.Items {
			lines[it.ID] = it
		}

		refund = model.Refund{
			ID:        uuid.New(),
			SaleID:    saleID,
			Reason:    reason,
			CreatedBy: userID,
			Date:      s.now(),
		}
		total := decimal.Zero
		for _, id := range order {
			line, ok := lines[id]
			if !ok {
				return fmt.Errorf("%s: %w", id, ErrUnknownSaleItem)
			}
			qty := requested[id]
			if remaining := line.Quantity - already[id]; qty > remaining {
				return fmt.Errorf("%s: requested %d, refundable %d: %w", line.ProductName, qty, remaining, ErrRefundQuantity)
			}
			saleItemID := line.ID
			item := model.RefundItem{
				ID:          uuid.New(),
				RefundID:    refund.ID,
				SaleItemID:  &saleItemID,
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				Quantity:    qty,
				Price:       line.Price,
				Cost:        line.Cost,
			}
			total = total.Add(item.LineTotal())
			refund.Items = append(refund.Items, item)
		}
		refund.Total = total.Round(2)

		if err := s.repo.CreateTx(tx, &refund); err != nil {
			return err
		}

		if req.Restock {
			for _, item := range refund.Items {
				if item.ProductID == nil {
					continue // product deleted since the sale
				}
				if err := s.products.IncrementStockTx(tx, *item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}

		fully := true
		for _, line := range sale.Items {
			if already[line.ID]+requested[line.ID] < line.Quantity {
				fully = false
				break
			}
		}
		if fully {
			return s.sales.UpdateRefundedTx(tx, saleID, true)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	infra.RefundsTotal.Inc()
	resp := refundToResponse(&refund)
	return &resp, nil
}

func (s *refundService) List(ctx context.Context, filter dto.RefundFilter) ([]dto.RefundResponse, error) {
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, ErrInvalidRange
	}
	refunds, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RefundResponse, len(refunds))
	for i := range refunds {
		resp[i] = refundToResponse(&refunds[i])
	}
	return resp, nil
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func refundToResponse(r *model.Refund) dto.RefundResponse {
	items := make([]dto.RefundItemResponse, len(r.Items))
	for i, it := range r.Items {
		items[i] = dto.RefundItemResponse{
			ID:          it.ID.String(),
			SaleItemID:  uuidPtrString(it.SaleItemID),
			ProductID:   uuidPtrString(it.ProductID),
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Cost:        it.Cost,
		}
	}
	return dto.RefundResponse{
		ID:        r.ID.String(),
		SaleID:    r.SaleID.String(),
		Total:     r.Total,
		Reason:    r.Reason,
		CreatedBy: uuidPtrString(r.CreatedBy),
		Date:      formatTime(r.Date),
		Items:     items,
	}
}
