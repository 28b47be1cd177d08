package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shoppos/internal/dto"
	"shoppos/internal/infra"
	"shoppos/internal/model"
	"shoppos/internal/repository"
	"shoppos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	Checkout(ctx context.Context, userID *uuid.UUID, req dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]dto.SaleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateSaleRequest) (*dto.SaleResponse, error)
}

type saleService struct {
	repo       repository.SaleRepository
	products   repository.ProductRepository
	customers  repository.CustomerRepository
	dispatcher *worker.Dispatcher
	now        func() time.Time
}

func NewSaleService(
	repo repository.SaleRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:       repo,
		products:   products,
		customers:  customers,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// ── Checkout ──────────────────────────────────────────────────────────────────
// Single transaction:
//   1. Snapshot name/price/cost of every cart line, compute total
//   2. Cash: reject when cash_received < total
//   3. Credit: lock the customer row
//   4. Guarded stock decrement per line (aborts everything on shortage)
//   5. Insert sale + items
//   6. Credit: append "sale" ledger entry, increment total_credit
//   7. COMMIT, then (async) receipt job

func (s *saleService) Checkout(ctx context.Context, userID *uuid.UUID, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	var customerID *uuid.UUID
	switch {
	case req.PaymentMethod == model.PaymentCredit && req.CustomerID == nil:
		return nil, ErrCustomerRequired
	case req.PaymentMethod != model.PaymentCredit && req.CustomerID != nil:
		return nil, ErrCustomerOnlyForCredit
	case req.CustomerID != nil:
		id, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("customer_id: %w", ErrNotFound)
		}
		customerID = &id
	}

	type line struct {
		productID uuid.UUID
		quantity  int
		price     *decimal.Decimal
		cost      *decimal.Decimal
	}
	lines := make([]line, len(req.Items))
	for i, it := range req.Items {
		pid, err := uuid.Parse(it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product_id %q: %w", it.ProductID, ErrNotFound)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("quantity must be at least 1: %w", ErrInvalidAmount)
		}
		lines[i] = line{productID: pid, quantity: it.Quantity, price: it.Price, cost: it.Cost}
	}

	var (
		sale   model.Sale
		change *decimal.Decimal
	)
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		saleID := uuid.New()
		items := make([]model.SaleItem, 0, len(lines))
		total := decimal.Zero

		for _, l := range lines {
			p, err := s.products.FindByIDTx(tx, l.productID)
			if err != nil {
				return notFound(err, "product "+l.productID.String())
			}
			price, cost := p.Price, p.Cost
			if l.price != nil {
				price = *l.price
			}
			if l.cost != nil {
				cost = *l.cost
			}
			pid := p.ID
			item := model.SaleItem{
				ID:          uuid.New(),
				SaleID:      saleID,
				ProductID:   &pid,
				ProductName: p.Name,
				Quantity:    l.quantity,
				Price:       price,
				Cost:        cost,
			}
			total = total.Add(item.LineTotal())
			items = append(items, item)
		}
		total = total.Round(2)

		if req.PaymentMethod == model.PaymentCash && req.CashReceived != nil {
			if req.CashReceived.LessThan(total) {
				return ErrInsufficientCash
			}
			c := req.CashReceived.Sub(total).Round(2)
			change = &c
		}

		if customerID != nil {
			if _, err := s.customers.FindByIDForUpdateTx(tx, *customerID); err != nil {
				return notFound(err, "customer")
			}
		}

		sale = model.Sale{
			ID:            saleID,
			Date:          s.now(),
			Total:         total,
			PaymentMethod: req.PaymentMethod,
			CustomerID:    customerID,
			CreatedBy:     userID,
			Items:         items,
		}

		for _, item := range items {
			if err := s.products.DecrementStockTx(tx, *item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return fmt.Errorf("%s: %w", item.ProductName, ErrInsufficientStock)
				}
				return err
			}
		}

		if err := s.repo.CreateTx(tx, &sale); err != nil {
			return err
		}

		if customerID != nil {
			entry := &model.CreditTransaction{
				ID:          uuid.New(),
				CustomerID:  *customerID,
				Amount:      total,
				Type:        model.CreditTxSale,
				Description: "Sale on credit",
				Date:        sale.Date,
			}
			if err := s.customers.AddTransactionTx(tx, entry); err != nil {
				return err
			}
			if err := s.customers.AdjustBalanceTx(tx, *customerID, total); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	infra.SalesTotal.WithLabelValues(sale.PaymentMethod).Inc()
	infra.SalesRevenue.Add(sale.Total.InexactFloat64())

	// Receipt rendering is best-effort and never fails the sale.
	if s.dispatcher != nil {
		payload := worker.ReceiptJobPayload{SaleID: sale.ID.String()}
		if req.CustomerEmail != nil {
			payload.Email = *req.CustomerEmail
		}
		if err := s.dispatcher.EnqueueReceipt(ctx, payload); err != nil {
			log.Warn().Err(err).Str("sale_id", sale.ID.String()).Msg("checkout: receipt job not enqueued")
		}
	}

	return &dto.CheckoutResponse{SaleResponse: saleToResponse(&sale), Change: change}, nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) ([]dto.SaleResponse, error) {
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, ErrInvalidRange
	}
	sales, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SaleResponse, len(sales))
	for i := range sales {
		resp[i] = saleToResponse(&sales[i])
	}
	return resp, nil
}

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "sale")
	}
	resp := saleToResponse(sale)
	return &resp, nil
}

// Update edits the refunded flag in place.
func (s *saleService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	if req.Refunded != nil {
		if err := s.repo.UpdateRefunded(ctx, id, *req.Refunded); err != nil {
			return nil, notFound(err, "sale")
		}
	}
	return s.Get(ctx, id)
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func saleToResponse(s *model.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, len(s.Items))
	for i, it := range s.Items {
		items[i] = dto.SaleItemResponse{
			ID:          it.ID.String(),
			ProductID:   uuidPtrString(it.ProductID),
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Cost:        it.Cost,
		}
	}
	return dto.SaleResponse{
		ID:            s.ID.String(),
		Date:          formatTime(s.Date),
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		CustomerID:    uuidPtrString(s.CustomerID),
		Refunded:      s.Refunded,
		CreatedBy:     uuidPtrString(s.CreatedBy),
		Items:         items,
	}
}
