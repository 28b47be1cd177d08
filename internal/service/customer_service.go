package service

import (
	"context"
	"strings"
	"time"

	"shoppos/internal/dto"
	"shoppos/internal/model"
	"shoppos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerService interface {
	List(ctx context.Context) ([]dto.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	RecordPayment(ctx context.Context, id uuid.UUID, req dto.RecordPaymentRequest) (*dto.CustomerResponse, error)
	Reconcile(ctx context.Context) ([]dto.BalanceDrift, error)
}

type customerService struct {
	repo repository.CustomerRepository
	now  func() time.Time
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo, now: time.Now}
}

func (s *customerService) List(ctx context.Context) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CustomerResponse, len(customers))
	for i := range customers {
		resp[i] = customerToResponse(&customers[i])
	}
	return resp, nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "customer")
	}
	resp := customerToResponse(c)
	return &resp, nil
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	c := &model.CreditCustomer{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       blankToNil(req.Email),
		TotalCredit: decimal.Zero,
	}
	if req.TotalCredit != nil {
		c.TotalCredit = req.TotalCredit.Round(2)
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := customerToResponse(c)
	return &resp, nil
}

// Update edits the customer record in place. A total_credit edit is a manual
// correction and leaves the ledger untouched; Reconcile reports the gap.
func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "customer")
	}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		c.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		c.Email = blankToNil(req.Email)
	}
	if req.TotalCredit != nil {
		c.TotalCredit = req.TotalCredit.Round(2)
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := customerToResponse(c)
	return &resp, nil
}

func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	return notFound(s.repo.Delete(ctx, id), "customer")
}

// ── RecordPayment ─────────────────────────────────────────────────────────────
// One transaction: lock the customer row, check the balance, append the
// payment entry and decrement total_credit. Both writes commit or neither.

func (s *customerService) RecordPayment(ctx context.Context, id uuid.UUID, req dto.RecordPaymentRequest) (*dto.CustomerResponse, error) {
	amount := req.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "Payment received"
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return notFound(err, "customer")
		}
		if amount.GreaterThan(c.TotalCredit) {
			return ErrAmountExceedsBalance
		}
		entry := &model.CreditTransaction{
			ID:          uuid.New(),
			CustomerID:  id,
			Amount:      amount,
			Type:        model.CreditTxPayment,
			Description: description,
			Date:        s.now(),
		}
		if err := s.repo.AddTransactionTx(tx, entry); err != nil {
			return err
		}
		return s.repo.AdjustBalanceTx(tx, id, amount.Neg())
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Reconcile lists customers whose stored balance differs from
// Σ(sale entries) − Σ(payment entries).
func (s *customerService) Reconcile(ctx context.Context) ([]dto.BalanceDrift, error) {
	rows, err := s.repo.LedgerBalances(ctx)
	if err != nil {
		return nil, err
	}
	drift := []dto.BalanceDrift{}
	for _, r := range rows {
		if r.StoredBalance.Equal(r.LedgerBalance) {
			continue
		}
		drift = append(drift, dto.BalanceDrift{
			CustomerID:    r.CustomerID.String(),
			Name:          r.Name,
			StoredBalance: r.StoredBalance,
			LedgerBalance: r.LedgerBalance,
			Difference:    r.StoredBalance.Sub(r.LedgerBalance),
		})
	}
	return drift, nil
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func customerToResponse(c *model.CreditCustomer) dto.CustomerResponse {
	txs := make([]dto.CreditTransactionResponse, len(c.Transactions))
	for i, t := range c.Transactions {
		txs[i] = dto.CreditTransactionResponse{
			ID:          t.ID.String(),
			CustomerID:  t.CustomerID.String(),
			Amount:      t.Amount,
			Type:        t.Type,
			Description: t.Description,
			Date:        formatTime(t.Date),
		}
	}
	return dto.CustomerResponse{
		ID:           c.ID.String(),
		Name:         c.Name,
		Phone:        c.Phone,
		Email:        c.Email,
		TotalCredit:  c.TotalCredit,
		CreatedAt:    formatTime(c.CreatedAt),
		Transactions: txs,
	}
}
