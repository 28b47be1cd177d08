package service_test

import (
	"context"
	"sort"
	"strings"

	"shoppos/internal/dto"
	"shoppos/internal/model"
	"shoppos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories. Transactions run with a nil *gorm.DB, so every Tx
// method ignores its tx argument.

// stubProductRepo is an in-memory ProductRepository.
type stubProductRepo struct {
	products  map[uuid.UUID]*model.Product
	createErr error
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) add(name string, price, cost int64, stock int) *model.Product {
	p := &model.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.NewFromInt(price),
		Cost:  decimal.NewFromInt(cost),
		Stock: stock,
	}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if r.createErr != nil {
		return r.createErr
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductRepo) List(_ context.Context, f dto.ProductFilter) ([]model.Product, error) {
	out := []model.Product{}
	for _, p := range r.products {
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		if f.LowStock && p.Stock >= f.Threshold {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *stubProductRepo) CountLowStock(_ context.Context, threshold int) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.Stock < threshold {
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	p, ok := r.products[id]
	if !ok || p.Stock < qty {
		return repository.ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

func (r *stubProductRepo) IncrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	if p, ok := r.products[id]; ok {
		p.Stock += qty
	}
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubCustomerRepo is an in-memory CustomerRepository.
type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.CreditCustomer
	writes    int
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.CreditCustomer)}
}

func (r *stubCustomerRepo) add(name string, balance int64) *model.CreditCustomer {
	c := &model.CreditCustomer{ID: uuid.New(), Name: name, Phone: "555", TotalCredit: decimal.NewFromInt(balance)}
	r.customers[c.ID] = c
	return c
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.CreditCustomer) error {
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CreditCustomer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	cp.Transactions = append([]model.CreditTransaction(nil), c.Transactions...)
	sort.Slice(cp.Transactions, func(i, j int) bool { return cp.Transactions[i].Date.After(cp.Transactions[j].Date) })
	return &cp, nil
}

func (r *stubCustomerRepo) List(ctx context.Context) ([]model.CreditCustomer, error) {
	out := []model.CreditCustomer{}
	for id := range r.customers {
		c, _ := r.FindByID(ctx, id)
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.CreditCustomer) error {
	existing, ok := r.customers[c.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	txs := existing.Transactions
	cp := *c
	cp.Transactions = txs
	r.customers[c.ID] = &cp
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.customers[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *stubCustomerRepo) LedgerBalances(_ context.Context) ([]repository.LedgerBalance, error) {
	out := []repository.LedgerBalance{}
	for _, c := range r.customers {
		ledger := decimal.Zero
		for _, t := range c.Transactions {
			ledger = ledger.Add(t.Signed())
		}
		out = append(out, repository.LedgerBalance{CustomerID: c.ID, Name: c.Name, StoredBalance: c.TotalCredit, LedgerBalance: ledger})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubCustomerRepo) CountWithCredit(_ context.Context) (int64, error) {
	var n int64
	for _, c := range r.customers {
		if c.TotalCredit.IsPositive() {
			n++
		}
	}
	return n, nil
}

func (r *stubCustomerRepo) SumOutstanding(_ context.Context) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, c := range r.customers {
		sum = sum.Add(c.TotalCredit)
	}
	return sum, nil
}

func (r *stubCustomerRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.CreditCustomer, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubCustomerRepo) AddTransactionTx(_ *gorm.DB, t *model.CreditTransaction) error {
	c, ok := r.customers[t.CustomerID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Transactions = append(c.Transactions, *t)
	r.writes++
	return nil
}

func (r *stubCustomerRepo) AdjustBalanceTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	c, ok := r.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.TotalCredit = c.TotalCredit.Add(delta)
	r.writes++
	return nil
}

func (r *stubCustomerRepo) DB() *gorm.DB { return nil }

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// stubSaleRepo is an in-memory SaleRepository.
type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	cp := *s
	cp.Items = append([]model.SaleItem(nil), s.Items...)
	r.sales[s.ID] = &cp
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubSaleRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubSaleRepo) List(_ context.Context, f dto.SaleFilter) ([]model.Sale, error) {
	out := []model.Sale{}
	for _, s := range r.sales {
		if !f.From.IsZero() && s.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !s.Date.Before(f.To.AddDate(0, 0, 1)) {
			continue
		}
		if f.PaymentMethod != "" && s.PaymentMethod != f.PaymentMethod {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *stubSaleRepo) UpdateRefunded(_ context.Context, id uuid.UUID, refunded bool) error {
	s, ok := r.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Refunded = refunded
	return nil
}

func (r *stubSaleRepo) UpdateRefundedTx(_ *gorm.DB, id uuid.UUID, refunded bool) error {
	return r.UpdateRefunded(context.Background(), id, refunded)
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// stubRefundRepo is an in-memory RefundRepository.
type stubRefundRepo struct {
	refunds []model.Refund
}

func (r *stubRefundRepo) CreateTx(_ *gorm.DB, rf *model.Refund) error {
	r.refunds = append(r.refunds, *rf)
	return nil
}

func (r *stubRefundRepo) List(_ context.Context, f dto.RefundFilter) ([]model.Refund, error) {
	out := []model.Refund{}
	for _, rf := range r.refunds {
		if !f.From.IsZero() && rf.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !rf.Date.Before(f.To.AddDate(0, 0, 1)) {
			continue
		}
		out = append(out, rf)
	}
	return out, nil
}

func (r *stubRefundRepo) RefundedQuantitiesTx(_ *gorm.DB, saleID uuid.UUID) (map[uuid.UUID]int, error) {
	out := map[uuid.UUID]int{}
	for _, rf := range r.refunds {
		if rf.SaleID != saleID {
			continue
		}
		for _, it := range rf.Items {
			if it.SaleItemID != nil {
				out[*it.SaleItemID] += it.Quantity
			}
		}
	}
	return out, nil
}

var _ repository.RefundRepository = (*stubRefundRepo)(nil)

// stubPermissionRepo is an in-memory PermissionRepository.
type stubPermissionRepo struct {
	perms     []model.RolePermission
	roleLoads int
	upsertErr error
}

func (r *stubPermissionRepo) List(_ context.Context) ([]model.RolePermission, error) {
	out := append([]model.RolePermission(nil), r.perms...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		return out[i].PagePath < out[j].PagePath
	})
	return out, nil
}

func (r *stubPermissionRepo) FindByRole(_ context.Context, role string) ([]model.RolePermission, error) {
	r.roleLoads++
	out := []model.RolePermission{}
	for _, p := range r.perms {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPermissionRepo) Upsert(_ context.Context, p *model.RolePermission) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	for i := range r.perms {
		if r.perms[i].Role == p.Role && r.perms[i].PagePath == p.PagePath {
			r.perms[i].CanAccess = p.CanAccess
			p.ID = r.perms[i].ID
			return nil
		}
	}
	p.ID = uuid.New()
	r.perms = append(r.perms, *p)
	return nil
}

var _ repository.PermissionRepository = (*stubPermissionRepo)(nil)

// stubSettingsRepo holds at most one row.
type stubSettingsRepo struct {
	row *model.ShopSettings
}

func (r *stubSettingsRepo) Get(_ context.Context) (*model.ShopSettings, error) {
	if r.row == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r.row
	return &cp, nil
}

func (r *stubSettingsRepo) Save(_ context.Context, s *model.ShopSettings) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.row = &cp
	return nil
}

var _ repository.SettingsRepository = (*stubSettingsRepo)(nil)

// stubUserRepo is an in-memory UserRepository.
type stubUserRepo struct {
	profiles  []*model.Profile
	roles     map[uuid.UUID]string
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{roles: make(map[uuid.UUID]string)}
}

func (r *stubUserRepo) CreateWithRole(_ context.Context, p *model.Profile) (string, error) {
	if r.createErr != nil {
		return "", r.createErr
	}
	role := model.RoleCashier
	if len(r.profiles) == 0 {
		role = model.RoleAdmin
	}
	r.profiles = append(r.profiles, p)
	r.roles[p.UserID] = role
	return role, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.Profile, error) {
	for _, p := range r.profiles {
		if strings.EqualFold(p.Username, username) {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*model.Profile, error) {
	for _, p := range r.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) RoleOf(_ context.Context, userID uuid.UUID) (string, error) {
	return r.roles[userID], nil
}

func (r *stubUserRepo) List(_ context.Context) ([]model.UserWithRole, error) {
	out := make([]model.UserWithRole, len(r.profiles))
	for i, p := range r.profiles {
		out[i] = model.UserWithRole{UserID: p.UserID, Username: p.Username, Role: r.roles[p.UserID], CreatedAt: p.CreatedAt}
	}
	return out, nil
}

func (r *stubUserRepo) UpsertRole(_ context.Context, userID uuid.UUID, role string) error {
	r.roles[userID] = role
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)
