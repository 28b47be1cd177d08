package service

import (
	"context"
	"time"

	"shoppos/internal/dto"
	"shoppos/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	dateLayout          = "2006-01-02"
	defaultProfitWindow = 30 // days
)

type ReportService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	Profit(ctx context.Context, filter dto.ProfitFilter) (*dto.ProfitResponse, error)
}

type reportService struct {
	sales             repository.SaleRepository
	refunds           repository.RefundRepository
	products          repository.ProductRepository
	customers         repository.CustomerRepository
	lowStockThreshold int
	now               func() time.Time
}

func NewReportService(
	sales repository.SaleRepository,
	refunds repository.RefundRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	lowStockThreshold int,
) ReportService {
	return &reportService{
		sales:             sales,
		refunds:           refunds,
		products:          products,
		customers:         customers,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

func (s *reportService) today() time.Time {
	n := s.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location())
}

func (s *reportService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	today := s.today()
	sales, err := s.sales.List(ctx, dto.SaleFilter{From: today, To: today})
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{TodaySales: len(sales)}
	for _, sale := range sales {
		resp.TodayRevenue = resp.TodayRevenue.Add(sale.Total)
		for _, it := range sale.Items {
			resp.TodayProfit = resp.TodayProfit.Add(it.LineTotal().Sub(it.LineCost()))
		}
	}

	if resp.ProductCount, err = s.products.Count(ctx); err != nil {
		return nil, err
	}
	if resp.LowStockCount, err = s.products.CountLowStock(ctx, s.lowStockThreshold); err != nil {
		return nil, err
	}
	if resp.CustomersWithCredit, err = s.customers.CountWithCredit(ctx); err != nil {
		return nil, err
	}
	if resp.OutstandingCredit, err = s.customers.SumOutstanding(ctx); err != nil {
		return nil, err
	}
	return resp, nil
}

// Profit covers [from, to] inclusive, defaulting to the last 30 days.
// Net profit removes the margin of refunded lines from gross profit.
func (s *reportService) Profit(ctx context.Context, filter dto.ProfitFilter) (*dto.ProfitResponse, error) {
	to := s.today()
	from := to.AddDate(0, 0, -defaultProfitWindow)
	var err error
	if filter.To != "" {
		if to, err = time.ParseInLocation(dateLayout, filter.To, to.Location()); err != nil {
			return nil, ErrInvalidRange
		}
	}
	if filter.From != "" {
		if from, err = time.ParseInLocation(dateLayout, filter.From, to.Location()); err != nil {
			return nil, ErrInvalidRange
		}
	}
	if from.After(to) {
		return nil, ErrInvalidRange
	}

	sales, err := s.sales.List(ctx, dto.SaleFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	refunds, err := s.refunds.List(ctx, dto.RefundFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	resp := &dto.ProfitResponse{
		From:       from.Format(dateLayout),
		To:         to.Format(dateLayout),
		SalesCount: len(sales),
	}
	for _, sale := range sales {
		resp.Revenue = resp.Revenue.Add(sale.Total)
		for _, it := range sale.Items {
			resp.Cost = resp.Cost.Add(it.LineCost())
		}
	}
	for _, rf := range refunds {
		for _, it := range rf.Items {
			resp.RefundedRevenue = resp.RefundedRevenue.Add(it.LineTotal())
			resp.RefundedCost = resp.RefundedCost.Add(it.LineCost())
		}
	}

	resp.GrossProfit = resp.Revenue.Sub(resp.Cost)
	resp.MarginPct = decimal.Zero
	if resp.Revenue.IsPositive() {
		resp.MarginPct = resp.GrossProfit.Div(resp.Revenue).Mul(decimal.NewFromInt(100)).Round(2)
	}
	resp.NetProfit = resp.GrossProfit.Sub(resp.RefundedRevenue.Sub(resp.RefundedCost))
	return resp, nil
}
