package service

import (
	"context"
	"slices"

	"shoppos/internal/dto"
	"shoppos/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// resetOrder deletes children before parents.
var resetOrder = []string{
	"refund_items",
	"refunds",
	"sale_items",
	"sales",
	"credit_transactions",
	"credit_customers",
	"products",
}

// Tables cleared per selectable data type.
var (
	resetRefunds         = []string{"refund_items", "refunds"}
	resetSales           = []string{"refund_items", "refunds", "sale_items", "sales"}
	resetCreditCustomers = []string{"credit_transactions", "credit_customers"}
	resetProducts        = []string{"products"}
)

type ResetService interface {
	ResetSelected(ctx context.Context, req dto.ResetRequest) (*dto.ResetResponse, error)
	ResetAll(ctx context.Context) (*dto.ResetResponse, error)
}

type resetService struct {
	repo repository.ResetRepository
}

func NewResetService(repo repository.ResetRepository) ResetService {
	return &resetService{repo: repo}
}

func (s *resetService) ResetSelected(ctx context.Context, req dto.ResetRequest) (*dto.ResetResponse, error) {
	if !req.Any() {
		return nil, ErrNothingSelected
	}
	var selected []string
	if req.Refunds {
		selected = append(selected, resetRefunds...)
	}
	if req.Sales {
		selected = append(selected, resetSales...)
	}
	if req.CreditCustomers {
		selected = append(selected, resetCreditCustomers...)
	}
	if req.Products {
		selected = append(selected, resetProducts...)
	}

	tables := make([]string, 0, len(resetOrder))
	for _, t := range resetOrder {
		if slices.Contains(selected, t) {
			tables = append(tables, t)
		}
	}
	return s.deleteTables(ctx, tables)
}

func (s *resetService) ResetAll(ctx context.Context) (*dto.ResetResponse, error) {
	return s.deleteTables(ctx, resetOrder)
}

// deleteTables runs every delete in one transaction; the first failure rolls
// back all of them.
func (s *resetService) deleteTables(ctx context.Context, tables []string) (*dto.ResetResponse, error) {
	resp := &dto.ResetResponse{Tables: make([]dto.TableCount, 0, len(tables))}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		resp.Tables = resp.Tables[:0]
		for _, t := range tables {
			n, err := s.repo.DeleteAllTx(tx, t)
			if err != nil {
				return err
			}
			resp.Tables = append(resp.Tables, dto.TableCount{Table: t, Deleted: n})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Warn().Interface("tables", resp.Tables).Msg("bulk reset completed")
	return resp, nil
}
