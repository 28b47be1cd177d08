package service

import (
	"context"
	"strings"

	"shoppos/internal/dto"
	"shoppos/internal/model"
	"shoppos/internal/repository"

	"github.com/google/uuid"
)

type ProductService interface {
	List(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ProductTransfer
}

type productService struct {
	repo              repository.ProductRepository
	lowStockThreshold int
}

func NewProductService(repo repository.ProductRepository, lowStockThreshold int) ProductService {
	return &productService{repo: repo, lowStockThreshold: lowStockThreshold}
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error) {
	filter.Threshold = s.lowStockThreshold
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductResponse, len(products))
	for i := range products {
		resp[i] = productToResponse(&products[i])
	}
	return resp, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := &model.Product{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Price:    req.Price,
		Cost:     req.Cost,
		Stock:    req.Stock,
		Company:  blankToNil(req.Company),
		Category: blankToNil(req.Category),
		Image:    blankToNil(req.Image),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := productToResponse(p)
	return &resp, nil
}

// Update applies only the fields present in req.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Cost != nil {
		p.Cost = *req.Cost
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Company != nil {
		p.Company = blankToNil(req.Company)
	}
	if req.Category != nil {
		p.Category = blankToNil(req.Category)
	}
	if req.Image != nil {
		p.Image = blankToNil(req.Image)
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return notFound(s.repo.Delete(ctx, id), "product")
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Price:     p.Price,
		Cost:      p.Cost,
		Stock:     p.Stock,
		Company:   p.Company,
		Category:  p.Category,
		Image:     p.Image,
		CreatedAt: formatTime(p.CreatedAt),
	}
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
