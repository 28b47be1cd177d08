package service

import (
	"context"
	"errors"
	"strings"

	"shoppos/internal/dto"
	"shoppos/internal/model"
	"shoppos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SettingsService interface {
	// Get returns the stored settings, or the defaults when none are saved.
	Get(ctx context.Context) (*dto.SettingsResponse, error)
	// Update upserts the singleton row.
	Update(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
}

type settingsService struct {
	repo repository.SettingsRepository
}

func NewSettingsService(repo repository.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	resp := settingsToResponse(current)
	return &resp, nil
}

func (s *settingsService) Update(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	current.Name = strings.TrimSpace(req.Name)
	current.Logo = blankToNil(req.Logo)
	current.Currency = strings.TrimSpace(req.Currency)
	current.TaxRate = req.TaxRate.Round(2)
	current.PrinterName = blankToNil(req.PrinterName)
	if req.PrinterWidth != nil {
		current.PrinterWidth = req.PrinterWidth
	}
	current.AutoPrint = req.AutoPrint

	if err := s.repo.Save(ctx, current); err != nil {
		return nil, err
	}
	resp := settingsToResponse(current)
	return &resp, nil
}

func (s *settingsService) load(ctx context.Context) (*model.ShopSettings, error) {
	current, err := s.repo.Get(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		d := model.DefaultShopSettings()
		return &d, nil
	}
	return current, err
}

func settingsToResponse(s *model.ShopSettings) dto.SettingsResponse {
	var id *string
	if s.ID != uuid.Nil {
		v := s.ID.String()
		id = &v
	}
	return dto.SettingsResponse{
		ID:           id,
		Name:         s.Name,
		Logo:         s.Logo,
		Currency:     s.Currency,
		TaxRate:      s.TaxRate,
		PrinterName:  s.PrinterName,
		PrinterWidth: s.PrinterWidth,
		AutoPrint:    s.AutoPrint,
	}
}
