package service_test

import (
	"context"
	"testing"

	"shoppos/internal/dto"
	"shoppos/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsGet_DefaultsWhenEmpty(t *testing.T) {
	svc := service.NewSettingsService(&stubSettingsRepo{})

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got.ID)
	assert.Equal(t, "My Shop", got.Name)
	assert.Equal(t, "₹", got.Currency)
	assert.True(t, got.TaxRate.IsZero())
	require.NotNil(t, got.PrinterWidth)
	assert.Equal(t, "80mm", *got.PrinterWidth)
}

func TestSettingsUpdate_UpsertsSingleton(t *testing.T) {
	repo := &stubSettingsRepo{}
	svc := service.NewSettingsService(repo)
	ctx := context.Background()

	first, err := svc.Update(ctx, dto.UpdateSettingsRequest{
		Name:         "Corner Store",
		Currency:     "$",
		TaxRate:      decimal.RequireFromString("7.255"),
		PrinterWidth: strPtr("58mm"),
		AutoPrint:    true,
	})
	require.NoError(t, err)
	require.NotNil(t, first.ID)
	assert.Equal(t, "7.26", first.TaxRate.StringFixed(2))

	second, err := svc.Update(ctx, dto.UpdateSettingsRequest{Name: "Corner Store 2", Currency: "$"})
	require.NoError(t, err)
	assert.Equal(t, *first.ID, *second.ID)
	assert.Equal(t, "58mm", *second.PrinterWidth)
	assert.False(t, second.AutoPrint)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Corner Store 2", got.Name)
}
