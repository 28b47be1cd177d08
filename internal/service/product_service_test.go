package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"shoppos/internal/dto"
	"shoppos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCreateGetDelete(t *testing.T) {
	repo := newStubProductRepo()
	svc := service.NewProductService(repo, 10)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateProductRequest{
		Name:     "  Basmati Rice ",
		Price:    decimal.NewFromInt(120),
		Cost:     decimal.NewFromInt(95),
		Stock:    40,
		Company:  strPtr("India Gate"),
		Category: strPtr(" "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Basmati Rice", created.Name)
	require.NotNil(t, created.Company)
	assert.Equal(t, "India Gate", *created.Company)
	assert.Nil(t, created.Category)

	id := uuid.MustParse(created.ID)
	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 40, got.Stock)

	require.NoError(t, svc.Delete(ctx, id))
	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, id), service.ErrNotFound)
}

func TestProductUpdate_Partial(t *testing.T) {
	repo := newStubProductRepo()
	p := repo.add("Salt", 20, 12, 5)
	svc := service.NewProductService(repo, 10)

	stock := 9
	resp, err := svc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Stock: &stock, Price: dec("22.5")})
	require.NoError(t, err)

	assert.Equal(t, "Salt", resp.Name)
	assert.Equal(t, 9, resp.Stock)
	assert.Equal(t, "22.50", resp.Price.StringFixed(2))
	assert.True(t, decimal.NewFromInt(12).Equal(resp.Cost))
}

func TestProductList_LowStockUsesThreshold(t *testing.T) {
	repo := newStubProductRepo()
	repo.add("Plenty", 10, 5, 50)
	repo.add("Scarce", 10, 5, 3)
	svc := service.NewProductService(repo, 10)

	all, err := svc.List(context.Background(), dto.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	low, err := svc.List(context.Background(), dto.ProductFilter{LowStock: true})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Scarce", low[0].Name)
}

func TestExportCSV_QuotesTextColumns(t *testing.T) {
	repo := newStubProductRepo()
	p := repo.add(`Biscuits, "Marie"`, 30, 22, 12)
	p.Company = strPtr("Britannia")
	svc := service.NewProductService(repo, 10)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Name,Price,Cost,Stock,Company,Category", lines[0])
	assert.Equal(t, `"Biscuits, ""Marie""",30.00,22.00,12,"Britannia",""`, lines[1])
}

func TestCSV_RoundTrip(t *testing.T) {
	src := newStubProductRepo()
	a := src.add("Tea, Green", 150, 110, 7)
	a.Category = strPtr("Beverages")
	src.add("Jaggery", 60, 45, 0)

	var buf bytes.Buffer
	require.NoError(t, service.NewProductService(src, 10).ExportCSV(context.Background(), &buf))

	dst := newStubProductRepo()
	result, err := service.NewProductService(dst, 10).ImportCSV(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Imported)
	assert.Zero(t, result.Skipped)

	byName := map[string]string{}
	for _, p := range dst.products {
		cat := ""
		if p.Category != nil {
			cat = *p.Category
		}
		byName[p.Name] = p.Price.StringFixed(2) + "|" + cat
	}
	assert.Equal(t, "150.00|Beverages", byName["Tea, Green"])
	assert.Equal(t, "60.00|", byName["Jaggery"])
}

func TestImportCSV_SkipsInvalidRowsAndContinues(t *testing.T) {
	repo := newStubProductRepo()
	svc := service.NewProductService(repo, 10)

	input := strings.Join([]string{
		"Name,Price,Cost,Stock,Company,Category",
		"Milk,30,25,10,Amul,Dairy",
		",10,5,1",
		"Curd,abc,5,1",
		"Paneer,80,60,-2",
		"Butter,55",
		"Bread,40,30,6",
	}, "\n")

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 6, result.Total)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 4, result.Skipped)
	require.Len(t, result.Errors, 4)
	assert.Equal(t, 3, result.Errors[0].Line)
	assert.Equal(t, "name is empty", result.Errors[0].Reason)
	assert.Equal(t, "invalid price", result.Errors[1].Reason)
	assert.Equal(t, "invalid stock", result.Errors[2].Reason)
	assert.Contains(t, result.Errors[3].Reason, "expected at least 4 fields")
	assert.Len(t, repo.products, 2)
}

func TestImportCSV_InsertFailureIsSkipped(t *testing.T) {
	repo := newStubProductRepo()
	repo.createErr = errors.New("db down")
	svc := service.NewProductService(repo, 10)

	result, err := svc.ImportCSV(context.Background(), strings.NewReader("Name,Price,Cost,Stock\nMilk,30,25,10\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, "insert failed", result.Errors[0].Reason)
}

func TestXLSX_RoundTrip(t *testing.T) {
	src := newStubProductRepo()
	p := src.add("Coffee", 250, 180, 4)
	p.Company = strPtr("Bru")

	var buf bytes.Buffer
	require.NoError(t, service.NewProductService(src, 10).ExportXLSX(context.Background(), &buf))

	dst := newStubProductRepo()
	result, err := service.NewProductService(dst, 10).ImportXLSX(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, dst.products, 1)
	for _, got := range dst.products {
		assert.Equal(t, "Coffee", got.Name)
		assert.True(t, decimal.NewFromInt(250).Equal(got.Price))
		assert.Equal(t, 4, got.Stock)
		require.NotNil(t, got.Company)
		assert.Equal(t, "Bru", *got.Company)
	}
}

func TestImportXLSX_RejectsNonWorkbook(t *testing.T) {
	svc := service.NewProductService(newStubProductRepo(), 10)
	_, err := svc.ImportXLSX(context.Background(), strings.NewReader("not a zip"))
	assert.Error(t, err)
}
