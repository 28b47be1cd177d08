package service

// product_transfer.go holds catalog import/export: CSV in the
// Name,Price,Cost,Stock,Company,Category layout and the same columns as an
// Excel workbook.

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"shoppos/internal/dto"
	"shoppos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ProductTransfer is embedded in ProductService.
type ProductTransfer interface {
	ExportCSV(ctx context.Context, w io.Writer) error
	ImportCSV(ctx context.Context, r io.Reader) (*dto.ImportResult, error)
	ExportXLSX(ctx context.Context, w io.Writer) error
	ImportXLSX(ctx context.Context, r io.Reader) (*dto.ImportResult, error)
}

var productColumns = []string{"Name", "Price", "Cost", "Stock", "Company", "Category"}

const xlsxSheet = "Products"

// ExportCSV writes every product in name order. Text columns are always
// quoted so names containing commas survive a re-import.
func (s *productService) ExportCSV(ctx context.Context, w io.Writer) error {
	products, err := s.repo.List(ctx, dto.ProductFilter{})
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, strings.Join(productColumns, ",")+"\n"); err != nil {
		return err
	}
	for _, p := range products {
		line := strings.Join([]string{
			quoteCSV(p.Name),
			p.Price.StringFixed(2),
			p.Cost.StringFixed(2),
			strconv.Itoa(p.Stock),
			quoteCSV(deref(p.Company)),
			quoteCSV(deref(p.Category)),
		}, ",")
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// ImportCSV skips the header line, then inserts each valid row on its own.
// A failing row never aborts the rows after it.
func (s *productService) ImportCSV(ctx context.Context, r io.Reader) (*dto.ImportResult, error) {
	rd := csv.NewReader(r)
	rd.FieldsPerRecord = -1
	rd.LazyQuotes = true
	rd.TrimLeadingSpace = true

	result := &dto.ImportResult{Errors: []dto.ImportRowError{}}
	header := true
	for {
		record, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			if !header {
				result.Total++
				result.Skip(pe.StartLine, "malformed row: "+pe.Err.Error())
			}
			header = false
			continue
		}
		if err != nil {
			return nil, err
		}
		if header {
			header = false
			continue
		}
		line, _ := rd.FieldPos(0)
		s.importRow(ctx, result, line, record)
	}
	return result, nil
}

func (s *productService) ExportXLSX(ctx context.Context, w io.Writer) error {
	products, err := s.repo.List(ctx, dto.ProductFilter{})
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return err
	}

	header := make([]interface{}, len(productColumns))
	for i, c := range productColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return err
	}
	for i, p := range products {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			p.Name, p.Price.InexactFloat64(), p.Cost.InexactFloat64(), p.Stock,
			deref(p.Company), deref(p.Category),
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// ImportXLSX reads the first sheet with the same layout as ImportCSV.
func (s *productService) ImportXLSX(ctx context.Context, r io.Reader) (*dto.ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &dto.ImportResult{Errors: []dto.ImportRowError{}}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	result := &dto.ImportResult{Errors: []dto.ImportRowError{}}
	for i, row := range rows {
		if i == 0 || isBlankRow(row) {
			continue
		}
		s.importRow(ctx, result, i+1, row)
	}
	return result, nil
}

// importRow validates one name,price,cost,stock[,company[,category]] record
// and inserts it.
func (s *productService) importRow(ctx context.Context, result *dto.ImportResult, line int, record []string) {
	result.Total++
	p, reason := parseProductRow(record)
	if reason != "" {
		result.Skip(line, reason)
		return
	}
	if err := s.repo.Create(ctx, p); err != nil {
		result.Skip(line, "insert failed")
		return
	}
	result.Imported++
}

func parseProductRow(record []string) (*model.Product, string) {
	if len(record) < 4 {
		return nil, fmt.Sprintf("expected at least 4 fields, got %d", len(record))
	}
	field := func(i int) string {
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	name := field(0)
	if name == "" {
		return nil, "name is empty"
	}
	price, err := decimal.NewFromString(field(1))
	if err != nil || price.IsNegative() {
		return nil, "invalid price"
	}
	cost, err := decimal.NewFromString(field(2))
	if err != nil || cost.IsNegative() {
		return nil, "invalid cost"
	}
	stock, err := strconv.Atoi(field(3))
	if err != nil || stock < 0 {
		return nil, "invalid stock"
	}

	company, category := field(4), field(5)
	return &model.Product{
		ID:       uuid.New(),
		Name:     name,
		Price:    price.Round(2),
		Cost:     cost.Round(2),
		Stock:    stock,
		Company:  blankToNil(&company),
		Category: blankToNil(&category),
	}, ""
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
