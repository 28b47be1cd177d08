package infra

// pdf.go renders thermal-printer sized receipts with go-pdf/fpdf.
// Page width follows the shop's printer_width (58mm or 80mm); the height grows
// with the number of lines so the whole receipt fits one page.

import (
	"fmt"
	"os"
	"path/filepath"

	"shoppos/internal/model"

	"github.com/go-pdf/fpdf"
)

// ReceiptWidthMM maps a printer width setting to paper width. Unknown values
// fall back to 80mm.
func ReceiptWidthMM(printerWidth *string) float64 {
	if printerWidth != nil && *printerWidth == "58mm" {
		return 58
	}
	return 80
}

// GenerateReceiptPDF writes storagePath/receipt_<sale id>.pdf and returns its path.
func GenerateReceiptPDF(sale *model.Sale, shop model.ShopSettings, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("receipt_%s.pdf", sale.ID))

	pageW := ReceiptWidthMM(shop.PrinterWidth)
	pageH := 70 + float64(len(sale.Items))*5
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetMargins(3, 3, 3)
	pdf.SetAutoPageBreak(false, 3)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	contentW := pageW - 6
	nameLimit := 22
	if pageW < 60 {
		nameLimit = 14
	}
	money := func(v interface{ StringFixed(int32) string }) string {
		return tr(shop.Currency) + v.StringFixed(2)
	}

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 6, tr(shop.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, sale.Date.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 4, "Sale "+sale.ID.String()[:8], "", 1, "C", false, 0, "")
	pdf.Ln(1)
	pdf.Line(3, pdf.GetY(), pageW-3, pdf.GetY())
	pdf.Ln(1)

	// ── Items ─────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range sale.Items {
		name := []rune(item.ProductName)
		if len(name) > nameLimit {
			name = append(name[:nameLimit-1], '.')
		}
		pdf.CellFormat(col1, 5, tr(string(name)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, money(item.LineTotal()), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.Line(3, pdf.GetY(), pageW-3, pdf.GetY())
	pdf.Ln(1)

	// ── Totals ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, money(sale.Total), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, "Paid by", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, sale.PaymentMethod, "", 1, "R", false, 0, "")
	if sale.Customer != nil {
		pdf.CellFormat(col1+col2, 4, "Customer", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, tr(sale.Customer.Name), "", 1, "R", false, 0, "")
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Thank you for shopping with us!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
