package dto

import "github.com/shopspring/decimal"

type UpdateSettingsRequest struct {
	Name         string          `json:"name"          validate:"required,max=200"`
	Logo         *string         `json:"logo"`
	Currency     string          `json:"currency"      validate:"required,max=10"`
	TaxRate      decimal.Decimal `json:"tax_rate"      validate:"min=0,max=100"`
	PrinterName  *string         `json:"printer_name"`
	PrinterWidth *string         `json:"printer_width" validate:"omitempty,oneof=58mm 80mm"`
	AutoPrint    bool            `json:"auto_print"`
}

type SettingsResponse struct {
	ID           *string         `json:"id"`
	Name         string          `json:"name"`
	Logo         *string         `json:"logo"`
	Currency     string          `json:"currency"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	PrinterName  *string         `json:"printer_name"`
	PrinterWidth *string         `json:"printer_width"`
	AutoPrint    bool            `json:"auto_print"`
}
