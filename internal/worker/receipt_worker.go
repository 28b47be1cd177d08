package worker

// receipt_worker.go renders the PDF receipt of a completed sale and, when the
// sale carries a recipient, chains an email job.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"shoppos/internal/infra"
	"shoppos/internal/model"
	"shoppos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	SaleID string `json:"sale_id"`
	// Email overrides the credit customer's address when set.
	Email string `json:"email,omitempty"`
}

// EmailEnqueuer is satisfied by *Dispatcher.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

type ReceiptWorker struct {
	sales       repository.SaleRepository
	settings    repository.SettingsRepository
	emails      EmailEnqueuer
	storagePath string
	render      func(sale *model.Sale, shop model.ShopSettings, dir string) (string, error)
}

func NewReceiptWorker(sales repository.SaleRepository, settings repository.SettingsRepository, emails EmailEnqueuer, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{
		sales:       sales,
		settings:    settings,
		emails:      emails,
		storagePath: storagePath,
		render:      infra.GenerateReceiptPDF,
	}
}

func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("receipt_worker: invalid payload: %v: %w", err, ErrPermanent)
	}
	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		return fmt.Errorf("receipt_worker: sale_id %q: %w", payload.SaleID, ErrPermanent)
	}

	sale, err := w.sales.FindByID(ctx, saleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("receipt_worker: sale %s not found: %w", saleID, ErrPermanent)
	}
	if err != nil {
		return err
	}

	shop := model.DefaultShopSettings()
	if s, err := w.settings.Get(ctx); err == nil {
		shop = *s
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	path, err := w.render(sale, shop, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("sale_id", saleID.String()).Str("path", path).Msg("receipt_worker: receipt rendered")

	to := payload.Email
	if to == "" && sale.Customer != nil && sale.Customer.Email != nil {
		to = *sale.Customer.Email
	}
	if to == "" || w.emails == nil {
		return nil
	}
	return w.emails.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: to,
		Subject: fmt.Sprintf("Your receipt from %s", shop.Name),
		Body: fmt.Sprintf("Thank you for your purchase.\n\nTotal: %s%s\nPaid by: %s\n",
			shop.Currency, sale.Total.StringFixed(2), sale.PaymentMethod),
		PDFPath: path,
	})
}
