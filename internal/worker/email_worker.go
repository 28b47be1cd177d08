package worker

// email_worker.go sends rendered receipts to customers over SMTP.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"shoppos/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// ReceiptSender is satisfied by *infra.Mailer.
type ReceiptSender interface {
	SendReceipt(to, subject, body, pdfPath string) error
}

type EmailWorker struct {
	mailer ReceiptSender
}

func NewEmailWorker(mailer ReceiptSender) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

// Process sends the e-mail. A disabled mailer drops the job without error.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("email_worker: invalid payload: %v: %w", err, ErrPermanent)
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}

	err := w.mailer.SendReceipt(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
	if errors.Is(err, infra.ErrMailerDisabled) {
		log.Warn().Str("to", payload.ToEmail).Msg("email_worker: SMTP not configured, dropping email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("email_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: receipt sent")
	return nil
}
