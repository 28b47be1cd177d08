package worker

import (
	"context"
	"encoding/json"
	"testing"

	"shoppos/internal/model"
	"shoppos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Only the methods the receipt worker calls are implemented; the embedded
// interface panics on anything else.
type fakeSales struct {
	repository.SaleRepository
	sale *model.Sale
}

func (f fakeSales) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	if f.sale == nil || f.sale.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.sale, nil
}

type fakeSettings struct {
	repository.SettingsRepository
	row *model.ShopSettings
}

func (f fakeSettings) Get(context.Context) (*model.ShopSettings, error) {
	if f.row == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.row, nil
}

type fakeEnqueuer struct{ jobs []EmailJobPayload }

func (f *fakeEnqueuer) EnqueueEmail(_ context.Context, p EmailJobPayload) error {
	f.jobs = append(f.jobs, p)
	return nil
}

func newTestReceiptWorker(sale *model.Sale, shop *model.ShopSettings) (*ReceiptWorker, *fakeEnqueuer, *[]model.ShopSettings) {
	emails := &fakeEnqueuer{}
	rendered := &[]model.ShopSettings{}
	w := NewReceiptWorker(fakeSales{sale: sale}, fakeSettings{row: shop}, emails, "/tmp/receipts")
	w.render = func(s *model.Sale, shop model.ShopSettings, dir string) (string, error) {
		*rendered = append(*rendered, shop)
		return dir + "/receipt_" + s.ID.String() + ".pdf", nil
	}
	return w, emails, rendered
}

func receiptPayload(t *testing.T, p ReceiptJobPayload) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return raw
}

func TestReceiptWorker_RendersAndChainsEmail(t *testing.T) {
	email := "ravi@example.com"
	sale := &model.Sale{
		ID:            uuid.New(),
		Total:         decimal.NewFromInt(120),
		PaymentMethod: model.PaymentCredit,
		Customer:      &model.CreditCustomer{Name: "Ravi", Email: &email},
	}
	shop := &model.ShopSettings{Name: "Corner Store", Currency: "$"}
	w, emails, rendered := newTestReceiptWorker(sale, shop)

	require.NoError(t, w.Process(context.Background(), receiptPayload(t, ReceiptJobPayload{SaleID: sale.ID.String()})))

	require.Len(t, *rendered, 1)
	assert.Equal(t, "Corner Store", (*rendered)[0].Name)
	require.Len(t, emails.jobs, 1)
	assert.Equal(t, email, emails.jobs[0].ToEmail)
	assert.Equal(t, "Your receipt from Corner Store", emails.jobs[0].Subject)
	assert.Contains(t, emails.jobs[0].Body, "$120.00")
	assert.Equal(t, "/tmp/receipts/receipt_"+sale.ID.String()+".pdf", emails.jobs[0].PDFPath)
}

func TestReceiptWorker_DefaultSettingsAndNoRecipient(t *testing.T) {
	sale := &model.Sale{ID: uuid.New(), Total: decimal.NewFromInt(10), PaymentMethod: model.PaymentCash}
	w, emails, rendered := newTestReceiptWorker(sale, nil)

	require.NoError(t, w.Process(context.Background(), receiptPayload(t, ReceiptJobPayload{SaleID: sale.ID.String()})))
	require.Len(t, *rendered, 1)
	assert.Equal(t, "My Shop", (*rendered)[0].Name)
	assert.Empty(t, emails.jobs)
}

func TestReceiptWorker_PayloadEmailOverrides(t *testing.T) {
	sale := &model.Sale{ID: uuid.New(), Total: decimal.NewFromInt(10), PaymentMethod: model.PaymentCard}
	w, emails, _ := newTestReceiptWorker(sale, nil)

	require.NoError(t, w.Process(context.Background(), receiptPayload(t, ReceiptJobPayload{SaleID: sale.ID.String(), Email: "walkin@example.com"})))
	require.Len(t, emails.jobs, 1)
	assert.Equal(t, "walkin@example.com", emails.jobs[0].ToEmail)
}

func TestReceiptWorker_MissingSaleIsPermanent(t *testing.T) {
	w, _, _ := newTestReceiptWorker(nil, nil)

	err := w.Process(context.Background(), receiptPayload(t, ReceiptJobPayload{SaleID: uuid.NewString()}))
	assert.ErrorIs(t, err, ErrPermanent)

	err = w.Process(context.Background(), receiptPayload(t, ReceiptJobPayload{SaleID: "nope"}))
	assert.ErrorIs(t, err, ErrPermanent)
}
