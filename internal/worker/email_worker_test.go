package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"shoppos/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	err  error
	sent []EmailJobPayload
}

func (f *fakeSender) SendReceipt(to, subject, body, pdfPath string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, EmailJobPayload{ToEmail: to, Subject: subject, Body: body, PDFPath: pdfPath})
	return nil
}

func emailPayload(t *testing.T, p EmailJobPayload) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return raw
}

func TestEmailWorker_Sends(t *testing.T) {
	sender := &fakeSender{}
	w := NewEmailWorker(sender)

	err := w.Process(context.Background(), emailPayload(t, EmailJobPayload{ToEmail: "c@shop.in", Subject: "Receipt", PDFPath: "/tmp/r.pdf"}))
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "c@shop.in", sender.sent[0].ToEmail)
	assert.Equal(t, "/tmp/r.pdf", sender.sent[0].PDFPath)
}

func TestEmailWorker_DisabledMailerDropsJob(t *testing.T) {
	w := NewEmailWorker(&fakeSender{err: infra.ErrMailerDisabled})
	assert.NoError(t, w.Process(context.Background(), emailPayload(t, EmailJobPayload{ToEmail: "c@shop.in"})))
}

func TestEmailWorker_SendFailureIsRetryable(t *testing.T) {
	w := NewEmailWorker(&fakeSender{err: errors.New("connection reset")})
	err := w.Process(context.Background(), emailPayload(t, EmailJobPayload{ToEmail: "c@shop.in"}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPermanent)
}

func TestEmailWorker_BadPayloadIsPermanent(t *testing.T) {
	w := NewEmailWorker(&fakeSender{})
	err := w.Process(context.Background(), json.RawMessage(`[1,2]`))
	assert.ErrorIs(t, err, ErrPermanent)

	assert.NoError(t, w.Process(context.Background(), emailPayload(t, EmailJobPayload{})))
}
