package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/invoicing/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleInvoice = `{
	"invoiceNumber": 77,
	"clientName": "Acme",
	"clientEmail": "a@x.com",
	"items": [{"description": "Consulting", "quantity": 1, "price": 250}],
	"subtotal": 250,
	"discount": 0,
	"total": 250
}`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invoice.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleInvoice), 0o600))
	return path
}

func TestReadRecord(t *testing.T) {
	rec, err := readRecord(writeSample(t))
	require.NoError(t, err)

	assert.Equal(t, "77", rec.InvoiceNumber.String())
	assert.Len(t, rec.Items, 1)
}

func TestReadRecord_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := readRecord(path)
	assert.Error(t, err)

	_, err = readRecord(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestRun_HTML(t *testing.T) {
	rec, err := readRecord(writeSample(t))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out.html")
	err = run(context.Background(), &config.Config{}, rec, out, true, false, zap.NewNop())
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<tr class="total"><th>TOTAL DUE</th><td>R 250.00</td></tr>`)
}

func TestDefaultOutput(t *testing.T) {
	rec, err := readRecord(writeSample(t))
	require.NoError(t, err)

	assert.Equal(t, "Invoice_77.html", defaultOutput(rec, ".html"))
	assert.Equal(t, "Invoice_77.pdf", rec.AttachmentFilename())
}
