package printing

import (
	"context"
	"strings"
	"testing"

	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/invoicing/backend/internal/domain/printing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func renderInvoice(t *testing.T, rec *invoice.InvoiceRecord) string {
	t.Helper()

	tmpl, err := DefaultInvoiceTemplate()
	require.NoError(t, err)

	doc, err := invoice.NewDocument(rec)
	require.NoError(t, err)

	result, err := NewTemplateEngine().Render(context.Background(), &RenderTemplateRequest{
		Template: tmpl,
		Data:     doc,
	})
	require.NoError(t, err)
	return result.HTML
}

func acmeInvoice() *invoice.InvoiceRecord {
	return &invoice.InvoiceRecord{
		InvoiceNumber: "INV-1",
		InvoiceDate:   "2024-03-01",
		BusinessName:  "Acme Holdings",
		ClientName:    "Acme",
		ClientEmail:   "a@x.com",
		LogoURL:       "https://cdn.example.com/logo.png",
		Items: []invoice.LineItem{
			{Description: "Consulting", Quantity: decimal.NewFromInt(2), Price: decimal.NewFromInt(500)},
			{Description: "Travel", Quantity: decimal.NewFromInt(1), Price: decimal.RequireFromString("10.005")},
		},
		Subtotal: decPtr("1010.01"),
		Discount: decPtr("0"),
		Total:    decPtr("1010.01"),
	}
}

func TestDefaultInvoiceTemplate(t *testing.T) {
	tmpl, err := DefaultInvoiceTemplate()
	require.NoError(t, err)

	assert.Equal(t, InvoiceTemplateName, tmpl.Name)
	assert.Equal(t, printing.PaperSizeA4, tmpl.PaperSize)
	assert.Equal(t, printing.InvoiceMargins(), tmpl.Margins)
	assert.Contains(t, tmpl.Content, "<!DOCTYPE html>")
	assert.Contains(t, tmpl.Content, "size: A4")
}

func TestInvoiceTemplate_Layout(t *testing.T) {
	html := renderInvoice(t, acmeInvoice())

	assert.Contains(t, html, `src="https://cdn.example.com/logo.png"`)
	assert.Contains(t, html, invoice.CompanyName)
	assert.Contains(t, html, invoice.CompanyTagline)
	assert.Contains(t, html, "Acme Holdings")
	assert.Contains(t, html, "INV-1")
	assert.Contains(t, html, "2024-03-01")

	for _, col := range []string{"QTY", "DESCRIPTION", "UNIT PRICE", "DISCOUNT", "LINE TOTAL"} {
		assert.Contains(t, html, col)
	}

	assert.Equal(t, 2, strings.Count(html, `<tr class="item">`))
	assert.Equal(t, invoice.PaddingRows, strings.Count(html, `<tr class="blank">`))
	assert.Less(t, strings.Index(html, "Consulting"), strings.Index(html, "Travel"))
	assert.Contains(t, html, "R 1000.00")
	assert.Contains(t, html, "R 10.01")

	// Summary rows in order, total last
	labels := []string{"SUB-TOTAL", "<th>DISCOUNT</th>", "<th>VAT</th>", "<th>POST</th>", "TOTAL DUE"}
	last := -1
	for _, label := range labels {
		idx := strings.Index(html, label)
		require.Greater(t, idx, last, label)
		last = idx
	}
	assert.Contains(t, html, `<tr class="total"><th>TOTAL DUE</th><td>R 1010.01</td></tr>`)

	banking := invoice.Banking()
	assert.Contains(t, html, banking.BankName)
	assert.Contains(t, html, banking.AccountNumber)
	assert.Contains(t, html, banking.BranchCode)
	assert.Contains(t, html, invoice.Contact().Email)
	assert.Equal(t, len(invoice.Terms()), strings.Count(html, "<li>"))

	assert.NotContains(t, html, `<link`)
}

func TestInvoiceTemplate_EmptyItems(t *testing.T) {
	rec := acmeInvoice()
	rec.Items = []invoice.LineItem{}

	html := renderInvoice(t, rec)

	assert.Equal(t, 0, strings.Count(html, `<tr class="item">`))
	assert.Equal(t, invoice.PaddingRows, strings.Count(html, `<tr class="blank">`))
}

func TestInvoiceTemplate_Defaults(t *testing.T) {
	rec := acmeInvoice()
	rec.LogoURL = ""
	rec.BusinessName = ""
	rec.ClientName = ""
	rec.InvoiceNumber = ""

	html := renderInvoice(t, rec)

	assert.Contains(t, html, `src="https://via.placeholder.com/150x80?text=NT&#43;Business&#43;Solutions"`)
	assert.Contains(t, html, "<tr><th>Business Name</th><td>N/A</td></tr>")
	assert.Contains(t, html, "<tr><th>Invoice Number</th><td>N/A</td></tr>")
	assert.Contains(t, html, "<tr><th>Client Name</th><td>N/A</td></tr>")
}

func TestInvoiceTemplate_EscapesInput(t *testing.T) {
	rec := acmeInvoice()
	rec.ClientName = `<b>Acme & Co</b>`
	rec.Items[0].Description = `<script>alert(1)</script>`

	html := renderInvoice(t, rec)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "&lt;b&gt;Acme &amp; Co&lt;/b&gt;")
}

func TestInvoiceTemplate_Deterministic(t *testing.T) {
	first := renderInvoice(t, acmeInvoice())
	second := renderInvoice(t, acmeInvoice())
	assert.Equal(t, first, second)
}
