package printing

import (
	_ "embed"

	"github.com/invoicing/backend/internal/domain/printing"
)

// InvoiceTemplateName is the name of the built-in A4 invoice layout
const InvoiceTemplateName = "invoice-a4"

//go:embed templates/invoice_a4.html
var invoiceA4 string

// DefaultInvoiceTemplate returns the built-in invoice layout: A4 portrait
// with header band, items table, summary, banking details and terms
func DefaultInvoiceTemplate() (*printing.Template, error) {
	return printing.NewTemplate(InvoiceTemplateName, invoiceA4, printing.PaperSizeA4, printing.InvoiceMargins())
}
