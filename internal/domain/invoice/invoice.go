// Package invoice models the invoice record accepted by the service and the
// display rules used when it is laid out as a printable document.
package invoice

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Identifier is an opaque invoice number. The wire value may be a JSON string
// or a JSON number; either way the literal text is kept for display.
type Identifier string

// UnmarshalJSON accepts a string, a number or null
func (id *Identifier) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = Identifier(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("invoice number must be a string or a number: %w", err)
	}
	*id = Identifier(n.String())
	return nil
}

// String returns the identifier text
func (id Identifier) String() string {
	return string(id)
}

// LineItem is one billable entry of an invoice
type LineItem struct {
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	ItemDiscount decimal.Decimal `json:"itemDiscount"`
}

// LineTotal returns quantity * price - itemDiscount
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Quantity.Mul(li.Price).Sub(li.ItemDiscount)
}

// InvoiceRecord is the structured input describing one invoice to render and send.
//
// Subtotal, Discount and Total are supplied by the caller and are never
// derived from Items. A nil Items slice means the field was absent; an empty
// slice is a valid invoice without rows.
type InvoiceRecord struct {
	InvoiceNumber Identifier       `json:"invoiceNumber"`
	InvoiceDate   string           `json:"invoiceDate"`
	BusinessName  string           `json:"businessName"`
	ClientName    string           `json:"clientName"`
	ClientEmail   string           `json:"clientEmail"`
	LogoURL       string           `json:"logoUrl"`
	Items         []LineItem       `json:"items" validate:"required"`
	Subtotal      *decimal.Decimal `json:"subtotal" validate:"required"`
	Discount      *decimal.Decimal `json:"discount" validate:"required"`
	Total         *decimal.Decimal `json:"total" validate:"required"`
	VAT           decimal.Decimal  `json:"vat"`
	Post          decimal.Decimal  `json:"post"`
}

// Bounds on decoded numbers. Values outside them are rejected before any
// arithmetic or formatting has to rescale them.
const (
	maxExponent = 20
	maxDigits   = 40
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that every required field is present and that every
// number is within range. It returns a *shared.DomainError naming the
// offending fields.
func (r *InvoiceRecord) Validate() error {
	if r == nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "invoice record is nil")
	}

	err := validate.Struct(r)
	if err == nil {
		return r.checkAmounts()
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return shared.NewDomainError(shared.CodeMissingRequiredField,
			"missing required field: "+strings.Join(fields, ", "))
	}
	return fmt.Errorf("validate invoice record: %w", err)
}

type namedAmount struct {
	field string
	value decimal.Decimal
}

func (r *InvoiceRecord) checkAmounts() error {
	amounts := []namedAmount{
		{"subtotal", *r.Subtotal},
		{"discount", *r.Discount},
		{"total", *r.Total},
		{"vat", r.VAT},
		{"post", r.Post},
	}
	for i, item := range r.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		amounts = append(amounts,
			namedAmount{prefix + "quantity", item.Quantity},
			namedAmount{prefix + "price", item.Price},
			namedAmount{prefix + "itemDiscount", item.ItemDiscount},
		)
	}

	var bad []string
	for _, a := range amounts {
		if !inRange(a.value) {
			bad = append(bad, a.field)
		}
	}
	if len(bad) > 0 {
		return shared.NewDomainError(shared.CodeInvalidInput,
			"number out of range: "+strings.Join(bad, ", "))
	}
	return nil
}

// inRange reports whether d fits in maxDigits significant digits with an
// exponent of at most maxExponent either way
func inRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp > maxExponent || exp < -maxExponent {
		return false
	}
	return d.NumDigits() <= maxDigits
}

// AttachmentFilename returns the PDF filename used when mailing the invoice
func (r *InvoiceRecord) AttachmentFilename() string {
	return fmt.Sprintf("Invoice_%s.pdf", r.InvoiceNumber)
}
