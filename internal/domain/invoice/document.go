package invoice

import "strings"

// Document is the display model of an invoice: every value is already
// defaulted and formatted, so the template only lays it out.
type Document struct {
	CompanyName string
	Tagline     string
	LogoURL     string

	BusinessName  string
	InvoiceNumber string
	InvoiceDate   string
	ClientName    string

	Rows []DocumentRow

	Subtotal string
	Discount string
	VAT      string
	Post     string
	Total    string

	Banking BankingDetails
	Terms   []string
	Contact ContactDetails
}

// DocumentRow is one row of the items table. Blank rows carry no values.
type DocumentRow struct {
	Blank       bool
	Quantity    string
	Description string
	UnitPrice   string
	Discount    string
	LineTotal   string
}

// NewDocument validates the record and builds its display model
func NewDocument(r *InvoiceRecord) (*Document, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	rows := make([]DocumentRow, 0, len(r.Items)+PaddingRows)
	for _, item := range r.Items {
		rows = append(rows, DocumentRow{
			Quantity:    FormatQuantity(item.Quantity),
			Description: item.Description,
			UnitPrice:   FormatMoney(item.Price),
			Discount:    FormatMoney(item.ItemDiscount),
			LineTotal:   FormatMoney(item.LineTotal()),
		})
	}
	for i := 0; i < PaddingRows; i++ {
		rows = append(rows, DocumentRow{Blank: true})
	}

	logo := strings.TrimSpace(r.LogoURL)
	if logo == "" {
		logo = PlaceholderLogoURL
	}

	return &Document{
		CompanyName:   CompanyName,
		Tagline:       CompanyTagline,
		LogoURL:       logo,
		BusinessName:  orNotAvailable(r.BusinessName),
		InvoiceNumber: orNotAvailable(r.InvoiceNumber.String()),
		InvoiceDate:   orNotAvailable(r.InvoiceDate),
		ClientName:    orNotAvailable(r.ClientName),
		Rows:          rows,
		Subtotal:      FormatMoney(*r.Subtotal),
		Discount:      FormatMoney(*r.Discount),
		VAT:           FormatMoney(r.VAT),
		Post:          FormatMoney(r.Post),
		Total:         FormatMoney(*r.Total),
		Banking:       Banking(),
		Terms:         Terms(),
		Contact:       Contact(),
	}, nil
}

func orNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}
