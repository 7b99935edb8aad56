package invoice

// Fixed company details printed on every invoice
const (
	CompanyName        = "NT Business Solutions"
	CompanyTagline     = "Reliable solutions for growing businesses"
	PlaceholderLogoURL = "https://via.placeholder.com/150x80?text=NT+Business+Solutions"

	// NotAvailable is shown for absent identification fields
	NotAvailable = "N/A"

	// PaddingRows is the number of blank rows appended to the items table
	PaddingRows = 2
)

// BankingDetails is the static payment block
type BankingDetails struct {
	BankName      string
	AccountNumber string
	AccountHolder string
	BranchCode    string
}

// ContactDetails is the static footer block
type ContactDetails struct {
	Address string
	Phone   string
	Email   string
	Website string
}

// Banking returns the company's banking details
func Banking() BankingDetails {
	return BankingDetails{
		BankName:      "First National Bank",
		AccountNumber: "62845190327",
		AccountHolder: CompanyName,
		BranchCode:    "250655",
	}
}

// Terms returns the terms and conditions bullet list
func Terms() []string {
	return []string{
		"Payment is due within 30 days of the invoice date.",
		"Please use the invoice number as the payment reference.",
		"Goods and services remain the property of NT Business Solutions until paid in full.",
		"Queries regarding this invoice must be raised within 7 days of receipt.",
	}
}

// Contact returns the footer contact block
func Contact() ContactDetails {
	return ContactDetails{
		Address: "12 Market Street, Johannesburg, 2001",
		Phone:   "+27 11 555 0142",
		Email:   "accounts@ntbusiness.co.za",
		Website: "www.ntbusiness.co.za",
	}
}
