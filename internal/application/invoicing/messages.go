package invoicing

import (
	"bytes"
	"html/template"

	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/invoicing/backend/internal/infrastructure/mail"
)

var (
	clientBody = template.Must(template.New("client").Parse(
		`<p>Dear {{.ClientName}},</p>` +
			`<p>Please find attached your invoice for our services.</p>` +
			`<p>Total Amount Due: {{.Total}}</p>` +
			`<p>Thank you for your business!</p>`))

	internalBody = template.Must(template.New("internal").Parse(
		`<p>A copy of invoice #{{.InvoiceNumber}} has been sent to {{.ClientName}} ({{.ClientEmail}}).</p>` +
			`<p>Total Amount Due: {{.Total}}</p>`))
)

type messageData struct {
	InvoiceNumber string
	ClientName    string
	ClientEmail   string
	Total         string
}

func newMessageData(rec *invoice.InvoiceRecord) messageData {
	data := messageData{
		InvoiceNumber: rec.InvoiceNumber.String(),
		ClientName:    rec.ClientName,
		ClientEmail:   rec.ClientEmail,
	}
	if rec.Total != nil {
		data.Total = invoice.FormatMoney(*rec.Total)
	}
	return data
}

// clientMessage builds the email carrying the invoice to the client
func clientMessage(rec *invoice.InvoiceRecord, from string, pdf []byte) (*mail.Message, error) {
	body, err := execute(clientBody, newMessageData(rec))
	if err != nil {
		return nil, err
	}
	return &mail.Message{
		From:        from,
		To:          rec.ClientEmail,
		Subject:     "Invoice #" + rec.InvoiceNumber.String() + " from " + invoice.CompanyName,
		HTMLBody:    body,
		Attachments: []mail.Attachment{pdfAttachment(rec, pdf)},
	}, nil
}

// internalMessage builds the copy kept by the business
func internalMessage(rec *invoice.InvoiceRecord, from, to string, pdf []byte) (*mail.Message, error) {
	body, err := execute(internalBody, newMessageData(rec))
	if err != nil {
		return nil, err
	}
	return &mail.Message{
		From:        from,
		To:          to,
		Subject:     "Copy of Invoice #" + rec.InvoiceNumber.String() + " sent to " + rec.ClientName,
		HTMLBody:    body,
		Attachments: []mail.Attachment{pdfAttachment(rec, pdf)},
	}, nil
}

func pdfAttachment(rec *invoice.InvoiceRecord, pdf []byte) mail.Attachment {
	return mail.Attachment{
		Filename:    rec.AttachmentFilename(),
		Content:     pdf,
		ContentType: mail.ContentTypePDF,
	}
}

func execute(t *template.Template, data messageData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
