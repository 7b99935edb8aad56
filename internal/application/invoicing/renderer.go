// Package invoicing turns invoice records into PDF documents and mails them.
package invoicing

import (
	"context"
	"fmt"

	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/invoicing/backend/internal/domain/printing"
	infra "github.com/invoicing/backend/internal/infrastructure/printing"
	"go.uber.org/zap"
)

// DocumentRenderer lays an invoice record out with the invoice template and
// prints it to PDF
type DocumentRenderer struct {
	engine   *infra.TemplateEngine
	template *printing.Template
	pdf      infra.PDFRenderer
	logger   *zap.Logger
}

// NewDocumentRenderer creates a DocumentRenderer
func NewDocumentRenderer(
	engine *infra.TemplateEngine,
	template *printing.Template,
	pdf infra.PDFRenderer,
	logger *zap.Logger,
) *DocumentRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentRenderer{
		engine:   engine,
		template: template,
		pdf:      pdf,
		logger:   logger,
	}
}

// RenderHTML validates the record and returns the document markup.
// Every failure is a *RenderError.
func (r *DocumentRenderer) RenderHTML(ctx context.Context, rec *invoice.InvoiceRecord) (string, error) {
	doc, err := invoice.NewDocument(rec)
	if err != nil {
		return "", &RenderError{Cause: err}
	}

	result, err := r.engine.Render(ctx, &infra.RenderTemplateRequest{
		Template: r.template,
		Data:     doc,
	})
	if err != nil {
		return "", &RenderError{Cause: err}
	}
	return result.HTML, nil
}

// Render returns the invoice as PDF bytes. Every failure is a *RenderError.
func (r *DocumentRenderer) Render(ctx context.Context, rec *invoice.InvoiceRecord) ([]byte, error) {
	html, err := r.RenderHTML(ctx, rec)
	if err != nil {
		return nil, err
	}

	result, err := r.pdf.Render(ctx, &infra.RenderRequest{
		HTML:      html,
		PaperSize: r.template.PaperSize,
		Margins:   r.template.Margins,
		Title:     fmt.Sprintf("Invoice %s", rec.InvoiceNumber),
	})
	if err != nil {
		return nil, &RenderError{Cause: err}
	}

	r.logger.Debug("invoice rendered",
		zap.String("invoice_number", rec.InvoiceNumber.String()),
		zap.Int("bytes", len(result.PDFData)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))

	return result.PDFData, nil
}
