package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invoicing/backend/internal/application/invoicing"
	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/invoicing/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Response bodies of the invoice routes. Failures never carry details.
const (
	msgInvoiceSent   = "Invoice created and sent successfully!"
	errCreateAndSend = "Failed to create and send invoice."
	errRenderPreview = "Failed to render invoice preview."
	errBodyTooLarge  = "Request body too large."
)

// InvoiceSender renders an invoice and mails it
type InvoiceSender interface {
	CreateAndSend(ctx context.Context, rec *invoice.InvoiceRecord) (*invoicing.SendResult, error)
}

// InvoicePreviewer renders the invoice markup without producing a PDF
type InvoicePreviewer interface {
	RenderHTML(ctx context.Context, rec *invoice.InvoiceRecord) (string, error)
}

// InvoiceHandler serves the invoice API
type InvoiceHandler struct {
	sender    InvoiceSender
	previewer InvoicePreviewer
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(sender InvoiceSender, previewer InvoicePreviewer) *InvoiceHandler {
	return &InvoiceHandler{sender: sender, previewer: previewer}
}

// CreateInvoice godoc
// @Summary      Render an invoice and email it
// @Description  Renders the invoice to an A4 PDF, mails it to the client and then to the internal address
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body invoice.InvoiceRecord true "Invoice"
// @Success      200 {object} MessageResponse
// @Failure      500 {object} ErrorResponse
// @Router       /create-invoice [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	rec, ok := bindInvoice(c, errCreateAndSend)
	if !ok {
		return
	}

	result, err := h.sender.CreateAndSend(c.Request.Context(), rec)
	if err != nil {
		logFailure(c, "create and send invoice failed", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: errCreateAndSend})
		return
	}

	logger.GetGinLogger(c).Info("invoice created and sent",
		zap.String("attachment", result.Attachment),
		zap.Strings("recipients", result.Recipients))
	c.JSON(http.StatusOK, MessageResponse{Message: msgInvoiceSent})
}

// PreviewInvoice godoc
// @Summary      Preview an invoice
// @Description  Returns the rendered invoice markup; nothing is printed or mailed
// @Tags         invoices
// @Accept       json
// @Produce      html
// @Param        request body invoice.InvoiceRecord true "Invoice"
// @Success      200 {string} string
// @Failure      500 {object} ErrorResponse
// @Router       /preview-invoice [post]
func (h *InvoiceHandler) PreviewInvoice(c *gin.Context) {
	rec, ok := bindInvoice(c, errRenderPreview)
	if !ok {
		return
	}

	html, err := h.previewer.RenderHTML(c.Request.Context(), rec)
	if err != nil {
		logFailure(c, "invoice preview failed", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: errRenderPreview})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// bindInvoice decodes the request body. Malformed JSON is answered with the
// route's generic 500 body; an oversized body with 413.
func bindInvoice(c *gin.Context, failure string) (*invoice.InvoiceRecord, bool) {
	var rec invoice.InvoiceRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: errBodyTooLarge})
			return nil, false
		}
		logFailure(c, "invalid invoice payload", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: failure})
		return nil, false
	}
	return &rec, true
}

func logFailure(c *gin.Context, msg string, err error) {
	fields := []zap.Field{zap.Error(err)}

	var renderErr *invoicing.RenderError
	var deliveryErr *invoicing.DeliveryError
	switch {
	case errors.As(err, &renderErr):
		fields = append(fields, zap.String("stage", "render"))
	case errors.As(err, &deliveryErr):
		fields = append(fields,
			zap.String("stage", "delivery"),
			zap.String("copy", string(deliveryErr.Copy)))
	}

	_ = c.Error(err)
	logger.GetGinLogger(c).Error(msg, fields...)
}
