package invoicing_test

import (
	"context"
	"testing"

	"github.com/invoicing/backend/internal/application/invoicing"
	"github.com/invoicing/backend/internal/domain/printing"
	infra "github.com/invoicing/backend/internal/infrastructure/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDocumentRenderer_RenderHTML(t *testing.T) {
	r := newRenderer(t, new(MockPDFRenderer))

	html, err := r.RenderHTML(context.Background(), parseRecord(t, inv1JSON))
	require.NoError(t, err)

	assert.Contains(t, html, "<td>Consulting</td>")
	assert.Contains(t, html, "<td>Acme</td>")
	assert.Contains(t, html, "NT Business Solutions")
}

func TestDocumentRenderer_RenderHTML_Idempotent(t *testing.T) {
	r := newRenderer(t, new(MockPDFRenderer))
	rec := parseRecord(t, inv1JSON)

	first, err := r.RenderHTML(context.Background(), rec)
	require.NoError(t, err)
	second, err := r.RenderHTML(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDocumentRenderer_Render_PassesLayout(t *testing.T) {
	pdf := new(MockPDFRenderer)
	pdf.On("Render", mock.Anything, mock.MatchedBy(func(req *infra.RenderRequest) bool {
		return req.PaperSize == printing.PaperSizeA4 &&
			req.Margins == printing.InvoiceMargins() &&
			req.Title == "Invoice INV-1" &&
			req.HTML != ""
	})).Return(&infra.RenderResult{PDFData: fakePDF}, nil).Once()

	data, err := newRenderer(t, pdf).Render(context.Background(), parseRecord(t, inv1JSON))
	require.NoError(t, err)
	assert.Equal(t, fakePDF, data)
	pdf.AssertExpectations(t)
}

func TestDocumentRenderer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pdf := new(MockPDFRenderer)
	_, err := newRenderer(t, pdf).Render(ctx, parseRecord(t, inv1JSON))

	var renderErr *invoicing.RenderError
	require.ErrorAs(t, err, &renderErr)

	var infraErr *infra.RenderError
	require.ErrorAs(t, err, &infraErr)
	assert.Equal(t, infra.ErrCodeRenderTimeout, infraErr.Code)
	pdf.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
}
