// Package printing turns HTML documents into PDF files.
//
// TemplateEngine executes a printing.Template against a view model and
// produces a complete HTML document. A PDFRenderer then prints that markup
// to PDF: ChromedpRenderer drives a headless Chrome over the DevTools
// protocol, WkhtmltopdfRenderer shells out to the wkhtmltopdf binary.
//
// Example usage:
//
//	renderer, err := NewPDFRenderer(EngineConfig{Engine: EngineChromedp}, logger)
//	if err != nil {
//	    return err
//	}
//	defer renderer.Close()
//
//	result, err := renderer.Render(ctx, &RenderRequest{
//	    HTML:      html,
//	    PaperSize: printing.PaperSizeA4,
//	    Margins:   printing.InvoiceMargins(),
//	})
package printing
