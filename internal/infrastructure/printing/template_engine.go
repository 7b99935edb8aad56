package printing

import (
	"bytes"
	"context"
	"html/template"
	"strings"
	"time"

	"github.com/invoicing/backend/internal/domain/printing"
)

// TemplateEngine handles rendering HTML templates with document data.
// It uses Go's html/template package, so every value bound into the
// markup is escaped for its context. Values arrive already formatted.
type TemplateEngine struct{}

// NewTemplateEngine creates a new template engine
func NewTemplateEngine() *TemplateEngine {
	return &TemplateEngine{}
}

// RenderTemplateRequest represents a request to render a template
type RenderTemplateRequest struct {
	// Template is the print template to render
	Template *printing.Template
	// Data is the view model bound to the template
	Data interface{}
}

// RenderTemplateResult contains the rendered HTML output
type RenderTemplateResult struct {
	// HTML is the rendered HTML content
	HTML string
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// Render renders a print template with the provided data
func (e *TemplateEngine) Render(ctx context.Context, req *RenderTemplateRequest) (*RenderTemplateResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if req.Template == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "template is nil", nil)
	}

	startTime := time.Now()

	html, err := e.RenderString(ctx, req.Template.Name, req.Template.Content, req.Data)
	if err != nil {
		return nil, err
	}

	return &RenderTemplateResult{
		HTML:           html,
		RenderDuration: time.Since(startTime),
	}, nil
}

// RenderString renders a template string with the provided data
func (e *TemplateEngine) RenderString(ctx context.Context, name, content string, data interface{}) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}
	if err := ctx.Err(); err != nil {
		return "", NewRenderError(ErrCodeRenderTimeout, "template rendering was cancelled", err)
	}

	tmpl, err := template.New(name).Parse(content)
	if err != nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "failed to parse template", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}

	return buf.String(), nil
}
