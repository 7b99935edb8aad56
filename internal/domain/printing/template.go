package printing

import (
	"strings"

	"github.com/invoicing/backend/internal/domain/shared"
)

// Template is an HTML layout together with the page it was designed for
type Template struct {
	Name      string
	Content   string
	PaperSize PaperSize
	Margins   Margins
}

// NewTemplate validates and builds a template
func NewTemplate(name, content string, paperSize PaperSize, margins Margins) (*Template, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "template name cannot be empty")
	}
	if strings.TrimSpace(content) == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "template content cannot be empty")
	}
	if !paperSize.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "unsupported paper size "+paperSize.String())
	}
	if err := margins.Validate(paperSize); err != nil {
		return nil, err
	}

	return &Template{
		Name:      strings.TrimSpace(name),
		Content:   content,
		PaperSize: paperSize,
		Margins:   margins,
	}, nil
}
