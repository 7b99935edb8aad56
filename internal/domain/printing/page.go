package printing

import (
	"fmt"

	"github.com/invoicing/backend/internal/domain/shared"
)

// PaperSize names a sheet format. Invoices are laid out for A4 portrait.
type PaperSize string

const PaperSizeA4 PaperSize = "A4"

// sheet is a portrait sheet in millimetres
type sheet struct{ width, height int }

var sheets = map[PaperSize]sheet{
	PaperSizeA4: {210, 297},
}

// IsValid reports whether the paper size is supported
func (p PaperSize) IsValid() bool {
	_, ok := sheets[p]
	return ok
}

func (p PaperSize) String() string {
	return string(p)
}

// Dimensions returns the portrait width and height in millimetres.
// Unknown sizes report A4.
func (p PaperSize) Dimensions() (width, height int) {
	s, ok := sheets[p]
	if !ok {
		s = sheets[PaperSizeA4]
	}
	return s.width, s.height
}

// Margins are page margins in millimetres
type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// InvoiceMargins are the margins the invoice layout is designed for
func InvoiceMargins() Margins {
	return Margins{Top: 10, Right: 10, Bottom: 10, Left: 10}
}

// Validate checks that no margin is negative and that at least half of
// the sheet stays printable in each direction
func (m Margins) Validate(p PaperSize) error {
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "margins cannot be negative")
	}
	width, height := p.Dimensions()
	if 2*(m.Left+m.Right) > width {
		return shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("left and right margins exceed half the %s width", p))
	}
	if 2*(m.Top+m.Bottom) > height {
		return shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("top and bottom margins exceed half the %s height", p))
	}
	return nil
}
