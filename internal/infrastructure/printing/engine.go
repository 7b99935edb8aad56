package printing

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Supported PDF engines
const (
	EngineChromedp    = "chromedp"
	EngineWkhtmltopdf = "wkhtmltopdf"
)

// EngineConfig selects and configures a PDF engine
type EngineConfig struct {
	Engine          string
	RemoteURL       string
	NoSandbox       bool
	Timeout         time.Duration
	WkhtmltopdfPath string
}

// NewPDFRenderer builds the PDF engine named in cfg. An empty engine name
// selects chromedp.
func NewPDFRenderer(cfg EngineConfig, logger *zap.Logger) (PDFRenderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Engine {
	case "", EngineChromedp:
		r, err := NewChromedpRenderer(&ChromedpConfig{
			DefaultTimeout: cfg.Timeout,
			RemoteURL:      cfg.RemoteURL,
			NoSandbox:      cfg.NoSandbox,
			Logger:         logger.Named(EngineChromedp),
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	case EngineWkhtmltopdf:
		r, err := NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{
			BinaryPath:     cfg.WkhtmltopdfPath,
			DefaultTimeout: cfg.Timeout,
			Logger:         logger.Named(EngineWkhtmltopdf),
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unsupported PDF engine %q", cfg.Engine)
	}
}
