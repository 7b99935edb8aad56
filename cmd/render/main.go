// Command render renders an invoice JSON file to PDF (or HTML) on disk, or
// mails it the way the server does.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/invoicing/backend/internal/application/invoicing"
	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/invoicing/backend/internal/infrastructure/config"
	"github.com/invoicing/backend/internal/infrastructure/logger"
	"github.com/invoicing/backend/internal/infrastructure/mail"
	"github.com/invoicing/backend/internal/infrastructure/printing"
	"go.uber.org/zap"
)

func main() {
	var (
		configPath string
		inPath     string
		outPath    string
		htmlOnly   bool
		send       bool
		logLevel   string
	)

	flag.StringVar(&configPath, "config", "", "Path to config.toml (default: search ., ./config, /app)")
	flag.StringVar(&inPath, "in", "-", "Invoice JSON file, - for stdin")
	flag.StringVar(&outPath, "out", "", "Output file (default: Invoice_<number>.pdf, or .html with -html)")
	flag.BoolVar(&htmlOnly, "html", false, "Write the rendered HTML instead of a PDF")
	flag.BoolVar(&send, "send", false, "Mail the invoice to the client and the internal recipient instead of writing it")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	if htmlOnly && send {
		log.Fatal("-html and -send cannot be combined")
	}

	load := config.LoadFileForRendering
	if send {
		load = config.LoadFile
	}
	cfg, err := load(configPath)
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	rec, err := readRecord(inPath)
	if err != nil {
		log.Fatal("Failed to read invoice", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, rec, outPath, htmlOnly, send, log); err != nil {
		log.Error("Render failed", zap.Error(err))
		logger.Sync(log)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, rec *invoice.InvoiceRecord, outPath string, htmlOnly, send bool, log *zap.Logger) error {
	tmpl, err := printing.DefaultInvoiceTemplate()
	if err != nil {
		return err
	}
	engine := printing.NewTemplateEngine()

	if htmlOnly {
		html, err := invoicing.NewDocumentRenderer(engine, tmpl, nil, log).RenderHTML(ctx, rec)
		if err != nil {
			return err
		}
		return writeOutput(outPath, defaultOutput(rec, ".html"), []byte(html), log)
	}

	pdfRenderer, err := printing.NewPDFRenderer(printing.EngineConfig{
		Engine:          cfg.Renderer.Engine,
		RemoteURL:       cfg.Renderer.RemoteURL,
		NoSandbox:       cfg.Renderer.NoSandbox,
		Timeout:         cfg.Renderer.Timeout,
		WkhtmltopdfPath: cfg.Renderer.WkhtmltopdfPath,
	}, log)
	if err != nil {
		return err
	}
	defer pdfRenderer.Close()

	renderer := invoicing.NewDocumentRenderer(engine, tmpl, pdfRenderer, log)
	if !send {
		pdf, err := renderer.Render(ctx, rec)
		if err != nil {
			return err
		}
		return writeOutput(outPath, rec.AttachmentFilename(), pdf, log)
	}

	sender, err := mail.NewSender(mail.Config{
		Provider:             cfg.Mail.Provider,
		Host:                 cfg.Mail.Host,
		Port:                 cfg.Mail.Port,
		Username:             cfg.Mail.Username,
		Password:             cfg.Mail.Password,
		TLSPolicy:            cfg.Mail.TLSPolicy,
		InsecureSkipVerify:   cfg.Mail.InsecureSkipVerify,
		From:                 cfg.Mail.From,
		Timeout:              cfg.Mail.Timeout,
		PostmarkServerToken:  cfg.Mail.PostmarkServerToken,
		PostmarkAccountToken: cfg.Mail.PostmarkAccountToken,
		DevDir:               cfg.Mail.DevDir,
	}, log)
	if err != nil {
		return err
	}
	defer sender.Close()

	result, err := invoicing.NewService(renderer, sender, invoicing.ServiceConfig{
		From:              cfg.Mail.From,
		InternalRecipient: cfg.Mail.InternalRecipient,
	}, log).CreateAndSend(ctx, rec)
	if err != nil {
		return err
	}

	log.Info("Invoice sent", zap.Strings("recipients", result.Recipients))
	return nil
}

func readRecord(path string) (*invoice.InvoiceRecord, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var rec invoice.InvoiceRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode invoice JSON: %w", err)
	}
	return &rec, nil
}

func defaultOutput(rec *invoice.InvoiceRecord, ext string) string {
	return fmt.Sprintf("Invoice_%s%s", rec.InvoiceNumber, ext)
}

func writeOutput(path, fallback string, data []byte, log *zap.Logger) error {
	if path == "" {
		path = fallback
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Info("Wrote invoice", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}
