package invoicing

import (
	"context"
	"fmt"

	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/invoicing/backend/internal/infrastructure/logger"
	"github.com/invoicing/backend/internal/infrastructure/mail"
	"go.uber.org/zap"
)

// PDFDocumentRenderer produces the PDF for an invoice record
type PDFDocumentRenderer interface {
	Render(ctx context.Context, rec *invoice.InvoiceRecord) ([]byte, error)
}

// ServiceConfig holds the addresses used when mailing invoices
type ServiceConfig struct {
	// From is the sender address; empty uses the mail transport's default
	From string
	// InternalRecipient receives the internal copy of every invoice
	InternalRecipient string
}

// SendResult describes a completed CreateAndSend
type SendResult struct {
	Attachment string
	Recipients []string
	PDFSize    int
}

// Service renders invoices and delivers them by email
type Service struct {
	renderer PDFDocumentRenderer
	sender   mail.Sender
	cfg      ServiceConfig
	logger   *zap.Logger
}

// NewService creates a new invoicing Service
func NewService(renderer PDFDocumentRenderer, sender mail.Sender, cfg ServiceConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		renderer: renderer,
		sender:   sender,
		cfg:      cfg,
		logger:   logger,
	}
}

// CreateAndSend renders the invoice to PDF, mails it to the client and then
// mails a copy to the internal recipient. The internal copy is only attempted
// after the client copy was accepted; a failure of either copy fails the call.
func (s *Service) CreateAndSend(ctx context.Context, rec *invoice.InvoiceRecord) (*SendResult, error) {
	log := s.loggerFor(ctx)
	if rec != nil {
		ctx, log = logger.WithInvoiceNumber(ctx, log, rec.InvoiceNumber.String())
	}

	pdf, err := s.renderer.Render(ctx, rec)
	if err != nil {
		log.Error("invoice rendering failed", zap.Error(err))
		return nil, err
	}

	client, err := clientMessage(rec, s.cfg.From, pdf)
	if err != nil {
		return nil, fmt.Errorf("compose client message: %w", err)
	}
	if err := s.sender.Send(ctx, client); err != nil {
		log.Error("client invoice delivery failed",
			zap.String("recipient", client.To),
			zap.Error(err))
		return nil, &DeliveryError{Copy: CopyClient, Recipient: client.To, Cause: err}
	}
	log.Info("invoice sent to client", zap.String("recipient", client.To))

	internal, err := internalMessage(rec, s.cfg.From, s.cfg.InternalRecipient, pdf)
	if err != nil {
		return nil, fmt.Errorf("compose internal message: %w", err)
	}
	if err := s.sender.Send(ctx, internal); err != nil {
		log.Error("internal invoice copy delivery failed",
			zap.String("recipient", internal.To),
			zap.Error(err))
		return nil, &DeliveryError{Copy: CopyInternal, Recipient: internal.To, Cause: err}
	}
	log.Info("internal invoice copy sent", zap.String("recipient", internal.To))

	return &SendResult{
		Attachment: rec.AttachmentFilename(),
		Recipients: []string{client.To, internal.To},
		PDFSize:    len(pdf),
	}, nil
}

// loggerFor prefers the request-scoped logger carried by ctx
func (s *Service) loggerFor(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(logger.LoggerKey).(*zap.Logger); ok {
		return l
	}
	return s.logger
}
