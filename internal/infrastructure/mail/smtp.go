package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// TLS policies for SMTP connections
const (
	TLSMandatory     = "mandatory"
	TLSOpportunistic = "opportunistic"
	TLSNone          = "none"
)

const defaultSMTPTimeout = 30 * time.Second

// SMTPConfig holds SMTP relay settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the default sender address
	From string
	// TLSPolicy is one of mandatory, opportunistic or none
	TLSPolicy string
	// InsecureSkipVerify disables certificate verification
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// SMTPSender sends messages through an SMTP relay.
// Each Send uses its own client and connection, so the sender is safe for
// concurrent use.
type SMTPSender struct {
	config  SMTPConfig
	options []gomail.Option
	logger  *zap.Logger
}

// NewSMTPSender validates the configuration and prepares an SMTP client
func NewSMTPSender(cfg SMTPConfig, logger *zap.Logger) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: SMTP host is required", ErrInvalidConfig)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: SMTP port must be between 1 and 65535", ErrInvalidConfig)
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("%w: SMTP username and password are required", ErrInvalidConfig)
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.TLSPolicy == "" {
		cfg.TLSPolicy = TLSMandatory
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultSMTPTimeout
	}

	policy, err := parseTLSPolicy(cfg.TLSPolicy)
	if err != nil {
		return nil, err
	}

	options := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPolicy(policy),
		gomail.WithTLSConfig(&tls.Config{
			ServerName:         cfg.Host,
			InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // opt-in via mail.insecure_skip_verify
			MinVersion:         tls.VersionTLS12,
		}),
		gomail.WithTimeout(cfg.Timeout),
	}
	if _, err := gomail.NewClient(cfg.Host, options...); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &SMTPSender{
		config:  cfg,
		options: options,
		logger:  logger,
	}, nil
}

func parseTLSPolicy(s string) (gomail.TLSPolicy, error) {
	switch strings.ToLower(s) {
	case TLSMandatory:
		return gomail.TLSMandatory, nil
	case TLSOpportunistic:
		return gomail.TLSOpportunistic, nil
	case TLSNone:
		return gomail.NoTLS, nil
	default:
		return gomail.TLSMandatory, fmt.Errorf("%w: unknown TLS policy %q", ErrInvalidConfig, s)
	}
}

// Send delivers the message
func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	m, err := s.buildMsg(msg)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(s.config.Host, s.options...)
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return errors.Join(ErrSendFailed, err)
	}

	s.logger.Debug("smtp message sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("attachments", len(msg.Attachments)))
	return nil
}

// buildMsg converts a Message into a MIME message
func (s *SMTPSender) buildMsg(msg *Message) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(fromOrDefault(msg, s.config.From)); err != nil {
		return nil, fmt.Errorf("%w: sender address: %v", ErrInvalidMessage, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("%w: recipient address: %v", ErrInvalidMessage, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)

	for _, a := range msg.Attachments {
		if err := m.AttachReader(a.Filename, bytes.NewReader(a.Content),
			gomail.WithFileContentType(gomail.ContentType(attachmentContentType(a)))); err != nil {
			return nil, fmt.Errorf("%w: attachment %s: %v", ErrInvalidMessage, a.Filename, err)
		}
	}
	return m, nil
}

// Close is a no-op; every Send closes its own connection
func (s *SMTPSender) Close() error {
	return nil
}

var _ Sender = (*SMTPSender)(nil)
