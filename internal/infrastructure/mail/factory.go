package mail

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Config selects and configures a Sender
type Config struct {
	Provider           string
	Host               string
	Port               int
	Username           string
	Password           string
	TLSPolicy          string
	InsecureSkipVerify bool
	From               string
	Timeout            time.Duration

	PostmarkServerToken  string
	PostmarkAccountToken string

	DevDir string
}

// NewSender builds the Sender named by cfg.Provider. An empty provider selects SMTP.
func NewSender(cfg Config, logger *zap.Logger) (Sender, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Provider {
	case "", ProviderSMTP:
		s, err := NewSMTPSender(SMTPConfig{
			Host:               cfg.Host,
			Port:               cfg.Port,
			Username:           cfg.Username,
			Password:           cfg.Password,
			From:               cfg.From,
			TLSPolicy:          cfg.TLSPolicy,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			Timeout:            cfg.Timeout,
		}, logger.Named(ProviderSMTP))
		if err != nil {
			return nil, err
		}
		return s, nil
	case ProviderPostmark:
		s, err := NewPostmarkSender(PostmarkConfig{
			ServerToken:  cfg.PostmarkServerToken,
			AccountToken: cfg.PostmarkAccountToken,
			From:         cfg.From,
		}, logger.Named(ProviderPostmark))
		if err != nil {
			return nil, err
		}
		return s, nil
	case ProviderDev:
		s, err := NewDevSender(cfg.DevDir, cfg.From, logger.Named(ProviderDev))
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: unknown mail provider %q", ErrInvalidConfig, cfg.Provider)
	}
}
