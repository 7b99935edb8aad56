package mail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
	"go.uber.org/zap"
)

// postmarkTag groups invoice mail in the Postmark activity feed
const postmarkTag = "invoice"

// PostmarkConfig holds Postmark API settings
type PostmarkConfig struct {
	ServerToken  string
	AccountToken string
	// From is the default sender address; it must be a confirmed Postmark sender signature
	From string
}

// PostmarkSender sends messages with Postmark's transactional API
type PostmarkSender struct {
	client *postmark.Client
	config PostmarkConfig
	logger *zap.Logger
}

// NewPostmarkSender creates a Postmark-backed sender
func NewPostmarkSender(cfg PostmarkConfig, logger *zap.Logger) (*PostmarkSender, error) {
	if cfg.ServerToken == "" {
		return nil, fmt.Errorf("%w: Postmark server token is required", ErrInvalidConfig)
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("%w: sender address is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PostmarkSender{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		config: cfg,
		logger: logger,
	}, nil
}

// Send delivers the message. A non-zero Postmark error code is a failure.
func (p *PostmarkSender) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	resp, err := p.client.SendEmail(ctx, p.buildEmail(msg))
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(ErrSendFailed,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message))
	}

	p.logger.Debug("postmark message sent",
		zap.String("to", msg.To),
		zap.String("message_id", resp.MessageID))
	return nil
}

// buildEmail maps a Message onto the Postmark API payload
func (p *PostmarkSender) buildEmail(msg *Message) postmark.Email {
	email := postmark.Email{
		From:     fromOrDefault(msg, p.config.From),
		To:       msg.To,
		Subject:  msg.Subject,
		HTMLBody: msg.HTMLBody,
		Tag:      postmarkTag,
	}
	for _, a := range msg.Attachments {
		email.Attachments = append(email.Attachments, postmark.Attachment{
			Name:        a.Filename,
			Content:     base64.StdEncoding.EncodeToString(a.Content),
			ContentType: attachmentContentType(a),
		})
	}
	return email
}

// Close is a no-op for the HTTP API client
func (p *PostmarkSender) Close() error {
	return nil
}

var _ Sender = (*PostmarkSender)(nil)
