package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider names accepted by NewSender
const (
	ProviderSMTP     = "smtp"
	ProviderPostmark = "postmark"
	ProviderDev      = "dev"
)

// ContentTypePDF is the MIME type of invoice attachments
const ContentTypePDF = "application/pdf"

var (
	// ErrInvalidConfig is returned when a sender cannot be built from its configuration
	ErrInvalidConfig = errors.New("mail: invalid configuration")
	// ErrInvalidMessage is returned when a message is missing a required part
	ErrInvalidMessage = errors.New("mail: invalid message")
	// ErrSendFailed is returned when the transport rejects a message
	ErrSendFailed = errors.New("mail: failed to send message")
)

// Attachment is a file sent along with a message
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Message is one email. From may be left empty to use the sender's default address.
type Message struct {
	From        string
	To          string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// Validate checks that the message can be handed to a transport
func (m *Message) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: message is nil", ErrInvalidMessage)
	}
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidMessage)
	}
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	}
	for i, a := range m.Attachments {
		if a.Filename == "" {
			return fmt.Errorf("%w: attachment %d has no filename", ErrInvalidMessage, i)
		}
	}
	return nil
}

// Sender delivers messages
type Sender interface {
	Send(ctx context.Context, msg *Message) error
	Close() error
}

// fromOrDefault returns the message sender address, falling back to def
func fromOrDefault(msg *Message, def string) string {
	if strings.TrimSpace(msg.From) != "" {
		return msg.From
	}
	return def
}

// attachmentContentType returns the attachment MIME type, defaulting to PDF
func attachmentContentType(a Attachment) string {
	if a.ContentType != "" {
		return a.ContentType
	}
	return ContentTypePDF
}
