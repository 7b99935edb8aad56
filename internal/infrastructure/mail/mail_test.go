package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		msg     *Message
		wantErr bool
	}{
		{"nil message", nil, true},
		{"missing recipient", &Message{Subject: "Invoice"}, true},
		{"blank subject", &Message{To: "a@x.com", Subject: "  "}, true},
		{"attachment without name", &Message{To: "a@x.com", Subject: "Invoice", Attachments: []Attachment{{Content: []byte("x")}}}, true},
		{"valid", &Message{To: "a@x.com", Subject: "Invoice", HTMLBody: "<p>hi</p>"}, false},
		{"valid with attachment", &Message{To: "a@x.com", Subject: "Invoice", Attachments: []Attachment{{Filename: "Invoice_1.pdf"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMessage)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFromOrDefault(t *testing.T) {
	assert.Equal(t, "billing@x.com", fromOrDefault(&Message{}, "billing@x.com"))
	assert.Equal(t, "other@x.com", fromOrDefault(&Message{From: "other@x.com"}, "billing@x.com"))
}

func TestAttachmentContentType(t *testing.T) {
	assert.Equal(t, ContentTypePDF, attachmentContentType(Attachment{}))
	assert.Equal(t, "text/plain", attachmentContentType(Attachment{ContentType: "text/plain"}))
}
