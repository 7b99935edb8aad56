package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DevSender writes messages to a directory instead of sending them.
// Each message produces <stamp>_<subject>.html with the body,
// <stamp>_<subject>.json with the metadata and one file per attachment.
type DevSender struct {
	dir    string
	from   string
	logger *zap.Logger
	now    func() time.Time

	mu  sync.Mutex
	seq int
}

// NewDevSender creates a development sender writing into dir
func NewDevSender(dir, from string, logger *zap.Logger) (*DevSender, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: dev mail directory is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DevSender{
		dir:    dir,
		from:   from,
		logger: logger,
		now:    time.Now,
	}, nil
}

// devMetadata is the JSON sidecar written for each message
type devMetadata struct {
	Timestamp   string   `json:"timestamp"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	Subject     string   `json:"subject"`
	Attachments []string `json:"attachments,omitempty"`
}

// Send writes the message to disk
func (d *DevSender) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory: %v", ErrSendFailed, err)
	}

	base := d.baseName(msg.Subject)

	if err := os.WriteFile(filepath.Join(d.dir, base+".html"), []byte(msg.HTMLBody), 0o644); err != nil {
		return fmt.Errorf("%w: write body: %v", ErrSendFailed, err)
	}

	meta := devMetadata{
		Timestamp: d.now().UTC().Format(time.RFC3339),
		From:      fromOrDefault(msg, d.from),
		To:        msg.To,
		Subject:   msg.Subject,
	}
	for _, a := range msg.Attachments {
		name := base + "_" + sanitizeFilename(a.Filename)
		if err := os.WriteFile(filepath.Join(d.dir, name), a.Content, 0o644); err != nil {
			return fmt.Errorf("%w: write attachment: %v", ErrSendFailed, err)
		}
		meta.Attachments = append(meta.Attachments, name)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode metadata: %v", ErrSendFailed, err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), data, 0o644); err != nil {
		return fmt.Errorf("%w: write metadata: %v", ErrSendFailed, err)
	}

	d.logger.Info("dev mail written",
		zap.String("dir", d.dir),
		zap.String("file", base),
		zap.String("to", msg.To))
	return nil
}

// baseName returns a unique, chronologically sortable file prefix
func (d *DevSender) baseName(subject string) string {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	d.mu.Unlock()

	return fmt.Sprintf("%s_%03d_%s", d.now().Format("2006_01_02_150405"), seq, sanitizeFilename(subject))
}

// Close is a no-op
func (d *DevSender) Close() error {
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// sanitizeFilename replaces characters that are unsafe in file names.
// Accents are folded first, so "Zoë" becomes "Zoe" rather than "Zo_".
func sanitizeFilename(s string) string {
	s = foldAccents(s)
	s = unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(s), "_")
	s = strings.Trim(s, "_")
	if len(s) > 80 {
		s = s[:80]
	}
	if s == "" {
		return "message"
	}
	return s
}

// foldAccents strips combining marks after canonical decomposition.
// Transformer chains are stateful, so one is built per call.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

var _ Sender = (*DevSender)(nil)
