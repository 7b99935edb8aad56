package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBinaryPath = "wkhtmltopdf"
	defaultTimeout    = 30 * time.Second
	// defaultImageWait gives the remote logo time to arrive before printing
	defaultImageWait = 200 * time.Millisecond
	// maxStderrInError caps the wkhtmltopdf output quoted in errors
	maxStderrInError = 512
)

// WkhtmltopdfConfig contains configuration for the wkhtmltopdf renderer
type WkhtmltopdfConfig struct {
	// BinaryPath is the path to the wkhtmltopdf binary.
	// If empty, it is looked up in PATH.
	BinaryPath string
	// DefaultTimeout for rendering operations
	DefaultTimeout time.Duration
	// ImageWait is how long wkhtmltopdf waits for images before printing
	ImageWait time.Duration
	// Logger for debug output
	Logger *zap.Logger
}

// WkhtmltopdfRenderer prints HTML with the wkhtmltopdf command-line tool.
// The markup goes in on stdin and the PDF comes back on stdout, so a render
// leaves nothing on disk. Each Render runs its own process.
type WkhtmltopdfRenderer struct {
	binary    string
	timeout   time.Duration
	imageWait time.Duration
	logger    *zap.Logger
}

// NewWkhtmltopdfRenderer resolves the binary and creates the renderer
func NewWkhtmltopdfRenderer(config *WkhtmltopdfConfig) (*WkhtmltopdfRenderer, error) {
	if config == nil {
		config = &WkhtmltopdfConfig{}
	}

	r := &WkhtmltopdfRenderer{
		binary:    config.BinaryPath,
		timeout:   config.DefaultTimeout,
		imageWait: config.ImageWait,
		logger:    config.Logger,
	}
	if r.binary == "" {
		r.binary = defaultBinaryPath
	}
	if r.timeout == 0 {
		r.timeout = defaultTimeout
	}
	if r.imageWait == 0 {
		r.imageWait = defaultImageWait
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}

	binary, err := lookupBinary(r.binary)
	if err != nil {
		return nil, NewRenderError(ErrCodeBinaryNotFound,
			fmt.Sprintf("wkhtmltopdf binary not found: %s", r.binary), err)
	}
	r.binary = binary

	return r, nil
}

// lookupBinary accepts an absolute path as is and searches PATH otherwise
func lookupBinary(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return exec.LookPath(path)
	}
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

// Render prints the request's HTML to PDF
func (r *WkhtmltopdfRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	started := time.Now()

	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := r.args(req)
	r.logger.Debug("running wkhtmltopdf", zap.String("binary", r.binary), zap.Strings("args", args))

	// The process is killed when ctx ends
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Stdin = strings.NewReader(req.HTML)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		case errors.Is(ctx.Err(), context.Canceled):
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}

		msg := lastBytes(stderr.String(), maxStderrInError)
		r.logger.Error("wkhtmltopdf failed", zap.Error(err), zap.String("stderr", msg))
		return nil, NewRenderError(ErrCodeRenderFailed, "wkhtmltopdf failed: "+msg, err)
	}

	pdf := stdout.Bytes()
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		return nil, NewRenderError(ErrCodeRenderFailed, "wkhtmltopdf produced no PDF", nil)
	}

	pages := estimatePageCount(pdf)
	elapsed := time.Since(started)
	r.logger.Info("PDF rendered",
		zap.String("engine", EngineWkhtmltopdf),
		zap.Int("bytes", len(pdf)),
		zap.Int("pages", pages),
		zap.Duration("duration", elapsed))

	return &RenderResult{
		PDFData:        pdf,
		PageCount:      pages,
		RenderDuration: elapsed,
	}, nil
}

// args builds the command line. "-" as input and output selects stdin and stdout.
func (r *WkhtmltopdfRenderer) args(req *RenderRequest) []string {
	args := []string{
		"--quiet",
		"--encoding", "UTF-8",
		"--print-media-type",
		"--page-size", req.PaperSize.String(),
		"--orientation", "Portrait",
		"--margin-top", mm(req.Margins.Top),
		"--margin-right", mm(req.Margins.Right),
		"--margin-bottom", mm(req.Margins.Bottom),
		"--margin-left", mm(req.Margins.Left),
		// Scripts stay off; the delay only lets images finish loading
		"--disable-javascript",
		"--javascript-delay", strconv.FormatInt(r.imageWait.Milliseconds(), 10),
		"--disable-local-file-access",
	}
	if req.Title != "" {
		args = append(args, "--title", req.Title)
	}
	return append(args, "-", "-")
}

func mm(v int) string {
	return strconv.Itoa(v) + "mm"
}

// lastBytes keeps the tail of s, where wkhtmltopdf reports the failure
func lastBytes(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}

// Close is a no-op; every Render owns its process
func (r *WkhtmltopdfRenderer) Close() error {
	return nil
}

var _ PDFRenderer = (*WkhtmltopdfRenderer)(nil)
