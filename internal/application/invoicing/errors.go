package invoicing

import "fmt"

// Copy identifies which of the two invoice emails a delivery was for
type Copy string

const (
	CopyClient   Copy = "client"
	CopyInternal Copy = "internal"
)

// RenderError reports that the invoice could not be turned into a PDF,
// either because a required field was missing or because the engine failed.
type RenderError struct {
	Cause error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render invoice: %v", e.Cause)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// DeliveryError reports that one of the invoice emails was not accepted
type DeliveryError struct {
	Copy      Copy
	Recipient string
	Cause     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %s copy to %s: %v", e.Copy, e.Recipient, e.Cause)
}

func (e *DeliveryError) Unwrap() error {
	return e.Cause
}
