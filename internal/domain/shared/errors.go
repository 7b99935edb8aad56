package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes used across the domain
const (
	CodeInvalidInput         = "INVALID_INPUT"
	CodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
)

// Common domain errors
var (
	ErrInvalidInput = NewDomainError(CodeInvalidInput, "Invalid input provided")
)
