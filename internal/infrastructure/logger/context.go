package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// InvoiceNumberKey is the context key for the invoice being processed
	InvoiceNumberKey contextKey = "invoice_number"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, returns a no-op logger if not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID adds request ID to context and returns enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	enriched := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

// WithInvoiceNumber adds the invoice number to context and returns enriched logger
func WithInvoiceNumber(ctx context.Context, logger *zap.Logger, invoiceNumber string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, InvoiceNumberKey, invoiceNumber)
	enriched := logger.With(zap.String("invoice_number", invoiceNumber))
	return WithContext(ctx, enriched), enriched
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetInvoiceNumber retrieves the invoice number from context
func GetInvoiceNumber(ctx context.Context) string {
	if n, ok := ctx.Value(InvoiceNumberKey).(string); ok {
		return n
	}
	return ""
}
