// Package mail delivers rendered invoices by email.
//
// Sender is implemented by SMTPSender (any SMTP relay, Gmail by default),
// PostmarkSender (Postmark's transactional API) and DevSender, which writes
// every message to a local directory instead of sending it. NewSender picks
// one from configuration.
package mail
