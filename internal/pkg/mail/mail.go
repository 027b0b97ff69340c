package mail

import (
	"context"
	"io"
	"log/slog"
)

// Message is a single plain-text email.
type Message struct {
	// From overrides the sender configured on the Mail implementation.
	From     string
	To       []string
	Subject  string
	TextBody string
}

// Mail delivers messages.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}

// Log is a Mail that writes messages to slog instead of delivering them.
type Log struct{}

// NewLog returns a logging mailer.
func NewLog() *Log { return &Log{} }

// Send logs msg at info level.
func (*Log) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	slog.InfoContext(ctx, "mail delivery disabled, message logged",
		"to", msg.To,
		"subject", msg.Subject,
		"text_body", msg.TextBody,
	)
	return nil
}

func (*Log) Close() error { return nil }
