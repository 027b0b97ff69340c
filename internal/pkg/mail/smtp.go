package mail

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrHostPortRequired is returned when Host/Port are missing.
	ErrHostPortRequired = errors.New("smtp host and port are required")
	// ErrNoRecipients is returned when To is empty.
	ErrNoRecipients = errors.New("no recipients provided")
	// ErrNoSender is returned when both Message.From and the configured default are empty.
	ErrNoSender = errors.New("no sender provided")
)

// SMTPConfig configures the SMTP mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the default sender when Message.From is empty.
	From string
}

// SMTP is a Mail implementation backed by net/smtp.
type SMTP struct {
	addr string
	from string
	auth smtp.Auth
	now  func() time.Time
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTP constructs an SMTP mailer.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrHostPortRequired
	}

	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTP{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		from: cfg.From,
		auth: auth,
		now:  time.Now,
		send: smtp.SendMail,
	}, nil
}

// Send delivers msg. net/smtp has no context support, so ctx is only checked
// before dialing.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	from := msg.From
	if from == "" {
		from = s.from
	}
	if from == "" {
		return ErrNoSender
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.send(s.addr, s.auth, from, msg.To, s.compose(from, msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", s.addr, err)
	}
	return nil
}

func (s *SMTP) compose(from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", s.now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.TextBody, "\n", "\r\n"))
	return []byte(b.String())
}

// Close implements io.Closer.
func (s *SMTP) Close() error { return nil }
