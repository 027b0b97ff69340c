package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/otpverify/internal/pkg/instrument"
	"github.com/shandysiswandi/otpverify/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
)

const (
	subject = "Your verification code"

	defaultRetryBase = 200 * time.Millisecond
	defaultRetries   = 2
)

type Mail struct {
	client  mail.Mail
	ins     instrument.Instrumentation
	base    time.Duration
	retries uint64
}

func New(client mail.Mail, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, ins: ins, base: defaultRetryBase, retries: defaultRetries}
}

// SendCode mails code to email.
func (m *Mail) SendCode(ctx context.Context, email, code string, validMinutes int) error {
	ctx, span := m.ins.Tracer("devapi.outbound.email").Start(ctx, "SendCode")
	defer span.End()

	msg := mail.Message{
		To:      []string{email},
		Subject: subject,
		TextBody: fmt.Sprintf(
			"Your verification code is %s.\r\n\r\nIt expires in %d minutes. If you did not request it, ignore this email.",
			code, validMinutes,
		),
	}

	b := retry.NewFibonacci(m.base)
	b = retry.WithCappedDuration(2*time.Second, b)
	b = retry.WithMaxRetries(m.retries, b)

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		err := m.client.Send(ctx, msg)
		if err == nil || isPermanent(err) {
			return err
		}
		slog.WarnContext(ctx, "otp email delivery failed, retrying", "error", err)
		return retry.RetryableError(err)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// isPermanent reports errors a retry cannot fix.
func isPermanent(err error) bool {
	return errors.Is(err, mail.ErrNoRecipients) ||
		errors.Is(err, mail.ErrNoSender) ||
		errors.Is(err, mail.ErrHostPortRequired)
}
