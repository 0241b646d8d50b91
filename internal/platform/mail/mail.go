// Copyright (c) 2026 Linkup. All rights reserved.

/*
Package mail delivers transactional email such as verification codes.

Two implementations of [Notifier] exist:

  - SMTPNotifier: Real delivery over SMTP (production).
  - LogNotifier: Writes the message to the structured log (development).

Delivery failures are surfaced to the caller so the registration flow can
roll back when the verification code never reaches the user.
*/
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

// Notifier sends a plain-text message to a single recipient.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// # SMTP Delivery

// SMTPNotifier delivers mail through an SMTP relay.
type SMTPNotifier struct {
	client *gomail.Client
	sender string
	logger *slog.Logger
}

/*
NewSMTPNotifier configures an SMTP client for transactional delivery.

Parameters:
  - host: SMTP relay hostname
  - port: SMTP relay port (587 for STARTTLS)
  - username: Relay account username
  - password: Relay account password
  - sender: From address for all outgoing mail
  - logger: Structured logger for delivery events

Returns:
  - *SMTPNotifier: Ready-to-use notifier
  - error: Configuration failure (bad host, unsupported auth)
*/
func NewSMTPNotifier(host string, port int, username, password, sender string, logger *slog.Logger) (*SMTPNotifier, error) {
	client, err := gomail.NewClient(host,
		gomail.WithPort(port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(username),
		gomail.WithPassword(password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("mail: failed to configure SMTP client: %w", err)
	}

	return &SMTPNotifier{client: client, sender: sender, logger: logger}, nil
}

// Send delivers a plain-text message via the configured relay.
func (notifier *SMTPNotifier) Send(ctx context.Context, recipient, subject, body string) error {

	// 1. Assemble the message
	message := gomail.NewMsg()
	if err := message.From(notifier.sender); err != nil {
		return fmt.Errorf("mail: invalid sender address: %w", err)
	}
	if err := message.To(recipient); err != nil {
		return fmt.Errorf("mail: invalid recipient address: %w", err)
	}
	message.Subject(subject)
	message.SetBodyString(gomail.TypeTextPlain, body)

	// 2. Dial the relay and deliver
	if err := notifier.client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("mail: delivery failed: %w", err)
	}

	notifier.logger.InfoContext(ctx, "mail_delivered",
		slog.String("recipient", recipient),
		slog.String("subject", subject),
	)

	return nil
}

// # Development Delivery

// LogNotifier writes the message to the structured log instead of sending it.
// Useful in development where no SMTP relay is available.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs the message at INFO level and always succeeds.
func (notifier *LogNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	notifier.logger.InfoContext(ctx, "mail_logged",
		slog.String("recipient", recipient),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
