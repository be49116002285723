package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rohits-web03/optivus/internal/config"
	"github.com/wneessen/go-mail"
)

// ErrMailDisabled is returned by password reset when no mail delivery is configured.
var ErrMailDisabled = errors.New("password reset mail is not configured")

const smtpTimeout = 15 * time.Second

// Mailer delivers password reset links.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

// NewMailer picks the delivery for the environment: SMTP when a host is configured, the log
// in development, and nothing otherwise.
func NewMailer(cfg config.SMTPConfig, development bool, logger *log.Logger) (Mailer, error) {
	switch {
	case cfg.Host != "":
		return NewSMTPMailer(cfg, logger)
	case development:
		logger.Warn("SMTP_HOST not set, reset links go to the log")
		return LogMailer{Logger: logger}, nil
	}
	logger.Warn("SMTP_HOST not set, password reset is disabled")
	return disabledMailer{}, nil
}

// SMTPMailer sends reset links through an SMTP relay.
type SMTPMailer struct {
	client *mail.Client
	from   string
	logger *log.Logger
}

func NewSMTPMailer(cfg config.SMTPConfig, logger *log.Logger) (*SMTPMailer, error) {
	if err := mail.NewMsg().From(cfg.From); err != nil {
		return nil, fmt.Errorf("invalid SMTP_FROM %q: %w", cfg.From, err)
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(smtpTimeout),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From, logger: logger}, nil
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, email, link string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(email); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject("Reset your Optivus password")
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Someone asked to reset the password of your Optivus account.\n\n"+
			"Open this link to choose a new one:\n%s\n\n"+
			"If it was not you, ignore this email.\n", link))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send reset mail: %w", err)
	}
	m.logger.Info("password reset mail sent", "email", email)
	return nil
}

// LogMailer writes reset links to the log instead of sending mail. Development only: the
// link is a live credential.
type LogMailer struct {
	Logger *log.Logger
}

func (m LogMailer) SendPasswordReset(_ context.Context, email, link string) error {
	m.Logger.Info("password reset requested", "email", email, "link", link)
	return nil
}

type disabledMailer struct{}

func (disabledMailer) SendPasswordReset(context.Context, string, string) error {
	return ErrMailDisabled
}
