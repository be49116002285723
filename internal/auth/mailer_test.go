package auth

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/rohits-web03/optivus/internal/config"
	"github.com/rohits-web03/optivus/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

func TestNewMailerSelection(t *testing.T) {
	lg := log.New(&bytes.Buffer{})

	m, err := NewMailer(config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "Optivus <no-reply@example.com>"}, false, lg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.(*SMTPMailer); !ok {
		t.Fatalf("with a host: %T, want *SMTPMailer", m)
	}

	m, err = NewMailer(config.SMTPConfig{}, true, lg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.(LogMailer); !ok {
		t.Fatalf("development without a host: %T, want LogMailer", m)
	}

	m, err = NewMailer(config.SMTPConfig{}, false, lg)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SendPasswordReset(context.Background(), "a@example.com", "https://x/reset?token=t"); !errors.Is(err, ErrMailDisabled) {
		t.Fatalf("production without a host: err = %v", err)
	}
}

func TestNewMailerRejectsBadSender(t *testing.T) {
	_, err := NewMailer(config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "not an address"}, false, log.New(&bytes.Buffer{}))
	if err == nil {
		t.Fatal("expected an error for an invalid sender")
	}
}

func TestDisabledMailerHidesAccounts(t *testing.T) {
	var buf bytes.Buffer
	// no Mailer: delivery is disabled
	p := NewProvider(Options{
		Users:      repositories.NewUsers(openTestDB(t)),
		Signer:     NewSigner("test-secret"),
		Logger:     log.New(&buf),
		BcryptCost: bcrypt.MinCost,
	})
	t.Cleanup(func() { p.Close() })
	ctx := context.Background()

	if _, _, err := p.SignUp(ctx, "ada@example.com", "secret-pass", ""); err != nil {
		t.Fatal(err)
	}
	for _, email := range []string{"ada@example.com", "nobody@example.com"} {
		if err := p.RequestPasswordReset(ctx, email, "https://drive.example.com/auth/reset"); !errors.Is(err, ErrMailDisabled) {
			t.Errorf("%s: err = %v", email, err)
		}
	}
	if strings.Contains(buf.String(), "token=") {
		t.Fatal("reset link written to the log")
	}
}
