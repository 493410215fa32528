// Package mailer sends transactional email over SMTP. One transport is built
// per call; there is no pooling and no retry — a single attempt is the entire
// contract.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"
)

// Transport describes one SMTP endpoint with decrypted credentials.
type Transport struct {
	Host      string
	Port      int
	Secure    bool // true: implicit TLS; false: plain dial, STARTTLS when offered
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// Message is a single outbound email.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// SMTPMailer dials SMTP servers directly.
type SMTPMailer struct{}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{}
}

// Verify opens a connection, negotiates TLS and authentication, and quits
// without sending a message.
func (m *SMTPMailer) Verify(ctx context.Context, t Transport) error {
	client, err := m.connect(ctx, t)
	if err != nil {
		return err
	}
	return client.Quit()
}

// Send delivers one message through the transport. No retry on failure.
func (m *SMTPMailer) Send(ctx context.Context, t Transport, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("mailer: no recipients")
	}

	client, err := m.connect(ctx, t)
	if err != nil {
		return err
	}
	defer client.Quit()

	if err := client.Mail(t.FromEmail); err != nil {
		return fmt.Errorf("mailer: MAIL FROM: %w", err)
	}
	for _, rcpt := range msg.To {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("mailer: RCPT TO %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("mailer: DATA: %w", err)
	}
	if _, err := w.Write(buildMIMEMessage(t, msg)); err != nil {
		_ = w.Close()
		return fmt.Errorf("mailer: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mailer: close data: %w", err)
	}
	return nil
}

// connect dials, greets, upgrades to TLS, and authenticates. The context
// deadline bounds the dial; 15s applies when none is set.
func (m *SMTPMailer) connect(ctx context.Context, t Transport) (*smtp.Client, error) {
	var d net.Dialer
	if deadline, ok := ctx.Deadline(); ok {
		d.Timeout = time.Until(deadline)
		if d.Timeout <= 0 {
			d.Timeout = 10 * time.Second
		}
	} else {
		d.Timeout = 15 * time.Second
	}

	addr := fmt.Sprintf("%s:%d", t.Host, t.Port)

	var client *smtp.Client
	if t.Secure {
		conn, err := tls.DialWithDialer(&d, "tcp", addr, &tls.Config{ServerName: t.Host})
		if err != nil {
			return nil, fmt.Errorf("mailer: tls dial: %w", err)
		}
		client, err = smtp.NewClient(conn, t.Host)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("mailer: new client: %w", err)
		}
	} else {
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("mailer: dial: %w", err)
		}
		client, err = smtp.NewClient(conn, t.Host)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("mailer: new client: %w", err)
		}
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: t.Host}); err != nil {
				_ = client.Quit()
				return nil, fmt.Errorf("mailer: starttls: %w", err)
			}
		}
	}

	if t.Username != "" {
		auth := smtp.PlainAuth("", t.Username, t.Password, t.Host)
		if err := client.Auth(auth); err != nil {
			_ = client.Quit()
			return nil, fmt.Errorf("mailer: auth: %w", err)
		}
	}

	return client, nil
}
