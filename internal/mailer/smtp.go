package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/yukikurage/sitewalk-tasks/internal/config"
)

// SMTPMailer sends mail through an authenticated SMTP relay. Port 465 uses
// implicit TLS; any other port upgrades with STARTTLS when offered.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	now      func() time.Time
}

// NewSMTPMailer creates a Mailer from the SMTP settings.
func NewSMTPMailer(cfg config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		now:      time.Now,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) (*Receipt, error) {
	data, err := msg.Bytes(m.now())
	if err != nil {
		return nil, fmt.Errorf("failed to build message: %w", err)
	}

	client, err := m.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return nil, fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if m.username != "" {
		auth := smtp.PlainAuth("", m.username, m.password, m.host)
		if err := client.Auth(auth); err != nil {
			return nil, fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(msg.FromEmail); err != nil {
		return nil, fmt.Errorf("failed to set sender: %w", err)
	}

	receipt := &Receipt{Rejected: map[string]string{}}
	for _, rcpt := range msg.To {
		if err := client.Rcpt(rcpt); err != nil {
			receipt.Rejected[rcpt] = err.Error()
			continue
		}
		receipt.Accepted = append(receipt.Accepted, rcpt)
	}
	if len(receipt.Accepted) == 0 {
		return receipt, ErrNoRecipientsAccepted
	}

	w, err := client.Data()
	if err != nil {
		return receipt, fmt.Errorf("failed to open data connection: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return receipt, fmt.Errorf("failed to write email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return receipt, fmt.Errorf("failed to close data connection: %w", err)
	}

	if err := client.Quit(); err != nil {
		return receipt, fmt.Errorf("failed to quit SMTP session: %w", err)
	}
	return receipt, nil
}

func (m *SMTPMailer) dial(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))

	var conn net.Conn
	var err error
	if m.port == 465 {
		dialer := &tls.Dialer{Config: &tls.Config{ServerName: m.host}}
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	} else {
		var dialer net.Dialer
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return client, nil
}
