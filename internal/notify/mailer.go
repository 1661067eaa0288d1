package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"sort"
	"strings"
)

// SMTPConfig holds mail server settings.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Mailer sends plain-text notification emails over SMTP with TLS.
type Mailer struct {
	cfg SMTPConfig
}

// NewMailer validates the config and returns a Mailer.
func NewMailer(cfg SMTPConfig) (*Mailer, error) {
	if cfg.Host == "" || cfg.Port == "" || cfg.Username == "" || cfg.Password == "" || cfg.From == "" {
		return nil, fmt.Errorf("smtp not configured: host, port, username, password and from are required")
	}
	return &Mailer{cfg: cfg}, nil
}

var subjects = map[string]string{
	TemplateBookingCreated:   "New booking request",
	TemplateBookingConfirmed: "Your booking is confirmed",
	TemplateBookingRejected:  "Your booking was declined",
	TemplateBookingCancelled: "A booking was cancelled",
	TemplateReviewReceived:   "You received a new review",
}

// Notify renders the template fields into a plain-text body and sends it.
func (m *Mailer) Notify(ctx context.Context, template, recipient string, fields map[string]string) error {
	subject, ok := subjects[template]
	if !ok {
		subject = "Localbook notification"
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var body strings.Builder
	body.WriteString(subject + "\r\n\r\n")
	for _, k := range keys {
		fmt.Fprintf(&body, "%s: %s\r\n", k, fields[k])
	}

	return m.send(recipient, subject, body.String())
}

func (m *Mailer) send(to, subject, body string) error {
	addr := m.cfg.Host + ":" + m.cfg.Port

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", m.cfg.From, to, subject)
	msg += "MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n"
	msg += "\r\n" + body + "\r\n"

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer c.Close()

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}
	return c.Quit()
}
