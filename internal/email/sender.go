// Package email delivers transactional notifications through Postmark,
// SMTP or a log-only sender, whichever is configured first.
package email

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/flowvera/flowvera/internal/config"
	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/mrz1836/postmark"
)

// ErrNotSent is returned by the log-only sender.
var ErrNotSent = errors.New("email delivery not configured")

// Message is a rendered email.
type Message struct {
	From     string
	To       string
	Subject  string
	Tag      string
	HTMLBody string
	TextBody string
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// NewSender picks a provider from cfg: Postmark, then SMTP, then logging.
func NewSender(cfg config.EmailConfig, log *logger.Logger) Sender {
	switch {
	case cfg.PostmarkServerToken != "":
		return NewPostmarkSender(cfg.PostmarkServerToken, cfg.PostmarkAccountToken)
	case cfg.SMTPHost != "":
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	default:
		return NewLogSender(log)
	}
}

// PostmarkSender sends through the Postmark API.
type PostmarkSender struct {
	client *postmark.Client
}

func NewPostmarkSender(serverToken, accountToken string) *PostmarkSender {
	return &PostmarkSender{client: postmark.NewClient(serverToken, accountToken)}
}

func (p *PostmarkSender) Name() string { return "postmark" }

func (p *PostmarkSender) Send(ctx context.Context, msg Message) error {
	resp, err := p.client.SendEmail(ctx, postmark.Email{
		From:       msg.From,
		To:         msg.To,
		Subject:    msg.Subject,
		Tag:        msg.Tag,
		HTMLBody:   msg.HTMLBody,
		TextBody:   msg.TextBody,
		TrackOpens: true,
	})
	if err != nil {
		return fmt.Errorf("postmark send: %w", err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message)
	}
	return nil
}

// SMTPSender sends through a plain SMTP relay with PLAIN auth.
type SMTPSender struct {
	addr string
	host string
	auth smtp.Auth
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(host string, port int, user, password string) *SMTPSender {
	s := &SMTPSender{
		addr: fmt.Sprintf("%s:%d", host, port),
		host: host,
		send: smtp.SendMail,
	}
	if user != "" {
		s.auth = smtp.PlainAuth("", user, password, host)
	}
	return s
}

func (s *SMTPSender) Name() string { return "smtp" }

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.send(s.addr, s.auth, envelopeAddress(msg.From), []string{msg.To}, buildMIME(msg))
}

// envelopeAddress strips a display name: "Name <a@b>" -> "a@b".
func envelopeAddress(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		return strings.TrimSuffix(from[i+1:], ">")
	}
	return from
}

const mimeBoundary = "flowvera-alt-boundary"

func buildMIME(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")

	if msg.HTMLBody == "" {
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(msg.TextBody)
		return []byte(b.String())
	}

	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mimeBoundary)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s\r\n", mimeBoundary, msg.TextBody)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s\r\n", mimeBoundary, msg.HTMLBody)
	fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)
	return []byte(b.String())
}

// LogSender only logs what would have been sent.
type LogSender struct {
	logger *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{logger: log}
}

func (l *LogSender) Name() string { return "log" }

func (l *LogSender) Send(ctx context.Context, msg Message) error {
	l.logger.WithFields(map[string]interface{}{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("Email not sent, no provider configured")
	return ErrNotSent
}
