package mailer

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/vibast-solutions/ms-go-donations/config"
	"gopkg.in/gomail.v2"
)

var ErrNotConfigured = errors.New("mail delivery is not configured")

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Message struct {
	To          string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer delivers messages through a single SMTP relay.
type SMTPMailer struct {
	cfg    config.MailConfig
	dialer dialer
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	m := &SMTPMailer{cfg: cfg}
	if strings.TrimSpace(cfg.SMTPHost) != "" {
		m.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}
	return m
}

func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	if m.dialer == nil || strings.TrimSpace(m.cfg.From) == "" {
		return ErrNotConfigured
	}
	if msg == nil || strings.TrimSpace(msg.To) == "" {
		return errors.New("mail recipient is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return m.dialer.DialAndSend(m.build(msg))
}

func (m *SMTPMailer) build(msg *Message) *gomail.Message {
	out := gomail.NewMessage()
	out.SetHeader("From", out.FormatAddress(m.cfg.From, m.cfg.FromName))
	out.SetHeader("To", msg.To)
	out.SetHeader("Subject", msg.Subject)
	out.SetBody("text/html", msg.HTMLBody)

	for _, attachment := range msg.Attachments {
		data := attachment.Data
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		}
		if attachment.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {attachment.ContentType},
			}))
		}
		out.Attach(attachment.Filename, settings...)
	}

	return out
}
