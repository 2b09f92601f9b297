// Package mailer sends transactional email over SMTP. Sends are fire
// and forget: failures are logged, never propagated to the operation
// that triggered them.
package mailer

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"sync"
)

// Sender is the notification collaborator.
type Sender interface {
	Send(to, subject, htmlBody string)
}

// Config holds SMTP configuration
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// SMTPSender delivers mail through a plain-auth SMTP relay
type SMTPSender struct {
	config Config
	server string
	auth   smtp.Auth
}

var _ Sender = (*SMTPSender)(nil)

func NewSMTPSender(config Config) *SMTPSender {
	auth := smtp.PlainAuth("", config.Username, config.Password, config.Host)

	return &SMTPSender{
		config: config,
		server: config.Host + ":" + config.Port,
		auth:   auth,
	}
}

// IsConfigured returns true if SMTP settings are present
func (s *SMTPSender) IsConfigured() bool {
	return s.config.Host != "" && s.config.Port != "" && s.config.From != ""
}

func (s *SMTPSender) Send(to, subject, htmlBody string) {
	if !s.IsConfigured() {
		slog.Warn("mail not sent, SMTP not configured", "to", to, "subject", subject)
		return
	}

	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	var msg strings.Builder
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	if err := smtp.SendMail(s.server, s.auth, s.config.From, []string{to}, []byte(msg.String())); err != nil {
		slog.Warn("failed to send mail", "to", to, "subject", subject, "error", err)
		return
	}
	slog.Info("mail sent", "to", to, "subject", subject)
}

// MemorySender records mail in memory; used by tests.
type MemorySender struct {
	mu   sync.Mutex
	Sent []RecordedMail
}

type RecordedMail struct {
	To      string
	Subject string
	Body    string
}

var _ Sender = (*MemorySender)(nil)

func NewMemorySender() *MemorySender {
	return &MemorySender{}
}

func (s *MemorySender) Send(to, subject, htmlBody string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, RecordedMail{To: to, Subject: subject, Body: htmlBody})
}

func (s *MemorySender) Last() *RecordedMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Sent) == 0 {
		return nil
	}
	last := s.Sent[len(s.Sent)-1]
	return &last
}
