// Package mailer отправляет письма со ссылками (подтверждение email, сброс пароля) через SMTP.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"go.uber.org/zap"

	serr "github.com/gabrieldeam/sysane/internal/shared/errors"
)

// Subject — тема всех писем.
const Subject = "Verifique seu email para acessar o Sysane"

const defaultTimeout = 15 * time.Second

//go:embed templates/verification_email.html
var templatesFS embed.FS

// Config — параметры SMTP.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// UseTLS — STARTTLS после подключения.
	UseTLS bool
	// Timeout на всю отправку, если у ctx нет своего дедлайна.
	Timeout time.Duration
}

// SMTPMailer — реализация отправки писем поверх net/smtp.
// Одно письмо — одно соединение, без пула и повторов.
type SMTPMailer struct {
	cfg  Config
	tmpl *template.Template
	log  *zap.SugaredLogger
}

func NewSMTPMailer(cfg Config, log *zap.SugaredLogger) (*SMTPMailer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/verification_email.html")
	if err != nil {
		return nil, fmt.Errorf("parse email template: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPMailer{cfg: cfg, tmpl: tmpl, log: log}, nil
}

// Send рендерит шаблон письма с именем получателя и ссылкой и отправляет его.
// Любая ошибка оборачивается в ErrNotification.
func (m *SMTPMailer) Send(ctx context.Context, toEmail, recipientName, actionURL string) error {
	body, err := m.render(recipientName, actionURL)
	if err != nil {
		return fmt.Errorf("%w: %v", serr.ErrNotification, err)
	}

	if err := m.deliver(ctx, toEmail, buildMessage(m.cfg.From, toEmail, body)); err != nil {
		m.log.Errorf("send email to %s failed: %v", toEmail, err)
		return fmt.Errorf("%w: %v", serr.ErrNotification, err)
	}

	m.log.Infof("email sent to %s", toEmail)
	return nil
}

func (m *SMTPMailer) render(name, url string) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		Name string
		URL  string
	}{Name: name, URL: url}

	if err := m.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render email: %w", err)
	}
	return buf.Bytes(), nil
}

func (m *SMTPMailer) deliver(ctx context.Context, to string, msg []byte) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if m.cfg.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	// Auth
	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	// Set sender & recipient
	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	// Write message
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close message: %w", err)
	}

	return client.Quit()
}

func buildMessage(from, to string, body []byte) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	buf.WriteString("\r\n")
	buf.Write(body)
	return buf.Bytes()
}
