package utils

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"net/url"
	"path/filepath"

	"github.com/Kariqs/freezy-bites-api/services"
)

type MailConfig struct {
	From        string
	Password    string
	SMTPHost    string
	SMTPAddr    string
	FrontendURL string
}

// Mailer sends HTML mail over SMTP. It implements services.Notifier for receipts and
// services.AccountMailer for activation and password reset links.
type Mailer struct {
	cfg          MailConfig
	templatesDir string
	send         func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg MailConfig, templatesDir string) *Mailer {
	return &Mailer{cfg: cfg, templatesDir: templatesDir, send: smtp.SendMail}
}

const storeName = "Freezy Bites"

type receiptData struct {
	services.Receipt
	StoreName string
}

type EmailData struct {
	Name      string
	Message   string
	ActionURL string
	Action    string
	StoreName string
}

func (m *Mailer) OrderPlaced(ctx context.Context, receipt services.Receipt) error {
	subject := fmt.Sprintf("Your %s order %s", storeName, receipt.OrderRef)
	return m.SendEmail(ctx, receipt.Email, subject, "order_receipt.html", receiptData{Receipt: receipt, StoreName: storeName})
}

func (m *Mailer) SendAccountMail(ctx context.Context, mail services.AccountMail) error {
	data := EmailData{Name: mail.Name, StoreName: storeName}
	var subject string
	switch mail.Kind {
	case services.AccountActivation:
		subject = storeName + " Account Verification"
		data.Message = "Thank you for signing up! Click the button below to verify your account."
		data.Action = "Verify account"
		data.ActionURL = m.cfg.FrontendURL + "/auth/verify-email?token=" + url.QueryEscape(mail.Token)
	case services.AccountPasswordReset:
		subject = storeName + " Account Password Reset"
		data.Message = "You requested a password reset. Click the button below to reset your password."
		data.Action = "Reset password"
		data.ActionURL = m.cfg.FrontendURL + "/auth/reset-password?token=" + url.QueryEscape(mail.Token)
	default:
		return fmt.Errorf("unknown account mail kind %q", mail.Kind)
	}
	return m.SendEmail(ctx, mail.Email, subject, "account_email.html", data)
}

func (m *Mailer) SendEmail(ctx context.Context, emailTo, emailSubject, templateName string, data any) error {
	tmpl, err := template.ParseFiles(filepath.Join(m.templatesDir, templateName))
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		m.cfg.From,
		emailTo,
		emailSubject,
		body.String(),
	)

	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.SMTPHost)

	// net/smtp has no context support; run the send so the caller's deadline still applies.
	done := make(chan error, 1)
	go func() {
		done <- m.send(m.cfg.SMTPAddr, auth, m.cfg.From, []string{emailTo}, []byte(message))
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send email: %w", ctx.Err())
	}
}
