package service

import (
	"crypto/tls"
	"fmt"
	"log"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"album-server/internal/config"
)

// Mail delivery for the account-action token workflows. Fire-and-forget
// from the caller's point of view: when SMTP is not configured every send
// is a silent no-op.

func SendConfirmEmail(toEmail, username, token string) error {
	cfg := config.Get()
	confirmURL := fmt.Sprintf("%s/auth/confirm/%s", strings.TrimRight(cfg.Server.BaseURL, "/"), token)
	subject := "[Album] Confirm your account"
	body := fmt.Sprintf(`
		<h1>Welcome, %s</h1>
		<p>Click the link to confirm your account: <a href="%s">%s</a></p>
	`, username, confirmURL, confirmURL)
	return sendMail(toEmail, subject, body)
}

func SendResetPasswordEmail(toEmail, username, token string) error {
	cfg := config.Get()
	resetURL := fmt.Sprintf("%s/auth/reset-password/%s", strings.TrimRight(cfg.Server.BaseURL, "/"), token)
	subject := "[Album] Password reset request"
	body := fmt.Sprintf(`
		<h1>Password reset</h1>
		<p>Hello %s, click the link to reset your password: <a href="%s">%s</a></p>
		<p>If you did not request this, ignore this email.</p>
	`, username, resetURL, resetURL)
	return sendMail(toEmail, subject, body)
}

func SendChangeEmailEmail(toEmail, username, token string) error {
	cfg := config.Get()
	changeURL := fmt.Sprintf("%s/user/change-email/%s", strings.TrimRight(cfg.Server.BaseURL, "/"), token)
	subject := "[Album] Confirm your new email address"
	body := fmt.Sprintf(`
		<h1>Email change</h1>
		<p>Hello %s, click the link to confirm your new address: <a href="%s">%s</a></p>
	`, username, changeURL, changeURL)
	return sendMail(toEmail, subject, body)
}

func sendMail(toEmail, subject, body string) error {
	cfg := config.Get()
	if cfg.SMTP.Host == "" {
		return nil
	}

	auth := smtp.PlainAuth("", cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Host)

	fromHeader, fromAddr, err := parseAddressForHeader(cfg.SMTP.From)
	if err != nil {
		return err
	}
	toHeader, toAddr, err := parseAddressForHeader(toEmail)
	if err != nil {
		return err
	}

	msg := buildEmailMessage(fromHeader, toHeader, subject, body)
	addr := fmt.Sprintf("%s:%d", cfg.SMTP.Host, cfg.SMTP.Port)

	// Implicit TLS (typically port 465) needs a tls.Dial; STARTTLS is
	// handled by smtp.SendMail.
	if cfg.SMTP.SSL {
		return sendMailWithSSL(addr, auth, fromAddr, []string{toAddr}, msg)
	}
	return smtp.SendMail(addr, auth, fromAddr, []string{toAddr}, msg)
}

func parseAddressForHeader(raw string) (header string, addr string, err error) {
	parsed, err := mail.ParseAddress(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid mail address %q: %w", raw, err)
	}
	return parsed.String(), parsed.Address, nil
}

func buildEmailMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

func sendMailWithSSL(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	cfg := config.Get()

	tlsConfig := &tls.Config{
		ServerName: cfg.SMTP.Host,
	}
	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		log.Printf("smtp: tls connection failed: %v", err)
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, cfg.SMTP.Host)
	if err != nil {
		log.Printf("smtp: client setup failed: %v", err)
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err = client.Auth(auth); err != nil {
				log.Printf("smtp: auth failed: %v", err)
				return err
			}
		}
	}

	if err = client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
