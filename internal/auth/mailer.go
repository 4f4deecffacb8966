package auth

import (
	"fmt"
	"log/slog"
	"net/smtp"
)

// Mailer delivers password-reset tokens. The SMTP implementation uses
// net/smtp directly; the dataset is tiny plain-text mail and nothing more.
type Mailer interface {
	SendReset(to, token string) error
}

type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (m SMTPMailer) SendReset(to, token string) error {
	body := fmt.Sprintf("Subject: Password Reset Request\r\nFrom: %s\r\nTo: %s\r\n\r\n"+
		"You have requested to reset your password.\r\n"+
		"Use the following token to reset it: %s\r\n\r\n"+
		"The token expires in 1 hour. If you did not request this reset, ignore this mail.\r\n",
		m.From, to, token)

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	if err := smtp.SendMail(addr, auth, m.From, []string{to}, []byte(body)); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// LogMailer logs the token instead of mailing it. Offline/dev default.
type LogMailer struct{ Log *slog.Logger }

func (m LogMailer) SendReset(to, token string) error {
	m.Log.Info("password reset token issued", "email", to, "token", token)
	return nil
}
