package mailer

import (
	"kanzlei-ai-be/internal/config"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail over SMTP. All agent mail is
// best-effort: callers log failures and move on.
type Mailer struct {
	cfg config.SMTPConfig
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled reports whether SMTP is configured. Development setups usually
// run without it.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != "" && m.cfg.Email != ""
}

func (m *Mailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(m.cfg.Email, m.cfg.SenderName))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Email, m.cfg.Password)
	return dialer.DialAndSend(msg)
}
