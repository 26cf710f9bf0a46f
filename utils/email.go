package utils

import (
	"github.com/juju/errors"
	"gopkg.in/gomail.v2"

	"github.com/meinhoongagan/senior-care-app/config"
)

// Mailer delivers HTML mail over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   from,
	}
}

// SendEmail sends a single HTML message.
func (m *Mailer) SendEmail(to, subject, body string) error {
	if m.dialer.Host == "" {
		return errors.NotSupportedf("smtp host")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	return errors.Annotatef(m.dialer.DialAndSend(msg), "sending %q to %s", subject, to)
}
