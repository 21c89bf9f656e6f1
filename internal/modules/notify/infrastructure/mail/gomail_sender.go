package mail

import (
	"errors"

	"midorisky/internal/config"

	"gopkg.in/gomail.v2"
)

// GomailSender sends one message to many recipients over SMTP. It is the
// Mailer capability behind the delivery fan-out.
type GomailSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewGomailSender(conf config.MailConfig) (*GomailSender, error) {
	if conf.Host == "" || conf.From == "" {
		return nil, errors.New("mail host or from address is empty")
	}
	port := conf.Port
	if port == 0 {
		port = 587
	}
	return &GomailSender{
		dialer: gomail.NewDialer(conf.Host, port, conf.Username, conf.Password),
		from:   conf.From,
	}, nil
}

func (s *GomailSender) Send(to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return s.dialer.DialAndSend(m)
}
