package events

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"vehicle-rental-backend/internal/domain"
)

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailSink mails each delivered notification to its recipient.
type EmailSink struct {
	dialer mailDialer
	from   string
}

func NewEmailSink(host string, port int, username, password, from string) *EmailSink {
	return &EmailSink{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *EmailSink) Name() string { return "smtp" }

// Deliver mails every notification in the batch over one SMTP connection.
func (s *EmailSink) Deliver(ctx context.Context, msgs []Message) error {
	var mails []*gomail.Message
	for _, msg := range msgs {
		if msg.Notification == nil || msg.Recipient == nil || msg.Recipient.Email == "" {
			continue
		}
		m := gomail.NewMessage()
		m.SetHeader("From", s.from)
		m.SetHeader("To", msg.Recipient.Email)
		m.SetHeader("Subject", msg.Notification.Title)
		m.SetBody("text/plain", emailBody(msg.Recipient, msg.Notification))
		mails = append(mails, m)
	}
	if len(mails) == 0 {
		return nil
	}

	if err := s.dialer.DialAndSend(mails...); err != nil {
		return fmt.Errorf("failed to send notification email via gomail: %w", err)
	}
	return nil
}

func emailBody(u *domain.User, n *domain.Notification) string {
	return fmt.Sprintf("Hello %s,\n\n%s\n\nBest regards,\nThe Vehicle Rental Team", u.Name, n.Message)
}
