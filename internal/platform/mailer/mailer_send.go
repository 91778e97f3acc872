package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSend struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	Enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSend {
	m := &MailerSend{
		Enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}
	if m.Enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}
	return m
}

func (m *MailerSend) Send(toEmail, toName, subject, text, html string) (string, error) {
	if !m.Enabled {
		return "", errors.New("mailer disabled (missing MAILERSEND_API_KEY or SMTP_FROM)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)
	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return res.Header.Get("X-Message-Id"), nil
}

func (m *MailerSend) SendBookingConfirmation(toEmail, toName string, start, end time.Time, loc *time.Location) error {
	text, html := bookingConfirmationBody(toName, start, end, loc)
	_, err := m.Send(toEmail, toName, "Your appointment is confirmed", text, html)
	return err
}

func (m *MailerSend) SendWelcome(toEmail, toName string) error {
	text, html := welcomeBody(toName)
	_, err := m.Send(toEmail, toName, "Welcome to the barbershop", text, html)
	return err
}

func bookingConfirmationBody(name string, start, end time.Time, loc *time.Location) (string, string) {
	when := start.In(loc).Format("Monday, 2 January 2006 at 15:04")
	until := end.In(loc).Format("15:04")
	text := fmt.Sprintf("Hi %s,\n\nYour appointment is confirmed for %s until %s.\n\nSee you then!", name, when, until)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your appointment is confirmed for <b>%s</b> until %s.</p><p>See you then!</p>", name, when, until)
	return text, html
}

func welcomeBody(name string) (string, string) {
	text := fmt.Sprintf("Hi %s,\n\nYour account is ready. You can now book appointments online.", name)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your account is ready. You can now book appointments online.</p>", name)
	return text, html
}

var _ Service = (*MailerSend)(nil)
