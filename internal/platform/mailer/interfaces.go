package mailer

import "time"

type Service interface {
	Send(toEmail, toName, subject, text, html string) (string, error)
	SendBookingConfirmation(toEmail, toName string, start, end time.Time, loc *time.Location) error
	SendWelcome(toEmail, toName string) error
}
