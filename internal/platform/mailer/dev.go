package mailer

import (
	"time"

	"github.com/barzda/barbershop-api/pkg/logger"
)

// DevMailer logs instead of sending. Default when EMAIL_DEV_MODE=true.
type DevMailer struct{}

func NewDevMailer() *DevMailer { return &DevMailer{} }

func (d *DevMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	logger.Info("[DEV MAIL]", "to", toEmail, "name", toName, "subject", subject, "body", text)
	return "dev", nil
}

func (d *DevMailer) SendBookingConfirmation(toEmail, toName string, start, end time.Time, loc *time.Location) error {
	logger.Info("[DEV MAIL] booking confirmation",
		"to", toEmail,
		"name", toName,
		"start", start.In(loc).Format(time.RFC3339),
		"end", end.In(loc).Format(time.RFC3339),
	)
	return nil
}

func (d *DevMailer) SendWelcome(toEmail, toName string) error {
	logger.Info("[DEV MAIL] welcome", "to", toEmail, "name", toName)
	return nil
}

var _ Service = (*DevMailer)(nil)
