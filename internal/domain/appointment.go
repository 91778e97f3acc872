package domain

import "time"

type AppointmentStatus string

const (
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case AppointmentConfirmed, AppointmentCancelled:
		return AppointmentStatus(s), true
	default:
		return "", false
	}
}

type Appointment struct {
	ID        string            `json:"id"`
	UserID    int64             `json:"user_id"`
	Status    AppointmentStatus `json:"status"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// AdminAppointment is the admin list row: an appointment joined with its owner.
type AdminAppointment struct {
	Appointment
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

type BookReq struct {
	StartTime time.Time `json:"start_time"`
}
