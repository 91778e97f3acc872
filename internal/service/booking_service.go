package service

import (
	"context"
	"time"

	"github.com/barzda/barbershop-api/internal/domain"
	"github.com/barzda/barbershop-api/internal/platform/mailer"
	"github.com/barzda/barbershop-api/internal/repo/postgres"
	"github.com/barzda/barbershop-api/internal/scheduling"
	"github.com/barzda/barbershop-api/pkg/events"
	"github.com/barzda/barbershop-api/pkg/logger"
)

type BookingService interface {
	AvailableSlots(ctx context.Context, date time.Time) ([]time.Time, error)
	Book(ctx context.Context, userID int64, start time.Time) (*domain.Appointment, error)
	Cancel(ctx context.Context, id string, requesterID int64) error
	ListUpcoming(ctx context.Context, userID int64) ([]domain.Appointment, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.AdminAppointment, error)
}

type bookingService struct {
	calendar *scheduling.Calendar
	appts    postgres.AppointmentsRepo
	users    postgres.UsersRepo
	eventBus events.Publisher
	mailer   mailer.Service
}

func NewBookingService(
	calendar *scheduling.Calendar,
	appts postgres.AppointmentsRepo,
	users postgres.UsersRepo,
	eventBus events.Publisher,
	mail mailer.Service,
) BookingService {
	return &bookingService{
		calendar: calendar,
		appts:    appts,
		users:    users,
		eventBus: eventBus,
		mailer:   mail,
	}
}

func (s *bookingService) AvailableSlots(ctx context.Context, date time.Time) ([]time.Time, error) {
	slots := s.calendar.Slots(date)
	if len(slots) == 0 {
		return []time.Time{}, nil
	}

	from, to := s.calendar.DayBounds(date)
	booked, err := s.appts.ListConfirmedBetween(ctx, from, to)
	if err != nil {
		return nil, domain.Wrap("list confirmed appointments", err)
	}

	taken := make(map[int64]struct{}, len(booked))
	for _, a := range booked {
		taken[a.StartTime.Unix()] = struct{}{}
	}

	free := make([]time.Time, 0, len(slots))
	for _, slot := range slots {
		if _, ok := taken[slot.Unix()]; !ok {
			free = append(free, slot)
		}
	}
	return free, nil
}

func (s *bookingService) Book(ctx context.Context, userID int64, start time.Time) (*domain.Appointment, error) {
	start = start.UTC().Truncate(time.Minute)

	if start.Before(time.Now()) {
		return nil, domain.ErrPastStart
	}
	if err := s.calendar.ValidateStart(start); err != nil {
		return nil, err
	}

	end := start.Add(scheduling.ServiceDuration)
	appt, err := s.appts.CreateConfirmed(ctx, userID, start, end)
	if err != nil {
		if err == domain.ErrSlotTaken {
			return nil, err
		}
		return nil, domain.Wrap("create appointment", err)
	}

	event := events.AppointmentBookedEvent{
		AppointmentID: appt.ID,
		UserID:        appt.UserID,
		StartTime:     appt.StartTime,
		EndTime:       appt.EndTime,
		CreatedAt:     appt.CreatedAt,
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil || user == nil {
		logger.WarnContext(ctx, "Could not load user for booking notifications", "error", err, "user_id", userID)
	} else {
		event.UserEmail = user.Email
		if err := s.mailer.SendBookingConfirmation(user.Email, user.Name, appt.StartTime, appt.EndTime, s.calendar.Location()); err != nil {
			logger.ErrorContext(ctx, "Failed to send booking confirmation", "error", err, "appointment_id", appt.ID)
		}
	}

	if err := s.eventBus.Publish(ctx, events.AppointmentBooked, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish appointment booked event", "error", err, "appointment_id", appt.ID)
	}

	return appt, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string, requesterID int64) error {
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return domain.Wrap("get appointment", err)
	}
	if appt == nil {
		return domain.ErrNotFound
	}
	if appt.UserID != requesterID {
		return domain.ErrForbidden
	}

	ok, err := s.appts.Cancel(ctx, id)
	if err != nil {
		return domain.Wrap("cancel appointment", err)
	}
	if !ok {
		return domain.ErrAlreadyCancelled
	}

	event := events.AppointmentCancelledEvent{
		AppointmentID: appt.ID,
		UserID:        appt.UserID,
		StartTime:     appt.StartTime,
		CancelledAt:   time.Now(),
	}
	if err := s.eventBus.Publish(ctx, events.AppointmentCancelled, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish appointment cancelled event", "error", err, "appointment_id", appt.ID)
	}

	return nil
}

func (s *bookingService) ListUpcoming(ctx context.Context, userID int64) ([]domain.Appointment, error) {
	appts, err := s.appts.ListUpcomingByUser(ctx, userID, time.Now())
	if err != nil {
		return nil, domain.Wrap("list upcoming appointments", err)
	}
	return appts, nil
}

func (s *bookingService) ListAll(ctx context.Context, limit, offset int) ([]domain.AdminAppointment, error) {
	return s.appts.ListAllWithUsers(ctx, limit, offset)
}
