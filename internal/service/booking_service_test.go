package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/barzda/barbershop-api/internal/domain"
	"github.com/barzda/barbershop-api/internal/scheduling"
)

// ---------- Mocks ----------

// mockApptRepo mimics the store's atomicity guarantee: overlap check and
// insert happen under one lock, the way the real repo runs them in one
// transaction backed by the unique index.
type mockApptRepo struct {
	mu    sync.Mutex
	appts map[string]*domain.Appointment
}

func newMockApptRepo() *mockApptRepo {
	return &mockApptRepo{appts: make(map[string]*domain.Appointment)}
}

func (m *mockApptRepo) CreateConfirmed(_ context.Context, userID int64, start, end time.Time) (*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.appts {
		if a.Status != domain.AppointmentConfirmed {
			continue
		}
		if a.StartTime.Before(end) && a.EndTime.After(start) {
			return nil, domain.ErrSlotTaken
		}
	}

	a := &domain.Appointment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    domain.AppointmentConfirmed,
		StartTime: start,
		EndTime:   end,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.appts[a.ID] = a
	return a, nil
}

func (m *mockApptRepo) ListConfirmedBetween(_ context.Context, from, to time.Time) ([]domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Appointment
	for _, a := range m.appts {
		if a.Status == domain.AppointmentConfirmed && !a.StartTime.Before(from) && a.StartTime.Before(to) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockApptRepo) ListUpcomingByUser(_ context.Context, userID int64, after time.Time) ([]domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Appointment
	for _, a := range m.appts {
		if a.UserID == userID && a.Status == domain.AppointmentConfirmed && !a.StartTime.Before(after) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockApptRepo) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.appts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *mockApptRepo) Cancel(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.appts[id]
	if !ok || a.Status == domain.AppointmentCancelled {
		return false, nil
	}
	a.Status = domain.AppointmentCancelled
	return true, nil
}

func (m *mockApptRepo) ListAllWithUsers(_ context.Context, limit, offset int) ([]domain.AdminAppointment, error) {
	return nil, nil
}

type mockUsersRepo struct {
	byID map[int64]*domain.User
}

func (m *mockUsersRepo) Create(context.Context, string, string, string, string) (*domain.User, error) {
	return nil, nil
}
func (m *mockUsersRepo) FindByEmail(context.Context, string) (*domain.User, error) { return nil, nil }
func (m *mockUsersRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	return m.byID[id], nil
}
func (m *mockUsersRepo) ListWithAppointmentCounts(context.Context, int, int) ([]domain.AdminUser, error) {
	return nil, nil
}

type mockPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (m *mockPublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subjects = append(m.subjects, subject)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

type mockMailer struct {
	mu            sync.Mutex
	confirmations int
}

func (m *mockMailer) Send(string, string, string, string, string) (string, error) { return "", nil }
func (m *mockMailer) SendBookingConfirmation(string, string, time.Time, time.Time, *time.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations++
	return nil
}
func (m *mockMailer) SendWelcome(string, string) error { return nil }

// ---------- Fixtures ----------

func newTestService(t *testing.T) (BookingService, *mockApptRepo) {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Vilnius")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	repo := newMockApptRepo()
	users := &mockUsersRepo{byID: map[int64]*domain.User{
		1: {ID: 1, Email: "ona@example.com", Name: "Ona"},
		2: {ID: 2, Email: "jonas@example.com", Name: "Jonas"},
	}}
	svc := NewBookingService(scheduling.NewCalendar(loc), repo, users, &mockPublisher{}, &mockMailer{})
	return svc, repo
}

// futureMonday returns a Monday far enough in the future, at the given
// local Vilnius time.
func futureMonday(t *testing.T, hour, min int) time.Time {
	t.Helper()
	loc, _ := time.LoadLocation("Europe/Vilnius")
	d := time.Now().In(loc).AddDate(1, 0, 0)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, loc)
}

// ---------- Tests ----------

func TestBook_Success(t *testing.T) {
	svc, _ := newTestService(t)

	appt, err := svc.Book(context.Background(), 1, futureMonday(t, 12, 45))
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if appt.Status != domain.AppointmentConfirmed {
		t.Errorf("expected confirmed, got %s", appt.Status)
	}
	if appt.EndTime.Sub(appt.StartTime) != scheduling.ServiceDuration {
		t.Errorf("expected 45m duration, got %s", appt.EndTime.Sub(appt.StartTime))
	}
}

func TestBook_ClosedDay(t *testing.T) {
	svc, _ := newTestService(t)

	tuesday := futureMonday(t, 13, 0).AddDate(0, 0, 1)
	_, err := svc.Book(context.Background(), 1, tuesday)
	if !domain.IsPolicyError(err) {
		t.Fatalf("expected policy rejection, got %v", err)
	}
}

func TestBook_WindowBoundaries(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Monday closes at 16: a 15:15 start fits exactly, 15:30 does not.
	if _, err := svc.Book(ctx, 1, futureMonday(t, 15, 15)); err != nil {
		t.Errorf("close-45m should be accepted, got %v", err)
	}
	if _, err := svc.Book(ctx, 1, futureMonday(t, 15, 30)); err != domain.ErrAfterClosing {
		t.Errorf("expected after-closing rejection, got %v", err)
	}
	if _, err := svc.Book(ctx, 1, futureMonday(t, 11, 15)); err != domain.ErrBeforeOpening {
		t.Errorf("expected before-opening rejection, got %v", err)
	}
}

func TestBook_PastStart(t *testing.T) {
	svc, _ := newTestService(t)

	past := time.Now().Add(-48 * time.Hour)
	if _, err := svc.Book(context.Background(), 1, past); err != domain.ErrPastStart {
		t.Fatalf("expected past-start rejection, got %v", err)
	}
}

func TestBook_SlotTaken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	start := futureMonday(t, 13, 30)

	if _, err := svc.Book(ctx, 1, start); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := svc.Book(ctx, 2, start); err != domain.ErrSlotTaken {
		t.Fatalf("expected slot-taken rejection, got %v", err)
	}
}

func TestBook_RaceResolvesToOneWinner(t *testing.T) {
	svc, repo := newTestService(t)
	start := futureMonday(t, 14, 15)

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Book(context.Background(), int64(i%2+1), start)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch err {
		case nil:
			winners++
		case domain.ErrSlotTaken:
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}

	// And the store holds no overlapping confirmed intervals.
	all, _ := repo.ListConfirmedBetween(context.Background(), start.Add(-24*time.Hour), start.Add(24*time.Hour))
	if len(all) != 1 {
		t.Fatalf("expected one confirmed appointment, got %d", len(all))
	}
}

func TestAvailableSlots_FiltersBooked(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	day := futureMonday(t, 0, 0)
	slots, err := svc.AvailableSlots(ctx, day)
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	if len(slots) != 5 {
		t.Fatalf("expected 5 free slots on an empty Monday, got %d", len(slots))
	}

	booked := slots[2]
	if _, err := svc.Book(ctx, 1, booked); err != nil {
		t.Fatalf("book: %v", err)
	}

	slots, err = svc.AvailableSlots(ctx, day)
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	if len(slots) != 4 {
		t.Fatalf("expected 4 free slots after booking, got %d", len(slots))
	}
	for _, s := range slots {
		if s.Equal(booked) {
			t.Fatal("booked slot still listed as available")
		}
	}
}

func TestAvailableSlots_CancelledSlotReappears(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	day := futureMonday(t, 0, 0)
	slots, _ := svc.AvailableSlots(ctx, day)
	appt, err := svc.Book(ctx, 1, slots[0])
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	after, _ := svc.AvailableSlots(ctx, day)
	if len(after) != len(slots)-1 {
		t.Fatalf("expected %d slots, got %d", len(slots)-1, len(after))
	}

	if err := svc.Cancel(ctx, appt.ID, 1); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	restored, _ := svc.AvailableSlots(ctx, day)
	if len(restored) != len(slots) {
		t.Fatalf("expected slot to reappear: %d vs %d", len(restored), len(slots))
	}
}

func TestAvailableSlots_ClosedDayEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	tuesday := futureMonday(t, 0, 0).AddDate(0, 0, 1)
	slots, err := svc.AvailableSlots(context.Background(), tuesday)
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots on a closed day, got %d", len(slots))
	}
}

func TestCancel_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Cancel(context.Background(), uuid.NewString(), 1)
	if err != domain.ErrNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestCancel_Forbidden(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	appt, err := svc.Book(ctx, 1, futureMonday(t, 12, 0))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if err := svc.Cancel(ctx, appt.ID, 2); err != domain.ErrForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	stored, _ := repo.GetByID(ctx, appt.ID)
	if stored.Status != domain.AppointmentConfirmed {
		t.Fatalf("status changed by forbidden cancel: %s", stored.Status)
	}
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	appt, err := svc.Book(ctx, 1, futureMonday(t, 12, 0))
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if err := svc.Cancel(ctx, appt.ID, 1); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := svc.Cancel(ctx, appt.ID, 1); err != domain.ErrAlreadyCancelled {
		t.Fatalf("expected already-cancelled, got %v", err)
	}
}
