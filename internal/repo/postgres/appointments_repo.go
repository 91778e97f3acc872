package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/barzda/barbershop-api/internal/domain"
)

type AppointmentsRepo interface {
	// CreateConfirmed checks for overlapping confirmed appointments and
	// inserts the new row in one transaction. Returns domain.ErrSlotTaken
	// when another confirmed appointment overlaps [start, end).
	CreateConfirmed(ctx context.Context, userID int64, start, end time.Time) (*domain.Appointment, error)
	ListConfirmedBetween(ctx context.Context, from, to time.Time) ([]domain.Appointment, error)
	ListUpcomingByUser(ctx context.Context, userID int64, after time.Time) ([]domain.Appointment, error)
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	Cancel(ctx context.Context, id string) (bool, error)
	ListAllWithUsers(ctx context.Context, limit, offset int) ([]domain.AdminAppointment, error)
}

type AppointmentsRepoImpl struct{ pool *pgxpool.Pool }

func NewAppointmentsRepo(pool *pgxpool.Pool) *AppointmentsRepoImpl {
	return &AppointmentsRepoImpl{pool: pool}
}

const appointmentCols = `id, user_id, status, start_time, end_time, created_at, updated_at`

func (r *AppointmentsRepoImpl) CreateConfirmed(ctx context.Context, userID int64, start, end time.Time) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Half-open interval overlap: [start, end) collides with [s, e) iff
	// s < end AND e > start.
	const overlapQ = `SELECT EXISTS(
		SELECT 1 FROM appointments
		WHERE status = 'confirmed'
		  AND start_time < $2
		  AND end_time > $1)`

	var exists bool
	if err := tx.QueryRow(ctx, overlapQ, start, end).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrSlotTaken
	}

	const insertQ = `INSERT INTO appointments (id, user_id, status, start_time, end_time)
		VALUES ($1, $2, 'confirmed', $3, $4)
		RETURNING ` + appointmentCols

	var a domain.Appointment
	err = tx.QueryRow(ctx, insertQ, uuid.NewString(), userID, start.UTC(), end.UTC()).Scan(
		&a.ID, &a.UserID, &a.Status, &a.StartTime, &a.EndTime, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		// The partial unique index on confirmed start_time is the backstop
		// for two transactions racing past the overlap check.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrSlotTaken
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentsRepoImpl) ListConfirmedBetween(ctx context.Context, from, to time.Time) ([]domain.Appointment, error) {
	const q = `SELECT ` + appointmentCols + ` FROM appointments
		WHERE status = 'confirmed' AND start_time >= $1 AND start_time < $2
		ORDER BY start_time`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func (r *AppointmentsRepoImpl) ListUpcomingByUser(ctx context.Context, userID int64, after time.Time) ([]domain.Appointment, error) {
	const q = `SELECT ` + appointmentCols + ` FROM appointments
		WHERE user_id = $1 AND status = 'confirmed' AND start_time >= $2
		ORDER BY start_time`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, userID, after)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func (r *AppointmentsRepoImpl) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	const q = `SELECT ` + appointmentCols + ` FROM appointments WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a domain.Appointment
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&a.ID, &a.UserID, &a.Status, &a.StartTime, &a.EndTime, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentsRepoImpl) Cancel(ctx context.Context, id string) (bool, error) {
	const q = `UPDATE appointments SET status = 'cancelled', updated_at = now()
		WHERE id = $1 AND status <> 'cancelled'`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *AppointmentsRepoImpl) ListAllWithUsers(ctx context.Context, limit, offset int) ([]domain.AdminAppointment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT a.id, a.user_id, a.status, a.start_time, a.end_time,
			a.created_at, a.updated_at, u.name, u.email
		FROM appointments a
		JOIN users u ON u.id = a.user_id
		ORDER BY a.start_time DESC
		LIMIT $1 OFFSET $2`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.AdminAppointment, 0, limit)
	for rows.Next() {
		var a domain.AdminAppointment
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Status, &a.StartTime, &a.EndTime,
			&a.CreatedAt, &a.UpdatedAt, &a.UserName, &a.UserEmail,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAppointments(rows pgx.Rows) ([]domain.Appointment, error) {
	var out []domain.Appointment
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Status, &a.StartTime, &a.EndTime, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

var _ AppointmentsRepo = (*AppointmentsRepoImpl)(nil)
