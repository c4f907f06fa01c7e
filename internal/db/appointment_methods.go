package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the SQLSTATE for a unique constraint failure.
const pgUniqueViolation = "23505"

// slotIndexName is the partial unique index guarding one booking per salon
// and start time.
const slotIndexName = "idx_appointments_slot"

const (
	// The slot check and the insert are separate statements; the unique
	// index on (salon_id, starts_at) WHERE status <> 'cancelled' is the
	// real guard, the pre-check just gives a clean error.
	slotTakenQuery = `SELECT EXISTS(
						SELECT 1 FROM appointments
						WHERE salon_id = $1 AND starts_at = $2 AND status <> 'cancelled')`

	createAppointmentQuery = `INSERT INTO appointments (code, salon_id, service_id, customer_name, customer_phone, starts_at, status)
						VALUES ($1, $2, $3, $4, $5, $6, $7)
						RETURNING id, created_at, updated_at`

	getAppointmentFields = `SELECT id, code, salon_id, service_id, customer_name, customer_phone, starts_at, status, created_at, updated_at FROM appointments`

	getAppointmentByCodeQuery = getAppointmentFields + ` WHERE code = $1`

	listAppointmentsBySalonQuery = getAppointmentFields + ` WHERE salon_id = $1 ORDER BY starts_at`

	updateAppointmentStatusQuery = `UPDATE appointments SET status = $1, updated_at = NOW()
						WHERE code = $2
						RETURNING id, code, salon_id, service_id, customer_name, customer_phone, starts_at, status, created_at, updated_at`
)

// CreateAppointment books an appointment. Returns ErrSlotTaken when the
// salon already has a non-cancelled booking at the same time.
func (s *PostgresStore) CreateAppointment(parentCtx context.Context, appt *Appointment) (*Appointment, error) {
	ctx, cancel := context.WithTimeout(parentCtx, time.Second*3)
	defer cancel()

	var taken bool
	if err := s.db.QueryRow(ctx, slotTakenQuery, appt.SalonID, appt.StartsAt).Scan(&taken); err != nil {
		return nil, fmt.Errorf("failed to check slot for salon %d: %w", appt.SalonID, err)
	}
	if taken {
		return nil, ErrSlotTaken
	}

	err := s.db.QueryRow(
		ctx,
		createAppointmentQuery,
		appt.Code,
		appt.SalonID,
		appt.ServiceID,
		appt.CustomerName,
		appt.CustomerPhone,
		appt.StartsAt,
		appt.Status,
	).Scan(&appt.Id, &appt.CreatedAt, &appt.UpdatedAt)

	if err != nil {
		// Two requests can pass the pre-check concurrently; the unique
		// index decides the race and the loser gets the same ErrSlotTaken.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == slotIndexName {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to create appointment for salon %d: %w", appt.SalonID, err)
	}

	return appt, nil
}

// GetAppointmentByCode retrieves an appointment by its public code.
func (s *PostgresStore) GetAppointmentByCode(parentCtx context.Context, code string) (*Appointment, error) {
	ctx, cancel := context.WithTimeout(parentCtx, time.Second*3)
	defer cancel()

	row := s.db.QueryRow(ctx, getAppointmentByCodeQuery, code)
	appt, err := scanAppointment(row)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("appointment %s not found: %w", code, err)
		}
		return nil, fmt.Errorf("failed to get appointment %s: %w", code, err)
	}

	return appt, nil
}

// ListAppointmentsBySalon returns a salon's appointments ordered by start time.
func (s *PostgresStore) ListAppointmentsBySalon(parentCtx context.Context, salonID int64) ([]*Appointment, error) {
	ctx, cancel := context.WithTimeout(parentCtx, time.Second*3)
	defer cancel()

	rows, err := s.db.Query(ctx, listAppointmentsBySalonQuery, salonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments for salon %d: %w", salonID, err)
	}
	defer rows.Close()

	appts := []*Appointment{}
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appts = append(appts, appt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointment rows: %w", err)
	}

	return appts, nil
}

// UpdateAppointmentStatus moves an appointment to a new status and returns
// the updated record.
func (s *PostgresStore) UpdateAppointmentStatus(parentCtx context.Context, code string, status string) (*Appointment, error) {
	ctx, cancel := context.WithTimeout(parentCtx, time.Second*3)
	defer cancel()

	row := s.db.QueryRow(ctx, updateAppointmentStatusQuery, status, code)
	appt, err := scanAppointment(row)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("appointment %s not found for status update: %w", code, err)
		}
		return nil, fmt.Errorf("failed to update status of appointment %s: %w", code, err)
	}

	return appt, nil
}

// scanAppointment scans one row into an Appointment. The column order must
// match getAppointmentFields.
func scanAppointment(scanner pgxScanner) (*Appointment, error) {
	appt := new(Appointment)
	err := scanner.Scan(
		&appt.Id,
		&appt.Code,
		&appt.SalonID,
		&appt.ServiceID,
		&appt.CustomerName,
		&appt.CustomerPhone,
		&appt.StartsAt,
		&appt.Status,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return appt, nil
}
