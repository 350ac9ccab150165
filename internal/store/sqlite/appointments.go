package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/salonkit/calendar-sync/internal/domain"
	"github.com/salonkit/calendar-sync/pkg/apperrors"
)

// AppointmentRepo is the SQLite-backed appointment repository.
type AppointmentRepo struct {
	db *DB
}

// NewAppointmentRepo creates an appointment repository over db.
func NewAppointmentRepo(db *DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

const appointmentColumns = `id, staff_id, client_id, start_time, end_time, notes, services,
	staff_google_event_id, staff_outlook_event_id,
	client_google_event_id, client_outlook_event_id,
	created_at, updated_at`

// Create inserts a new appointment row, assigning an id if none is set.
func (r *AppointmentRepo) Create(ctx context.Context, appt *domain.Appointment) error {
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}

	now := time.Now().UTC()
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = now
	}
	appt.UpdatedAt = now

	services, err := json.Marshal(appt.Services)
	if err != nil {
		return fmt.Errorf("failed to encode services: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO appointments (`+appointmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		appt.ID, appt.StaffID, appt.ClientID,
		appt.StartTime.UTC(), appt.EndTime.UTC(), appt.Notes, string(services),
		appt.StaffGoogleEventID, appt.StaffOutlookEventID,
		appt.ClientGoogleEventID, appt.ClientOutlookEventID,
		appt.CreatedAt, appt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert appointment: %w", err)
	}

	return nil
}

// GetByID loads one appointment.
func (r *AppointmentRepo) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments WHERE id = ?`, id)

	appt, err := scanAppointment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("appointment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}

	return appt, nil
}

// SetEventID writes one target's event id column. A nil id clears it.
func (r *AppointmentRepo) SetEventID(ctx context.Context, appointmentID string, owner domain.Owner, provider domain.Provider, eventID *string) error {
	column, err := eventIDColumn(owner, provider)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET `+column+` = ?, updated_at = ? WHERE id = ?`,
		eventID, time.Now().UTC(), appointmentID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event id: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewNotFoundError("appointment not found")
	}

	return nil
}

// ListByStaff returns the staff member's appointments overlapping [from, to),
// ordered by start time.
func (r *AppointmentRepo) ListByStaff(ctx context.Context, staffID string, from, to time.Time) ([]*domain.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE staff_id = ? AND start_time < ? AND end_time > ?
		ORDER BY start_time`,
		staffID, to.UTC(), from.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var appts []*domain.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appts = append(appts, appt)
	}

	return appts, rows.Err()
}

// eventIDColumn maps a sync target onto its appointment column.
func eventIDColumn(owner domain.Owner, provider domain.Provider) (string, error) {
	switch {
	case owner == domain.OwnerStaff && provider == domain.ProviderGoogle:
		return "staff_google_event_id", nil
	case owner == domain.OwnerStaff && provider == domain.ProviderOutlook:
		return "staff_outlook_event_id", nil
	case owner == domain.OwnerClient && provider == domain.ProviderGoogle:
		return "client_google_event_id", nil
	case owner == domain.OwnerClient && provider == domain.ProviderOutlook:
		return "client_outlook_event_id", nil
	default:
		return "", fmt.Errorf("unknown sync target %s/%s", owner, provider)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		appt     domain.Appointment
		services string
	)

	err := row.Scan(
		&appt.ID, &appt.StaffID, &appt.ClientID,
		&appt.StartTime, &appt.EndTime, &appt.Notes, &services,
		&appt.StaffGoogleEventID, &appt.StaffOutlookEventID,
		&appt.ClientGoogleEventID, &appt.ClientOutlookEventID,
		&appt.CreatedAt, &appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(services), &appt.Services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}

	return &appt, nil
}

var _ domain.AppointmentRepository = (*AppointmentRepo)(nil)
