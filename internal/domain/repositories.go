package domain

import (
	"context"
	"time"
)

// AppointmentRepository persists appointments and their per-target event ids.
type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*Appointment, error)
	Create(ctx context.Context, appt *Appointment) error
	// SetEventID writes one target's event id field. A nil id clears it.
	SetEventID(ctx context.Context, appointmentID string, owner Owner, provider Provider, eventID *string) error
	// ListByStaff returns a staff member's appointments overlapping [from, to),
	// ordered by start time.
	ListByStaff(ctx context.Context, staffID string, from, to time.Time) ([]*Appointment, error)
}

// CredentialStore persists token state for one kind of credential owner. Both
// staff and client repositories satisfy it, so token refresh logic is written
// once.
type CredentialStore interface {
	// UpdateTokens persists a successful refresh.
	UpdateTokens(ctx context.Context, ownerID string, provider Provider, accessToken, refreshToken string, expiry *time.Time) error
	// ClearCredentials resets access token, refresh token, calendar id and
	// expiry for the given provider, marking the connection as disconnected.
	ClearCredentials(ctx context.Context, ownerID string, provider Provider) error
}

// StaffRepository loads staff records and their calendar credentials.
type StaffRepository interface {
	CredentialStore
	GetByID(ctx context.Context, id string) (*Staff, error)
	Create(ctx context.Context, staff *Staff) error
}

// ClientRepository loads client records and their calendar credentials.
type ClientRepository interface {
	CredentialStore
	GetByID(ctx context.Context, id string) (*Client, error)
	Create(ctx context.Context, client *Client) error
}
