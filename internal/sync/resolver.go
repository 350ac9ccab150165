package sync

import (
	"context"
	"fmt"

	"github.com/salonkit/calendar-sync/internal/domain"
)

// Target is one configured (owner, provider) pair for an appointment, with
// everything needed to sync it independently of its siblings.
type Target struct {
	Owner    domain.Owner
	Provider domain.Provider
	OwnerID  string
	Account  domain.CalendarAccount
	// Store persists token changes for this target's owner.
	Store domain.CredentialStore
}

// Resolved combines an appointment with its people and the ordered list of
// configured sync targets.
type Resolved struct {
	Appointment *domain.Appointment
	Staff       *domain.Staff
	// Client is nil for walk-in appointments.
	Client  *domain.Client
	Targets []Target
}

// Resolver loads an appointment with its staff and client records and
// determines which sync targets are configured.
type Resolver struct {
	appointments domain.AppointmentRepository
	staff        domain.StaffRepository
	clients      domain.ClientRepository
}

// NewResolver creates a resolver over the given repositories.
func NewResolver(appointments domain.AppointmentRepository, staff domain.StaffRepository, clients domain.ClientRepository) *Resolver {
	return &Resolver{
		appointments: appointments,
		staff:        staff,
		clients:      clients,
	}
}

// Resolve loads the appointment and builds its target list in stable order:
// staff google, staff outlook, client google, client outlook. Targets without
// a stored access token are skipped, not errors. A missing appointment or
// staff record is a fatal precondition failure; a nil client id simply means
// no client-side targets.
func (r *Resolver) Resolve(ctx context.Context, appointmentID string) (*Resolved, error) {
	appt, err := r.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment %s: %w", appointmentID, err)
	}

	staff, err := r.staff.GetByID(ctx, appt.StaffID)
	if err != nil {
		return nil, fmt.Errorf("failed to load staff %s for appointment %s: %w", appt.StaffID, appointmentID, err)
	}

	resolved := &Resolved{
		Appointment: appt,
		Staff:       staff,
	}

	if appt.ClientID != nil {
		client, err := r.clients.GetByID(ctx, *appt.ClientID)
		if err != nil {
			return nil, fmt.Errorf("failed to load client %s for appointment %s: %w", *appt.ClientID, appointmentID, err)
		}
		resolved.Client = client
	}

	for _, provider := range []domain.Provider{domain.ProviderGoogle, domain.ProviderOutlook} {
		if account := staff.Account(provider); account.Configured() {
			resolved.Targets = append(resolved.Targets, Target{
				Owner:    domain.OwnerStaff,
				Provider: provider,
				OwnerID:  staff.ID,
				Account:  account,
				Store:    r.staff,
			})
		}
	}

	if resolved.Client != nil {
		for _, provider := range []domain.Provider{domain.ProviderGoogle, domain.ProviderOutlook} {
			if account := resolved.Client.Account(provider); account.Configured() {
				resolved.Targets = append(resolved.Targets, Target{
					Owner:    domain.OwnerClient,
					Provider: provider,
					OwnerID:  resolved.Client.ID,
					Account:  account,
					Store:    r.clients,
				})
			}
		}
	}

	return resolved, nil
}
