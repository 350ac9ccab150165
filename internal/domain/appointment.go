package domain

import "time"

// Appointment is the unit being synchronized. The engine never originates
// appointment changes; it reacts to them and writes back provider event ids.
type Appointment struct {
	ID      string
	StaffID string
	// ClientID is nil for walk-in appointments.
	ClientID *string

	StartTime time.Time
	EndTime   time.Time
	Notes     string
	// Services is the ordered list of booked service names. The first entry
	// is the primary service and drives the event color.
	Services []string

	// One provider event id per sync target. Nil means never synced or the
	// calendar connection does not exist.
	StaffGoogleEventID   *string
	StaffOutlookEventID  *string
	ClientGoogleEventID  *string
	ClientOutlookEventID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EventID returns the stored provider event id for the given target, or nil.
func (a *Appointment) EventID(owner Owner, provider Provider) *string {
	switch {
	case owner == OwnerStaff && provider == ProviderGoogle:
		return a.StaffGoogleEventID
	case owner == OwnerStaff && provider == ProviderOutlook:
		return a.StaffOutlookEventID
	case owner == OwnerClient && provider == ProviderGoogle:
		return a.ClientGoogleEventID
	case owner == OwnerClient && provider == ProviderOutlook:
		return a.ClientOutlookEventID
	}
	return nil
}

// SetEventID records (or clears, with nil) the provider event id for a target.
func (a *Appointment) SetEventID(owner Owner, provider Provider, id *string) {
	switch {
	case owner == OwnerStaff && provider == ProviderGoogle:
		a.StaffGoogleEventID = id
	case owner == OwnerStaff && provider == ProviderOutlook:
		a.StaffOutlookEventID = id
	case owner == OwnerClient && provider == ProviderGoogle:
		a.ClientGoogleEventID = id
	case owner == OwnerClient && provider == ProviderOutlook:
		a.ClientOutlookEventID = id
	}
}

// PrimaryService returns the first booked service name, if any.
func (a *Appointment) PrimaryService() string {
	if len(a.Services) == 0 {
		return ""
	}
	return a.Services[0]
}
