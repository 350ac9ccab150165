// Package domain holds the entities and repository contracts of the
// appointment calendar sync engine.
package domain

import "time"

// Provider identifies an external calendar provider.
type Provider string

const (
	ProviderGoogle  Provider = "google"
	ProviderOutlook Provider = "outlook"
)

// Owner identifies whose calendar a sync target belongs to.
type Owner string

const (
	OwnerStaff  Owner = "staff"
	OwnerClient Owner = "client"
)

// CalendarAccount holds the stored OAuth credentials for one (owner, provider)
// pair. A non-empty AccessToken is the sole signal that the connection is
// configured; everything else may legitimately be empty.
type CalendarAccount struct {
	AccessToken  string
	RefreshToken string
	// CalendarID is the target calendar. Empty means the provider's primary
	// calendar.
	CalendarID string
	// Expiry is the access token expiry. Nil means the provider adapter
	// handles refresh internally and the stored token is used as-is.
	Expiry *time.Time
}

// Configured reports whether this account can be used as a sync target.
func (a CalendarAccount) Configured() bool {
	return a.AccessToken != ""
}

// Staff is the salon employee who owns an appointment.
type Staff struct {
	ID      string
	Name    string
	Email   string
	Google  CalendarAccount
	Outlook CalendarAccount
}

// Account returns the staff member's account for the given provider.
func (s *Staff) Account(p Provider) CalendarAccount {
	if p == ProviderOutlook {
		return s.Outlook
	}
	return s.Google
}

// Client is the salon customer an appointment may be booked for.
type Client struct {
	ID      string
	Name    string
	Email   string
	Google  CalendarAccount
	Outlook CalendarAccount
}

// Account returns the client's account for the given provider.
func (c *Client) Account(p Provider) CalendarAccount {
	if p == ProviderOutlook {
		return c.Outlook
	}
	return c.Google
}
