// Package calendar contains the provider adapter contract and the adapters
// that render appointments into provider-specific event shapes.
package calendar

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// Event is the provider-neutral calendar event an appointment maps to. Each
// adapter renders it into its own wire shape.
type Event struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	// ColorID is a Google Calendar color id derived from the primary service
	// name. Providers without color support ignore it.
	ColorID string
}

// Adapter is the per-provider calendar operation contract. The orchestrator
// depends only on this interface, never on provider request/response shapes.
type Adapter interface {
	// CreateEvent inserts the event and returns the provider-assigned id.
	CreateEvent(ctx context.Context, accessToken, calendarID string, ev *Event) (string, error)
	UpdateEvent(ctx context.Context, accessToken, calendarID, eventID string, ev *Event) error
	DeleteEvent(ctx context.Context, accessToken, calendarID, eventID string) error
}

// TokenRefresher exchanges a refresh token for a fresh access token. Only
// providers with short-lived stored tokens implement it.
type TokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}
