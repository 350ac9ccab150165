package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleAdapter performs calendar operations against the Google Calendar API.
type GoogleAdapter struct {
	callTimeout time.Duration
}

// NewGoogleAdapter creates a Google Calendar adapter. Every API call is
// bounded by callTimeout.
func NewGoogleAdapter(callTimeout time.Duration) *GoogleAdapter {
	return &GoogleAdapter{callTimeout: callTimeout}
}

// service builds a calendar service authenticated with the given access
// token. Token freshness is the token manager's responsibility; the adapter
// uses the token as-is.
func (g *GoogleAdapter) service(ctx context.Context, accessToken string) (*gcal.Service, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := gcal.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return svc, nil
}

func (g *GoogleAdapter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.callTimeout)
}

// CreateEvent inserts a new event and returns the Google-assigned event id.
// Sets sendUpdates="none" so clients are not emailed by Google on top of the
// salon's own notifications.
func (g *GoogleAdapter) CreateEvent(ctx context.Context, accessToken, calendarID string, ev *Event) (string, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	svc, err := g.service(ctx, accessToken)
	if err != nil {
		return "", err
	}

	created, err := svc.Events.Insert(orPrimary(calendarID), toGoogleEvent(ev)).
		SendUpdates("none").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("google: failed to insert event: %w", err)
	}

	return created.Id, nil
}

// UpdateEvent replaces an existing event.
func (g *GoogleAdapter) UpdateEvent(ctx context.Context, accessToken, calendarID, eventID string, ev *Event) error {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	svc, err := g.service(ctx, accessToken)
	if err != nil {
		return err
	}

	_, err = svc.Events.Update(orPrimary(calendarID), eventID, toGoogleEvent(ev)).
		SendUpdates("none").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("google: failed to update event: %w", err)
	}

	return nil
}

// DeleteEvent removes an event from the calendar.
func (g *GoogleAdapter) DeleteEvent(ctx context.Context, accessToken, calendarID, eventID string) error {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	svc, err := g.service(ctx, accessToken)
	if err != nil {
		return err
	}

	err = svc.Events.Delete(orPrimary(calendarID), eventID).
		SendUpdates("none").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("google: failed to delete event: %w", err)
	}

	return nil
}

// toGoogleEvent renders the neutral event into the Google Calendar v3 shape.
func toGoogleEvent(ev *Event) *gcal.Event {
	return &gcal.Event{
		Summary:     ev.Title,
		Description: ev.Description,
		ColorId:     ev.ColorID,
		Start: &gcal.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
		},
		End: &gcal.EventDateTime{
			DateTime: ev.End.Format(time.RFC3339),
		},
		Reminders: &gcal.EventReminders{
			UseDefault: true,
		},
	}
}

// orPrimary defaults an empty calendar id to the account's primary calendar.
func orPrimary(calendarID string) string {
	if calendarID == "" {
		return "primary"
	}
	return calendarID
}

var _ Adapter = (*GoogleAdapter)(nil)
