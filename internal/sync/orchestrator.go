// Package sync contains the engine that propagates appointment lifecycle
// events to the configured external calendars.
package sync

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/salonkit/calendar-sync/internal/calendar"
	"github.com/salonkit/calendar-sync/internal/domain"
	"github.com/salonkit/calendar-sync/internal/token"
)

// errInvalidToken is the per-target failure message when no usable access
// token could be produced.
const errInvalidToken = "invalid or expired token"

// ProviderBundle pairs a provider's adapter with its token refresher.
// Refresher is nil for providers whose adapter handles refresh internally.
type ProviderBundle struct {
	Adapter   calendar.Adapter
	Refresher calendar.TokenRefresher
}

// Orchestrator is the engine entry point. For an appointment id and action it
// resolves the configured targets and syncs each one independently, so one
// target's failure never blocks the others.
type Orchestrator struct {
	resolver     *Resolver
	appointments domain.AppointmentRepository
	providers    map[domain.Provider]ProviderBundle
	tokens       *token.Manager
	log          zerolog.Logger
}

// NewOrchestrator creates the sync orchestrator.
func NewOrchestrator(
	resolver *Resolver,
	appointments domain.AppointmentRepository,
	providers map[domain.Provider]ProviderBundle,
	tokens *token.Manager,
	log zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		resolver:     resolver,
		appointments: appointments,
		providers:    providers,
		tokens:       tokens,
		log:          log,
	}
}

// Sync propagates one appointment lifecycle event to every configured target.
// It returns exactly one result per configured target, in resolver order.
// Only precondition failures (missing appointment or staff) return an error;
// per-target failures are reported in the results and never abort siblings.
func (o *Orchestrator) Sync(ctx context.Context, appointmentID string, action domain.Action) ([]domain.SyncResult, error) {
	resolved, err := o.resolver.Resolve(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	o.log.Info().
		Str("appointment_id", appointmentID).
		Str("action", action.String()).
		Int("targets", len(resolved.Targets)).
		Msg("starting calendar sync")

	results := make([]domain.SyncResult, 0, len(resolved.Targets))
	for _, t := range resolved.Targets {
		results = append(results, o.syncTarget(ctx, resolved, t, action))
	}

	return results, nil
}

func (o *Orchestrator) syncTarget(ctx context.Context, resolved *Resolved, t Target, action domain.Action) domain.SyncResult {
	res := domain.SyncResult{Provider: t.Provider, Owner: t.Owner}

	log := o.log.With().
		Str("appointment_id", resolved.Appointment.ID).
		Str("provider", string(t.Provider)).
		Str("owner", string(t.Owner)).
		Logger()

	bundle, ok := o.providers[t.Provider]
	if !ok {
		res.Error = "no adapter registered for provider"
		log.Error().Msg(res.Error)
		return res
	}

	accessToken, err := o.tokens.EnsureValidToken(ctx, token.Target{
		OwnerID:   t.OwnerID,
		Provider:  t.Provider,
		Account:   t.Account,
		Store:     t.Store,
		Refresher: bundle.Refresher,
	})
	if err != nil {
		log.Error().Err(err).Msg("token validation failed")
		res.Error = errInvalidToken
		return res
	}
	if accessToken == "" {
		res.Error = errInvalidToken
		return res
	}

	appt := resolved.Appointment
	storedID := appt.EventID(t.Owner, t.Provider)

	switch action {
	case domain.ActionCreate:
		o.createEvent(ctx, resolved, t, bundle.Adapter, accessToken, &res, log)
	case domain.ActionUpdate:
		// An appointment mutated before its first successful sync has no
		// event id yet; retry the update as a create.
		if storedID == nil {
			o.createEvent(ctx, resolved, t, bundle.Adapter, accessToken, &res, log)
			break
		}
		if err := bundle.Adapter.UpdateEvent(ctx, accessToken, t.Account.CalendarID, *storedID, calendar.MapEvent(appt, resolved.Staff, resolved.Client)); err != nil {
			log.Warn().Err(err).Msg("update event failed")
			res.Error = err.Error()
			break
		}
		res.Success = true
		res.EventID = *storedID
	case domain.ActionDelete:
		// Nothing stored means nothing to delete; already consistent.
		if storedID == nil {
			res.Success = true
			break
		}
		if err := bundle.Adapter.DeleteEvent(ctx, accessToken, t.Account.CalendarID, *storedID); err != nil {
			log.Warn().Err(err).Msg("delete event failed")
			res.Error = err.Error()
			break
		}
		if err := o.appointments.SetEventID(ctx, appt.ID, t.Owner, t.Provider, nil); err != nil {
			log.Error().Err(err).Msg("failed to clear event id")
			res.Error = err.Error()
			break
		}
		appt.SetEventID(t.Owner, t.Provider, nil)
		res.Success = true
	}

	return res
}

// createEvent maps the appointment, inserts it at the provider, and persists
// the returned event id. The id field is only written after the adapter call
// fully succeeds.
func (o *Orchestrator) createEvent(ctx context.Context, resolved *Resolved, t Target, adapter calendar.Adapter, accessToken string, res *domain.SyncResult, log zerolog.Logger) {
	appt := resolved.Appointment

	eventID, err := adapter.CreateEvent(ctx, accessToken, t.Account.CalendarID, calendar.MapEvent(appt, resolved.Staff, resolved.Client))
	if err != nil {
		log.Warn().Err(err).Msg("create event failed")
		res.Error = err.Error()
		return
	}

	if err := o.appointments.SetEventID(ctx, appt.ID, t.Owner, t.Provider, &eventID); err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("failed to persist event id")
		res.Error = err.Error()
		return
	}
	appt.SetEventID(t.Owner, t.Provider, &eventID)

	res.Success = true
	res.EventID = eventID
}
