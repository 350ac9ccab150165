// Package api exposes the sync engine's HTTP trigger surface to the rest of
// the platform.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/salonkit/calendar-sync/internal/domain"
	"github.com/salonkit/calendar-sync/internal/ics"
	"github.com/salonkit/calendar-sync/pkg/apperrors"
)

// Syncer is the orchestrator surface the API depends on.
type Syncer interface {
	Sync(ctx context.Context, appointmentID string, action domain.Action) ([]domain.SyncResult, error)
}

// Server routes sync triggers and schedule feeds.
type Server struct {
	syncer       Syncer
	staff        domain.StaffRepository
	appointments domain.AppointmentRepository
	log          zerolog.Logger
}

// NewServer creates the HTTP server.
func NewServer(syncer Syncer, staff domain.StaffRepository, appointments domain.AppointmentRepository, log zerolog.Logger) *Server {
	return &Server{
		syncer:       syncer,
		staff:        staff,
		appointments: appointments,
		log:          log,
	}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/appointments/{id}/sync", s.handleSync).Methods(http.MethodPost)
	r.HandleFunc("/staff/{id}/schedule.ics", s.handleScheduleFeed).Methods(http.MethodGet)
	return r
}

type syncRequest struct {
	Action string `json:"action"`
}

type syncResponse struct {
	AppointmentID string              `json:"appointmentId"`
	Action        string              `json:"action"`
	Results       []domain.SyncResult `json:"results"`
}

// handleSync is the inbound trigger: the appointment-management service calls
// it after a booking is created, edited, or cancelled. Per-target failures
// are reported in the body with a 200; only precondition failures map to
// error status codes, so the triggering business operation is never rolled
// back by a calendar problem.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	appointmentID := mux.Vars(r)["id"]

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	action, err := domain.ParseAction(req.Action)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := s.syncer.Sync(r.Context(), appointmentID, action)
	if err != nil {
		if apperrors.IsNotFound(err) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.log.Error().Err(err).Str("appointment_id", appointmentID).Msg("sync failed")
		s.writeError(w, http.StatusInternalServerError, "sync failed")
		return
	}

	s.writeJSON(w, http.StatusOK, syncResponse{
		AppointmentID: appointmentID,
		Action:        action.String(),
		Results:       results,
	})
}

// handleScheduleFeed serves a staff member's upcoming appointments as an
// iCalendar stream.
func (s *Server) handleScheduleFeed(w http.ResponseWriter, r *http.Request) {
	staffID := mux.Vars(r)["id"]
	ctx := r.Context()

	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			s.writeError(w, http.StatusNotFound, "staff not found")
			return
		}
		s.log.Error().Err(err).Str("staff_id", staffID).Msg("failed to load staff")
		s.writeError(w, http.StatusInternalServerError, "failed to load staff")
		return
	}

	now := time.Now()
	appts, err := s.appointments.ListByStaff(ctx, staffID, now.AddDate(0, 0, -7), now.AddDate(0, 3, 0))
	if err != nil {
		s.log.Error().Err(err).Str("staff_id", staffID).Msg("failed to list appointments")
		s.writeError(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	if err := ics.Write(w, staff, appts); err != nil {
		s.log.Error().Err(err).Str("staff_id", staffID).Msg("failed to write schedule feed")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
