// Package ics renders a staff member's schedule as an iCalendar feed, so
// staff can subscribe from any calendar app without connecting an account.
package ics

import (
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-ical"

	"github.com/salonkit/calendar-sync/internal/domain"
)

// Feed builds a VCALENDAR containing one VEVENT per appointment.
func Feed(staff *domain.Staff, appts []*domain.Appointment) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//SalonKit Calendar Sync//EN")

	for _, appt := range appts {
		summary := strings.Join(appt.Services, ", ")
		if summary == "" {
			summary = "Appointment"
		}

		vevent := ical.NewComponent(ical.CompEvent)
		vevent.Props.SetText(ical.PropUID, fmt.Sprintf("%s@salonkit", appt.ID))
		vevent.Props.SetText(ical.PropSummary, summary)
		if appt.Notes != "" {
			vevent.Props.SetText(ical.PropDescription, appt.Notes)
		}
		vevent.Props.SetDateTime(ical.PropDateTimeStart, appt.StartTime.UTC())
		vevent.Props.SetDateTime(ical.PropDateTimeEnd, appt.EndTime.UTC())
		vevent.Props.SetDateTime(ical.PropDateTimeStamp, appt.UpdatedAt.UTC())

		cal.Children = append(cal.Children, vevent)
	}

	return cal
}

// Write encodes the feed for staff onto w.
func Write(w io.Writer, staff *domain.Staff, appts []*domain.Appointment) error {
	if err := ical.NewEncoder(w).Encode(Feed(staff, appts)); err != nil {
		return fmt.Errorf("failed to encode schedule feed: %w", err)
	}
	return nil
}
