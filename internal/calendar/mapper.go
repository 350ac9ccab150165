package calendar

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/salonkit/calendar-sync/internal/domain"
)

// googleColorCount is the number of event color ids Google Calendar accepts
// (ids "1" through "11").
const googleColorCount = 11

// MapEvent renders an appointment into the provider-neutral event shape.
// client may be nil for walk-in appointments.
func MapEvent(appt *domain.Appointment, staff *domain.Staff, client *domain.Client) *Event {
	services := strings.Join(appt.Services, ", ")
	if services == "" {
		services = "Appointment"
	}

	clientName := "Walk-in"
	if client != nil && client.Name != "" {
		clientName = client.Name
	}

	lines := []string{fmt.Sprintf("Staff: %s", staff.Name)}
	if appt.Notes != "" {
		lines = append(lines, "", appt.Notes)
	}

	return &Event{
		Title:       fmt.Sprintf("%s - %s", clientName, services),
		Description: strings.Join(lines, "\n"),
		Start:       appt.StartTime,
		End:         appt.EndTime,
		ColorID:     ColorForService(appt.PrimaryService()),
	}
}

// ColorForService derives a stable Google Calendar color id from a service
// name, so every "Balayage" lands in the same color regardless of staff or
// day. Empty input keeps the calendar's default color.
func ColorForService(service string) string {
	name := strings.TrimSpace(strings.ToLower(service))
	if name == "" {
		return ""
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	return fmt.Sprintf("%d", h.Sum32()%googleColorCount+1)
}
