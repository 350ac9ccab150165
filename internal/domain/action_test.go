package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	for _, name := range []string{"create", "update", "delete"} {
		action, err := ParseAction(name)
		require.NoError(t, err)
		assert.Equal(t, name, action.String())
	}

	_, err := ParseAction("reschedule")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reschedule")

	_, err = ParseAction("")
	require.Error(t, err)
}

func TestAppointmentEventID(t *testing.T) {
	appt := &Appointment{}
	assert.Nil(t, appt.EventID(OwnerStaff, ProviderGoogle))

	id := "evt-1"
	appt.SetEventID(OwnerClient, ProviderOutlook, &id)
	require.NotNil(t, appt.EventID(OwnerClient, ProviderOutlook))
	assert.Equal(t, "evt-1", *appt.EventID(OwnerClient, ProviderOutlook))
	assert.Nil(t, appt.EventID(OwnerClient, ProviderGoogle))

	appt.SetEventID(OwnerClient, ProviderOutlook, nil)
	assert.Nil(t, appt.EventID(OwnerClient, ProviderOutlook))
}

func TestCalendarAccountConfigured(t *testing.T) {
	assert.False(t, (CalendarAccount{}).Configured())
	assert.False(t, (CalendarAccount{RefreshToken: "rt"}).Configured())
	assert.True(t, (CalendarAccount{AccessToken: "at"}).Configured())
}
