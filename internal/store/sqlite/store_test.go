package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/calendar-sync/internal/domain"
	"github.com/salonkit/calendar-sync/pkg/apperrors"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "calsync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func strPtr(s string) *string {
	return &s
}

func seedStaff(t *testing.T, db *DB, staff *domain.Staff) {
	t.Helper()
	require.NoError(t, NewStaffRepo(db).Create(context.Background(), staff))
}

func testAppointment(id string, start time.Time) *domain.Appointment {
	return &domain.Appointment{
		ID:        id,
		StaffID:   "staff-1",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Notes:     "first visit",
		Services:  []string{"Cut", "Color"},
	}
}

func TestAppointmentRepo_Roundtrip(t *testing.T) {
	db := openTestDB(t)
	seedStaff(t, db, &domain.Staff{ID: "staff-1", Name: "Alice"})
	repo := NewAppointmentRepo(db)
	ctx := context.Background()

	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	appt := testAppointment("appt-1", start)
	appt.StaffGoogleEventID = strPtr("evt-google")
	require.NoError(t, repo.Create(ctx, appt))

	got, err := repo.GetByID(ctx, "appt-1")
	require.NoError(t, err)
	assert.Equal(t, "staff-1", got.StaffID)
	assert.Nil(t, got.ClientID)
	assert.True(t, got.StartTime.Equal(start))
	assert.True(t, got.EndTime.Equal(start.Add(time.Hour)))
	assert.Equal(t, "first visit", got.Notes)
	assert.Equal(t, []string{"Cut", "Color"}, got.Services)
	require.NotNil(t, got.StaffGoogleEventID)
	assert.Equal(t, "evt-google", *got.StaffGoogleEventID)
	assert.Nil(t, got.StaffOutlookEventID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestAppointmentRepo_CreateAssignsID(t *testing.T) {
	db := openTestDB(t)
	seedStaff(t, db, &domain.Staff{ID: "staff-1", Name: "Alice"})
	repo := NewAppointmentRepo(db)
	ctx := context.Background()

	appt := testAppointment("", time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, appt))
	require.NotEmpty(t, appt.ID)

	_, err := repo.GetByID(ctx, appt.ID)
	require.NoError(t, err)
}

func TestAppointmentRepo_GetByIDNotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := NewAppointmentRepo(db).GetByID(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAppointmentRepo_SetEventID(t *testing.T) {
	db := openTestDB(t)
	seedStaff(t, db, &domain.Staff{ID: "staff-1", Name: "Alice"})
	repo := NewAppointmentRepo(db)
	ctx := context.Background()

	appt := testAppointment("appt-1", time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, appt))

	require.NoError(t, repo.SetEventID(ctx, "appt-1", domain.OwnerClient, domain.ProviderOutlook, strPtr("evt-out")))

	got, err := repo.GetByID(ctx, "appt-1")
	require.NoError(t, err)
	require.NotNil(t, got.ClientOutlookEventID)
	assert.Equal(t, "evt-out", *got.ClientOutlookEventID)

	// A nil id clears the column.
	require.NoError(t, repo.SetEventID(ctx, "appt-1", domain.OwnerClient, domain.ProviderOutlook, nil))

	got, err = repo.GetByID(ctx, "appt-1")
	require.NoError(t, err)
	assert.Nil(t, got.ClientOutlookEventID)
}

func TestAppointmentRepo_SetEventIDNotFound(t *testing.T) {
	db := openTestDB(t)

	err := NewAppointmentRepo(db).SetEventID(context.Background(), "missing", domain.OwnerStaff, domain.ProviderGoogle, strPtr("evt"))

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAppointmentRepo_ListByStaff(t *testing.T) {
	db := openTestDB(t)
	seedStaff(t, db, &domain.Staff{ID: "staff-1", Name: "Alice"})
	seedStaff(t, db, &domain.Staff{ID: "staff-2", Name: "Bob"})
	repo := NewAppointmentRepo(db)
	ctx := context.Background()

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, testAppointment("appt-late", day.Add(15*time.Hour))))
	require.NoError(t, repo.Create(ctx, testAppointment("appt-early", day.Add(9*time.Hour))))
	require.NoError(t, repo.Create(ctx, testAppointment("appt-out-of-window", day.Add(48*time.Hour))))

	other := testAppointment("appt-other-staff", day.Add(10*time.Hour))
	other.StaffID = "staff-2"
	require.NoError(t, repo.Create(ctx, other))

	appts, err := repo.ListByStaff(ctx, "staff-1", day, day.Add(24*time.Hour))
	require.NoError(t, err)

	require.Len(t, appts, 2)
	assert.Equal(t, "appt-early", appts[0].ID)
	assert.Equal(t, "appt-late", appts[1].ID)
}

func TestStaffRepo_UpdateTokens(t *testing.T) {
	db := openTestDB(t)
	repo := NewStaffRepo(db)
	ctx := context.Background()

	seedStaff(t, db, &domain.Staff{
		ID:   "staff-1",
		Name: "Alice",
		Outlook: domain.CalendarAccount{
			AccessToken:  "old-access",
			RefreshToken: "old-refresh",
			CalendarID:   "work",
		},
	})

	expiry := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateTokens(ctx, "staff-1", domain.ProviderOutlook, "new-access", "new-refresh", &expiry))

	got, err := repo.GetByID(ctx, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, "new-access", got.Outlook.AccessToken)
	assert.Equal(t, "new-refresh", got.Outlook.RefreshToken)
	assert.Equal(t, "work", got.Outlook.CalendarID)
	require.NotNil(t, got.Outlook.Expiry)
	assert.True(t, got.Outlook.Expiry.Equal(expiry))
	assert.Empty(t, got.Google.AccessToken)
}

func TestStaffRepo_ClearCredentials(t *testing.T) {
	db := openTestDB(t)
	repo := NewStaffRepo(db)
	ctx := context.Background()

	expiry := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)
	seedStaff(t, db, &domain.Staff{
		ID:     "staff-1",
		Name:   "Alice",
		Google: domain.CalendarAccount{AccessToken: "g-access", RefreshToken: "g-refresh"},
		Outlook: domain.CalendarAccount{
			AccessToken:  "o-access",
			RefreshToken: "o-refresh",
			CalendarID:   "work",
			Expiry:       &expiry,
		},
	})

	require.NoError(t, repo.ClearCredentials(ctx, "staff-1", domain.ProviderOutlook))

	got, err := repo.GetByID(ctx, "staff-1")
	require.NoError(t, err)
	assert.False(t, got.Outlook.Configured())
	assert.Empty(t, got.Outlook.RefreshToken)
	assert.Empty(t, got.Outlook.CalendarID)
	assert.Nil(t, got.Outlook.Expiry)

	// The other provider's connection is untouched.
	assert.Equal(t, "g-access", got.Google.AccessToken)
}

func TestClientRepo_Roundtrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewClientRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Client{
		ID:     "client-1",
		Name:   "Jane",
		Email:  "jane@example.com",
		Google: domain.CalendarAccount{AccessToken: "g-access", RefreshToken: "g-refresh"},
	}))

	got, err := repo.GetByID(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Name)
	assert.Equal(t, "jane@example.com", got.Email)
	assert.True(t, got.Google.Configured())
	assert.False(t, got.Outlook.Configured())

	_, err = repo.GetByID(ctx, "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestOwnerRepo_UpdateTokensNotFound(t *testing.T) {
	db := openTestDB(t)

	err := NewClientRepo(db).UpdateTokens(context.Background(), "missing", domain.ProviderGoogle, "a", "r", nil)

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
