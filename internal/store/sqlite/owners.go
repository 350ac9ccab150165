package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/salonkit/calendar-sync/internal/domain"
	"github.com/salonkit/calendar-sync/pkg/apperrors"
)

// ownerRepo holds the credential persistence shared by staff and clients;
// the two tables carry identical calendar account columns.
type ownerRepo struct {
	db    *DB
	table string
}

const accountColumns = `google_access_token, google_refresh_token, google_calendar_id, google_token_expiry,
	outlook_access_token, outlook_refresh_token, outlook_calendar_id, outlook_token_expiry`

// UpdateTokens persists a successful token refresh for one provider.
func (r ownerRepo) UpdateTokens(ctx context.Context, ownerID string, provider domain.Provider, accessToken, refreshToken string, expiry *time.Time) error {
	prefix, err := providerPrefix(provider)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s SET
			%s_access_token = ?,
			%s_refresh_token = ?,
			%s_token_expiry = ?
		WHERE id = ?`, r.table, prefix, prefix, prefix),
		accessToken, refreshToken, expiry, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tokens: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewNotFoundError(r.table + " record not found")
	}

	return nil
}

// ClearCredentials resets one provider's connection, marking it disconnected
// until the owner reconnects.
func (r ownerRepo) ClearCredentials(ctx context.Context, ownerID string, provider domain.Provider) error {
	prefix, err := providerPrefix(provider)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s SET
			%s_access_token = '',
			%s_refresh_token = '',
			%s_calendar_id = '',
			%s_token_expiry = NULL
		WHERE id = ?`, r.table, prefix, prefix, prefix, prefix),
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewNotFoundError(r.table + " record not found")
	}

	return nil
}

func (r ownerRepo) insert(ctx context.Context, id, name, email string, google, outlook domain.CalendarAccount) error {
	if id == "" {
		return fmt.Errorf("%s id must not be empty", r.table)
	}

	_, err := r.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, name, email, %s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, r.table, accountColumns),
		id, name, email,
		google.AccessToken, google.RefreshToken, google.CalendarID, google.Expiry,
		outlook.AccessToken, outlook.RefreshToken, outlook.CalendarID, outlook.Expiry,
	)
	if err != nil {
		return fmt.Errorf("failed to insert %s record: %w", r.table, err)
	}
	return nil
}

func (r ownerRepo) get(ctx context.Context, id string) (name, email string, google, outlook domain.CalendarAccount, err error) {
	var googleExpiry, outlookExpiry sql.NullTime

	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT name, email, %s FROM %s WHERE id = ?`, accountColumns, r.table), id)

	err = row.Scan(
		&name, &email,
		&google.AccessToken, &google.RefreshToken, &google.CalendarID, &googleExpiry,
		&outlook.AccessToken, &outlook.RefreshToken, &outlook.CalendarID, &outlookExpiry,
	)
	if errors.Is(err, sql.ErrNoRows) {
		err = apperrors.NewNotFoundError(r.table + " record not found")
		return
	}
	if err != nil {
		err = fmt.Errorf("failed to load %s record: %w", r.table, err)
		return
	}

	if googleExpiry.Valid {
		t := googleExpiry.Time
		google.Expiry = &t
	}
	if outlookExpiry.Valid {
		t := outlookExpiry.Time
		outlook.Expiry = &t
	}

	return
}

func providerPrefix(provider domain.Provider) (string, error) {
	switch provider {
	case domain.ProviderGoogle:
		return "google", nil
	case domain.ProviderOutlook:
		return "outlook", nil
	default:
		return "", fmt.Errorf("unknown provider %q", provider)
	}
}

// StaffRepo is the SQLite-backed staff repository.
type StaffRepo struct {
	ownerRepo
}

// NewStaffRepo creates a staff repository over db.
func NewStaffRepo(db *DB) *StaffRepo {
	return &StaffRepo{ownerRepo{db: db, table: "staff"}}
}

// Create inserts a new staff row.
func (r *StaffRepo) Create(ctx context.Context, staff *domain.Staff) error {
	return r.insert(ctx, staff.ID, staff.Name, staff.Email, staff.Google, staff.Outlook)
}

// GetByID loads one staff member with their calendar credentials.
func (r *StaffRepo) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	name, email, google, outlook, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.Staff{ID: id, Name: name, Email: email, Google: google, Outlook: outlook}, nil
}

// ClientRepo is the SQLite-backed client repository.
type ClientRepo struct {
	ownerRepo
}

// NewClientRepo creates a client repository over db.
func NewClientRepo(db *DB) *ClientRepo {
	return &ClientRepo{ownerRepo{db: db, table: "clients"}}
}

// Create inserts a new client row.
func (r *ClientRepo) Create(ctx context.Context, client *domain.Client) error {
	return r.insert(ctx, client.ID, client.Name, client.Email, client.Google, client.Outlook)
}

// GetByID loads one client with their calendar credentials.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	name, email, google, outlook, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.Client{ID: id, Name: name, Email: email, Google: google, Outlook: outlook}, nil
}

var (
	_ domain.StaffRepository  = (*StaffRepo)(nil)
	_ domain.ClientRepository = (*ClientRepo)(nil)
)
