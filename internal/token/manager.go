// Package token manages OAuth access-token freshness for sync targets,
// refreshing ahead of expiry and clearing credentials that can no longer be
// refreshed.
package token

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/salonkit/calendar-sync/internal/calendar"
	"github.com/salonkit/calendar-sync/internal/domain"
)

// DefaultSkew is the safety margin before a token's stated expiry at which it
// is proactively refreshed rather than used.
const DefaultSkew = 5 * time.Minute

// Target is one credential bundle the manager can validate: the stored
// account, who owns it, and where to persist token changes. The same shape
// serves staff-owned and client-owned credentials.
type Target struct {
	OwnerID  string
	Provider domain.Provider
	Account  domain.CalendarAccount
	Store    domain.CredentialStore
	// Refresher is nil for providers whose adapter handles refresh
	// internally.
	Refresher calendar.TokenRefresher
}

// Manager guarantees a non-expired access token before any adapter call.
type Manager struct {
	skew time.Duration
	log  zerolog.Logger
}

// NewManager creates a token manager. A non-positive skew falls back to
// DefaultSkew.
func NewManager(skew time.Duration, log zerolog.Logger) *Manager {
	if skew <= 0 {
		skew = DefaultSkew
	}
	return &Manager{skew: skew, log: log}
}

// EnsureValidToken returns an access token safe to use for the target, or ""
// when the target is not usable this cycle. It refreshes and persists tokens
// that are expired or inside the skew buffer, and clears credentials whose
// refresh token has been revoked. A non-nil error means persistence itself
// failed, not that the credential is bad.
func (m *Manager) EnsureValidToken(ctx context.Context, t Target) (string, error) {
	if t.Account.AccessToken == "" {
		return "", nil
	}

	// No stored expiry means the provider adapter owns freshness.
	if t.Account.Expiry == nil {
		return t.Account.AccessToken, nil
	}

	if time.Until(*t.Account.Expiry) > m.skew {
		return t.Account.AccessToken, nil
	}

	log := m.log.With().
		Str("owner_id", t.OwnerID).
		Str("provider", string(t.Provider)).
		Logger()

	if t.Account.RefreshToken == "" || t.Refresher == nil {
		log.Warn().Msg("access token expired and no refresh token stored")
		return "", nil
	}

	tok, err := t.Refresher.RefreshToken(ctx, t.Account.RefreshToken)
	if err != nil {
		// A dead refresh token means disconnected, not retry later. Clear
		// the stored credentials so the state reflects reality until the
		// owner reconnects.
		log.Warn().Err(err).Msg("token refresh failed, clearing credentials")
		if clearErr := t.Store.ClearCredentials(ctx, t.OwnerID, t.Provider); clearErr != nil {
			return "", fmt.Errorf("failed to clear credentials after refresh failure: %w", clearErr)
		}
		return "", nil
	}

	// Providers may rotate the refresh token; keep the old one if they
	// did not send a replacement.
	refreshToken := tok.RefreshToken
	if refreshToken == "" {
		refreshToken = t.Account.RefreshToken
	}

	var expiry *time.Time
	if !tok.Expiry.IsZero() {
		e := tok.Expiry
		expiry = &e
	}

	if err := t.Store.UpdateTokens(ctx, t.OwnerID, t.Provider, tok.AccessToken, refreshToken, expiry); err != nil {
		return "", fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	log.Debug().Msg("access token refreshed")
	return tok.AccessToken, nil
}
