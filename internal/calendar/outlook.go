package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

const (
	graphBaseURL      = "https://graph.microsoft.com/v1.0"
	outlookTimeFormat = "2006-01-02T15:04:05"
)

// OutlookAdapter performs calendar operations against the Microsoft Graph
// API. Unlike the Google adapter it also exposes token refresh, because
// Outlook access tokens are short-lived and stored with an explicit expiry.
type OutlookAdapter struct {
	httpClient  *http.Client
	baseURL     string
	oauthConfig *oauth2.Config
}

// NewOutlookAdapter creates an Outlook adapter. clientID and clientSecret are
// the platform's Azure app registration used for token refresh.
func NewOutlookAdapter(clientID, clientSecret string, callTimeout time.Duration) *OutlookAdapter {
	return &OutlookAdapter{
		httpClient: &http.Client{Timeout: callTimeout},
		baseURL:    graphBaseURL,
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     microsoft.AzureADEndpoint("common"),
			Scopes:       []string{"offline_access", "Calendars.ReadWrite"},
		},
	}
}

// RefreshToken exchanges a refresh token for a fresh token set.
func (a *OutlookAdapter) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	src := a.oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("outlook: failed to refresh token: %w", err)
	}
	return tok, nil
}

// CreateEvent inserts a new event and returns the Graph-assigned event id.
func (a *OutlookAdapter) CreateEvent(ctx context.Context, accessToken, calendarID string, ev *Event) (string, error) {
	resp, err := a.do(ctx, accessToken, http.MethodPost, a.eventsURL(calendarID), toGraphEvent(ev))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", graphError("create event", resp)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("outlook: failed to decode response: %w", err)
	}

	return created.ID, nil
}

// UpdateEvent patches an existing event.
func (a *OutlookAdapter) UpdateEvent(ctx context.Context, accessToken, calendarID, eventID string, ev *Event) error {
	resp, err := a.do(ctx, accessToken, http.MethodPatch, a.eventURL(calendarID, eventID), toGraphEvent(ev))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return graphError("update event", resp)
	}

	return nil
}

// DeleteEvent removes an event.
func (a *OutlookAdapter) DeleteEvent(ctx context.Context, accessToken, calendarID, eventID string) error {
	resp, err := a.do(ctx, accessToken, http.MethodDelete, a.eventURL(calendarID, eventID), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return graphError("delete event", resp)
	}

	return nil
}

func (a *OutlookAdapter) eventsURL(calendarID string) string {
	if calendarID == "" {
		return a.baseURL + "/me/calendar/events"
	}
	return a.baseURL + "/me/calendars/" + calendarID + "/events"
}

func (a *OutlookAdapter) eventURL(calendarID, eventID string) string {
	if calendarID == "" {
		return a.baseURL + "/me/events/" + eventID
	}
	return a.baseURL + "/me/calendars/" + calendarID + "/events/" + eventID
}

func (a *OutlookAdapter) do(ctx context.Context, accessToken, method, endpoint string, body map[string]interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("outlook: failed to marshal event: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("outlook: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("outlook: request failed: %w", err)
	}

	return resp, nil
}

func graphError(op string, resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("outlook: %s failed with status %d: %s", op, resp.StatusCode, string(bodyBytes))
}

// toGraphEvent renders the neutral event into the Microsoft Graph shape.
// Graph has no per-event color, so ColorID is dropped here.
func toGraphEvent(ev *Event) map[string]interface{} {
	return map[string]interface{}{
		"subject": ev.Title,
		"body": map[string]string{
			"contentType": "text",
			"content":     ev.Description,
		},
		"start": map[string]string{
			"dateTime": ev.Start.UTC().Format(outlookTimeFormat),
			"timeZone": "UTC",
		},
		"end": map[string]string{
			"dateTime": ev.End.UTC().Format(outlookTimeFormat),
			"timeZone": "UTC",
		},
	}
}

var _ Adapter = (*OutlookAdapter)(nil)
var _ TokenRefresher = (*OutlookAdapter)(nil)
