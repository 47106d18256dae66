package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ems-seeder/internal/models"
)

func (c *Client) ListVenues(ctx context.Context, token string) ([]models.Venue, error) {
	var resp models.Envelope[[]models.Venue]
	if err := c.doJSON(ctx, http.MethodGet, c.eventURL("/venues/all"), token, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateEvent creates an event as admin; admin-created events are published
// immediately. When req.CreatedAt is set the seed endpoint is used so the
// creation timestamp is kept.
func (c *Client) CreateEvent(ctx context.Context, token string, req models.CreateEventRequest) (*models.Event, error) {
	path := "/admin/admin/events"
	if req.CreatedAt != nil {
		path = "/admin/admin/seed/create-event"
	}

	var resp models.Envelope[models.Event]
	if err := c.doJSON(ctx, http.MethodPost, c.eventURL(path), token, req, &resp, http.StatusCreated); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) CreateSession(ctx context.Context, token, eventID string, req models.CreateSessionRequest) (*models.EventSession, error) {
	path := fmt.Sprintf("/admin/admin/events/%s/sessions", url.PathEscape(eventID))

	var resp models.Envelope[models.EventSession]
	if err := c.doJSON(ctx, http.MethodPost, c.eventURL(path), token, req, &resp, http.StatusCreated); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) AssignSessionSpeaker(ctx context.Context, token, eventID, sessionID, speakerID string) (*models.SessionSpeaker, error) {
	path := fmt.Sprintf("/admin/admin/events/%s/sessions/%s/speakers", url.PathEscape(eventID), url.PathEscape(sessionID))

	var resp models.Envelope[models.SessionSpeaker]
	err := c.doJSON(ctx, http.MethodPost, c.eventURL(path), token, models.AssignSpeakerRequest{
		SpeakerID: speakerID,
	}, &resp, http.StatusCreated, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) UpdateSessionSpeakerDate(ctx context.Context, token, sessionID, speakerID string, createdAt time.Time) error {
	return c.doJSON(ctx, http.MethodPost, c.eventURL("/admin/seed/update-session-speaker-date"), token, models.UpdateSessionSpeakerDateRequest{
		SessionID: sessionID,
		SpeakerID: speakerID,
		CreatedAt: createdAt,
	}, nil, http.StatusOK)
}
