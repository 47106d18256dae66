package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ems-seeder/internal/models"
)

func (c *Client) SendMessage(ctx context.Context, token string, req models.SendMessageRequest) (*models.Message, error) {
	var resp models.Envelope[models.Message]
	if err := c.doJSON(ctx, http.MethodPost, c.platformURL("/api/messages"), token, req, &resp, http.StatusCreated); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) MarkMessageRead(ctx context.Context, token, messageID string) error {
	path := fmt.Sprintf("/api/messages/%s/read", url.PathEscape(messageID))
	return c.doJSON(ctx, http.MethodPut, c.platformURL(path), token, nil, nil, http.StatusOK)
}

func (c *Client) Inbox(ctx context.Context, token, userID string) ([]models.Message, error) {
	path := fmt.Sprintf("/api/messages/inbox/%s", url.PathEscape(userID))

	var resp models.Envelope[[]models.Message]
	if err := c.doJSON(ctx, http.MethodGet, c.platformURL(path), token, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
