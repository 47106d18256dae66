package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"ems-seeder/internal/models"
)

// SpeakerProfile looks up the profile the speaker service created for userID.
// A 404 means the asynchronous profile consumer has not caught up yet.
func (c *Client) SpeakerProfile(ctx context.Context, token, userID string) (*models.SpeakerProfile, error) {
	u := c.speakerURL("/profile/me") + "?" + url.Values{"userId": {userID}}.Encode()

	var resp models.Envelope[*models.SpeakerProfile]
	if err := c.doJSON(ctx, http.MethodGet, u, token, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "speaker profile missing from response"}
	}
	return resp.Data, nil
}

func (c *Client) CreateInvitation(ctx context.Context, token string, req models.CreateInvitationRequest) (*models.Invitation, error) {
	var resp models.Envelope[models.Invitation]
	if err := c.doJSON(ctx, http.MethodPost, c.platformURL("/api/invitations"), token, req, &resp, http.StatusCreated); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) RespondInvitation(ctx context.Context, token, invitationID string, status models.InvitationStatus) error {
	path := fmt.Sprintf("/api/invitations/%s/respond", url.PathEscape(invitationID))
	return c.doJSON(ctx, http.MethodPut, c.platformURL(path), token, models.RespondInvitationRequest{
		Status: status,
	}, nil, http.StatusOK)
}

// SpeakerInvitations lists a speaker's invitations, optionally filtered by
// status on the server side. An empty status returns all of them.
func (c *Client) SpeakerInvitations(ctx context.Context, token, speakerID string, status models.InvitationStatus) ([]models.Invitation, error) {
	u := c.platformURL(fmt.Sprintf("/api/invitations/speaker/%s", url.PathEscape(speakerID)))
	if status != "" {
		u += "?" + url.Values{"status": {string(status)}}.Encode()
	}

	var resp models.Envelope[[]models.Invitation]
	if err := c.doJSON(ctx, http.MethodGet, u, token, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// UploadMaterial sends a multipart upload with the file under "file" and the
// speaker (and optional event) as form fields.
func (c *Client) UploadMaterial(ctx context.Context, token, speakerID, eventID, fileName string, content []byte) (*models.Material, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("write file part: %w", err)
	}

	if err := writer.WriteField("speakerId", speakerID); err != nil {
		return nil, fmt.Errorf("write speakerId: %w", err)
	}
	if eventID != "" {
		if err := writer.WriteField("eventId", eventID); err != nil {
			return nil, fmt.Errorf("write eventId: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.platformURL("/api/materials/upload"), &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp models.Envelope[models.Material]
	if err := c.send(req, token, &resp, http.StatusCreated); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) UpdateMaterialDate(ctx context.Context, token, materialID string, uploadDate time.Time) error {
	return c.doJSON(ctx, http.MethodPost, c.platformURL("/api/materials/seed/update-material-date"), token, models.UpdateMaterialDateRequest{
		MaterialID: materialID,
		UploadDate: uploadDate,
	}, nil, http.StatusOK)
}
