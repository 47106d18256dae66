package client

import (
	"context"
	"net/http"
	"time"

	"ems-seeder/internal/models"
)

// Health returns the status code of GET {auth}/health.
func (c *Client) Health(ctx context.Context) (int, error) {
	return c.status(ctx, http.MethodGet, c.authURL("/health"), nil)
}

// ProbeRegister posts a throwaway registration and returns the status code.
// Any answer from the auth service, including a validation error, proves it
// is reachable.
func (c *Client) ProbeRegister(ctx context.Context) (int, error) {
	return c.status(ctx, http.MethodPost, c.authURL("/register"), models.RegisterRequest{
		Email:    "test@test.com",
		Password: "test123!",
		Name:     "Test",
		Role:     models.RoleUser,
	})
}

func (c *Client) Register(ctx context.Context, cred models.Credential) (*models.User, error) {
	var resp models.RegisterResponse
	err := c.doJSON(ctx, http.MethodPost, c.authURL("/register"), "", models.RegisterRequest{
		Email:    cred.Email,
		Password: cred.Password,
		Name:     cred.Name,
		Role:     cred.Role,
	}, &resp, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthSession, error) {
	var resp models.LoginResponse
	err := c.doJSON(ctx, http.MethodPost, c.authURL("/login"), "", models.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}

	if resp.Token == "" {
		return nil, ErrNoToken
	}

	userID := resp.User.ID
	if userID == "" {
		// Older auth builds only put the id in the token claims.
		userID, _ = UserIDFromToken(resp.Token)
	}

	return &models.AuthSession{Token: resp.Token, UserID: userID}, nil
}

// ActivateUsers marks accounts active and verified. activatedAt is optional
// and only honoured by the seed-aware auth service.
func (c *Client) ActivateUsers(ctx context.Context, token string, emails []string, activatedAt *time.Time) (*models.ActivateUsersResponse, error) {
	var resp models.ActivateUsersResponse
	err := c.doJSON(ctx, http.MethodPost, c.authURL("/admin/activate-users"), token, models.ActivateUsersRequest{
		Emails:      emails,
		ActivatedAt: activatedAt,
	}, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateUserDate(ctx context.Context, token, email string, createdAt time.Time) error {
	return c.doJSON(ctx, http.MethodPost, c.authURL("/admin/seed/update-user-date"), token, models.UpdateUserDateRequest{
		Email:     email,
		CreatedAt: createdAt,
	}, nil, http.StatusOK)
}
