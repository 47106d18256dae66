package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"

	"ems-seeder/internal/config"
)

// Client talks to the platform's auth, event, booking and speaker services.
// Every call is synchronous and is made once; there is no retry.
type Client struct {
	api  config.APIConfig
	http *http.Client
}

func New(cfg *config.Config) *Client {
	return &Client{
		api:  cfg.API,
		http: &http.Client{Timeout: cfg.API.Timeout},
	}
}

func (c *Client) authURL(path string) string     { return c.api.AuthURL + path }
func (c *Client) eventURL(path string) string    { return c.api.EventURL + path }
func (c *Client) bookingURL(path string) string  { return c.api.BookingURL + path }
func (c *Client) speakerURL(path string) string  { return c.api.SpeakerURL + path }
func (c *Client) platformURL(path string) string { return c.api.PlatformURL() + path }

// doJSON sends body as JSON and decodes the response into out when the status
// is one of expect. Any other status becomes an *APIError.
func (c *Client) doJSON(ctx context.Context, method, url, token string, body, out any, expect ...int) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, token, out, expect...)
}

func (c *Client) send(req *http.Request, token string, out any, expect ...int) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", req.URL.Path, err)
	}

	if !slices.Contains(expect, resp.StatusCode) {
		return newAPIError(resp.StatusCode, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
		}
	}

	return nil
}

// status performs a request and reports the raw status code without
// classifying it. Used by reachability probes.
func (c *Client) status(ctx context.Context, method, url string, body any) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
