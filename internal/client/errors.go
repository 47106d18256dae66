package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

var ErrNoToken = errors.New("no token received from login")

// APIError is a response whose status code the caller did not expect.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(body)}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		switch v := payload["error"].(type) {
		case string:
			apiErr.Message = v
		case nil:
		default:
			apiErr.Message = fmt.Sprint(v)
		}
		if apiErr.Message == "" {
			if m, ok := payload["message"].(string); ok {
				apiErr.Message = m
			}
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}

	return apiErr
}

// Kind is the coarse failure class the seeding stages branch on.
type Kind int

const (
	KindNone Kind = iota
	KindCanceled
	KindConnection
	KindTimeout
	KindClientError
	KindNotFound
	KindConflict
	KindBadGateway
	KindUnavailable
	KindServerError
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindCanceled:
		return "canceled"
	case KindConnection:
		return "connection"
	case KindTimeout:
		return "timeout"
	case KindClientError:
		return "client_error"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBadGateway:
		return "bad_gateway"
	case KindUnavailable:
		return "unavailable"
	case KindServerError:
		return "server_error"
	default:
		return "unknown"
	}
}

func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusNotFound:
			return KindNotFound
		case apiErr.StatusCode == http.StatusConflict:
			return KindConflict
		case apiErr.StatusCode == http.StatusBadGateway:
			return KindBadGateway
		case apiErr.StatusCode == http.StatusServiceUnavailable:
			return KindUnavailable
		case apiErr.StatusCode >= 500:
			return KindServerError
		case apiErr.StatusCode >= 400:
			return KindClientError
		}
		return KindUnknown
	}

	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindConnection
	}

	return KindUnknown
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsAlreadyExists reports the services' duplicate marker: a 400 whose error
// text mentions "already exists".
func IsAlreadyExists(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		return false
	}
	return strings.Contains(strings.ToLower(apiErr.Message), "already exists")
}
