package client

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// UserIDFromToken reads the user id from a bearer token without verifying
// its signature. The seeder never holds the signing key; it only needs the
// subject the auth service already vouched for.
func UserIDFromToken(token string) (string, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("unexpected claims type")
	}

	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, nil
	}
	for _, key := range []string{"userId", "id"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v, nil
		}
	}

	return "", errors.New("token carries no user id")
}
