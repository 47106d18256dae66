package seed

import (
	"context"
	"net/http"

	"ems-seeder/internal/client"

	"go.uber.org/zap"
)

type reachability int

const (
	reachable reachability = iota
	unverified
	unreachable
	gatewayDown
)

// probe decides whether the auth service answers. The health endpoint is
// tried first; a register probe is the fallback because some gateways do not
// route /health.
func (s *Seeder) probe(ctx context.Context) reachability {
	status, err := s.api.Health(ctx)
	if err == nil && (status == http.StatusOK || status == http.StatusNotFound) {
		return reachable
	}
	if interrupted(ctx, err) {
		return unverified
	}

	status, err = s.api.ProbeRegister(ctx)
	if err != nil {
		if client.Classify(err) == client.KindConnection {
			return unreachable
		}
		s.log.Warn("Could not verify auth service", zap.Error(err))
		return unverified
	}

	switch status {
	case http.StatusCreated, http.StatusBadRequest, http.StatusInternalServerError:
		return reachable
	case http.StatusBadGateway:
		return gatewayDown
	default:
		s.log.Warn("Unexpected status from auth probe", zap.Int("status", status))
		return unverified
	}
}

func (s *Seeder) checkConnectivity(ctx context.Context) error {
	s.log.Info("Checking API connectivity", zap.String("auth_url", s.cfg.API.AuthURL))

	switch s.probe(ctx) {
	case reachable:
		s.log.Info("Auth service is reachable")
		return ctx.Err()
	case unverified:
		s.log.Warn("Could not verify connectivity, proceeding anyway")
		return ctx.Err()
	case gatewayDown:
		s.log.Error("Gateway is up but cannot reach the auth service (502)")
	case unreachable:
		s.log.Error("Cannot connect to the API gateway", zap.String("auth_url", s.cfg.API.AuthURL))
	}

	if s.cfg.Seed.AssumeYes {
		s.log.Warn("Continuing without connectivity because SEED_ASSUME_YES is set")
		return nil
	}
	if !s.confirm("Continue anyway? (y/N): ") {
		return ErrAborted
	}
	return nil
}
