package seed

import (
	"context"

	"ems-seeder/internal/client"

	"go.uber.org/zap"
)

// logFailure logs a per-item failure with a message chosen by failure class.
func (s *Seeder) logFailure(what string, err error, fields ...zap.Field) {
	kind := client.Classify(err)
	fields = append(fields, zap.String("kind", kind.String()), zap.Error(err))

	switch kind {
	case client.KindConnection:
		s.log.Error(what+": service unreachable", fields...)
	case client.KindTimeout:
		s.log.Error(what+": request timed out", fields...)
	case client.KindBadGateway:
		s.log.Error(what+": gateway could not reach the upstream service", fields...)
	case client.KindUnavailable:
		s.log.Error(what+": service unavailable", fields...)
	case client.KindServerError:
		s.log.Error(what+": server error", fields...)
	case client.KindConflict:
		s.log.Warn(what+": conflict", fields...)
	case client.KindNotFound:
		s.log.Warn(what+": not found", fields...)
	case client.KindClientError:
		s.log.Warn(what+": request rejected", fields...)
	default:
		s.log.Error(what, fields...)
	}
}

// interrupted reports whether err or ctx means the run was cancelled and the
// current stage must stop.
func interrupted(ctx context.Context, err error) bool {
	return ctx.Err() != nil || client.Classify(err) == client.KindCanceled
}
