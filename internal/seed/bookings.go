package seed

import (
	"context"

	"ems-seeder/internal/client"
	"ems-seeder/internal/models"

	"go.uber.org/zap"
)

func (s *Seeder) createBookings(ctx context.Context, r *run) error {
	published := publishedEvents(r.events)
	if len(published) == 0 {
		s.log.Info("No published events, skipping bookings")
		return nil
	}
	if len(r.users) == 0 {
		s.log.Info("No users registered, skipping bookings")
		return nil
	}

	s.log.Info("Creating bookings", zap.Int("users", len(r.users)), zap.Int("events", len(published)))

	bar := s.track("Booking events", len(r.users))
	defer bar.Done()

	for _, user := range r.users {
		err := s.bookFor(ctx, r, user, published)
		if interrupted(ctx, err) {
			return ctx.Err()
		}
		bar.Incr()
		if err != nil {
			s.logFailure("Failed to log in "+user.Email, err)
		}

		if err := s.pause(ctx); err != nil {
			return err
		}
	}

	s.log.Info("Bookings complete",
		zap.Int("created", r.summary.Bookings),
		zap.Int("conflicts", r.summary.BookingConflicts),
		zap.Int("failed", r.summary.BookingFailures),
	)
	return nil
}

// bookFor books between one and four published events for user. Only a
// login failure is returned; booking failures are counted.
func (s *Seeder) bookFor(ctx context.Context, r *run, user models.Account, published []models.Event) error {
	session, err := s.api.Login(ctx, user.Email, user.Password)
	if err != nil {
		return err
	}

	for _, ev := range sample(s.rng, published, between(s.rng, 1, min(4, len(published)))) {
		booking, err := s.api.CreateBooking(ctx, session.Token, ev.ID)
		if interrupted(ctx, err) {
			return err
		}
		switch {
		case client.Classify(err) == client.KindConflict:
			r.summary.BookingConflicts++
			s.log.Debug("Booking rejected", zap.String("email", user.Email), zap.String("event", ev.Name), zap.Error(err))
		case err != nil:
			r.summary.BookingFailures++
			s.logFailure("Failed to book "+ev.Name, err, zap.String("email", user.Email))
		default:
			r.summary.Bookings++
			r.bookings = append(r.bookings, datedEntity{
				ID:         booking.ID,
				EventID:    ev.ID,
				EventStart: ev.BookingStartDate,
			})
			s.log.Info("Booked event", zap.String("email", user.Email), zap.String("event", ev.Name))
		}
	}
	return nil
}
