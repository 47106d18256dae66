package seed

import (
	"context"

	"go.uber.org/zap"
)

// group collects items per event id, keeping first-seen order.
func group[T any](items []T, key func(T) string) ([]string, map[string][]T) {
	var order []string
	groups := make(map[string][]T)
	for _, it := range items {
		k := key(it)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], it)
	}
	return order, groups
}

func (s *Seeder) backfillEntityDates(ctx context.Context, r *run) error {
	if !s.cfg.Seed.Backdate {
		return nil
	}
	s.log.Info("Backdating bookings, session speakers and materials")

	if err := s.backfillBookings(ctx, r); err != nil {
		return err
	}
	if err := s.backfillSessionSpeakers(ctx, r); err != nil {
		return err
	}
	if err := s.backfillMaterials(ctx, r); err != nil {
		return err
	}

	s.log.Info("Backdating complete",
		zap.Int("bookings", r.summary.BookingDatesUpdated),
		zap.Int("session_speakers", r.summary.SessionSpeakerDatesUpdated),
		zap.Int("materials", r.summary.MaterialDatesUpdated),
		zap.Int("failed", r.summary.BackfillFailures),
	)
	return nil
}

func (s *Seeder) backfillBookings(ctx context.Context, r *run) error {
	order, groups := group(r.bookings, func(b datedEntity) string { return b.EventID })
	for _, eventID := range order {
		items := groups[eventID]
		dates := s.dates.Pad(s.dates.BookingDates(len(items), items[0].EventStart), len(items))

		for i, b := range items {
			err := s.api.UpdateBookingDate(ctx, r.admin.Token, b.ID, dates[i])
			if interrupted(ctx, err) {
				return ctx.Err()
			}
			if err != nil {
				r.summary.BackfillFailures++
				s.logFailure("Failed to backdate booking", err, zap.String("booking", b.ID))
				continue
			}
			r.summary.BookingDatesUpdated++
		}
	}
	return nil
}

func (s *Seeder) backfillSessionSpeakers(ctx context.Context, r *run) error {
	order, groups := group(r.sessions, func(a assignment) string { return a.EventID })
	for _, eventID := range order {
		items := groups[eventID]
		dates := s.dates.Pad(s.dates.InvitationDates(len(items), items[0].EventStart), len(items))

		for i, a := range items {
			err := s.api.UpdateSessionSpeakerDate(ctx, r.admin.Token, a.SessionID, a.SpeakerID, dates[i])
			if interrupted(ctx, err) {
				return ctx.Err()
			}
			if err != nil {
				r.summary.BackfillFailures++
				s.logFailure("Failed to backdate session speaker", err, zap.String("session", a.SessionID))
				continue
			}
			r.summary.SessionSpeakerDatesUpdated++
		}
	}
	return nil
}

// backfillMaterials dates event-tagged materials before their event and the
// rest before now.
func (s *Seeder) backfillMaterials(ctx context.Context, r *run) error {
	order, groups := group(r.materials, func(m datedEntity) string { return m.EventID })
	for _, eventID := range order {
		items := groups[eventID]

		anchor := items[0].EventStart
		if eventID == "" || anchor.IsZero() {
			anchor = s.now()
		}
		dates := s.dates.Pad(s.dates.MaterialDates(len(items), anchor), len(items))

		for i, m := range items {
			err := s.api.UpdateMaterialDate(ctx, r.admin.Token, m.ID, dates[i])
			if interrupted(ctx, err) {
				return ctx.Err()
			}
			if err != nil {
				r.summary.BackfillFailures++
				s.logFailure("Failed to backdate material", err, zap.String("material", m.ID))
				continue
			}
			r.summary.MaterialDatesUpdated++
		}
	}
	return nil
}
