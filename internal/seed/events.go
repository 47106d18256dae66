package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ems-seeder/internal/models"

	"go.uber.org/zap"
)

var categories = []string{
	"Technology", "Business", "Education", "Arts & Culture",
	"Health & Wellness", "Science", "Entertainment", "Networking",
}

func title(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}

func (s *Seeder) eventName() string {
	return title(s.faker.Word()) + " " + title(s.faker.Word())
}

func (s *Seeder) eventDescription() string {
	return fmt.Sprintf("A %s gathering on %s %s, hosted by %s.",
		s.faker.Adjective(), s.faker.BuzzWord(), s.faker.Noun(), s.faker.Company())
}

func (s *Seeder) sessionTitle() string {
	return title(s.faker.BuzzWord()) + " " + title(s.faker.Noun())
}

func (s *Seeder) stageName() string {
	return title(s.faker.Color()) + " Stage"
}

func (s *Seeder) createEvents(ctx context.Context, r *run) error {
	n := s.cfg.Seed.Events
	if n <= 0 {
		return nil
	}

	venues, err := s.api.ListVenues(ctx, r.admin.Token)
	if interrupted(ctx, err) {
		return ctx.Err()
	}
	if err != nil {
		s.logFailure("Failed to fetch venues", err)
		return nil
	}
	if len(venues) == 0 {
		s.log.Warn("No venues available, skipping event creation")
		return nil
	}
	s.log.Info("Creating events", zap.Int("events", n), zap.Int("venues", len(venues)))

	var created []time.Time
	if s.cfg.Seed.Backdate {
		created = s.dates.EventCreationDates(n, 30)
	}

	bar := s.track("Creating events", n)
	defer bar.Done()

	for i := range n {
		venue := pick(s.rng, venues)
		w := fitToVenue(candidateWindow(s.rng, s.now()), venue)

		req := models.CreateEventRequest{
			Name:             s.eventName(),
			Description:      s.eventDescription(),
			Category:         pick(s.rng, categories),
			VenueID:          venue.ID,
			BookingStartDate: w.Start,
			BookingEndDate:   w.End,
			UserID:           r.admin.UserID,
		}
		if created != nil {
			req.CreatedAt = &created[i]
		}

		ev, err := s.api.CreateEvent(ctx, r.admin.Token, req)
		if interrupted(ctx, err) {
			return ctx.Err()
		}
		bar.Incr()
		if err != nil {
			r.summary.EventFailures++
			s.logFailure("Failed to create event "+req.Name, err, zap.String("venue", venue.Name))
			continue
		}

		r.events = append(r.events, *ev)
		r.summary.Events++
		s.log.Info("Created event",
			zap.String("name", ev.Name),
			zap.String("status", string(ev.Status)),
			zap.String("venue", venue.Name),
			zap.Time("start", ev.BookingStartDate),
			zap.Time("end", ev.BookingEndDate),
		)

		if err := s.createSessions(ctx, r, ev, w); err != nil {
			return err
		}
		if err := s.pause(ctx); err != nil {
			return err
		}
	}

	if len(r.events) == 0 {
		return nil
	}
	return s.sleep(ctx, s.cfg.Seed.EventSettle)
}

// createSessions adds one or two sessions to ev, each with one randomly chosen
// speaker. Skipped when no speaker profiles were resolved.
func (s *Seeder) createSessions(ctx context.Context, r *run, ev *models.Event, w window) error {
	if !s.cfg.Seed.Sessions || len(r.profiles) == 0 {
		return nil
	}

	for _, sw := range sessionWindows(s.rng, w, between(s.rng, 1, 2)) {
		sess, err := s.api.CreateSession(ctx, r.admin.Token, ev.ID, models.CreateSessionRequest{
			Title:       s.sessionTitle(),
			Description: s.eventDescription(),
			StartsAt:    sw.Start,
			EndsAt:      sw.End,
			Stage:       s.stageName(),
		})
		if interrupted(ctx, err) {
			return ctx.Err()
		}
		if err != nil {
			s.logFailure("Failed to create session", err, zap.String("event", ev.Name))
			continue
		}
		r.summary.Sessions++

		speaker := pick(s.rng, r.profiles)
		_, err = s.api.AssignSessionSpeaker(ctx, r.admin.Token, ev.ID, sess.ID, speaker.ID)
		if interrupted(ctx, err) {
			return ctx.Err()
		}
		if err != nil {
			s.logFailure("Failed to assign session speaker", err,
				zap.String("session", sess.Title), zap.String("speaker", speaker.Email))
			continue
		}

		r.summary.SessionSpeakers++
		r.sessions = append(r.sessions, assignment{
			SessionID:  sess.ID,
			SpeakerID:  speaker.ID,
			EventID:    ev.ID,
			EventStart: ev.BookingStartDate,
		})
	}
	return nil
}

// publishedEvents filters events to those open for bookings and invitations.
func publishedEvents(events []models.Event) []models.Event {
	var out []models.Event
	for _, ev := range events {
		if ev.IsPublished() {
			out = append(out, ev)
		}
	}
	return out
}
