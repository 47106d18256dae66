package seed

import (
	"context"
	"fmt"

	"ems-seeder/internal/client"
	"ems-seeder/internal/models"

	"go.uber.org/zap"
)

func (s *Seeder) inviteSpeakers(ctx context.Context, r *run) error {
	published := publishedEvents(r.events)
	if len(r.profiles) == 0 || len(published) == 0 {
		s.log.Info("No speaker profiles or published events, skipping invitations")
		return nil
	}

	s.log.Info("Inviting speakers", zap.Int("speakers", len(r.profiles)), zap.Int("events", len(published)))

	lo, hi := min(2, len(published)), min(4, len(published))
	bar := s.track("Inviting speakers", len(r.profiles))
	defer bar.Done()

	for _, profile := range r.profiles {
		for _, ev := range sample(s.rng, published, between(s.rng, lo, hi)) {
			if err := s.invite(ctx, r, profile, ev); err != nil {
				return err
			}
			if err := s.pause(ctx); err != nil {
				return err
			}
		}
		bar.Incr()
	}

	s.log.Info("Invitations sent",
		zap.Int("created", r.summary.Invitations),
		zap.Int("duplicates", r.summary.InvitationDuplicates),
		zap.Int("failed", r.summary.InvitationFailures),
	)
	return nil
}

// invite creates one invitation and, when enabled, the inbox message that
// goes with it. Only cancellation is returned.
func (s *Seeder) invite(ctx context.Context, r *run, profile models.SpeakerProfile, ev models.Event) error {
	text := fmt.Sprintf("You have been invited to speak at %s.", ev.Name)

	_, err := s.api.CreateInvitation(ctx, r.admin.Token, models.CreateInvitationRequest{
		SpeakerID: profile.ID,
		EventID:   ev.ID,
		Message:   text,
	})
	if interrupted(ctx, err) {
		return ctx.Err()
	}
	switch {
	case client.IsAlreadyExists(err):
		r.summary.InvitationDuplicates++
		s.log.Info("Invitation already exists", zap.String("speaker", profile.Email), zap.String("event", ev.Name))
		return nil
	case err != nil:
		r.summary.InvitationFailures++
		s.logFailure("Failed to invite "+profile.Email, err, zap.String("event", ev.Name))
		return nil
	}

	r.summary.Invitations++
	s.log.Info("Invited speaker", zap.String("speaker", profile.Email), zap.String("event", ev.Name))

	if !s.cfg.Seed.InvitationMessages {
		return nil
	}

	_, err = s.api.SendMessage(ctx, r.admin.Token, models.SendMessageRequest{
		FromUserID: r.admin.UserID,
		ToUserID:   profile.UserID,
		Subject:    "Speaking invitation: " + ev.Name,
		Content:    text,
		EventID:    ev.ID,
	})
	if interrupted(ctx, err) {
		return ctx.Err()
	}
	if err != nil {
		s.logFailure("Failed to send invitation message to "+profile.Email, err)
		return nil
	}
	r.summary.InvitationMessages++
	return nil
}

func (s *Seeder) respondToInvitations(ctx context.Context, r *run) error {
	if r.summary.Invitations == 0 {
		return nil
	}

	if err := s.sleep(ctx, s.cfg.Seed.InvitationSettle); err != nil {
		return err
	}

	bar := s.track("Answering invitations", len(r.speakers))
	defer bar.Done()

	for _, acct := range r.speakers {
		err := s.answerPending(ctx, r, acct)
		if interrupted(ctx, err) {
			return ctx.Err()
		}
		bar.Incr()
		if err != nil {
			s.logFailure("Failed to process invitations for "+acct.Email, err)
		}

		if err := s.pause(ctx); err != nil {
			return err
		}
	}

	s.log.Info("Invitations answered",
		zap.Int("accepted", r.summary.Accepted),
		zap.Int("declined", r.summary.Declined),
	)
	return nil
}

// answerPending acts as one speaker: it reads the invitation messages and
// accepts or declines each pending invitation.
func (s *Seeder) answerPending(ctx context.Context, r *run, acct models.Account) error {
	profile, err := s.speakerSession(ctx, acct)
	if err != nil {
		return err
	}
	if profile == nil {
		s.log.Info("Speaker profile not yet created", zap.String("email", acct.Email))
		return nil
	}

	pending, err := s.api.SpeakerInvitations(ctx, profile.Token, profile.ID, models.InvitationPending)
	if err != nil {
		return err
	}
	s.log.Info("Pending invitations", zap.String("email", acct.Email), zap.Int("count", len(pending)))
	if len(pending) == 0 {
		return nil
	}

	var inbox []models.Message
	if s.cfg.Seed.InvitationMessages {
		inbox, err = s.api.Inbox(ctx, profile.Token, profile.UserID)
		if interrupted(ctx, err) {
			return err
		}
		if err != nil {
			s.logFailure("Failed to read inbox for "+acct.Email, err)
		}
	}

	for _, inv := range pending {
		if err := s.readInvitationMessage(ctx, r, profile, inbox, inv.EventID); err != nil {
			return err
		}

		status := models.InvitationDeclined
		if chance(s.rng, s.cfg.Seed.AcceptRatio) {
			status = models.InvitationAccepted
		}

		err := s.api.RespondInvitation(ctx, profile.Token, inv.ID, status)
		if interrupted(ctx, err) {
			return err
		}
		if err != nil {
			s.logFailure("Failed to respond to invitation", err, zap.String("email", acct.Email), zap.String("invitation", inv.ID))
			continue
		}

		if status == models.InvitationAccepted {
			r.summary.Accepted++
		} else {
			r.summary.Declined++
		}
		s.log.Info("Answered invitation",
			zap.String("email", acct.Email),
			zap.String("event_id", inv.EventID),
			zap.String("status", string(status)),
		)
	}
	return nil
}

// readInvitationMessage marks the unread inbox message about eventID as read.
func (s *Seeder) readInvitationMessage(ctx context.Context, r *run, profile *models.SpeakerProfile, inbox []models.Message, eventID string) error {
	for i := range inbox {
		m := &inbox[i]
		if m.EventID != eventID || m.IsRead() {
			continue
		}

		err := s.api.MarkMessageRead(ctx, profile.Token, m.ID)
		if interrupted(ctx, err) {
			return err
		}
		if err != nil {
			s.logFailure("Failed to mark message read", err, zap.String("message", m.ID))
			return nil
		}
		m.Status = models.MessageRead
		r.summary.MessagesRead++
		return nil
	}
	return nil
}
