package seed

import (
	"context"
	"time"

	"ems-seeder/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// placeholderPDF is the smallest document PDF readers accept.
var placeholderPDF = []byte(`%PDF-1.4
1 0 obj
<< /Type /Catalog /Pages 2 0 R >>
endobj
2 0 obj
<< /Type /Pages /Kids [3 0 R] /Count 1 >>
endobj
3 0 obj
<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>
endobj
xref
0 4
0000000000 65535 f
0000000009 00000 n
0000000058 00000 n
0000000115 00000 n
trailer
<< /Size 4 /Root 1 0 R >>
startxref
174
%%EOF`)

const taggedMaterialRatio = 0.6

var (
	messageSubjects = []string{
		"Welcome to EventManager!",
		"Important Event Information",
		"Reminder: Upcoming Speaking Engagement",
		"Event Schedule Update",
		"Thank you for your participation",
	}
	messageContents = []string{
		"We're excited to have you on board as a speaker!",
		"Please review the event details and prepare your materials.",
		"This is a reminder about your upcoming event.",
		"There has been a schedule update for your event.",
		"Thank you for your contribution to our events!",
	}
)

// acceptedEvents returns the ids of events the speaker accepted.
func (s *Seeder) acceptedEvents(ctx context.Context, r *run, profile models.SpeakerProfile) []string {
	invitations, err := s.api.SpeakerInvitations(ctx, r.admin.Token, profile.ID, "")
	if err != nil {
		if !interrupted(ctx, err) {
			s.logFailure("Failed to list invitations for "+profile.Email, err)
		}
		return nil
	}

	var ids []string
	for _, inv := range invitations {
		if inv.Status == models.InvitationAccepted {
			ids = append(ids, inv.EventID)
		}
	}
	return ids
}

func (s *Seeder) uploadMaterials(ctx context.Context, r *run) error {
	if len(r.profiles) == 0 {
		s.log.Info("No speaker profiles, skipping materials")
		return nil
	}

	starts := make(map[string]time.Time, len(r.events))
	for _, ev := range r.events {
		starts[ev.ID] = ev.BookingStartDate
	}

	bar := s.track("Uploading materials", len(r.profiles))
	defer bar.Done()

	for _, profile := range r.profiles {
		accepted := s.acceptedEvents(ctx, r, profile)
		if err := ctx.Err(); err != nil {
			return err
		}

		for range between(s.rng, 1, 3) {
			var eventID string
			if len(accepted) > 0 && chance(s.rng, taggedMaterialRatio) {
				eventID = pick(s.rng, accepted)
			}

			name := "presentation-" + uuid.NewString() + ".pdf"
			m, err := s.api.UploadMaterial(ctx, profile.Token, profile.ID, eventID, name, placeholderPDF)
			if interrupted(ctx, err) {
				return ctx.Err()
			}
			if err != nil {
				s.logFailure("Failed to upload material for "+profile.Email, err)
				continue
			}

			r.summary.Materials++
			r.materials = append(r.materials, datedEntity{
				ID:         m.ID,
				EventID:    eventID,
				EventStart: starts[eventID],
			})
			s.log.Info("Uploaded material", zap.String("email", profile.Email), zap.String("file", name), zap.String("event_id", eventID))

			if err := s.pause(ctx); err != nil {
				return err
			}
		}
		bar.Incr()
	}
	return nil
}

func (s *Seeder) sendMessages(ctx context.Context, r *run) error {
	if len(r.profiles) == 0 {
		s.log.Info("No speaker profiles, skipping messages")
		return nil
	}

	for _, profile := range r.profiles {
		for range between(s.rng, 0, 2) {
			subject := pick(s.rng, messageSubjects)
			_, err := s.api.SendMessage(ctx, r.admin.Token, models.SendMessageRequest{
				FromUserID: r.admin.UserID,
				ToUserID:   profile.UserID,
				Subject:    subject,
				Content:    pick(s.rng, messageContents),
			})
			if interrupted(ctx, err) {
				return ctx.Err()
			}
			if err != nil {
				s.logFailure("Failed to message "+profile.Email, err)
				continue
			}

			r.summary.Messages++
			s.log.Info("Sent message", zap.String("email", profile.Email), zap.String("subject", subject))

			if err := s.pause(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}
