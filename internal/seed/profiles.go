package seed

import (
	"context"

	"ems-seeder/internal/client"
	"ems-seeder/internal/models"

	"go.uber.org/zap"
)

// speakerSession logs a speaker in and fetches their profile. A nil profile
// with a nil error means the profile has not been created yet.
func (s *Seeder) speakerSession(ctx context.Context, acct models.Account) (*models.SpeakerProfile, error) {
	session, err := s.api.Login(ctx, acct.Email, acct.Password)
	if err != nil {
		return nil, err
	}

	profile, err := s.api.SpeakerProfile(ctx, session.Token, session.UserID)
	if client.Classify(err) == client.KindNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	profile.UserID = session.UserID
	profile.Email = acct.Email
	profile.Token = session.Token
	return profile, nil
}

func (s *Seeder) resolveProfiles(ctx context.Context, r *run) error {
	if len(r.speakers) == 0 {
		s.log.Info("No speakers registered, skipping profile lookup")
		return nil
	}

	s.log.Info("Waiting for speaker profiles", zap.Duration("wait", s.cfg.Seed.ProfileWait))
	if err := s.sleep(ctx, s.cfg.Seed.ProfileWait); err != nil {
		return err
	}

	for _, acct := range r.speakers {
		profile, err := s.speakerSession(ctx, acct)
		if interrupted(ctx, err) {
			return ctx.Err()
		}

		switch {
		case err != nil:
			s.logFailure("Failed to look up speaker profile for "+acct.Email, err)
		case profile == nil:
			s.log.Info("Speaker profile not yet created", zap.String("email", acct.Email))
		default:
			r.profiles = append(r.profiles, *profile)
			s.log.Info("Found speaker profile", zap.String("email", acct.Email), zap.String("profile_id", profile.ID))
		}

		if err := s.pause(ctx); err != nil {
			return err
		}
	}

	r.summary.ProfilesFound = len(r.profiles)
	if len(r.profiles) == 0 {
		s.log.Warn("No speaker profiles found; sessions, invitations and materials will be skipped")
	}
	return nil
}
