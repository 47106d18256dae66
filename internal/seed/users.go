package seed

import (
	"context"
	"net/http"
	"time"

	"ems-seeder/internal/client"
	"ems-seeder/internal/models"

	"go.uber.org/zap"
)

type registration int

const (
	registered registration = iota
	alreadyExists
	registrationFailed
)

func (s *Seeder) registerAccounts(ctx context.Context, r *run) error {
	s.log.Info("Registering speakers and users",
		zap.Int("speakers", s.cfg.Seed.Speakers),
		zap.Int("users", s.cfg.Seed.Users),
	)

	creds := make([]models.Credential, 0, s.cfg.Seed.Speakers+s.cfg.Seed.Users)
	for i := 1; i <= s.cfg.Seed.Speakers; i++ {
		creds = append(creds, models.SpeakerCredential(i))
	}
	for i := 1; i <= s.cfg.Seed.Users; i++ {
		creds = append(creds, models.UserCredential(i))
	}

	bar := s.track("Registering", len(creds))
	defer bar.Done()

	sum := r.summary
	for _, cred := range creds {
		acct, outcome, err := s.register(ctx, cred)
		if interrupted(ctx, err) {
			return ctx.Err()
		}
		bar.Incr()

		if client.StatusCode(err) == http.StatusBadGateway {
			sum.GatewayErrors = true
		}

		switch outcome {
		case registered:
			if cred.Role == models.RoleSpeaker {
				sum.SpeakersCreated++
			} else {
				sum.UsersCreated++
			}
		case alreadyExists:
			if cred.Role == models.RoleSpeaker {
				sum.SpeakersExisting++
			} else {
				sum.UsersExisting++
			}
		case registrationFailed:
			sum.RegistrationFailures++
			continue
		}

		if cred.Role == models.RoleSpeaker {
			r.speakers = append(r.speakers, acct)
		} else {
			r.users = append(r.users, acct)
		}

		if err := s.pause(ctx); err != nil {
			return err
		}
	}

	s.log.Info("Registration complete",
		zap.Int("speakers", len(r.speakers)),
		zap.Int("users", len(r.users)),
		zap.Int("failed", sum.RegistrationFailures),
	)
	return nil
}

// register creates the account. When it already exists a login resolves its
// id; that fails for accounts not activated yet and leaves UserID empty.
func (s *Seeder) register(ctx context.Context, cred models.Credential) (models.Account, registration, error) {
	acct := models.Account{Credential: cred}

	user, err := s.api.Register(ctx, cred)
	if err == nil {
		acct.UserID = user.ID
		s.log.Info("Registered account", zap.String("email", cred.Email), zap.String("role", string(cred.Role)))
		return acct, registered, nil
	}

	if !client.IsAlreadyExists(err) {
		if !interrupted(ctx, err) {
			s.logFailure("Failed to register "+cred.Email, err)
		}
		return acct, registrationFailed, err
	}

	session, lerr := s.api.Login(ctx, cred.Email, cred.Password)
	if lerr != nil {
		s.log.Info("Account already exists, id unresolved", zap.String("email", cred.Email), zap.Error(lerr))
		return acct, alreadyExists, nil
	}
	acct.UserID = session.UserID
	s.log.Info("Account already exists", zap.String("email", cred.Email), zap.String("user_id", acct.UserID))
	return acct, alreadyExists, nil
}

func (s *Seeder) backfillUserDates(ctx context.Context, r *run) error {
	if !s.cfg.Seed.Backdate {
		return nil
	}

	accounts := r.accounts()
	if len(accounts) == 0 {
		return nil
	}
	s.log.Info("Backdating account creation", zap.Int("accounts", len(accounts)))

	created := s.dates.Pad(s.dates.UserCreationDates(len(accounts), 60), len(accounts))
	for i := range accounts {
		err := s.api.UpdateUserDate(ctx, r.admin.Token, accounts[i].Email, created[i])
		if interrupted(ctx, err) {
			return ctx.Err()
		}
		if err != nil {
			r.summary.BackfillFailures++
			s.logFailure("Failed to backdate "+accounts[i].Email, err)
			continue
		}
		// Only a date the server accepted may anchor the activation date.
		accounts[i].CreatedAt = created[i]
		r.summary.UserDatesUpdated++
	}

	// accounts() copied the slices; write the dates back.
	copy(r.speakers, accounts[:len(r.speakers)])
	copy(r.users, accounts[len(r.speakers):])
	return nil
}

func (s *Seeder) activateUsers(ctx context.Context, r *run) error {
	accounts := r.accounts()
	if len(accounts) == 0 {
		s.log.Info("No accounts to activate")
		return nil
	}

	if !s.cfg.Seed.Backdate {
		emails := make([]string, 0, len(accounts))
		for _, a := range accounts {
			emails = append(emails, a.Email)
		}

		resp, err := s.api.ActivateUsers(ctx, r.admin.Token, emails, nil)
		if interrupted(ctx, err) {
			return ctx.Err()
		}
		if err != nil {
			s.logFailure("Failed to activate users", err)
			return nil
		}
		r.summary.UsersActivated = resp.Activated
		s.log.Info("Activated users", zap.Int("activated", resp.Activated), zap.Int("not_found", resp.NotFound))
		return nil
	}

	created := make([]time.Time, 0, len(accounts))
	for _, a := range accounts {
		created = append(created, a.CreatedAt)
	}
	activated := s.dates.ActivationDates(created)

	for i, a := range accounts {
		// Accounts whose creation date was not backfilled activate at server time.
		var at *time.Time
		if !a.CreatedAt.IsZero() {
			at = &activated[i]
		}
		resp, err := s.api.ActivateUsers(ctx, r.admin.Token, []string{a.Email}, at)
		if interrupted(ctx, err) {
			return ctx.Err()
		}
		if err != nil {
			s.logFailure("Failed to activate "+a.Email, err)
			continue
		}
		r.summary.UsersActivated += resp.Activated
	}

	s.log.Info("Activated users with backdated timestamps", zap.Int("activated", r.summary.UsersActivated))
	return nil
}
