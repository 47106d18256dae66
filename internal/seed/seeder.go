// Package seed drives the platform's REST services through a fixed sequence
// of stages to populate a demo environment.
package seed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"ems-seeder/internal/client"
	"ems-seeder/internal/config"
	"ems-seeder/internal/models"
	"ems-seeder/internal/timeline"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
)

var (
	ErrAdminLogin = errors.New("admin login failed")
	ErrAborted    = errors.New("seeding aborted by operator")
)

type Seeder struct {
	cfg *config.Config
	api *client.Client
	log *zap.Logger

	out     io.Writer
	confirm func(prompt string) bool
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error

	rng   *rand.Rand
	faker *gofakeit.Faker
	dates *timeline.Generator
}

type Option func(*Seeder)

// WithOutput sets where the summary report is written.
func WithOutput(w io.Writer) Option {
	return func(s *Seeder) { s.out = w }
}

// WithConfirm replaces the interactive y/N prompt.
func WithConfirm(fn func(prompt string) bool) Option {
	return func(s *Seeder) { s.confirm = fn }
}

func WithClock(now func() time.Time) Option {
	return func(s *Seeder) { s.now = now }
}

func WithSleeper(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Seeder) { s.sleep = fn }
}

func New(cfg *config.Config, api *client.Client, log *zap.Logger, opts ...Option) *Seeder {
	s := &Seeder{
		cfg:     cfg,
		api:     api,
		log:     log,
		out:     os.Stdout,
		confirm: stdinConfirm,
		now:     time.Now,
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}

	seed := cfg.Seed.RandomSeed
	s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	s.faker = gofakeit.New(seed)
	s.dates = timeline.NewGenerator(s.rng, s.now)

	return s
}

// run carries what earlier stages produced to later ones.
type run struct {
	admin     *models.AuthSession
	speakers  []models.Account
	users     []models.Account
	profiles  []models.SpeakerProfile
	events    []models.Event
	sessions  []assignment
	bookings  []datedEntity
	materials []datedEntity
	summary   *Summary
}

// assignment is a session-speaker pair and the start of its event.
type assignment struct {
	SessionID  string
	SpeakerID  string
	EventID    string
	EventStart time.Time
}

// datedEntity is a created booking or material awaiting a backdated timestamp.
// EventID is empty for materials not tied to an event.
type datedEntity struct {
	ID         string
	EventID    string
	EventStart time.Time
}

func (r *run) accounts() []models.Account {
	all := make([]models.Account, 0, len(r.speakers)+len(r.users))
	all = append(all, r.speakers...)
	return append(all, r.users...)
}

// Run executes every stage in order and prints the summary. Only a failed
// admin login, a declined connectivity prompt or cancellation of ctx end the
// run early; per-item failures are logged and counted.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	r := &run{summary: &Summary{
		AdminEmail: s.cfg.Admin.Email,
		Backdated:  s.cfg.Seed.Backdate,
		RandomSeed: s.cfg.Seed.RandomSeed,
	}}

	s.log.Info("Starting seed run",
		zap.Uint64("seed", s.cfg.Seed.RandomSeed),
		zap.Bool("backdate", s.cfg.Seed.Backdate),
		zap.Int("speakers", s.cfg.Seed.Speakers),
		zap.Int("users", s.cfg.Seed.Users),
		zap.Int("events", s.cfg.Seed.Events),
	)

	if err := s.checkConnectivity(ctx); err != nil {
		return r.summary, err
	}

	admin, err := s.loginAdmin(ctx)
	if err != nil {
		return r.summary, err
	}
	r.admin = admin

	stages := []struct {
		name string
		fn   func(context.Context, *run) error
	}{
		{"register accounts", s.registerAccounts},
		{"backfill user dates", s.backfillUserDates},
		{"propagation wait", s.waitForPropagation},
		{"activate users", s.activateUsers},
		{"resolve speaker profiles", s.resolveProfiles},
		{"create events", s.createEvents},
		{"create bookings", s.createBookings},
		{"invite speakers", s.inviteSpeakers},
		{"respond to invitations", s.respondToInvitations},
		{"upload materials", s.uploadMaterials},
		{"send messages", s.sendMessages},
		{"backfill entity dates", s.backfillEntityDates},
	}

	for _, stage := range stages {
		if err := stage.fn(ctx, r); err != nil {
			return r.summary, fmt.Errorf("%s: %w", stage.name, err)
		}
	}

	r.summary.Print(s.out)
	return r.summary, nil
}

func (s *Seeder) loginAdmin(ctx context.Context) (*models.AuthSession, error) {
	s.log.Info("Logging in as admin", zap.String("email", s.cfg.Admin.Email))

	session, err := s.api.Login(ctx, s.cfg.Admin.Email, s.cfg.Admin.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAdminLogin, err)
	}
	if session.UserID == "" {
		return nil, fmt.Errorf("%w: no user id in login response", ErrAdminLogin)
	}

	s.log.Info("Admin authenticated", zap.String("user_id", session.UserID))
	return session, nil
}

func (s *Seeder) waitForPropagation(ctx context.Context, r *run) error {
	if len(r.speakers)+len(r.users) == 0 {
		return nil
	}
	s.log.Info("Waiting for user events to propagate", zap.Duration("wait", s.cfg.Seed.PropagationWait))
	return s.sleep(ctx, s.cfg.Seed.PropagationWait)
}

// pause is the small jittered delay between per-item calls.
func (s *Seeder) pause(ctx context.Context) error {
	base := s.cfg.Seed.ItemDelay
	if base <= 0 {
		return ctx.Err()
	}
	jitter := time.Duration(s.rng.Int64N(int64(base)/2 + 1))
	return s.sleep(ctx, base+jitter)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func stdinConfirm(prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
