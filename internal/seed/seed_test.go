package seed_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ems-seeder/internal/client"
	"ems-seeder/internal/config"
	"ems-seeder/internal/models"
	"ems-seeder/internal/sandbox"
	"ems-seeder/internal/seed"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2025, 6, 2, 8, 30, 0, 0, time.Local)

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		API: config.APIConfig{
			AuthURL:    baseURL + "/api/auth",
			EventURL:   baseURL + "/api/event",
			BookingURL: baseURL + "/api/booking",
			SpeakerURL: baseURL + "/api/speakers",
			Timeout:    5 * time.Second,
		},
		Admin: config.AdminConfig{
			Email:    "admin@eventmanagement.com",
			Password: "Admin123!",
		},
		Seed: config.SeedConfig{
			Speakers:           5,
			Users:              10,
			Events:             8,
			Sessions:           true,
			InvitationMessages: true,
			AcceptRatio:        0.7,
			RandomSeed:         42,
		},
	}
}

type env struct {
	cfg     *config.Config
	sandbox *sandbox.Server
	out     *bytes.Buffer
	prompts []string
	// log replaces the test logger when set.
	log *zap.Logger
}

// newSandbox serves a fresh sandbox. wrap, when set, sits in front of the
// sandbox handler so a test can replace individual responses.
func newSandbox(t *testing.T, wrap func(http.Handler) http.Handler) (*sandbox.Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv, err := sandbox.New(sandbox.Options{BcryptCost: bcrypt.MinCost}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	handler := srv.Handler()
	if wrap != nil {
		handler = wrap(handler)
	}

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return srv, ts.URL
}

func newEnv(t *testing.T, mutate func(*config.Config)) *env {
	t.Helper()
	return newWrappedEnv(t, nil, mutate)
}

func newWrappedEnv(t *testing.T, wrap func(http.Handler) http.Handler, mutate func(*config.Config)) *env {
	t.Helper()

	srv, url := newSandbox(t, wrap)
	e := &env{cfg: testConfig(url), sandbox: srv, out: &bytes.Buffer{}}
	if mutate != nil {
		mutate(e.cfg)
	}
	return e
}

func (e *env) run(t *testing.T, ctx context.Context) (*seed.Summary, error) {
	t.Helper()

	log := e.log
	if log == nil {
		log = zaptest.NewLogger(t)
	}

	s := seed.New(e.cfg, client.New(e.cfg), log,
		seed.WithOutput(e.out),
		seed.WithClock(func() time.Time { return fixedNow }),
		seed.WithSleeper(noSleep),
		seed.WithConfirm(func(prompt string) bool {
			e.prompts = append(e.prompts, prompt)
			return false
		}),
	)
	return s.Run(ctx)
}

func TestRunPopulatesSandbox(t *testing.T) {
	e := newEnv(t, nil)

	sum, err := e.run(t, context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, sum.Speakers())
	assert.Equal(t, 10, sum.Users())
	assert.Equal(t, 15, sum.UsersActivated)
	assert.Equal(t, 5, sum.ProfilesFound)
	assert.Equal(t, 8, sum.Events)
	assert.Zero(t, sum.EventFailures)
	assert.False(t, sum.GatewayErrors)

	st := e.sandbox.Stats()
	assert.Equal(t, 16, st.Users)
	assert.Equal(t, 16, st.ActiveUsers)
	assert.Equal(t, 8, st.PublishedEvents)
	assert.Equal(t, sum.Sessions, st.Sessions)
	assert.Equal(t, sum.SessionSpeakers, st.SessionSpeakers)
	assert.GreaterOrEqual(t, st.Sessions, 8)
	assert.LessOrEqual(t, st.Sessions, 16)

	snap := e.sandbox.Snapshot()

	perUser := map[string]int{}
	for _, b := range snap.Bookings {
		perUser[b.UserID]++
	}
	assert.Len(t, perUser, 10)
	for _, n := range perUser {
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 4)
	}
	assert.Equal(t, sum.Bookings, st.Bookings)

	published := map[string]bool{}
	for _, ev := range snap.Events {
		published[ev.ID] = ev.IsPublished()
	}
	assert.GreaterOrEqual(t, st.Invitations, 5*2)
	assert.LessOrEqual(t, st.Invitations, 5*4)
	for _, inv := range snap.Invitations {
		assert.True(t, published[inv.EventID])
		assert.NotEqual(t, models.InvitationPending, inv.Status)
	}
	assert.Equal(t, sum.Invitations, sum.Accepted+sum.Declined)
	assert.Equal(t, st.AcceptedInvitations, sum.Accepted)
	assert.Equal(t, sum.Invitations, sum.MessagesRead)

	assert.GreaterOrEqual(t, st.Materials, 5)
	assert.LessOrEqual(t, st.Materials, 15)
	for _, m := range snap.Materials {
		assert.Regexp(t, `^presentation-[0-9a-f-]{36}\.pdf$`, m.FileName)
	}
	assert.Equal(t, st.Materials, st.StoredFiles)
	assert.Equal(t, sum.InvitationMessages+sum.Messages, st.Messages)

	assert.Contains(t, e.out.String(), "Seeding Summary")
	assert.Contains(t, e.out.String(), "speaker{N}@test.com")
	assert.Empty(t, e.prompts)
}

func TestRunIsDeterministicForSeed(t *testing.T) {
	type shape struct {
		Name, Category string
		Start, End     time.Time
	}
	collect := func() ([]shape, *seed.Summary) {
		e := newEnv(t, nil)
		sum, err := e.run(t, context.Background())
		require.NoError(t, err)

		var out []shape
		for _, ev := range e.sandbox.Snapshot().Events {
			out = append(out, shape{ev.Name, ev.Category, ev.BookingStartDate, ev.BookingEndDate})
		}
		return out, sum
	}

	a, sumA := collect()
	b, sumB := collect()

	require.Len(t, a, 8)
	for i := range a {
		assert.Equal(t, a[i].Name, b[i].Name)
		assert.Equal(t, a[i].Category, b[i].Category)
		assert.True(t, a[i].Start.Equal(b[i].Start))
		assert.True(t, a[i].End.Equal(b[i].End))
	}
	assert.Equal(t, sumA.Bookings, sumB.Bookings)
	assert.Equal(t, sumA.Invitations, sumB.Invitations)
	assert.Equal(t, sumA.Accepted, sumB.Accepted)
	assert.Equal(t, sumA.Materials, sumB.Materials)
}

func TestRerunFindsExistingAccounts(t *testing.T) {
	e := newEnv(t, nil)

	_, err := e.run(t, context.Background())
	require.NoError(t, err)

	e.cfg.Seed.RandomSeed = 7
	sum, err := e.run(t, context.Background())
	require.NoError(t, err)

	assert.Zero(t, sum.SpeakersCreated)
	assert.Zero(t, sum.UsersCreated)
	assert.Equal(t, 5, sum.SpeakersExisting)
	assert.Equal(t, 10, sum.UsersExisting)
	assert.Zero(t, sum.RegistrationFailures)

	// Events are not de-duplicated across runs.
	assert.Equal(t, 16, e.sandbox.Stats().Events)
	assert.Equal(t, 16, e.sandbox.Stats().Users)
}

func TestBackdatedRun(t *testing.T) {
	e := newEnv(t, func(c *config.Config) { c.Seed.Backdate = true })

	sum, err := e.run(t, context.Background())
	require.NoError(t, err)

	assert.Equal(t, 15, sum.UserDatesUpdated)
	assert.Equal(t, 15, sum.UsersActivated)
	assert.Equal(t, sum.Bookings, sum.BookingDatesUpdated)
	assert.Equal(t, sum.SessionSpeakers, sum.SessionSpeakerDatesUpdated)
	assert.Equal(t, sum.Materials, sum.MaterialDatesUpdated)
	assert.Zero(t, sum.BackfillFailures)

	snap := e.sandbox.Snapshot()
	starts := map[string]time.Time{}
	for _, ev := range snap.Events {
		starts[ev.ID] = ev.BookingStartDate
		assert.True(t, ev.CreatedAt.Before(fixedNow), "event created %s", ev.CreatedAt)
	}

	for _, b := range snap.Bookings {
		assert.True(t, b.CreatedAt.Before(starts[b.EventID]))
	}
	for _, m := range snap.Materials {
		if m.EventID != "" {
			assert.True(t, m.UploadDate.Before(starts[m.EventID]))
		} else {
			assert.True(t, m.UploadDate.Before(fixedNow))
		}
	}

	for _, u := range snap.Users {
		if u.IsAdmin() {
			continue
		}
		assert.True(t, u.CreatedAt.Before(fixedNow))
		require.NotNil(t, u.EmailVerified)
		assert.True(t, u.EmailVerified.After(u.CreatedAt))
		assert.Equal(t, u.CreatedAt.YearDay(), u.EmailVerified.YearDay())
	}
	assert.Contains(t, e.out.String(), "Backdated")
}

func TestRunWithoutSpeakers(t *testing.T) {
	e := newEnv(t, func(c *config.Config) { c.Seed.Speakers = 0 })

	sum, err := e.run(t, context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8, sum.Events)
	assert.Zero(t, sum.Sessions)
	assert.Zero(t, sum.Invitations)
	assert.Zero(t, sum.Materials)
	assert.Positive(t, sum.Bookings)
}

func TestRunWithoutSpeakersLogsSkippedStages(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := newEnv(t, func(c *config.Config) { c.Seed.Speakers = 0 })
	e.log = zap.New(core)

	_, err := e.run(t, context.Background())
	require.NoError(t, err)

	for _, msg := range []string{
		"No speakers registered, skipping profile lookup",
		"No speaker profiles or published events, skipping invitations",
		"No speaker profiles, skipping materials",
		"No speaker profiles, skipping messages",
	} {
		assert.Equal(t, 1, logs.FilterMessage(msg).Len(), msg)
	}
}

func TestAdminLoginFailureIsFatal(t *testing.T) {
	e := newEnv(t, func(c *config.Config) { c.Admin.Password = "wrong" })

	_, err := e.run(t, context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, seed.ErrAdminLogin)
	assert.Equal(t, 1, e.sandbox.Stats().Users)
}

func unreachableEnv(t *testing.T, mutate func(*config.Config)) *env {
	ts := httptest.NewServer(nil)
	url := ts.URL
	ts.Close()

	cfg := testConfig(url)
	if mutate != nil {
		mutate(cfg)
	}
	return &env{cfg: cfg, out: &bytes.Buffer{}}
}

func TestUnreachableAPIPromptDeclined(t *testing.T) {
	e := unreachableEnv(t, nil)

	_, err := e.run(t, context.Background())
	assert.ErrorIs(t, err, seed.ErrAborted)
	require.Len(t, e.prompts, 1)
	assert.Contains(t, e.prompts[0], "Continue anyway?")
}

func TestUnreachableAPIAssumeYes(t *testing.T) {
	e := unreachableEnv(t, func(c *config.Config) { c.Seed.AssumeYes = true })

	_, err := e.run(t, context.Background())
	assert.ErrorIs(t, err, seed.ErrAdminLogin)
	assert.Empty(t, e.prompts)

	var apiErr *client.APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Equal(t, client.KindConnection, client.Classify(err))
}

func TestCancelledRunStops(t *testing.T) {
	e := newEnv(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.run(t, ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, e.sandbox.Stats().Users)
}
