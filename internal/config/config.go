package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	API     APIConfig
	Admin   AdminConfig
	Seed    SeedConfig
	Log     LogConfig
	Sandbox SandboxConfig
}

type APIConfig struct {
	AuthURL    string
	EventURL   string
	BookingURL string
	SpeakerURL string
	Timeout    time.Duration
}

type AdminConfig struct {
	Email    string
	Password string
}

type SeedConfig struct {
	Speakers int
	Users    int
	Events   int

	Backdate           bool
	Sessions           bool
	InvitationMessages bool
	AcceptRatio        float64
	RandomSeed         uint64

	PropagationWait  time.Duration
	EventSettle      time.Duration
	ProfileWait      time.Duration
	InvitationSettle time.Duration
	ItemDelay        time.Duration

	AssumeYes bool
	Progress  bool
}

type LogConfig struct {
	Level  string
	Format string
}

type SandboxConfig struct {
	Addr         string
	JWTSecret    string
	ProfileDelay time.Duration
	GinMode      string
}

func New() *Config {
	cfg := &Config{
		API: APIConfig{
			AuthURL:    trimURL(getEnv("AUTH_API_URL", "http://localhost/api/auth")),
			EventURL:   trimURL(getEnv("EVENT_API_URL", "http://localhost/api/event")),
			BookingURL: trimURL(getEnv("BOOKING_API_URL", "http://localhost/api/booking")),
			SpeakerURL: trimURL(getEnv("SPEAKER_API_URL", "http://localhost/api/speakers")),
			Timeout:    getEnvDuration("SEED_HTTP_TIMEOUT", 10*time.Second),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@eventmanagement.com"),
			Password: getEnv("ADMIN_PASSWORD", "Admin123!"),
		},
		Seed: SeedConfig{
			Speakers:           getEnvInt("SEED_SPEAKERS", 5),
			Users:              getEnvInt("SEED_USERS", 10),
			Events:             getEnvInt("SEED_EVENTS", 8),
			Backdate:           getEnvBool("SEED_BACKDATE", false),
			Sessions:           getEnvBool("SEED_SESSIONS", true),
			InvitationMessages: getEnvBool("SEED_INVITATION_MESSAGES", true),
			AcceptRatio:        getEnvFloat("SEED_ACCEPT_RATIO", 0.7),
			RandomSeed:         getEnvUint("SEED_RANDOM_SEED", 0),
			PropagationWait:    getEnvDuration("SEED_PROPAGATION_WAIT", 5*time.Second),
			EventSettle:        getEnvDuration("SEED_EVENT_SETTLE", 2*time.Second),
			ProfileWait:        getEnvDuration("SEED_PROFILE_WAIT", 3*time.Second),
			InvitationSettle:   getEnvDuration("SEED_INVITATION_SETTLE", time.Second),
			ItemDelay:          getEnvDuration("SEED_ITEM_DELAY", 200*time.Millisecond),
			AssumeYes:          getEnvBool("SEED_ASSUME_YES", false),
			Progress:           getEnvBool("SEED_PROGRESS", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Sandbox: SandboxConfig{
			Addr:         getEnv("SANDBOX_ADDR", ":8090"),
			JWTSecret:    getEnv("SANDBOX_JWT_SECRET", "sandbox-secret"),
			ProfileDelay: getEnvDuration("SANDBOX_PROFILE_DELAY", 2*time.Second),
			GinMode:      getEnv("GIN_MODE", "release"),
		},
	}

	// Zero means "pick one"; the chosen value is logged so a run can be replayed.
	if cfg.Seed.RandomSeed == 0 {
		cfg.Seed.RandomSeed = uint64(time.Now().UnixNano())
	}
	if cfg.Seed.AcceptRatio < 0 || cfg.Seed.AcceptRatio > 1 {
		cfg.Seed.AcceptRatio = 0.7
	}

	return cfg
}

// PlatformURL is the gateway root that serves /api/invitations, /api/materials
// and /api/messages. It is derived from the speaker service URL.
func (c APIConfig) PlatformURL() string {
	return strings.TrimSuffix(c.SpeakerURL, "/api/speakers")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil && v >= 0 {
		return v
	}
	return defaultValue
}

func getEnvUint(key string, defaultValue uint64) uint64 {
	if v, err := strconv.ParseUint(getEnv(key, ""), 10, 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil && v >= 0 {
		return v
	}
	return defaultValue
}

func trimURL(u string) string {
	return strings.TrimRight(u, "/")
}
