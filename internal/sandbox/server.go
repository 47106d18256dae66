// Package sandbox is an in-memory stand-in for the event-management platform.
// It serves the auth, event, booking, speaker, invitation, material and
// message endpoints under the same gateway prefixes as the real services.
package sandbox

import (
	"net/http"
	"sync"
	"time"

	"ems-seeder/internal/models"
	"ems-seeder/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Options struct {
	JWTSecret     string
	AdminEmail    string
	AdminPassword string
	// ProfileDelay is how long after a SPEAKER registers its profile shows
	// up. Zero creates it synchronously.
	ProfileDelay time.Duration
	BcryptCost   int
	Now          func() time.Time
}

type Server struct {
	opts   Options
	store  *store
	files  *storage.MemoryStorage
	logger *zap.Logger
	router *gin.Engine

	wg   sync.WaitGroup
	done chan struct{}
	once sync.Once
}

func New(opts Options, logger *zap.Logger) (*Server, error) {
	if opts.JWTSecret == "" {
		opts.JWTSecret = "sandbox-secret"
	}
	if opts.AdminEmail == "" {
		opts.AdminEmail = "admin@eventmanagement.com"
	}
	if opts.AdminPassword == "" {
		opts.AdminPassword = "Admin123!"
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		opts:   opts,
		store:  newStore(),
		files:  storage.NewMemoryStorage("materials"),
		logger: logger,
		done:   make(chan struct{}),
	}

	if err := s.seedFixtures(); err != nil {
		return nil, err
	}

	s.router = gin.New()
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes()

	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Stats() Stats {
	st := s.store.stats()
	st.StoredFiles = s.files.Len()
	return st
}

func (s *Server) Snapshot() Snapshot {
	return s.store.snapshot()
}

// Close stops pending profile creations and waits for them to exit.
func (s *Server) Close() {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
}

func (s *Server) seedFixtures() error {
	hash, err := bcrypt.GenerateFromPassword([]byte(s.opts.AdminPassword), s.opts.BcryptCost)
	if err != nil {
		return err
	}

	now := s.opts.Now()
	admin := &userRecord{
		User: models.User{
			ID:            uuid.NewString(),
			Email:         s.opts.AdminEmail,
			Name:          "System Admin",
			Role:          models.RoleAdmin,
			IsActive:      true,
			EmailVerified: ptr(now),
			CreatedAt:     now,
		},
		PasswordHash: hash,
	}
	s.store.usersByEmail[admin.Email] = admin
	s.store.usersByID[admin.ID] = admin

	for _, v := range []models.Venue{
		{Name: "Grand Hall", Address: "1 Main Street", Capacity: 200, OpeningTime: "09:00", ClosingTime: "22:00"},
		{Name: "Tech Hub", Address: "42 Innovation Way", Capacity: 50, OpeningTime: "08:00", ClosingTime: "18:00"},
		{Name: "Riverside Pavilion", Address: "7 Quay Road", Capacity: 120, OpeningTime: "10:00", ClosingTime: "24:00"},
	} {
		v.ID = uuid.NewString()
		s.store.addVenue(v)
	}

	return nil
}

func (s *Server) setupRoutes() {
	r := s.router

	auth := r.Group("/api/auth")
	{
		auth.GET("/health", s.health)
		auth.POST("/register", s.register)
		auth.POST("/login", s.login)

		admin := auth.Group("/admin", s.authRequired(), s.requireRole(models.RoleAdmin))
		admin.POST("/activate-users", s.activateUsers)
		admin.POST("/seed/update-user-date", s.updateUserDate)
	}

	events := r.Group("/api/event", s.authRequired())
	{
		events.GET("/venues/all", s.listVenues)

		admin := events.Group("/admin", s.requireRole(models.RoleAdmin))
		admin.POST("/admin/events", s.createEvent)
		admin.POST("/admin/seed/create-event", s.createEvent)
		admin.POST("/admin/events/:id/sessions", s.createSession)
		admin.POST("/admin/events/:id/sessions/:sessionId/speakers", s.assignSessionSpeaker)
		admin.POST("/seed/update-session-speaker-date", s.updateSessionSpeakerDate)
	}

	bookings := r.Group("/api/booking", s.authRequired())
	{
		bookings.POST("/bookings", s.createBooking)
		bookings.POST("/admin/seed/update-booking-date", s.requireRole(models.RoleAdmin), s.updateBookingDate)
	}

	speakers := r.Group("/api/speakers", s.authRequired())
	{
		speakers.GET("/profile/me", s.profileMe)
	}

	invitations := r.Group("/api/invitations", s.authRequired())
	{
		invitations.POST("", s.requireRole(models.RoleAdmin), s.createInvitation)
		invitations.PUT("/:id/respond", s.respondInvitation)
		invitations.GET("/speaker/:speakerId", s.speakerInvitations)
	}

	materials := r.Group("/api/materials", s.authRequired())
	{
		materials.POST("/upload", s.uploadMaterial)
		materials.POST("/seed/update-material-date", s.requireRole(models.RoleAdmin), s.updateMaterialDate)
	}

	r.GET("/storage/v1/object/public/:bucket/:key", s.downloadFile)

	messages := r.Group("/api/messages", s.authRequired())
	{
		messages.POST("", s.sendMessage)
		messages.PUT("/:id/read", s.markMessageRead)
		messages.GET("/inbox/:userId", s.inbox)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "auth",
	})
}

func respond[T any](c *gin.Context, status int, data T) {
	c.JSON(status, models.Envelope[T]{Success: true, Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{Error: msg})
}
