package sandbox

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ems-seeder/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "user_role"
)

type claims struct {
	Role  models.Role `json:"role"`
	Email string      `json:"email"`
	jwt.RegisteredClaims
}

func (s *Server) issueToken(u *models.User) (string, error) {
	now := s.opts.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role:  u.Role,
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	})
	return token.SignedString([]byte(s.opts.JWTSecret))
}

func (s *Server) parseToken(raw string) (*claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return []byte(s.opts.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.opts.Now))
	if err != nil {
		return nil, err
	}
	if c.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return &c, nil
}

func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			fail(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		cl, err := s.parseToken(raw)
		if err != nil {
			fail(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(ctxUserID, cl.Subject)
		c.Set(ctxRole, string(cl.Role))
		c.Next()
	}
}

func (s *Server) requireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := models.Role(c.GetString(ctxRole))
		for _, role := range roles {
			if current == role {
				c.Next()
				return
			}
		}
		fail(c, http.StatusForbidden, "Insufficient permissions")
	}
}

func isAdmin(c *gin.Context) bool {
	return models.Role(c.GetString(ctxRole)) == models.RoleAdmin
}

func (s *Server) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Role == models.RoleAdmin {
		fail(c, http.StatusBadRequest, "Cannot self-register as ADMIN")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.opts.BcryptCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	email := strings.ToLower(req.Email)

	s.store.mu.Lock()
	if _, exists := s.store.usersByEmail[email]; exists {
		s.store.mu.Unlock()
		fail(c, http.StatusBadRequest, "User with this email already exists")
		return
	}
	rec := &userRecord{
		User: models.User{
			ID:        uuid.NewString(),
			Email:     email,
			Name:      req.Name,
			Role:      req.Role,
			CreatedAt: s.opts.Now(),
		},
		PasswordHash: hash,
	}
	s.store.usersByEmail[email] = rec
	s.store.usersByID[rec.ID] = rec
	user := rec.User
	s.store.mu.Unlock()

	if user.IsSpeaker() {
		s.scheduleProfile(user)
	}

	c.JSON(http.StatusCreated, models.RegisterResponse{
		User:    user,
		Message: "Registration successful. Please verify your email.",
	})
}

// scheduleProfile mimics the speaker service consuming the user-created event.
func (s *Server) scheduleProfile(u models.User) {
	create := func() {
		s.store.mu.Lock()
		defer s.store.mu.Unlock()
		if _, ok := s.store.profilesByUser[u.ID]; ok {
			return
		}
		p := &models.SpeakerProfile{
			ID:     uuid.NewString(),
			UserID: u.ID,
			Name:   u.Name,
			Email:  u.Email,
		}
		s.store.profilesByUser[u.ID] = p
		s.store.profilesByID[p.ID] = p
	}

	if s.opts.ProfileDelay <= 0 {
		create()
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		timer := time.NewTimer(s.opts.ProfileDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
			create()
		case <-s.done:
		}
	}()
}

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	s.store.mu.RLock()
	rec, ok := s.store.usersByEmail[strings.ToLower(req.Email)]
	var user models.User
	var hash []byte
	if ok {
		user, hash = rec.User, rec.PasswordHash
	}
	s.store.mu.RUnlock()

	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.IsActive {
		fail(c, http.StatusForbidden, "Account is not activated")
		return
	}

	token, err := s.issueToken(&user)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{User: user, Token: token})
}

func (s *Server) activateUsers(c *gin.Context) {
	var req models.ActivateUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	at := s.opts.Now()
	if req.ActivatedAt != nil {
		at = *req.ActivatedAt
	}

	var resp models.ActivateUsersResponse

	s.store.mu.Lock()
	for _, email := range req.Emails {
		rec, ok := s.store.usersByEmail[strings.ToLower(email)]
		if !ok {
			resp.NotFound++
			continue
		}
		rec.IsActive = true
		rec.EmailVerified = ptr(at)
		resp.Activated++
	}
	s.store.mu.Unlock()

	c.JSON(http.StatusOK, resp)
}

func (s *Server) updateUserDate(c *gin.Context) {
	var req models.UpdateUserDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	rec, ok := s.store.usersByEmail[strings.ToLower(req.Email)]
	if !ok {
		fail(c, http.StatusNotFound, fmt.Sprintf("User %s not found", req.Email))
		return
	}
	rec.CreatedAt = req.CreatedAt

	c.JSON(http.StatusOK, gin.H{"message": "User date updated"})
}
