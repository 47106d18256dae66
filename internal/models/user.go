package models

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleUser    Role = "USER"
	RoleSpeaker Role = "SPEAKER"
)

// Credential is a deterministic login derived from a sequence index.
type Credential struct {
	Email    string
	Password string
	Name     string
	Role     Role
}

func SpeakerCredential(n int) Credential {
	return Credential{
		Email:    fmt.Sprintf("speaker%d@test.com", n),
		Password: fmt.Sprintf("Speaker%d123!", n),
		Name:     fmt.Sprintf("Speaker %d", n),
		Role:     RoleSpeaker,
	}
}

func UserCredential(n int) Credential {
	return Credential{
		Email:    fmt.Sprintf("user%d@test.com", n),
		Password: fmt.Sprintf("User%d123!", n),
		Name:     fmt.Sprintf("User %d", n),
		Role:     RoleUser,
	}
}

// Account is a registered identity tracked through a run. UserID may be empty
// when the account already existed and could not be logged into yet.
type Account struct {
	Credential
	UserID    string
	CreatedAt time.Time
}

type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Role          Role       `json:"role"`
	IsActive      bool       `json:"isActive"`
	EmailVerified *time.Time `json:"emailVerified,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// AuthSession is a bearer token and the user it belongs to.
type AuthSession struct {
	Token  string
	UserID string
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Role     Role   `json:"role" binding:"required,oneof=USER SPEAKER ADMIN"`
}

type RegisterResponse struct {
	User    User   `json:"user"`
	Message string `json:"message,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type ActivateUsersRequest struct {
	Emails      []string   `json:"emails" binding:"required"`
	ActivatedAt *time.Time `json:"activatedAt,omitempty"`
}

type ActivateUsersResponse struct {
	Activated int `json:"activated"`
	NotFound  int `json:"notFound"`
}

type UpdateUserDateRequest struct {
	Email     string    `json:"email" binding:"required"`
	CreatedAt time.Time `json:"createdAt" binding:"required"`
}

func (u *User) IsSpeaker() bool {
	return u.Role == RoleSpeaker
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
