package models

import (
	"time"
)

type EventStatus string

const (
	EventStatusDraft           EventStatus = "DRAFT"
	EventStatusPendingApproval EventStatus = "PENDING_APPROVAL"
	EventStatusPublished       EventStatus = "PUBLISHED"
	EventStatusRejected        EventStatus = "REJECTED"
	EventStatusCancelled       EventStatus = "CANCELLED"
)

type Venue struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address,omitempty"`
	Capacity    int    `json:"capacity"`
	OpeningTime string `json:"openingTime"`
	ClosingTime string `json:"closingTime"`
}

type Event struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	Category         string      `json:"category"`
	VenueID          string      `json:"venueId"`
	BookingStartDate time.Time   `json:"bookingStartDate"`
	BookingEndDate   time.Time   `json:"bookingEndDate"`
	Status           EventStatus `json:"status"`
	CreatedBy        string      `json:"createdBy,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
}

type CreateEventRequest struct {
	Name             string     `json:"name" binding:"required"`
	Description      string     `json:"description"`
	Category         string     `json:"category" binding:"required"`
	VenueID          string     `json:"venueId" binding:"required"`
	BookingStartDate time.Time  `json:"bookingStartDate" binding:"required"`
	BookingEndDate   time.Time  `json:"bookingEndDate" binding:"required"`
	UserID           string     `json:"userId,omitempty"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
}

type EventSession struct {
	ID          string    `json:"id"`
	EventID     string    `json:"eventId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Stage       string    `json:"stage,omitempty"`
}

type CreateSessionRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"startsAt" binding:"required"`
	EndsAt      time.Time `json:"endsAt" binding:"required"`
	Stage       string    `json:"stage,omitempty"`
}

type SessionSpeaker struct {
	SessionID string    `json:"sessionId"`
	SpeakerID string    `json:"speakerId"`
	CreatedAt time.Time `json:"createdAt"`
}

type AssignSpeakerRequest struct {
	SpeakerID string `json:"speakerId" binding:"required"`
}

type UpdateSessionSpeakerDateRequest struct {
	SessionID string    `json:"sessionId" binding:"required"`
	SpeakerID string    `json:"speakerId" binding:"required"`
	CreatedAt time.Time `json:"createdAt" binding:"required"`
}

func (e *Event) IsPublished() bool {
	return e.Status == EventStatusPublished
}
