package models

import "time"

// SpeakerProfile is created by the speaker service after a SPEAKER account
// registers. Token is the speaker's own bearer token and never serialized.
type SpeakerProfile struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Bio    string `json:"bio,omitempty"`
	Token  string `json:"-"`
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationDeclined InvitationStatus = "DECLINED"
)

type Invitation struct {
	ID          string           `json:"id"`
	SpeakerID   string           `json:"speakerId"`
	EventID     string           `json:"eventId"`
	Message     string           `json:"message"`
	Status      InvitationStatus `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	RespondedAt *time.Time       `json:"respondedAt,omitempty"`
}

type CreateInvitationRequest struct {
	SpeakerID string `json:"speakerId" binding:"required"`
	EventID   string `json:"eventId" binding:"required"`
	Message   string `json:"message"`
}

type RespondInvitationRequest struct {
	Status InvitationStatus `json:"status" binding:"required,oneof=ACCEPTED DECLINED"`
}

type Material struct {
	ID         string    `json:"id"`
	SpeakerID  string    `json:"speakerId"`
	EventID    string    `json:"eventId,omitempty"`
	FileName   string    `json:"fileName"`
	FileURL    string    `json:"fileUrl,omitempty"`
	MimeType   string    `json:"mimeType"`
	FileSize   int64     `json:"fileSize"`
	UploadDate time.Time `json:"uploadDate"`
}

type UpdateMaterialDateRequest struct {
	MaterialID string    `json:"materialId" binding:"required"`
	UploadDate time.Time `json:"uploadDate" binding:"required"`
}
