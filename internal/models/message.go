package models

import (
	"time"
)

type MessageStatus string

const (
	MessageSent MessageStatus = "SENT"
	MessageRead MessageStatus = "READ"
)

type Message struct {
	ID         string        `json:"id"`
	FromUserID string        `json:"fromUserId"`
	ToUserID   string        `json:"toUserId"`
	Subject    string        `json:"subject"`
	Content    string        `json:"content"`
	EventID    string        `json:"eventId,omitempty"`
	Status     MessageStatus `json:"status"`
	SentAt     time.Time     `json:"sentAt"`
	ReadAt     *time.Time    `json:"readAt,omitempty"`
}

type SendMessageRequest struct {
	FromUserID string `json:"fromUserId" binding:"required"`
	ToUserID   string `json:"toUserId" binding:"required"`
	Subject    string `json:"subject" binding:"required"`
	Content    string `json:"content" binding:"required"`
	EventID    string `json:"eventId,omitempty"`
}

func (m *Message) IsRead() bool {
	return m.Status == MessageRead
}
