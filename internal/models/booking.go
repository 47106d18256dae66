package models

import "time"

type Booking struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	UserID    string    `json:"userId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateBookingRequest struct {
	EventID string `json:"eventId" binding:"required"`
}

type UpdateBookingDateRequest struct {
	BookingID string    `json:"bookingId" binding:"required"`
	CreatedAt time.Time `json:"createdAt" binding:"required"`
}
