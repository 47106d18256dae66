package models

// Envelope is the {"data": ...} wrapper the event, booking and speaker
// services put around payloads.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
