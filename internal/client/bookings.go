package client

import (
	"context"
	"net/http"
	"time"

	"ems-seeder/internal/models"
)

// CreateBooking books eventID for the token's owner. A duplicate booking or a
// full event comes back as a 409 *APIError.
func (c *Client) CreateBooking(ctx context.Context, token, eventID string) (*models.Booking, error) {
	var resp models.Envelope[models.Booking]
	err := c.doJSON(ctx, http.MethodPost, c.bookingURL("/bookings"), token, models.CreateBookingRequest{
		EventID: eventID,
	}, &resp, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) UpdateBookingDate(ctx context.Context, token, bookingID string, createdAt time.Time) error {
	return c.doJSON(ctx, http.MethodPost, c.bookingURL("/admin/seed/update-booking-date"), token, models.UpdateBookingDateRequest{
		BookingID: bookingID,
		CreatedAt: createdAt,
	}, nil, http.StatusOK)
}
