package sandbox

import (
	"net/http"

	"ems-seeder/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *Server) createBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	userID := c.GetString(ctxUserID)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	ev, ok := s.store.events[req.EventID]
	if !ok {
		fail(c, http.StatusNotFound, "Event not found")
		return
	}
	if !ev.IsPublished() {
		fail(c, http.StatusBadRequest, "Event is not open for booking")
		return
	}

	key := bookingKey{UserID: userID, EventID: ev.ID}
	if _, dup := s.store.bookedBy[key]; dup {
		fail(c, http.StatusConflict, "You have already booked this event")
		return
	}

	taken := 0
	for k := range s.store.bookedBy {
		if k.EventID == ev.ID {
			taken++
		}
	}
	if venue, ok := s.store.venues[ev.VenueID]; ok && taken >= venue.Capacity {
		fail(c, http.StatusConflict, "Event is fully booked")
		return
	}

	b := &models.Booking{
		ID:        uuid.NewString(),
		EventID:   ev.ID,
		UserID:    userID,
		Status:    "CONFIRMED",
		CreatedAt: s.opts.Now(),
	}
	s.store.bookings[b.ID] = b
	s.store.bookingOrder = append(s.store.bookingOrder, b.ID)
	s.store.bookedBy[key] = b.ID

	respond(c, http.StatusCreated, *b)
}

func (s *Server) updateBookingDate(c *gin.Context) {
	var req models.UpdateBookingDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	b, ok := s.store.bookings[req.BookingID]
	if !ok {
		fail(c, http.StatusNotFound, "Booking not found")
		return
	}
	if ev, ok := s.store.events[b.EventID]; ok && !req.CreatedAt.Before(ev.BookingStartDate) {
		fail(c, http.StatusBadRequest, "Booking date must be before the event starts")
		return
	}
	b.CreatedAt = req.CreatedAt

	c.JSON(http.StatusOK, gin.H{"message": "Booking date updated"})
}
