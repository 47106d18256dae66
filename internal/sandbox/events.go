package sandbox

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ems-seeder/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *Server) listVenues(c *gin.Context) {
	s.store.mu.RLock()
	venues := make([]models.Venue, 0, len(s.store.venueOrder))
	for _, id := range s.store.venueOrder {
		venues = append(venues, *s.store.venues[id])
	}
	s.store.mu.RUnlock()

	respond(c, http.StatusOK, venues)
}

// clockMinutes parses "HH:mm". "24:00" is read as 23:59.
func clockMinutes(hhmm string) (int, error) {
	h, m, ok := strings.Cut(hhmm, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q", hhmm)
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", hhmm)
	}
	if hour == 24 {
		return 23*60 + 59, nil
	}
	return hour*60 + minute, nil
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// withinVenueHours checks that the event starts after opening and ends before
// closing. Venues open for less than two hours cannot hold the minimum event
// length and are not checked.
func withinVenueHours(v *models.Venue, start, end time.Time) (bool, error) {
	open, err := clockMinutes(v.OpeningTime)
	if err != nil {
		return false, err
	}
	closing, err := clockMinutes(v.ClosingTime)
	if err != nil {
		return false, err
	}
	if closing-open < 120 {
		return true, nil
	}
	return minuteOfDay(start) >= open && minuteOfDay(end) <= closing, nil
}

func (s *Server) createEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if !req.BookingEndDate.After(req.BookingStartDate) {
		fail(c, http.StatusBadRequest, "Booking end date must be after start date")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	venue, ok := s.store.venues[req.VenueID]
	if !ok {
		fail(c, http.StatusNotFound, "Venue not found")
		return
	}
	ok, err := withinVenueHours(venue, req.BookingStartDate, req.BookingEndDate)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		fail(c, http.StatusBadRequest, fmt.Sprintf("Event time is outside venue operating hours (%s-%s)", venue.OpeningTime, venue.ClosingTime))
		return
	}

	createdAt := s.opts.Now()
	if req.CreatedAt != nil {
		createdAt = *req.CreatedAt
	}

	ev := &models.Event{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Description:      req.Description,
		Category:         req.Category,
		VenueID:          req.VenueID,
		BookingStartDate: req.BookingStartDate,
		BookingEndDate:   req.BookingEndDate,
		Status:           models.EventStatusPublished,
		CreatedBy:        c.GetString(ctxUserID),
		CreatedAt:        createdAt,
	}
	s.store.events[ev.ID] = ev
	s.store.eventOrder = append(s.store.eventOrder, ev.ID)

	respond(c, http.StatusCreated, *ev)
}

func (s *Server) createSession(c *gin.Context) {
	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	ev, ok := s.store.events[c.Param("id")]
	if !ok {
		fail(c, http.StatusNotFound, "Event not found")
		return
	}
	if !req.EndsAt.After(req.StartsAt) {
		fail(c, http.StatusBadRequest, "Session must end after it starts")
		return
	}
	if req.StartsAt.Before(ev.BookingStartDate) || req.EndsAt.After(ev.BookingEndDate) {
		fail(c, http.StatusBadRequest, "Session must fall within the event window")
		return
	}

	sess := &models.EventSession{
		ID:          uuid.NewString(),
		EventID:     ev.ID,
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Stage:       req.Stage,
	}
	s.store.sessions[sess.ID] = sess

	respond(c, http.StatusCreated, *sess)
}

func (s *Server) assignSessionSpeaker(c *gin.Context) {
	var req models.AssignSpeakerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	sess, ok := s.store.sessions[c.Param("sessionId")]
	if !ok || sess.EventID != c.Param("id") {
		fail(c, http.StatusNotFound, "Session not found")
		return
	}
	if _, ok := s.store.profilesByID[req.SpeakerID]; !ok {
		fail(c, http.StatusNotFound, "Speaker not found")
		return
	}
	for _, ss := range s.store.sessionSpeakers {
		if ss.SessionID == sess.ID && ss.SpeakerID == req.SpeakerID {
			fail(c, http.StatusBadRequest, "Speaker already assigned to this session")
			return
		}
	}

	ss := &models.SessionSpeaker{
		SessionID: sess.ID,
		SpeakerID: req.SpeakerID,
		CreatedAt: s.opts.Now(),
	}
	s.store.sessionSpeakers = append(s.store.sessionSpeakers, ss)

	respond(c, http.StatusCreated, *ss)
}

func (s *Server) updateSessionSpeakerDate(c *gin.Context) {
	var req models.UpdateSessionSpeakerDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, ss := range s.store.sessionSpeakers {
		if ss.SessionID == req.SessionID && ss.SpeakerID == req.SpeakerID {
			if ev, ok := s.store.eventOf(ss.SessionID); ok && !req.CreatedAt.Before(ev.BookingStartDate) {
				fail(c, http.StatusBadRequest, "Assignment date must be before the event starts")
				return
			}
			ss.CreatedAt = req.CreatedAt
			c.JSON(http.StatusOK, gin.H{"message": "Session speaker date updated"})
			return
		}
	}

	fail(c, http.StatusNotFound, "Session speaker assignment not found")
}
