package sandbox

import (
	"sync"
	"time"

	"ems-seeder/internal/models"
)

type userRecord struct {
	models.User
	PasswordHash []byte
}

type bookingKey struct {
	UserID  string
	EventID string
}

type invitationKey struct {
	SpeakerID string
	EventID   string
}

// store holds everything the sandbox knows. All access goes through mu.
type store struct {
	mu sync.RWMutex

	usersByEmail map[string]*userRecord
	usersByID    map[string]*userRecord

	venues          map[string]*models.Venue
	venueOrder      []string
	events          map[string]*models.Event
	eventOrder      []string
	sessions        map[string]*models.EventSession
	sessionSpeakers []*models.SessionSpeaker

	bookings     map[string]*models.Booking
	bookingOrder []string
	bookedBy     map[bookingKey]string

	profilesByUser map[string]*models.SpeakerProfile
	profilesByID   map[string]*models.SpeakerProfile

	invitations     map[string]*models.Invitation
	invitationOrder []string
	invited         map[invitationKey]string

	materials     map[string]*models.Material
	materialOrder []string

	messages     map[string]*models.Message
	messageOrder []string
}

func newStore() *store {
	return &store{
		usersByEmail:   make(map[string]*userRecord),
		usersByID:      make(map[string]*userRecord),
		venues:         make(map[string]*models.Venue),
		events:         make(map[string]*models.Event),
		sessions:       make(map[string]*models.EventSession),
		bookings:       make(map[string]*models.Booking),
		bookedBy:       make(map[bookingKey]string),
		profilesByUser: make(map[string]*models.SpeakerProfile),
		profilesByID:   make(map[string]*models.SpeakerProfile),
		invitations:    make(map[string]*models.Invitation),
		invited:        make(map[invitationKey]string),
		materials:      make(map[string]*models.Material),
		messages:       make(map[string]*models.Message),
	}
}

// Stats counts what the sandbox currently holds.
type Stats struct {
	Users               int
	ActiveUsers         int
	Venues              int
	Events              int
	PublishedEvents     int
	Sessions            int
	SessionSpeakers     int
	Bookings            int
	Profiles            int
	Invitations         int
	AcceptedInvitations int
	DeclinedInvitations int
	Materials           int
	StoredFiles         int
	Messages            int
	ReadMessages        int
}

func (s *store) stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Users:           len(s.usersByID),
		Venues:          len(s.venues),
		Events:          len(s.events),
		Sessions:        len(s.sessions),
		SessionSpeakers: len(s.sessionSpeakers),
		Bookings:        len(s.bookings),
		Profiles:        len(s.profilesByID),
		Invitations:     len(s.invitations),
		Materials:       len(s.materials),
		Messages:        len(s.messages),
	}
	for _, u := range s.usersByID {
		if u.IsActive {
			st.ActiveUsers++
		}
	}
	for _, e := range s.events {
		if e.IsPublished() {
			st.PublishedEvents++
		}
	}
	for _, inv := range s.invitations {
		switch inv.Status {
		case models.InvitationAccepted:
			st.AcceptedInvitations++
		case models.InvitationDeclined:
			st.DeclinedInvitations++
		}
	}
	for _, m := range s.messages {
		if m.IsRead() {
			st.ReadMessages++
		}
	}
	return st
}

// Snapshot is a copy of the stored entities in creation order.
type Snapshot struct {
	Users           []models.User
	Events          []models.Event
	Sessions        []models.EventSession
	SessionSpeakers []models.SessionSpeaker
	Bookings        []models.Booking
	Profiles        []models.SpeakerProfile
	Invitations     []models.Invitation
	Materials       []models.Material
	Messages        []models.Message
}

func (s *store) snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snap Snapshot
	for _, u := range s.usersByID {
		snap.Users = append(snap.Users, u.User)
	}
	for _, id := range s.eventOrder {
		snap.Events = append(snap.Events, *s.events[id])
	}
	for _, sess := range s.sessions {
		snap.Sessions = append(snap.Sessions, *sess)
	}
	for _, ss := range s.sessionSpeakers {
		snap.SessionSpeakers = append(snap.SessionSpeakers, *ss)
	}
	for _, id := range s.bookingOrder {
		snap.Bookings = append(snap.Bookings, *s.bookings[id])
	}
	for _, p := range s.profilesByID {
		snap.Profiles = append(snap.Profiles, *p)
	}
	for _, id := range s.invitationOrder {
		snap.Invitations = append(snap.Invitations, *s.invitations[id])
	}
	for _, id := range s.materialOrder {
		snap.Materials = append(snap.Materials, *s.materials[id])
	}
	for _, id := range s.messageOrder {
		snap.Messages = append(snap.Messages, *s.messages[id])
	}
	return snap
}

func (s *store) addVenue(v models.Venue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.venues[v.ID] = &v
	s.venueOrder = append(s.venueOrder, v.ID)
}

// eventOf returns the event a session belongs to. Callers hold mu.
func (s *store) eventOf(sessionID string) (*models.Event, bool) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	ev, ok := s.events[sess.EventID]
	return ev, ok
}

func ptr(t time.Time) *time.Time { return &t }
