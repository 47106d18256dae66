package sandbox

import (
	"fmt"
	"net/http"

	"ems-seeder/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxMaterialSize = 10 * 1024 * 1024

var allowedMaterialTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   true,
	"text/plain": true,
}

func (s *Server) profileMe(c *gin.Context) {
	userID := c.GetString(ctxUserID)
	if q := c.Query("userId"); q != "" {
		if q != userID && !isAdmin(c) {
			fail(c, http.StatusForbidden, "Cannot read another speaker's profile")
			return
		}
		userID = q
	}

	s.store.mu.RLock()
	p, ok := s.store.profilesByUser[userID]
	var profile models.SpeakerProfile
	if ok {
		profile = *p
	}
	s.store.mu.RUnlock()

	if !ok {
		fail(c, http.StatusNotFound, "Speaker profile not found")
		return
	}

	respond(c, http.StatusOK, profile)
}

func (s *Server) createInvitation(c *gin.Context) {
	var req models.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, ok := s.store.profilesByID[req.SpeakerID]; !ok {
		fail(c, http.StatusNotFound, "Speaker not found")
		return
	}
	ev, ok := s.store.events[req.EventID]
	if !ok {
		fail(c, http.StatusNotFound, "Event not found")
		return
	}
	if !ev.IsPublished() {
		fail(c, http.StatusBadRequest, "Speakers can only be invited to published events")
		return
	}

	key := invitationKey{SpeakerID: req.SpeakerID, EventID: req.EventID}
	if _, dup := s.store.invited[key]; dup {
		fail(c, http.StatusBadRequest, "Invitation already exists for this speaker and event")
		return
	}

	msg := req.Message
	if msg == "" {
		msg = "You have been invited to speak at this event."
	}

	inv := &models.Invitation{
		ID:        uuid.NewString(),
		SpeakerID: req.SpeakerID,
		EventID:   req.EventID,
		Message:   msg,
		Status:    models.InvitationPending,
		CreatedAt: s.opts.Now(),
	}
	s.store.invitations[inv.ID] = inv
	s.store.invitationOrder = append(s.store.invitationOrder, inv.ID)
	s.store.invited[key] = inv.ID

	respond(c, http.StatusCreated, *inv)
}

func (s *Server) respondInvitation(c *gin.Context) {
	var req models.RespondInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	inv, ok := s.store.invitations[c.Param("id")]
	if !ok {
		fail(c, http.StatusNotFound, "Invitation not found")
		return
	}
	profile, ok := s.store.profilesByID[inv.SpeakerID]
	if !ok || profile.UserID != c.GetString(ctxUserID) {
		fail(c, http.StatusForbidden, "Only the invited speaker can respond")
		return
	}
	if inv.Status != models.InvitationPending {
		fail(c, http.StatusBadRequest, fmt.Sprintf("Invitation already %s", inv.Status))
		return
	}

	inv.Status = req.Status
	inv.RespondedAt = ptr(s.opts.Now())

	respond(c, http.StatusOK, *inv)
}

func (s *Server) speakerInvitations(c *gin.Context) {
	speakerID := c.Param("speakerId")
	status := models.InvitationStatus(c.Query("status"))

	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	profile, ok := s.store.profilesByID[speakerID]
	if !ok {
		fail(c, http.StatusNotFound, "Speaker not found")
		return
	}
	if profile.UserID != c.GetString(ctxUserID) && !isAdmin(c) {
		fail(c, http.StatusForbidden, "Cannot list another speaker's invitations")
		return
	}

	invitations := make([]models.Invitation, 0)
	for _, id := range s.store.invitationOrder {
		inv := s.store.invitations[id]
		if inv.SpeakerID != speakerID {
			continue
		}
		if status != "" && inv.Status != status {
			continue
		}
		invitations = append(invitations, *inv)
	}

	respond(c, http.StatusOK, invitations)
}

func (s *Server) uploadMaterial(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Size > maxMaterialSize {
		fail(c, http.StatusBadRequest, "File size exceeds 10MB limit")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !allowedMaterialTypes[contentType] {
		fail(c, http.StatusBadRequest, fmt.Sprintf("File type not allowed: %s", contentType))
		return
	}
	speakerID := c.PostForm("speakerId")
	eventID := c.PostForm("eventId")
	if speakerID == "" {
		fail(c, http.StatusBadRequest, "speakerId is required")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	profile, ok := s.store.profilesByID[speakerID]
	if !ok {
		fail(c, http.StatusNotFound, "Speaker not found")
		return
	}
	if profile.UserID != c.GetString(ctxUserID) && !isAdmin(c) {
		fail(c, http.StatusForbidden, "Cannot upload materials for another speaker")
		return
	}
	if eventID != "" {
		if _, ok := s.store.events[eventID]; !ok {
			fail(c, http.StatusNotFound, "Event not found")
			return
		}
	}

	fileURL, size, err := s.files.UploadFile(file, header)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to store file")
		return
	}

	m := &models.Material{
		ID:         uuid.NewString(),
		SpeakerID:  speakerID,
		EventID:    eventID,
		FileName:   header.Filename,
		FileURL:    fileURL,
		MimeType:   contentType,
		FileSize:   size,
		UploadDate: s.opts.Now(),
	}
	s.store.materials[m.ID] = m
	s.store.materialOrder = append(s.store.materialOrder, m.ID)

	respond(c, http.StatusCreated, *m)
}

// downloadFile serves an uploaded material at the URL returned by the upload.
func (s *Server) downloadFile(c *gin.Context) {
	if c.Param("bucket") != s.files.BucketName {
		fail(c, http.StatusNotFound, "Bucket not found")
		return
	}

	obj, err := s.files.Get(c.Param("key"))
	if err != nil {
		fail(c, http.StatusNotFound, "File not found")
		return
	}
	c.Data(http.StatusOK, obj.ContentType, obj.Data)
}

func (s *Server) updateMaterialDate(c *gin.Context) {
	var req models.UpdateMaterialDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	m, ok := s.store.materials[req.MaterialID]
	if !ok {
		fail(c, http.StatusNotFound, "Material not found")
		return
	}
	if ev, ok := s.store.events[m.EventID]; ok && !req.UploadDate.Before(ev.BookingStartDate) {
		fail(c, http.StatusBadRequest, "Upload date must be before the event starts")
		return
	}
	m.UploadDate = req.UploadDate

	c.JSON(http.StatusOK, gin.H{"message": "Material date updated"})
}
