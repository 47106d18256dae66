package sandbox

import (
	"net/http"

	"ems-seeder/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *Server) sendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.FromUserID != c.GetString(ctxUserID) && !isAdmin(c) {
		fail(c, http.StatusForbidden, "Cannot send on behalf of another user")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, ok := s.store.usersByID[req.ToUserID]; !ok {
		fail(c, http.StatusNotFound, "Recipient not found")
		return
	}

	m := &models.Message{
		ID:         uuid.NewString(),
		FromUserID: req.FromUserID,
		ToUserID:   req.ToUserID,
		Subject:    req.Subject,
		Content:    req.Content,
		EventID:    req.EventID,
		Status:     models.MessageSent,
		SentAt:     s.opts.Now(),
	}
	s.store.messages[m.ID] = m
	s.store.messageOrder = append(s.store.messageOrder, m.ID)

	respond(c, http.StatusCreated, *m)
}

func (s *Server) markMessageRead(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	m, ok := s.store.messages[c.Param("id")]
	if !ok {
		fail(c, http.StatusNotFound, "Message not found")
		return
	}
	if m.ToUserID != c.GetString(ctxUserID) {
		fail(c, http.StatusForbidden, "Only the recipient can mark a message read")
		return
	}

	if !m.IsRead() {
		m.Status = models.MessageRead
		m.ReadAt = ptr(s.opts.Now())
	}

	respond(c, http.StatusOK, *m)
}

func (s *Server) inbox(c *gin.Context) {
	userID := c.Param("userId")
	if userID != c.GetString(ctxUserID) && !isAdmin(c) {
		fail(c, http.StatusForbidden, "Cannot read another user's inbox")
		return
	}

	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	inbox := make([]models.Message, 0)
	for _, id := range s.store.messageOrder {
		if m := s.store.messages[id]; m.ToUserID == userID {
			inbox = append(inbox, *m)
		}
	}

	respond(c, http.StatusOK, inbox)
}
