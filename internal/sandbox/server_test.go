package sandbox_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"ems-seeder/internal/models"
	"ems-seeder/internal/sandbox"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

func setupTestServer(t *testing.T, delay time.Duration) *sandbox.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv, err := sandbox.New(sandbox.Options{
		JWTSecret:    "test-secret",
		ProfileDelay: delay,
		BcryptCost:   bcrypt.MinCost,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	return srv
}

func doJSON(t *testing.T, srv *sandbox.Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func login(t *testing.T, srv *sandbox.Server, email, password string) models.LoginResponse {
	t.Helper()

	w := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func adminToken(t *testing.T, srv *sandbox.Server) string {
	return login(t, srv, "admin@eventmanagement.com", "Admin123!").Token
}

// registerActive registers cred and activates it through the admin endpoint.
func registerActive(t *testing.T, srv *sandbox.Server, admin string, cred models.Credential) models.LoginResponse {
	t.Helper()

	w := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		Email: cred.Email, Password: cred.Password, Name: cred.Name, Role: cred.Role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, srv, http.MethodPost, "/api/auth/admin/activate-users", admin, models.ActivateUsersRequest{
		Emails: []string{cred.Email},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	return login(t, srv, cred.Email, cred.Password)
}

func firstVenue(t *testing.T, srv *sandbox.Server, token, name string) models.Venue {
	t.Helper()

	w := doJSON(t, srv, http.MethodGet, "/api/event/venues/all", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.Envelope[[]models.Venue]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, v := range resp.Data {
		if v.Name == name {
			return v
		}
	}
	t.Fatalf("venue %s not found", name)
	return models.Venue{}
}

func createEvent(t *testing.T, srv *sandbox.Server, token, venueID string, start time.Time, hours int) models.Event {
	t.Helper()

	w := doJSON(t, srv, http.MethodPost, "/api/event/admin/admin/events", token, models.CreateEventRequest{
		Name:             "Quantum Lantern",
		Description:      "A gathering.",
		Category:         "Technology",
		VenueID:          venueID,
		BookingStartDate: start,
		BookingEndDate:   start.Add(time.Duration(hours) * time.Hour),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.Envelope[models.Event]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func nextDayAt(hour int) time.Time {
	d := time.Now().AddDate(0, 0, 10)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.Local)
}

func TestHealth(t *testing.T) {
	srv := setupTestServer(t, 0)

	w := doJSON(t, srv, http.MethodGet, "/api/auth/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestRegistrationLifecycle(t *testing.T) {
	srv := setupTestServer(t, 0)
	cred := models.UserCredential(1)
	req := models.RegisterRequest{Email: cred.Email, Password: cred.Password, Name: cred.Name, Role: cred.Role}

	w := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, srv, http.MethodPost, "/api/auth/register", "", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")

	// Not activated yet.
	w = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: cred.Email, Password: cred.Password})
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := adminToken(t, srv)
	at := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
	w = doJSON(t, srv, http.MethodPost, "/api/auth/admin/activate-users", admin, models.ActivateUsersRequest{
		Emails:      []string{cred.Email, "ghost@test.com"},
		ActivatedAt: &at,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var act models.ActivateUsersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &act))
	assert.Equal(t, 1, act.Activated)
	assert.Equal(t, 1, act.NotFound)

	resp := login(t, srv, cred.Email, cred.Password)
	assert.NotEmpty(t, resp.Token)
	assert.True(t, resp.User.IsActive)
	require.NotNil(t, resp.User.EmailVerified)
	assert.True(t, resp.User.EmailVerified.Equal(at))

	w = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: cred.Email, Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	srv := setupTestServer(t, 0)
	admin := adminToken(t, srv)
	user := registerActive(t, srv, admin, models.UserCredential(1))

	w := doJSON(t, srv, http.MethodPost, "/api/auth/admin/activate-users", "", models.ActivateUsersRequest{Emails: []string{"x@test.com"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/auth/admin/activate-users", user.Token, models.ActivateUsersRequest{Emails: []string{"x@test.com"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/api/event/venues/all", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEventMustFitVenueHours(t *testing.T) {
	srv := setupTestServer(t, 0)
	admin := adminToken(t, srv)
	venue := firstVenue(t, srv, admin, "Tech Hub")

	w := doJSON(t, srv, http.MethodPost, "/api/event/admin/admin/events", admin, models.CreateEventRequest{
		Name:             "Late Night",
		Category:         "Networking",
		VenueID:          venue.ID,
		BookingStartDate: nextDayAt(17),
		BookingEndDate:   nextDayAt(20),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "operating hours")

	ev := createEvent(t, srv, admin, venue.ID, nextDayAt(9), 3)
	assert.Equal(t, models.EventStatusPublished, ev.Status)
}

func TestSeedCreateEventKeepsCreatedAt(t *testing.T) {
	srv := setupTestServer(t, 0)
	admin := adminToken(t, srv)
	venue := firstVenue(t, srv, admin, "Grand Hall")

	created := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	w := doJSON(t, srv, http.MethodPost, "/api/event/admin/admin/seed/create-event", admin, models.CreateEventRequest{
		Name:             "Backdated",
		Category:         "Business",
		VenueID:          venue.ID,
		BookingStartDate: nextDayAt(10),
		BookingEndDate:   nextDayAt(12),
		CreatedAt:        &created,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.Envelope[models.Event]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.CreatedAt.Equal(created))
}

func TestBookingConflicts(t *testing.T) {
	srv := setupTestServer(t, 0)
	admin := adminToken(t, srv)
	venue := firstVenue(t, srv, admin, "Grand Hall")
	ev := createEvent(t, srv, admin, venue.ID, nextDayAt(10), 2)
	user := registerActive(t, srv, admin, models.UserCredential(1))

	w := doJSON(t, srv, http.MethodPost, "/api/booking/bookings", user.Token, models.CreateBookingRequest{EventID: ev.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var booking models.Envelope[models.Booking]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))

	w = doJSON(t, srv, http.MethodPost, "/api/booking/bookings", user.Token, models.CreateBookingRequest{EventID: ev.ID})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/booking/bookings", user.Token, models.CreateBookingRequest{EventID: "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Backfill must stay before the event start.
	w = doJSON(t, srv, http.MethodPost, "/api/booking/admin/seed/update-booking-date", admin, models.UpdateBookingDateRequest{
		BookingID: booking.Data.ID,
		CreatedAt: ev.BookingStartDate,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/booking/admin/seed/update-booking-date", admin, models.UpdateBookingDateRequest{
		BookingID: booking.Data.ID,
		CreatedAt: ev.BookingStartDate.Add(-48 * time.Hour),
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, srv.Stats().Bookings)
}

func TestBookingCapacity(t *testing.T) {
	srv := setupTestServer(t, 0)
	admin := adminToken(t, srv)
	venue := firstVenue(t, srv, admin, "Tech Hub")
	ev := createEvent(t, srv, admin, venue.ID, nextDayAt(9), 2)

	for i := 1; i <= venue.Capacity; i++ {
		user := registerActive(t, srv, admin, models.UserCredential(i))
		w := doJSON(t, srv, http.MethodPost, "/api/booking/bookings", user.Token, models.CreateBookingRequest{EventID: ev.ID})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	late := registerActive(t, srv, admin, models.UserCredential(venue.Capacity+1))
	w := doJSON(t, srv, http.MethodPost, "/api/booking/bookings", late.Token, models.CreateBookingRequest{EventID: ev.ID})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "fully booked")
}

func TestSpeakerProfileIsCreatedAsynchronously(t *testing.T) {
	srv := setupTestServer(t, 300*time.Millisecond)
	admin := adminToken(t, srv)
	speaker := registerActive(t, srv, admin, models.SpeakerCredential(1))

	path := "/api/speakers/profile/me?userId=" + speaker.User.ID
	w := doJSON(t, srv, http.MethodGet, path, speaker.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Eventually(t, func() bool {
		return doJSON(t, srv, http.MethodGet, path, speaker.Token, nil).Code == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	other := registerActive(t, srv, admin, models.UserCredential(1))
	w = doJSON(t, srv, http.MethodGet, path, other.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestInvitationFlow(t *testing.T) {
	srv := setupTestServer(t, 0)
	admin := adminToken(t, srv)
	venue := firstVenue(t, srv, admin, "Riverside Pavilion")
	ev := createEvent(t, srv, admin, venue.ID, nextDayAt(18), 5)
	speaker := registerActive(t, srv, admin, models.SpeakerCredential(1))

	w := doJSON(t, srv, http.MethodGet, "/api/speakers/profile/me?userId="+speaker.User.ID, speaker.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile models.Envelope[models.SpeakerProfile]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))

	invite := models.CreateInvitationRequest{SpeakerID: profile.Data.ID, EventID: ev.ID}
	w = doJSON(t, srv, http.MethodPost, "/api/invitations", admin, invite)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var inv models.Envelope[models.Invitation]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inv))
	assert.Equal(t, models.InvitationPending, inv.Data.Status)

	w = doJSON(t, srv, http.MethodPost, "/api/invitations", admin, invite)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")

	w = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/invitations/speaker/%s?status=PENDING", profile.Data.ID), speaker.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending models.Envelope[[]models.Invitation]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pending))
	assert.Len(t, pending.Data, 1)

	// Admin may not answer on the speaker's behalf.
	respondPath := fmt.Sprintf("/api/invitations/%s/respond", inv.Data.ID)
	w = doJSON(t, srv, http.MethodPut, respondPath, admin, models.RespondInvitationRequest{Status: models.InvitationAccepted})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, srv, http.MethodPut, respondPath, speaker.Token, models.RespondInvitationRequest{Status: "MAYBE"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodPut, respondPath, speaker.Token, models.RespondInvitationRequest{Status: models.InvitationAccepted})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, srv, http.MethodPut, respondPath, speaker.Token, models.RespondInvitationRequest{Status: models.InvitationDeclined})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	st := srv.Stats()
	assert.Equal(t, 1, st.Invitations)
	assert.Equal(t, 1, st.AcceptedInvitations)
}

func TestMaterialUpload(t *testing.T) {
	srv := setupTestServer(t, 0)
	admin := adminToken(t, srv)
	speaker := registerActive(t, srv, admin, models.SpeakerCredential(1))
	profile := srv.Snapshot().Profiles[0]

	upload := func(contentType string) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="deck.pdf"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4\n%%EOF"))
		require.NoError(t, err)
		require.NoError(t, mw.WriteField("speakerId", profile.ID))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/materials/upload", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+speaker.Token)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		return w
	}

	w := upload("application/x-msdownload")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = upload("application/pdf")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var m models.Envelope[models.Material]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, "deck.pdf", m.Data.FileName)
	assert.Equal(t, int64(len("%PDF-1.4\n%%EOF")), m.Data.FileSize)
	assert.Empty(t, m.Data.EventID)
	assert.True(t, strings.HasPrefix(m.Data.FileURL, "/storage/v1/object/public/materials/"))
	assert.True(t, strings.HasSuffix(m.Data.FileURL, ".pdf"))
	assert.Equal(t, 1, srv.Stats().StoredFiles)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, m.Data.FileURL, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.4\n%%EOF", w.Body.String())

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/storage/v1/object/public/materials/missing.pdf", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMessagesInboxAndRead(t *testing.T) {
	srv := setupTestServer(t, 0)
	adminLogin := login(t, srv, "admin@eventmanagement.com", "Admin123!")
	speaker := registerActive(t, srv, adminLogin.Token, models.SpeakerCredential(1))

	w := doJSON(t, srv, http.MethodPost, "/api/messages", adminLogin.Token, models.SendMessageRequest{
		FromUserID: adminLogin.User.ID,
		ToUserID:   speaker.User.ID,
		Subject:    "Welcome to EventManager!",
		Content:    "We're excited to have you on board as a speaker!",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var msg models.Envelope[models.Message]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))

	w = doJSON(t, srv, http.MethodGet, "/api/messages/inbox/"+speaker.User.ID, speaker.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var inbox models.Envelope[[]models.Message]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inbox))
	require.Len(t, inbox.Data, 1)
	assert.False(t, inbox.Data[0].IsRead())

	w = doJSON(t, srv, http.MethodPut, "/api/messages/"+msg.Data.ID+"/read", adminLogin.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, srv, http.MethodPut, "/api/messages/"+msg.Data.ID+"/read", speaker.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, srv.Stats().ReadMessages)
}
