package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messenger-service/internal/mocks"
	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
)

func setupMailRouter(handler *MailHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/api/messages", handler.SendMail)
	r.GET("/api/messages/inbox", handler.Inbox)
	r.GET("/api/messages/outbox", handler.Outbox)
	r.GET("/api/messages/:id", handler.GetMail)
	r.PUT("/api/messages/:id/read", handler.MarkRead)
	return r
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestSendMailSuccess(t *testing.T) {
	mailRepo := new(mocks.MailRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewMailHandler(mailRepo, userRepo, nil)
	router := setupMailRouter(handler)

	userRepo.On("GetActiveUser", mock.Anything, 2).Return(models.User{ID: 2, Username: "bob"}, nil).Once()
	mailRepo.On("Create", mock.Anything, 1, 2, "Hi", "Hello").
		Return(models.Mail{ID: 9, SenderID: 1, RecipientID: 2, Subject: "Hi", Body: "Hello", Status: models.MailStatusSent}, nil).Once()

	body := bytes.NewBufferString(`{"recipientId":2,"subject":"Hi","body":"Hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.Equal(t, true, resp["success"])
	data := resp["data"].(map[string]any)
	assert.Equal(t, "sent", data["status"])

	mailRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestSendMailToSelf(t *testing.T) {
	handler := NewMailHandler(new(mocks.MailRepositoryMock), new(mocks.UserRepositoryMock), nil)
	router := setupMailRouter(handler)

	body := bytes.NewBufferString(`{"recipientId":1,"subject":"Hi","body":"Hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, false, resp["success"])
}

func TestSendMailEmptyBody(t *testing.T) {
	handler := NewMailHandler(new(mocks.MailRepositoryMock), new(mocks.UserRepositoryMock), nil)
	router := setupMailRouter(handler)

	body := bytes.NewBufferString(`{"recipientId":2,"subject":"Hi","body":"  "}`)
	req := httptest.NewRequest(http.MethodPost, "/api/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMailRecipientMissing(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewMailHandler(new(mocks.MailRepositoryMock), userRepo, nil)
	router := setupMailRouter(handler)

	userRepo.On("GetActiveUser", mock.Anything, 42).Return(models.User{}, repositories.ErrUserNotFound).Once()

	body := bytes.NewBufferString(`{"recipientId":42,"subject":"Hi","body":"Hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestInboxSuccess(t *testing.T) {
	mailRepo := new(mocks.MailRepositoryMock)
	handler := NewMailHandler(mailRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMailRouter(handler)

	mails := []models.MailWithCounterparty{{
		Mail:         models.Mail{ID: 3, SenderID: 2, RecipientID: 1, Status: models.MailStatusSent},
		Counterparty: models.UserSummary{ID: 2, Username: "bob"},
	}}
	mailRepo.On("Inbox", mock.Anything, 1).Return(mails, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/messages/inbox", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	list := resp["data"].([]any)
	require.Len(t, list, 1)
	first := list[0].(map[string]any)
	assert.Equal(t, "bob", first["counterparty"].(map[string]any)["username"])
	mailRepo.AssertExpectations(t)
}

func TestOutboxEmpty(t *testing.T) {
	mailRepo := new(mocks.MailRepositoryMock)
	handler := NewMailHandler(mailRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMailRouter(handler)

	mailRepo.On("Outbox", mock.Anything, 1).Return(([]models.MailWithCounterparty)(nil), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/messages/outbox", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	list, ok := resp["data"].([]any)
	require.True(t, ok)
	assert.Empty(t, list)
	mailRepo.AssertExpectations(t)
}

func TestGetMailMarksReadForRecipient(t *testing.T) {
	mailRepo := new(mocks.MailRepositoryMock)
	handler := NewMailHandler(mailRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMailRouter(handler)

	now := time.Now()
	mailRepo.On("GetMail", mock.Anything, 7).
		Return(models.Mail{ID: 7, SenderID: 2, RecipientID: 1, Status: models.MailStatusSent}, nil).Once()
	mailRepo.On("MarkRead", mock.Anything, 7).
		Return(models.Mail{ID: 7, SenderID: 2, RecipientID: 1, Status: models.MailStatusRead, ReadAt: &now}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/messages/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "read", data["status"])
	assert.NotNil(t, data["readAt"])
	mailRepo.AssertExpectations(t)
}

func TestRepeatedReadsConvergeOnOneReadAt(t *testing.T) {
	mailRepo := new(mocks.MailRepositoryMock)
	handler := NewMailHandler(mailRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMailRouter(handler)

	readAt := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	unread := models.Mail{ID: 7, SenderID: 2, RecipientID: 1, Status: models.MailStatusSent}
	read := models.Mail{ID: 7, SenderID: 2, RecipientID: 1, Status: models.MailStatusRead, ReadAt: &readAt}

	// The first view transitions; the second sees the already-read row
	// and must not touch it again.
	mailRepo.On("GetMail", mock.Anything, 7).Return(unread, nil).Once()
	mailRepo.On("MarkRead", mock.Anything, 7).Return(read, nil).Once()
	mailRepo.On("GetMail", mock.Anything, 7).Return(read, nil).Once()

	var readAts []any
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/messages/7", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeEnvelope(t, rec)
		data := resp["data"].(map[string]any)
		require.Equal(t, "read", data["status"])
		require.NotNil(t, data["readAt"])
		readAts = append(readAts, data["readAt"])
	}

	assert.Equal(t, readAts[0], readAts[1])
	mailRepo.AssertExpectations(t)
}

func TestGetMailSenderDoesNotTransition(t *testing.T) {
	mailRepo := new(mocks.MailRepositoryMock)
	handler := NewMailHandler(mailRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMailRouter(handler)

	mailRepo.On("GetMail", mock.Anything, 7).
		Return(models.Mail{ID: 7, SenderID: 1, RecipientID: 2, Status: models.MailStatusSent}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/messages/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "sent", resp["data"].(map[string]any)["status"])
	mailRepo.AssertExpectations(t)
	mailRepo.AssertNotCalled(t, "MarkRead", mock.Anything, 7)
}

func TestGetMailForbidden(t *testing.T) {
	mailRepo := new(mocks.MailRepositoryMock)
	handler := NewMailHandler(mailRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMailRouter(handler)

	mailRepo.On("GetMail", mock.Anything, 7).
		Return(models.Mail{ID: 7, SenderID: 5, RecipientID: 6, Status: models.MailStatusSent}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/messages/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	mailRepo.AssertExpectations(t)
}

func TestGetMailNotFound(t *testing.T) {
	mailRepo := new(mocks.MailRepositoryMock)
	handler := NewMailHandler(mailRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMailRouter(handler)

	mailRepo.On("GetMail", mock.Anything, 99).Return(models.Mail{}, repositories.ErrMailNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/messages/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	mailRepo.AssertExpectations(t)
}

func TestMarkReadIdempotent(t *testing.T) {
	mailRepo := new(mocks.MailRepositoryMock)
	handler := NewMailHandler(mailRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMailRouter(handler)

	now := time.Now()
	read := models.Mail{ID: 7, SenderID: 2, RecipientID: 1, Status: models.MailStatusRead, ReadAt: &now}
	mailRepo.On("GetMail", mock.Anything, 7).Return(read, nil).Once()
	mailRepo.On("MarkRead", mock.Anything, 7).Return(read, nil).Once()

	req := httptest.NewRequest(http.MethodPut, "/api/messages/7/read", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "read", resp["data"].(map[string]any)["status"])
	mailRepo.AssertExpectations(t)
}

func TestMarkReadInvalidID(t *testing.T) {
	handler := NewMailHandler(new(mocks.MailRepositoryMock), new(mocks.UserRepositoryMock), nil)
	router := setupMailRouter(handler)

	req := httptest.NewRequest(http.MethodPut, "/api/messages/abc/read", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
