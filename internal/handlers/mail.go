package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"messenger-service/internal/middleware"
	"messenger-service/internal/models"
	"messenger-service/internal/observability"
	"messenger-service/internal/repositories"
	"messenger-service/internal/telemetry"
	"messenger-service/pkg/apperrors"
)

// MailHandler manages the point-to-point mail endpoints.
type MailHandler struct {
	mailRepo repositories.MailRepository
	userRepo repositories.UserRepository
	audit    *telemetry.AuditEmitter
}

// NewMailHandler builds a MailHandler.
func NewMailHandler(mailRepo repositories.MailRepository, userRepo repositories.UserRepository, audit *telemetry.AuditEmitter) *MailHandler {
	return &MailHandler{
		mailRepo: mailRepo,
		userRepo: userRepo,
		audit:    audit,
	}
}

// SendMail validates and stores a new message addressed to another user.
func (h *MailHandler) SendMail(c *gin.Context) {
	var req struct {
		RecipientID int    `json:"recipientId"`
		Subject     string `json:"subject"`
		Body        string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperrors.InvalidArg("invalid request body"))
		return
	}

	userID := c.GetInt(middleware.UserIDKey)
	switch {
	case req.RecipientID <= 0:
		respondErr(c, apperrors.InvalidArg("recipientId is required"))
		return
	case strings.TrimSpace(req.Subject) == "":
		respondErr(c, apperrors.InvalidArg("subject is required"))
		return
	case strings.TrimSpace(req.Body) == "":
		respondErr(c, apperrors.InvalidArg("body is required"))
		return
	case req.RecipientID == userID:
		respondErr(c, apperrors.InvalidArg("cannot send a message to yourself"))
		return
	}

	if _, err := h.userRepo.GetActiveUser(c.Request.Context(), req.RecipientID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			respondErr(c, apperrors.NotFound("recipient not found"))
			return
		}
		respondErr(c, apperrors.Internal("failed to load recipient", err))
		return
	}

	mail, err := h.mailRepo.Create(c.Request.Context(), userID, req.RecipientID, req.Subject, req.Body)
	if err != nil {
		respondErr(c, apperrors.Internal("failed to store message", err))
		return
	}

	h.audit.Emit(c.Request.Context(), "info", "mail sent", requestIDFromContext(c), userIDFromContext(c))
	observability.PublishMailEvent(c.Request.Context(), "sent", requestIDFromContext(c), traceIDFromContext(c), mail)
	respondData(c, http.StatusCreated, mail)
}

// Inbox lists mail received by the caller, newest first.
func (h *MailHandler) Inbox(c *gin.Context) {
	h.listMail(c, h.mailRepo.Inbox)
}

// Outbox lists mail sent by the caller, newest first.
func (h *MailHandler) Outbox(c *gin.Context) {
	h.listMail(c, h.mailRepo.Outbox)
}

func (h *MailHandler) listMail(c *gin.Context, load func(ctx context.Context, userID int) ([]models.MailWithCounterparty, error)) {
	userID := c.GetInt(middleware.UserIDKey)
	mails, err := load(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, apperrors.Internal("failed to load messages", err))
		return
	}
	if mails == nil {
		mails = []models.MailWithCounterparty{}
	}
	respondData(c, http.StatusOK, mails)
}

// GetMail returns one message. Fetching as the recipient performs the
// read transition.
func (h *MailHandler) GetMail(c *gin.Context) {
	mail, ok := h.loadAuthorized(c)
	if !ok {
		return
	}

	userID := c.GetInt(middleware.UserIDKey)
	if userID == mail.RecipientID && mail.Status != models.MailStatusRead {
		read, err := h.mailRepo.MarkRead(c.Request.Context(), mail.ID)
		if err != nil {
			respondErr(c, apperrors.Internal("failed to mark message read", err))
			return
		}
		mail = read
		observability.PublishMailEvent(c.Request.Context(), "read", requestIDFromContext(c), traceIDFromContext(c), mail)
	}

	respondData(c, http.StatusOK, mail)
}

// MarkRead is the explicit read transition. Idempotent; calling it as
// the sender returns the message unchanged.
func (h *MailHandler) MarkRead(c *gin.Context) {
	mail, ok := h.loadAuthorized(c)
	if !ok {
		return
	}

	userID := c.GetInt(middleware.UserIDKey)
	if userID == mail.RecipientID {
		wasRead := mail.Status == models.MailStatusRead
		read, err := h.mailRepo.MarkRead(c.Request.Context(), mail.ID)
		if err != nil {
			respondErr(c, apperrors.Internal("failed to mark message read", err))
			return
		}
		mail = read
		if !wasRead {
			observability.PublishMailEvent(c.Request.Context(), "read", requestIDFromContext(c), traceIDFromContext(c), mail)
		}
	}

	respondData(c, http.StatusOK, mail)
}

// loadAuthorized fetches the mail from the path id and rejects callers
// that are neither sender nor recipient. A false return means the
// response is already written.
func (h *MailHandler) loadAuthorized(c *gin.Context) (models.Mail, bool) {
	mailID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondErr(c, apperrors.InvalidArg("invalid message id"))
		return models.Mail{}, false
	}

	mail, err := h.mailRepo.GetMail(c.Request.Context(), mailID)
	if err != nil {
		if errors.Is(err, repositories.ErrMailNotFound) {
			respondErr(c, apperrors.NotFound("message not found"))
			return models.Mail{}, false
		}
		respondErr(c, apperrors.Internal("failed to load message", err))
		return models.Mail{}, false
	}

	userID := c.GetInt(middleware.UserIDKey)
	if userID != mail.SenderID && userID != mail.RecipientID {
		respondErr(c, apperrors.Forbidden("no access to this message"))
		return models.Mail{}, false
	}
	return mail, true
}
