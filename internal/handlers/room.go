package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
	"messenger-service/pkg/apperrors"
)

// RoomHandler serves the room directory.
type RoomHandler struct {
	roomRepo repositories.RoomRepository
}

// NewRoomHandler builds a RoomHandler.
func NewRoomHandler(roomRepo repositories.RoomRepository) *RoomHandler {
	return &RoomHandler{roomRepo: roomRepo}
}

// ListRooms returns every room with its location and owner summary.
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.roomRepo.ListRooms(c.Request.Context())
	if err != nil {
		respondErr(c, apperrors.Internal("failed to load rooms", err))
		return
	}
	if rooms == nil {
		rooms = []models.RoomListing{}
	}
	respondData(c, http.StatusOK, rooms)
}

// RoomHistory returns the room's log oldest first, capped server-side.
func (h *RoomHandler) RoomHistory(c *gin.Context) {
	roomID, err := strconv.Atoi(c.Param("roomId"))
	if err != nil {
		respondErr(c, apperrors.InvalidArg("invalid room id"))
		return
	}

	if _, err := h.roomRepo.GetRoom(c.Request.Context(), roomID); err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			respondErr(c, apperrors.NotFound("room not found"))
			return
		}
		respondErr(c, apperrors.Internal("failed to load room", err))
		return
	}

	limit := repositories.HistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondErr(c, apperrors.InvalidArg("invalid limit"))
			return
		}
		if parsed > repositories.HistoryLimit {
			parsed = repositories.HistoryLimit
		}
		limit = parsed
	}

	history, err := h.roomRepo.History(c.Request.Context(), roomID, limit)
	if err != nil {
		respondErr(c, apperrors.Internal("failed to load history", err))
		return
	}
	if history == nil {
		history = []models.ChatMessageWithAuthor{}
	}
	respondData(c, http.StatusOK, history)
}
