package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"messenger-service/internal/models"
)

var ErrRoomNotFound = errors.New("room not found")

// HistoryLimit caps room history reads; there is no further pagination.
const HistoryLimit = 50

// RoomRepository defines read access to rooms and the append-only message log.
type RoomRepository interface {
	ListRooms(ctx context.Context) ([]models.RoomListing, error)
	GetRoom(ctx context.Context, roomID int) (models.ChatRoom, error)
	History(ctx context.Context, roomID, limit int) ([]models.ChatMessageWithAuthor, error)
	CreateChatMessage(ctx context.Context, roomID, userID int, content string) (models.ChatMessageWithAuthor, error)
}

// RoomRepo is a sqlx implementation of RoomRepository.
type RoomRepo struct {
	db *sqlx.DB
}

// NewRoomRepo constructs a RoomRepo.
func NewRoomRepo(db *sqlx.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// ListRooms returns every room with its bound location and the location owner.
func (r *RoomRepo) ListRooms(ctx context.Context) ([]models.RoomListing, error) {
	query := `SELECT cr.id, cr.location_id, cr.name, cr.description, cr.created_at,
            l.id, l.name, l.x, l.y, l.owner_id, u.id, u.username
        FROM chat_rooms cr
        JOIN locations l ON l.id = cr.location_id
        JOIN users u ON u.id = l.owner_id
        ORDER BY cr.id ASC`
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.RoomListing
	for rows.Next() {
		var listing models.RoomListing
		if err := rows.Scan(
			&listing.ID, &listing.LocationID, &listing.Name, &listing.Description, &listing.CreatedAt,
			&listing.Location.ID, &listing.Location.Name, &listing.Location.X, &listing.Location.Y, &listing.Location.OwnerID,
			&listing.Owner.ID, &listing.Owner.Username,
		); err != nil {
			return nil, err
		}
		result = append(result, listing)
	}
	return result, rows.Err()
}

// GetRoom fetches a single room.
func (r *RoomRepo) GetRoom(ctx context.Context, roomID int) (models.ChatRoom, error) {
	var room models.ChatRoom
	err := r.db.GetContext(ctx, &room, `SELECT id, location_id, name, description, created_at FROM chat_rooms WHERE id=$1`, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ChatRoom{}, ErrRoomNotFound
	}
	return room, err
}

// History returns the oldest-first tail of a room's log, clamped to HistoryLimit.
func (r *RoomRepo) History(ctx context.Context, roomID, limit int) ([]models.ChatMessageWithAuthor, error) {
	if limit <= 0 || limit > HistoryLimit {
		limit = HistoryLimit
	}

	query := `SELECT cm.id, cm.chat_room_id, cm.user_id, cm.content, cm.created_at, u.username
        FROM chat_messages cm
        LEFT JOIN users u ON u.id = cm.user_id
        WHERE cm.chat_room_id=$1
        ORDER BY cm.created_at ASC
        LIMIT $2`
	rows, err := r.db.QueryxContext(ctx, query, roomID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.ChatMessageWithAuthor
	for rows.Next() {
		var msg models.ChatMessageWithAuthor
		var username sql.NullString
		if err := rows.Scan(&msg.ID, &msg.ChatRoomID, &msg.UserID, &msg.Content, &msg.CreatedAt, &username); err != nil {
			return nil, err
		}
		if msg.UserID != nil && username.Valid {
			msg.Author = &models.UserSummary{ID: *msg.UserID, Username: username.String}
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}

// CreateChatMessage appends to the room log and returns the persisted record
// with the author summary denormalized in.
func (r *RoomRepo) CreateChatMessage(ctx context.Context, roomID, userID int, content string) (models.ChatMessageWithAuthor, error) {
	var msg models.ChatMessageWithAuthor
	err := r.db.QueryRowxContext(ctx, `INSERT INTO chat_messages (chat_room_id, user_id, content) VALUES ($1, $2, $3) RETURNING id, chat_room_id, user_id, content, created_at`, roomID, userID, content).
		Scan(&msg.ID, &msg.ChatRoomID, &msg.UserID, &msg.Content, &msg.CreatedAt)
	if err != nil {
		return models.ChatMessageWithAuthor{}, err
	}

	var author models.UserSummary
	if err := r.db.GetContext(ctx, &author, `SELECT id, username FROM users WHERE id=$1`, userID); err == nil {
		msg.Author = &author
	}
	return msg, nil
}
