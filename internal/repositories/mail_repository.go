package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"messenger-service/internal/models"
)

var ErrMailNotFound = errors.New("mail not found")

// MailRepository defines persistence for point-to-point messages.
type MailRepository interface {
	Create(ctx context.Context, senderID, recipientID int, subject, body string) (models.Mail, error)
	Inbox(ctx context.Context, userID int) ([]models.MailWithCounterparty, error)
	Outbox(ctx context.Context, userID int) ([]models.MailWithCounterparty, error)
	GetMail(ctx context.Context, mailID int) (models.Mail, error)
	MarkRead(ctx context.Context, mailID int) (models.Mail, error)
}

// MailRepo is a sqlx-backed repository.
type MailRepo struct {
	db *sqlx.DB
}

// NewMailRepo constructs MailRepo.
func NewMailRepo(db *sqlx.DB) *MailRepo {
	return &MailRepo{db: db}
}

const mailColumns = `id, sender_id, recipient_id, subject, body, status, sent_at, read_at`

// Create stores a new mail with status sent.
func (r *MailRepo) Create(ctx context.Context, senderID, recipientID int, subject, body string) (models.Mail, error) {
	var mail models.Mail
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (sender_id, recipient_id, subject, body, status) VALUES ($1, $2, $3, $4, 'sent') RETURNING `+mailColumns, senderID, recipientID, subject, body).
		StructScan(&mail)
	return mail, err
}

// Inbox returns mail received by the user, newest first, with the sender summary.
func (r *MailRepo) Inbox(ctx context.Context, userID int) ([]models.MailWithCounterparty, error) {
	query := `SELECT m.id, m.sender_id, m.recipient_id, m.subject, m.body, m.status, m.sent_at, m.read_at, u.id, u.username
        FROM messages m JOIN users u ON u.id = m.sender_id
        WHERE m.recipient_id=$1 ORDER BY m.sent_at DESC`
	return r.listWithCounterparty(ctx, query, userID)
}

// Outbox returns mail sent by the user, newest first, with the recipient summary.
func (r *MailRepo) Outbox(ctx context.Context, userID int) ([]models.MailWithCounterparty, error) {
	query := `SELECT m.id, m.sender_id, m.recipient_id, m.subject, m.body, m.status, m.sent_at, m.read_at, u.id, u.username
        FROM messages m JOIN users u ON u.id = m.recipient_id
        WHERE m.sender_id=$1 ORDER BY m.sent_at DESC`
	return r.listWithCounterparty(ctx, query, userID)
}

func (r *MailRepo) listWithCounterparty(ctx context.Context, query string, userID int) ([]models.MailWithCounterparty, error) {
	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.MailWithCounterparty
	for rows.Next() {
		var m models.MailWithCounterparty
		if err := rows.Scan(
			&m.ID, &m.SenderID, &m.RecipientID, &m.Subject, &m.Body, &m.Status, &m.SentAt, &m.ReadAt,
			&m.Counterparty.ID, &m.Counterparty.Username,
		); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// GetMail fetches a single mail by id.
func (r *MailRepo) GetMail(ctx context.Context, mailID int) (models.Mail, error) {
	var mail models.Mail
	err := r.db.GetContext(ctx, &mail, `SELECT `+mailColumns+` FROM messages WHERE id=$1`, mailID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Mail{}, ErrMailNotFound
	}
	return mail, err
}

// MarkRead moves a mail to read in one guarded write. The status check in
// the WHERE clause makes concurrent calls converge on a single read_at.
func (r *MailRepo) MarkRead(ctx context.Context, mailID int) (models.Mail, error) {
	if _, err := r.db.ExecContext(ctx, `UPDATE messages SET status='read', read_at=NOW() WHERE id=$1 AND status <> 'read'`, mailID); err != nil {
		return models.Mail{}, err
	}
	return r.GetMail(ctx, mailID)
}
