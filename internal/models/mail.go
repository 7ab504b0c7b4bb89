package models

import "time"

// Mail status values. A message is created as sent and only ever moves
// forward; nothing in the service produces draft or delivered today, but
// stored rows with those values remain representable.
const (
	MailStatusDraft     = "draft"
	MailStatusSent      = "sent"
	MailStatusDelivered = "delivered"
	MailStatusRead      = "read"
)

// Mail is a persisted point-to-point message between two users.
type Mail struct {
	ID          int        `db:"id" json:"id"`
	SenderID    int        `db:"sender_id" json:"senderId"`
	RecipientID int        `db:"recipient_id" json:"recipientId"`
	Subject     string     `db:"subject" json:"subject"`
	Body        string     `db:"body" json:"body"`
	Status      string     `db:"status" json:"status"`
	SentAt      time.Time  `db:"sent_at" json:"sentAt"`
	ReadAt      *time.Time `db:"read_at" json:"readAt"`
}

// MailWithCounterparty annotates a mail row with the other party's summary:
// the sender for inbox listings, the recipient for outbox listings.
type MailWithCounterparty struct {
	Mail
	Counterparty UserSummary `json:"counterparty"`
}
