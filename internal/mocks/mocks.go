package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"messenger-service/internal/models"
)

type MailRepositoryMock struct {
	mock.Mock
}

func (m *MailRepositoryMock) Create(ctx context.Context, senderID, recipientID int, subject, body string) (models.Mail, error) {
	args := m.Called(ctx, senderID, recipientID, subject, body)
	var mail models.Mail
	if val := args.Get(0); val != nil {
		mail = val.(models.Mail)
	}
	return mail, args.Error(1)
}

func (m *MailRepositoryMock) Inbox(ctx context.Context, userID int) ([]models.MailWithCounterparty, error) {
	args := m.Called(ctx, userID)
	var list []models.MailWithCounterparty
	if val := args.Get(0); val != nil {
		list = val.([]models.MailWithCounterparty)
	}
	return list, args.Error(1)
}

func (m *MailRepositoryMock) Outbox(ctx context.Context, userID int) ([]models.MailWithCounterparty, error) {
	args := m.Called(ctx, userID)
	var list []models.MailWithCounterparty
	if val := args.Get(0); val != nil {
		list = val.([]models.MailWithCounterparty)
	}
	return list, args.Error(1)
}

func (m *MailRepositoryMock) GetMail(ctx context.Context, mailID int) (models.Mail, error) {
	args := m.Called(ctx, mailID)
	var mail models.Mail
	if val := args.Get(0); val != nil {
		mail = val.(models.Mail)
	}
	return mail, args.Error(1)
}

func (m *MailRepositoryMock) MarkRead(ctx context.Context, mailID int) (models.Mail, error) {
	args := m.Called(ctx, mailID)
	var mail models.Mail
	if val := args.Get(0); val != nil {
		mail = val.(models.Mail)
	}
	return mail, args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) GetActiveUser(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

type RoomRepositoryMock struct {
	mock.Mock
}

func (m *RoomRepositoryMock) ListRooms(ctx context.Context) ([]models.RoomListing, error) {
	args := m.Called(ctx)
	var rooms []models.RoomListing
	if val := args.Get(0); val != nil {
		rooms = val.([]models.RoomListing)
	}
	return rooms, args.Error(1)
}

func (m *RoomRepositoryMock) GetRoom(ctx context.Context, roomID int) (models.ChatRoom, error) {
	args := m.Called(ctx, roomID)
	var room models.ChatRoom
	if val := args.Get(0); val != nil {
		room = val.(models.ChatRoom)
	}
	return room, args.Error(1)
}

func (m *RoomRepositoryMock) History(ctx context.Context, roomID, limit int) ([]models.ChatMessageWithAuthor, error) {
	args := m.Called(ctx, roomID, limit)
	var history []models.ChatMessageWithAuthor
	if val := args.Get(0); val != nil {
		history = val.([]models.ChatMessageWithAuthor)
	}
	return history, args.Error(1)
}

func (m *RoomRepositoryMock) CreateChatMessage(ctx context.Context, roomID, userID int, content string) (models.ChatMessageWithAuthor, error) {
	args := m.Called(ctx, roomID, userID, content)
	var msg models.ChatMessageWithAuthor
	if val := args.Get(0); val != nil {
		msg = val.(models.ChatMessageWithAuthor)
	}
	return msg, args.Error(1)
}
