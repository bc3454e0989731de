package services_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/VanillaFroggy/atom-messenger-api/app/tests"
	"github.com/VanillaFroggy/atom-messenger-api/internal/models"
	"github.com/VanillaFroggy/atom-messenger-api/internal/services"
)

func TestMessageService_Send(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	chat := models.Chat{ID: uuid.New(), Name: "chat"}
	author := uuid.New()

	ts := []struct {
		name          string
		setupMocks    func(chatRepo *tests.MockChatRepository, messageRepo *tests.MockMessageRepository)
		authorID      *uuid.UUID
		value         string
		expectedError error
	}{
		{
			name:     "Member sends a message",
			authorID: &author,
			value:    "hello",
			setupMocks: func(chatRepo *tests.MockChatRepository, messageRepo *tests.MockMessageRepository) {
				chatRepo.On("GetChatByID", ctx, chat.ID).Return(&chat, nil)
				chatRepo.On("IsMember", ctx, chat.ID, author).Return(true, nil)
				messageRepo.On("CreateMessage", ctx, chat.ID, &author, models.MessageTypeText, "hello").
					Return(&models.Message{ID: uuid.New(), ChatID: chat.ID, AuthorID: &author, Type: models.MessageTypeText, Value: "hello", CreatedAt: time.Now()}, nil)
			},
		},
		{
			name:     "Non-member is rejected",
			authorID: &author,
			value:    "hello",
			setupMocks: func(chatRepo *tests.MockChatRepository, messageRepo *tests.MockMessageRepository) {
				chatRepo.On("GetChatByID", ctx, chat.ID).Return(&chat, nil)
				chatRepo.On("IsMember", ctx, chat.ID, author).Return(false, nil)
			},
			expectedError: services.ErrNotChatMember,
		},
		{
			name:     "System message skips the membership check",
			authorID: nil,
			value:    "Chat is created",
			setupMocks: func(chatRepo *tests.MockChatRepository, messageRepo *tests.MockMessageRepository) {
				chatRepo.On("GetChatByID", ctx, chat.ID).Return(&chat, nil)
				messageRepo.On("CreateMessage", ctx, chat.ID, (*uuid.UUID)(nil), models.MessageTypeText, "Chat is created").
					Return(&models.Message{ID: uuid.New(), ChatID: chat.ID, Type: models.MessageTypeText, Value: "Chat is created"}, nil)
			},
		},
		{
			name:     "Unknown chat",
			authorID: &author,
			value:    "hello",
			setupMocks: func(chatRepo *tests.MockChatRepository, messageRepo *tests.MockMessageRepository) {
				chatRepo.On("GetChatByID", ctx, chat.ID).Return((*models.Chat)(nil), nil)
			},
			expectedError: services.ErrChatNotFound,
		},
		{
			name:          "Empty body",
			authorID:      &author,
			value:         "",
			setupMocks:    func(*tests.MockChatRepository, *tests.MockMessageRepository) {},
			expectedError: services.ErrInvalidInput,
		},
	}

	for _, tt := range ts {
		t.Run(tt.name, func(t *testing.T) {
			chatRepo := &tests.MockChatRepository{}
			messageRepo := &tests.MockMessageRepository{}
			tt.setupMocks(chatRepo, messageRepo)

			service := services.NewMessageService(messageRepo, chatRepo, logger)
			message, err := service.Send(ctx, chat.ID, tt.authorID, models.MessageTypeText, tt.value)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, message)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.value, message.Value)
				assert.False(t, message.Read)
			}

			chatRepo.AssertExpectations(t)
			messageRepo.AssertExpectations(t)
		})
	}
}

func TestMessageService_Edit_UnknownMessage(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()
	caller := uuid.New()
	messageID := uuid.New()

	chatRepo := &tests.MockChatRepository{}
	messageRepo := &tests.MockMessageRepository{}
	messageRepo.On("GetMessageByID", ctx, messageID).Return((*models.Message)(nil), nil)

	service := services.NewMessageService(messageRepo, chatRepo, logger)
	message, err := service.Edit(ctx, caller, messageID, models.MessageTypeText, "edited")

	assert.Nil(t, message)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestMessageService_Edit(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()
	caller := uuid.New()
	chatID := uuid.New()

	existing := &models.Message{ID: uuid.New(), ChatID: chatID, AuthorID: &caller, Type: models.MessageTypeText, Value: "before"}

	chatRepo := &tests.MockChatRepository{}
	messageRepo := &tests.MockMessageRepository{}
	messageRepo.On("GetMessageByID", ctx, existing.ID).Return(existing, nil)
	chatRepo.On("IsMember", ctx, chatID, caller).Return(true, nil)
	edited := &models.Message{ID: existing.ID, ChatID: chatID, AuthorID: &caller, Type: models.MessageTypeText, Value: "after"}
	messageRepo.On("UpdateMessage", ctx, existing.ID, models.MessageTypeText, "after").Return(edited, nil)

	service := services.NewMessageService(messageRepo, chatRepo, logger)
	message, err := service.Edit(ctx, caller, existing.ID, models.MessageTypeText, "after")

	assert.NoError(t, err)
	assert.Equal(t, "after", message.Value)
	messageRepo.AssertExpectations(t)
}

func TestMessageService_MarkRead(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()
	caller := uuid.New()
	chatID := uuid.New()

	existing := &models.Message{ID: uuid.New(), ChatID: chatID, Type: models.MessageTypeText, Value: "hi"}
	read := &models.Message{ID: existing.ID, ChatID: chatID, Type: models.MessageTypeText, Value: "hi", Read: true}

	chatRepo := &tests.MockChatRepository{}
	messageRepo := &tests.MockMessageRepository{}
	messageRepo.On("GetMessageByID", ctx, existing.ID).Return(existing, nil)
	chatRepo.On("IsMember", ctx, chatID, caller).Return(true, nil)
	messageRepo.On("MarkMessageRead", ctx, existing.ID).Return(read, nil)

	service := services.NewMessageService(messageRepo, chatRepo, logger)
	message, err := service.MarkRead(ctx, caller, existing.ID)

	assert.NoError(t, err)
	assert.True(t, message.Read)
}

func TestMessageService_Delete(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()
	caller := uuid.New()
	chatID := uuid.New()

	existing := &models.Message{ID: uuid.New(), ChatID: chatID, AuthorID: &caller, Type: models.MessageTypeText, Value: "gone"}

	chatRepo := &tests.MockChatRepository{}
	messageRepo := &tests.MockMessageRepository{}
	messageRepo.On("GetMessageByID", ctx, existing.ID).Return(existing, nil).Once()
	chatRepo.On("IsMember", ctx, chatID, caller).Return(true, nil)
	messageRepo.On("DeleteMessage", ctx, existing.ID).Return(&chatID, nil)

	service := services.NewMessageService(messageRepo, chatRepo, logger)
	owningChat, err := service.Delete(ctx, caller, existing.ID)

	assert.NoError(t, err)
	assert.Equal(t, chatID, owningChat)

	// A deleted message is gone for good.
	messageRepo.On("GetMessageByID", ctx, existing.ID).Return((*models.Message)(nil), nil).Once()
	_, err = service.GetMessageByID(ctx, existing.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
