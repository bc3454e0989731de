package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/VanillaFroggy/atom-messenger-api/internal/models"
	"github.com/VanillaFroggy/atom-messenger-api/internal/ports"
)

// MessageService is the message lifecycle manager. Every mutating operation
// verifies the caller's chat membership and returns the canonical message
// representation, which the API layer broadcasts verbatim to the owning room.
type MessageService struct {
	messageRepo ports.IMessageRepository
	chatRepo    ports.IChatRepository
	logger      *slog.Logger
}

func NewMessageService(messageRepo ports.IMessageRepository, chatRepo ports.IChatRepository, logger *slog.Logger) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		chatRepo:    chatRepo,
		logger:      logger,
	}
}

// Send persists a new message with a server-assigned id and timestamp. A nil
// authorID is a system message and skips the membership check.
func (s *MessageService) Send(ctx context.Context, chatID uuid.UUID, authorID *uuid.UUID, messageType models.MessageType, value string) (*models.Message, error) {
	if value == "" || !messageType.Valid() {
		return nil, ErrInvalidInput
	}

	chat, err := s.chatRepo.GetChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}

	if authorID != nil {
		if err := s.requireMembership(ctx, chatID, *authorID); err != nil {
			return nil, err
		}
	}

	message, err := s.messageRepo.CreateMessage(ctx, chatID, authorID, messageType, value)
	if err != nil {
		s.logger.Error("failed to send message", "chatID", chatID, "error", err)
		return nil, err
	}

	s.logger.Info("message sent", "chatID", chatID, "messageID", message.ID)
	return message, nil
}

func (s *MessageService) Edit(ctx context.Context, callerID, messageID uuid.UUID, messageType models.MessageType, value string) (*models.Message, error) {
	if value == "" || !messageType.Valid() {
		return nil, ErrInvalidInput
	}

	message, err := s.getMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, message.ChatID, callerID); err != nil {
		return nil, err
	}

	updated, err := s.messageRepo.UpdateMessage(ctx, messageID, messageType, value)
	if err != nil {
		s.logger.Error("failed to edit message", "messageID", messageID, "error", err)
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	s.logger.Info("message edited", "messageID", messageID)
	return updated, nil
}

// MarkRead flips the read flag. Re-reading an already read message is a no-op
// that still returns the canonical representation.
func (s *MessageService) MarkRead(ctx context.Context, callerID, messageID uuid.UUID) (*models.Message, error) {
	message, err := s.getMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, message.ChatID, callerID); err != nil {
		return nil, err
	}

	updated, err := s.messageRepo.MarkMessageRead(ctx, messageID)
	if err != nil {
		s.logger.Error("failed to mark message read", "messageID", messageID, "error", err)
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	return updated, nil
}

// Delete removes the message and returns the owning chat id so the caller can
// target the room broadcast.
func (s *MessageService) Delete(ctx context.Context, callerID, messageID uuid.UUID) (uuid.UUID, error) {
	message, err := s.getMessage(ctx, messageID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.requireMembership(ctx, message.ChatID, callerID); err != nil {
		return uuid.Nil, err
	}

	chatID, err := s.messageRepo.DeleteMessage(ctx, messageID)
	if err != nil {
		s.logger.Error("failed to delete message", "messageID", messageID, "error", err)
		return uuid.Nil, err
	}
	if chatID == nil {
		return uuid.Nil, ErrNotFound
	}

	s.logger.Info("message deleted", "messageID", messageID, "chatID", *chatID)
	return *chatID, nil
}

func (s *MessageService) GetMessageByID(ctx context.Context, messageID uuid.UUID) (*models.Message, error) {
	return s.getMessage(ctx, messageID)
}

func (s *MessageService) getMessage(ctx context.Context, messageID uuid.UUID) (*models.Message, error) {
	message, err := s.messageRepo.GetMessageByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, ErrNotFound
	}
	return message, nil
}

func (s *MessageService) requireMembership(ctx context.Context, chatID, userID uuid.UUID) error {
	member, err := s.chatRepo.IsMember(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if !member {
		s.logger.Warn("caller is not a chat member", "chatID", chatID, "userID", userID)
		return ErrNotChatMember
	}
	return nil
}
