package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/VanillaFroggy/atom-messenger-api/internal/models"
	"github.com/VanillaFroggy/atom-messenger-api/internal/ports"
)

const chatCreatedNotice = "Chat is created"

// ChatService owns chat creation/deletion and the listing aggregation: for a
// set of candidate chats it resolves members and the latest message in batch
// queries and joins them into ChatSummary projections. Nothing is cached
// between requests; every call re-resolves from the store.
type ChatService struct {
	chatRepo    ports.IChatRepository
	messageRepo ports.IMessageRepository
	userRepo    ports.IUserRepository
	logger      *slog.Logger
}

func NewChatService(chatRepo ports.IChatRepository, messageRepo ports.IMessageRepository, userRepo ports.IUserRepository, logger *slog.Logger) *ChatService {
	return &ChatService{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// CreateChat creates a two-party chat and writes the authorless system notice
// as its first message, so a freshly created chat is already listable.
func (s *ChatService) CreateChat(ctx context.Context, chatName string, memberIDs []uuid.UUID) (*models.ChatSummary, error) {
	if chatName == "" {
		return nil, ErrInvalidInput
	}
	if len(memberIDs) != 2 {
		return nil, ErrInvalidInput
	}
	if len(lo.Uniq(memberIDs)) != len(memberIDs) {
		s.logger.Warn("duplicate chat member ids", "memberIDs", memberIDs)
		return nil, ErrInvalidInput
	}

	members, err := s.userRepo.GetUsersByIDs(ctx, memberIDs)
	if err != nil {
		s.logger.Error("failed to resolve chat members", "error", err)
		return nil, err
	}
	if len(members) != len(memberIDs) {
		s.logger.Warn("chat member does not exist", "memberIDs", memberIDs)
		return nil, ErrUserNotFound
	}

	chat, err := s.chatRepo.CreateChat(ctx, chatName, memberIDs)
	if err != nil {
		s.logger.Error("failed to create chat", "error", err)
		return nil, err
	}

	notice, err := s.messageRepo.CreateMessage(ctx, chat.ID, nil, models.MessageTypeText, chatCreatedNotice)
	if err != nil {
		s.logger.Error("failed to create chat notice", "chatID", chat.ID, "error", err)
		return nil, err
	}

	s.logger.Info("chat created", "chatID", chat.ID, "chatName", chatName)
	return &models.ChatSummary{
		ID:          chat.ID,
		Name:        chat.Name,
		Users:       members,
		LastMessage: *notice,
	}, nil
}

// ListChats builds the recency-ordered chat list. A nil userID is the admin
// view over every chat; otherwise only chats the user is a member of are
// considered. An unknown user simply has no memberships and gets an empty
// result.
func (s *ChatService) ListChats(ctx context.Context, userID *uuid.UUID) ([]models.ChatSummary, error) {
	var chatIDs []uuid.UUID
	var err error
	if userID != nil {
		chatIDs, err = s.chatRepo.GetChatIDsByUserID(ctx, *userID)
	} else {
		chatIDs, err = s.chatRepo.GetAllChatIDs(ctx)
	}
	if err != nil {
		s.logger.Error("failed to resolve candidate chats", "error", err)
		return nil, err
	}
	if len(chatIDs) == 0 {
		return []models.ChatSummary{}, nil
	}

	latest, err := s.messageRepo.GetLatestMessages(ctx, chatIDs)
	if err != nil {
		s.logger.Error("failed to resolve latest messages", "error", err)
		return nil, err
	}

	memberships, err := s.chatRepo.GetMembershipsByChatIDs(ctx, chatIDs)
	if err != nil {
		s.logger.Error("failed to resolve memberships", "error", err)
		return nil, err
	}

	memberIDsByChat := make(map[uuid.UUID][]uuid.UUID, len(chatIDs))
	for _, membership := range memberships {
		memberIDsByChat[membership.ChatID] = append(memberIDsByChat[membership.ChatID], membership.UserID)
	}

	memberIDs := lo.Uniq(lo.Map(memberships, func(m models.Membership, _ int) uuid.UUID {
		return m.UserID
	}))
	users, err := s.userRepo.GetUsersByIDs(ctx, memberIDs)
	if err != nil {
		s.logger.Error("failed to resolve chat members", "error", err)
		return nil, err
	}
	usersByID := lo.SliceToMap(users, func(u models.User) (uuid.UUID, models.User) {
		return u.ID, u
	})

	chats, err := s.chatRepo.GetChatsByIDs(ctx, chatIDs)
	if err != nil {
		s.logger.Error("failed to resolve chats", "error", err)
		return nil, err
	}

	summaries := make([]models.ChatSummary, 0, len(chats))
	for _, chat := range chats {
		lastMessage, ok := latest[chat.ID]
		if !ok {
			// Every chat is born with a system message; a chat without one is
			// corrupt and the whole listing fails rather than guessing.
			s.logger.Error("chat has no latest message", "chatID", chat.ID)
			return nil, fmt.Errorf("chat %s: %w", chat.ID, ErrChatIntegrity)
		}

		members := make([]models.User, 0, len(memberIDsByChat[chat.ID]))
		for _, memberID := range memberIDsByChat[chat.ID] {
			if user, ok := usersByID[memberID]; ok {
				members = append(members, user)
			}
		}

		summaries = append(summaries, models.ChatSummary{
			ID:          chat.ID,
			Name:        chat.Name,
			Users:       members,
			LastMessage: lastMessage,
		})
	}

	// Recency descending; equal timestamps fall back to message id ascending
	// so the order is stable across calls.
	sort.Slice(summaries, func(i, j int) bool {
		ti, tj := summaries[i].LastMessage.CreatedAt, summaries[j].LastMessage.CreatedAt
		if ti.Equal(tj) {
			return strings.Compare(summaries[i].LastMessage.ID.String(), summaries[j].LastMessage.ID.String()) < 0
		}
		return ti.After(tj)
	})

	s.logger.Debug("chat list resolved", "chatCount", len(summaries))
	return summaries, nil
}

func (s *ChatService) GetChatByID(ctx context.Context, chatID uuid.UUID) (*models.ChatSummary, error) {
	chat, err := s.chatRepo.GetChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}

	memberships, err := s.chatRepo.GetMembershipsByChatIDs(ctx, []uuid.UUID{chatID})
	if err != nil {
		return nil, err
	}
	memberIDs := lo.Map(memberships, func(m models.Membership, _ int) uuid.UUID {
		return m.UserID
	})

	members, err := s.userRepo.GetUsersByIDs(ctx, memberIDs)
	if err != nil {
		return nil, err
	}

	latest, err := s.messageRepo.GetLatestMessages(ctx, []uuid.UUID{chatID})
	if err != nil {
		return nil, err
	}
	lastMessage, ok := latest[chatID]
	if !ok {
		return nil, fmt.Errorf("chat %s: %w", chatID, ErrChatIntegrity)
	}

	return &models.ChatSummary{
		ID:          chat.ID,
		Name:        chat.Name,
		Users:       members,
		LastMessage: lastMessage,
	}, nil
}

func (s *ChatService) DeleteChat(ctx context.Context, chatID uuid.UUID) error {
	chat, err := s.chatRepo.GetChatByID(ctx, chatID)
	if err != nil {
		return err
	}
	if chat == nil {
		return ErrChatNotFound
	}

	if err := s.chatRepo.DeleteChat(ctx, chatID); err != nil {
		s.logger.Error("failed to delete chat", "chatID", chatID, "error", err)
		return err
	}

	s.logger.Info("chat deleted", "chatID", chatID)
	return nil
}

func (s *ChatService) GetChatMessages(ctx context.Context, chatID uuid.UUID) ([]models.Message, error) {
	chat, err := s.chatRepo.GetChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}

	messages, err := s.messageRepo.GetMessagesByChatID(ctx, chatID)
	if err != nil {
		s.logger.Error("failed to get chat messages", "chatID", chatID, "error", err)
		return nil, err
	}

	s.logger.Debug("retrieved chat messages", "chatID", chatID, "messageCount", len(messages))
	return messages, nil
}
