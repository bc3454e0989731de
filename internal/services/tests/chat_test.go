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

func TestChatService_ListChats_OrderedByRecency(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	userA := models.User{ID: uuid.New(), Username: "alice", Role: models.RoleUser}
	userB := models.User{ID: uuid.New(), Username: "bob", Role: models.RoleUser}

	chatOld := models.Chat{ID: uuid.New(), Name: "old"}
	chatFresh := models.Chat{ID: uuid.New(), Name: "fresh"}
	chatIDs := []uuid.UUID{chatOld.ID, chatFresh.ID}

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	oldLatest := models.Message{ID: uuid.New(), ChatID: chatOld.ID, Type: models.MessageTypeText, Value: "earlier", CreatedAt: base}
	freshLatest := models.Message{ID: uuid.New(), ChatID: chatFresh.ID, Type: models.MessageTypeText, Value: "later", CreatedAt: base.Add(time.Hour)}

	memberships := []models.Membership{
		{ChatID: chatOld.ID, UserID: userA.ID},
		{ChatID: chatOld.ID, UserID: userB.ID},
		{ChatID: chatFresh.ID, UserID: userA.ID},
		{ChatID: chatFresh.ID, UserID: userB.ID},
	}

	chatRepo := &tests.MockChatRepository{}
	userRepo := &tests.MockUserRepository{}
	messageRepo := &tests.MockMessageRepository{}

	chatRepo.On("GetChatIDsByUserID", ctx, userA.ID).Return(chatIDs, nil)
	messageRepo.On("GetLatestMessages", ctx, chatIDs).Return(map[uuid.UUID]models.Message{
		chatOld.ID:   oldLatest,
		chatFresh.ID: freshLatest,
	}, nil)
	chatRepo.On("GetMembershipsByChatIDs", ctx, chatIDs).Return(memberships, nil)
	userRepo.On("GetUsersByIDs", ctx, []uuid.UUID{userA.ID, userB.ID}).Return([]models.User{userA, userB}, nil)
	chatRepo.On("GetChatsByIDs", ctx, chatIDs).Return([]models.Chat{chatOld, chatFresh}, nil)

	service := services.NewChatService(chatRepo, messageRepo, userRepo, logger)
	summaries, err := service.ListChats(ctx, &userA.ID)

	assert.NoError(t, err)
	assert.Len(t, summaries, 2)
	assert.Equal(t, chatFresh.ID, summaries[0].ID)
	assert.Equal(t, freshLatest, summaries[0].LastMessage)
	assert.Equal(t, chatOld.ID, summaries[1].ID)
	assert.ElementsMatch(t, []models.User{userA, userB}, summaries[0].Users)

	chatRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
	messageRepo.AssertExpectations(t)
}

func TestChatService_ListChats_TiebreakByMessageID(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	user := models.User{ID: uuid.New(), Username: "alice", Role: models.RoleUser}
	chatX := models.Chat{ID: uuid.New(), Name: "x"}
	chatY := models.Chat{ID: uuid.New(), Name: "y"}
	chatIDs := []uuid.UUID{chatX.ID, chatY.ID}

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	lowID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	highID := uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")
	messageX := models.Message{ID: highID, ChatID: chatX.ID, Type: models.MessageTypeText, CreatedAt: at}
	messageY := models.Message{ID: lowID, ChatID: chatY.ID, Type: models.MessageTypeText, CreatedAt: at}

	chatRepo := &tests.MockChatRepository{}
	userRepo := &tests.MockUserRepository{}
	messageRepo := &tests.MockMessageRepository{}

	chatRepo.On("GetChatIDsByUserID", ctx, user.ID).Return(chatIDs, nil)
	messageRepo.On("GetLatestMessages", ctx, chatIDs).Return(map[uuid.UUID]models.Message{
		chatX.ID: messageX,
		chatY.ID: messageY,
	}, nil)
	chatRepo.On("GetMembershipsByChatIDs", ctx, chatIDs).Return([]models.Membership{
		{ChatID: chatX.ID, UserID: user.ID},
		{ChatID: chatY.ID, UserID: user.ID},
	}, nil)
	userRepo.On("GetUsersByIDs", ctx, []uuid.UUID{user.ID}).Return([]models.User{user}, nil)
	chatRepo.On("GetChatsByIDs", ctx, chatIDs).Return([]models.Chat{chatX, chatY}, nil)

	service := services.NewChatService(chatRepo, messageRepo, userRepo, logger)
	summaries, err := service.ListChats(ctx, &user.ID)

	assert.NoError(t, err)
	assert.Len(t, summaries, 2)
	// Equal timestamps: message id ascending wins.
	assert.Equal(t, chatY.ID, summaries[0].ID)
	assert.Equal(t, chatX.ID, summaries[1].ID)
}

func TestChatService_ListChats_ChatWithoutMessagesFailsFast(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	user := models.User{ID: uuid.New(), Username: "alice", Role: models.RoleUser}
	chat := models.Chat{ID: uuid.New(), Name: "corrupt"}
	chatIDs := []uuid.UUID{chat.ID}

	chatRepo := &tests.MockChatRepository{}
	userRepo := &tests.MockUserRepository{}
	messageRepo := &tests.MockMessageRepository{}

	chatRepo.On("GetChatIDsByUserID", ctx, user.ID).Return(chatIDs, nil)
	messageRepo.On("GetLatestMessages", ctx, chatIDs).Return(map[uuid.UUID]models.Message{}, nil)
	chatRepo.On("GetMembershipsByChatIDs", ctx, chatIDs).Return([]models.Membership{
		{ChatID: chat.ID, UserID: user.ID},
	}, nil)
	userRepo.On("GetUsersByIDs", ctx, []uuid.UUID{user.ID}).Return([]models.User{user}, nil)
	chatRepo.On("GetChatsByIDs", ctx, chatIDs).Return([]models.Chat{chat}, nil)

	service := services.NewChatService(chatRepo, messageRepo, userRepo, logger)
	summaries, err := service.ListChats(ctx, &user.ID)

	assert.Nil(t, summaries)
	assert.ErrorIs(t, err, services.ErrChatIntegrity)
}

func TestChatService_ListChats_UnknownUserReturnsEmpty(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()
	unknown := uuid.New()

	chatRepo := &tests.MockChatRepository{}
	userRepo := &tests.MockUserRepository{}
	messageRepo := &tests.MockMessageRepository{}

	chatRepo.On("GetChatIDsByUserID", ctx, unknown).Return([]uuid.UUID(nil), nil)

	service := services.NewChatService(chatRepo, messageRepo, userRepo, logger)
	summaries, err := service.ListChats(ctx, &unknown)

	assert.NoError(t, err)
	assert.Empty(t, summaries)
	chatRepo.AssertExpectations(t)
}

func TestChatService_CreateChat(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	userA := models.User{ID: uuid.New(), Username: "alice", Role: models.RoleUser}
	userB := models.User{ID: uuid.New(), Username: "bob", Role: models.RoleUser}
	memberIDs := []uuid.UUID{userA.ID, userB.ID}

	ts := []struct {
		name          string
		chatName      string
		memberIDs     []uuid.UUID
		setupMocks    func(chatRepo *tests.MockChatRepository, userRepo *tests.MockUserRepository, messageRepo *tests.MockMessageRepository)
		expectedError error
		check         func(t *testing.T, summary *models.ChatSummary)
	}{
		{
			name:      "Successful creation writes the system notice",
			chatName:  "Test Chat",
			memberIDs: memberIDs,
			setupMocks: func(chatRepo *tests.MockChatRepository, userRepo *tests.MockUserRepository, messageRepo *tests.MockMessageRepository) {
				chat := &models.Chat{ID: uuid.New(), Name: "Test Chat"}
				userRepo.On("GetUsersByIDs", ctx, memberIDs).Return([]models.User{userA, userB}, nil)
				chatRepo.On("CreateChat", ctx, "Test Chat", memberIDs).Return(chat, nil)
				messageRepo.On("CreateMessage", ctx, chat.ID, (*uuid.UUID)(nil), models.MessageTypeText, "Chat is created").
					Return(&models.Message{ID: uuid.New(), ChatID: chat.ID, Type: models.MessageTypeText, Value: "Chat is created"}, nil)
			},
			check: func(t *testing.T, summary *models.ChatSummary) {
				assert.Equal(t, "Test Chat", summary.Name)
				assert.Equal(t, "Chat is created", summary.LastMessage.Value)
				assert.Nil(t, summary.LastMessage.AuthorID)
				assert.Len(t, summary.Users, 2)
			},
		},
		{
			name:          "Empty chat name",
			chatName:      "",
			memberIDs:     memberIDs,
			setupMocks:    func(*tests.MockChatRepository, *tests.MockUserRepository, *tests.MockMessageRepository) {},
			expectedError: services.ErrInvalidInput,
		},
		{
			name:          "Not exactly two members",
			chatName:      "Test Chat",
			memberIDs:     []uuid.UUID{userA.ID},
			setupMocks:    func(*tests.MockChatRepository, *tests.MockUserRepository, *tests.MockMessageRepository) {},
			expectedError: services.ErrInvalidInput,
		},
		{
			name:          "Same member twice",
			chatName:      "Test Chat",
			memberIDs:     []uuid.UUID{userA.ID, userA.ID},
			setupMocks:    func(*tests.MockChatRepository, *tests.MockUserRepository, *tests.MockMessageRepository) {},
			expectedError: services.ErrInvalidInput,
		},
		{
			name:      "Member does not exist",
			chatName:  "Test Chat",
			memberIDs: memberIDs,
			setupMocks: func(chatRepo *tests.MockChatRepository, userRepo *tests.MockUserRepository, messageRepo *tests.MockMessageRepository) {
				userRepo.On("GetUsersByIDs", ctx, memberIDs).Return([]models.User{userA}, nil)
			},
			expectedError: services.ErrUserNotFound,
		},
	}

	for _, tt := range ts {
		t.Run(tt.name, func(t *testing.T) {
			chatRepo := &tests.MockChatRepository{}
			userRepo := &tests.MockUserRepository{}
			messageRepo := &tests.MockMessageRepository{}

			tt.setupMocks(chatRepo, userRepo, messageRepo)

			service := services.NewChatService(chatRepo, messageRepo, userRepo, logger)
			summary, err := service.CreateChat(ctx, tt.chatName, tt.memberIDs)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, summary)
			} else {
				assert.NoError(t, err)
				tt.check(t, summary)
			}

			chatRepo.AssertExpectations(t)
			userRepo.AssertExpectations(t)
			messageRepo.AssertExpectations(t)
		})
	}
}
